package config

import "fmt"

type Postgres struct {
	Host     string `mapstructure:"HOST" json:"host" yaml:"host"`
	Port     int    `mapstructure:"PORT" json:"port" yaml:"port"`
	User     string `mapstructure:"USER" json:"user" yaml:"user"`
	Password string `mapstructure:"PASSWORD" json:"password" yaml:"password"`
	Database string `mapstructure:"DATABASE" json:"database" yaml:"database"`
	// 連線池上限，0 則使用 pgxpool 預設值
	MaxConns int32 `mapstructure:"MAX_CONNS" json:"max_conns" yaml:"max_conns"`
	// 額外參數，例如 sslmode=disable
	Options string `mapstructure:"OPTIONS" json:"options" yaml:"options"`
}

// DSN 組出 pgx 可讀的連線字串
func (p Postgres) DSN() string {
	port := p.Port
	if port == 0 {
		port = 5432
	}
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s", p.User, p.Password, p.Host, port, p.Database)
	if p.Options != "" {
		dsn += "?" + p.Options
	}
	return dsn
}

package config

type Configuration struct {
	App       App             `mapstructure:"APP" json:"app" yaml:"app"`
	Redis     Redis           `mapstructure:"REDIS" json:"redis" yaml:"redis"`
	Postgres  Postgres        `mapstructure:"POSTGRES" json:"postgres" yaml:"postgres"`
	Log       Log             `mapstructure:"LOG" json:"log" yaml:"log"`
	Telemetry TelemetryConfig `mapstructure:"TELEMETRY" yaml:"telemetry"`
	Fluentd   Fluentd         `mapstructure:"FLUENTD" yaml:"fluentd"`
	Bridge    Bridge          `mapstructure:"BRIDGE" json:"bridge" yaml:"bridge"`
	Peer      Peer            `mapstructure:"PEER" json:"peer" yaml:"peer"`
	Cron      Cron            `mapstructure:"CRON" json:"cron" yaml:"cron"`
	Discount  Discount        `mapstructure:"DISCOUNT" json:"discount" yaml:"discount"`
}

package config

type Log struct {
	// debug / info / warn / error ...
	Level string `mapstructure:"LEVEL" json:"level" yaml:"level"`
	// 若有設定，另外輸出到 rotating file（每日切割）
	Dir string `mapstructure:"DIR" json:"dir" yaml:"dir"`
	// 保留天數，預設 7
	MaxAgeDays int `mapstructure:"MAX_AGE_DAYS" json:"max_age_days" yaml:"max_age_days"`
}

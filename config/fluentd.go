package config

// Fluentd Host 為空時改用 Noop client，不送任何紀錄
type Fluentd struct {
	Host      string `mapstructure:"HOST" json:"host" yaml:"host"`
	Port      int    `mapstructure:"PORT" json:"port" yaml:"port"`
	TagPrefix string `mapstructure:"TAG_PREFIX" json:"tagPrefix" yaml:"tagPrefix"`
	// 毫秒
	Timeout int64 `mapstructure:"TIMEOUT" json:"timeout" yaml:"timeout"`
	// 非同步送出，避免 fluentd 不在線時卡住 command
	Async bool `mapstructure:"ASYNC" json:"async" yaml:"async"`
}

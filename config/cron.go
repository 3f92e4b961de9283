package config

import "time"

type Cron struct {
	// 全量 refresh 的排程（含秒），空字串代表不啟用，例如 "0 0 4 * * *"
	// 重建期間同時進行的單一用戶同步可能被舊資料覆蓋，請排在離峰時段
	RefreshSpec string `mapstructure:"REFRESH_SPEC" json:"refresh_spec" yaml:"refresh_spec"`
	// 單次全量 refresh 的上限（秒）
	RefreshTimeoutSec int64 `mapstructure:"REFRESH_TIMEOUT_SEC" json:"refresh_timeout_sec" yaml:"refresh_timeout_sec"`
}

func (c Cron) RefreshTimeout() time.Duration {
	if c.RefreshTimeoutSec <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.RefreshTimeoutSec) * time.Second
}

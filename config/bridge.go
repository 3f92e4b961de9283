package config

import "time"

// Bridge 是 server 與 processor 之間 command/response 的設定
type Bridge struct {
	// 發佈 command 的頻道
	Channel string `mapstructure:"CHANNEL" json:"channel" yaml:"channel"`
	// 等待結果的上限（毫秒）
	TimeoutMs int64 `mapstructure:"TIMEOUT_MS" json:"timeout_ms" yaml:"timeout_ms"`
	// 輪詢結果的間隔（毫秒）
	PollIntervalMs int64 `mapstructure:"POLL_INTERVAL_MS" json:"poll_interval_ms" yaml:"poll_interval_ms"`
	// 結果 key 的存活秒數
	ResultTTLSec int64 `mapstructure:"RESULT_TTL_SEC" json:"result_ttl_sec" yaml:"result_ttl_sec"`
	// processor 同時處理的 command 數量
	Workers int `mapstructure:"WORKERS" json:"workers" yaml:"workers"`
}

const (
	defaultChannel      = "profile"
	defaultTimeout      = 30 * time.Second
	defaultPollInterval = 100 * time.Millisecond
	defaultResultTTL    = 30 * time.Second
	defaultWorkers      = 64
)

func (b Bridge) ChannelName() string {
	if b.Channel == "" {
		return defaultChannel
	}
	return b.Channel
}

func (b Bridge) Timeout() time.Duration {
	if b.TimeoutMs <= 0 {
		return defaultTimeout
	}
	return time.Duration(b.TimeoutMs) * time.Millisecond
}

func (b Bridge) PollInterval() time.Duration {
	if b.PollIntervalMs <= 0 {
		return defaultPollInterval
	}
	return time.Duration(b.PollIntervalMs) * time.Millisecond
}

func (b Bridge) ResultTTL() time.Duration {
	if b.ResultTTLSec <= 0 {
		return defaultResultTTL
	}
	return time.Duration(b.ResultTTLSec) * time.Second
}

func (b Bridge) WorkerLimit() int {
	if b.Workers <= 0 {
		return defaultWorkers
	}
	return b.Workers
}

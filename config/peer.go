package config

import "time"

// Peer 其他服務的頻道（同樣走 command/response）
type Peer struct {
	PersonChannel string `mapstructure:"PERSON_CHANNEL" json:"person_channel" yaml:"person_channel"`
	// 單次 getPerson 等待上限（毫秒）；一次綁定最多問兩次，需遠小於 BRIDGE__TIMEOUT_MS
	TimeoutMs int64 `mapstructure:"TIMEOUT_MS" json:"timeout_ms" yaml:"timeout_ms"`
}

const defaultPeerTimeout = 5 * time.Second

func (p Peer) Timeout() time.Duration {
	if p.TimeoutMs <= 0 {
		return defaultPeerTimeout
	}
	return time.Duration(p.TimeoutMs) * time.Millisecond
}

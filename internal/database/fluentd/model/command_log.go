package model

// CommandLog processor 每執行一個 command 記一筆
type CommandLog struct {
	CorrelationID string  `json:"correlation_id"`
	Command       string  `json:"command"`
	Args          string  `json:"args,omitempty"`
	Code          int     `json:"code"`
	Msg           string  `json:"msg,omitempty"`
	Panicked      bool    `json:"panicked,omitempty"`
	LatencyMs     float64 `json:"latency_ms"`
	Version       string  `json:"version,omitempty"`
	LoggedAt      string  `json:"logged_at"`
}

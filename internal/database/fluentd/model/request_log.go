package model

type RequestLog struct {
	RequestID string `json:"request_id"`
	UserID    string `json:"user_id,omitempty"`
	Path      string `json:"path"`
	Method    string `json:"method"`
	Body      string `json:"body,omitempty"`
	ClientIP  string `json:"client_ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	Version   string `json:"version,omitempty"`
	RequestTS string `json:"request_ts"`
	LoggedAt  string `json:"logged_at"`
}

package core

const ContextTraceKey = "telemetry_trace_ctx"

// gateway 驗證後放在 X-User-ID，identity middleware 寫入 gin context
const (
	HeaderUserID        = "X-User-ID"
	ContextUserIDKey    = "userID"
	ContextRequestIDKey = "requestID"
)

// ==== 型別安全 span name ====
type TraceSpanName string

const (
	SpanHttpRequest        TraceSpanName = "http_request"
	SpanLoggerMiddleware   TraceSpanName = "logger_middleware"
	SpanRecoveryMiddleware TraceSpanName = "recovery_middleware"
	SpanResponseMiddleware TraceSpanName = "response_middleware"
	SpanIdentityMiddleware TraceSpanName = "identity_middleware"
	SpanCorsMiddleware     TraceSpanName = "cors_middleware"
	SpanDispatch           TraceSpanName = "bridge_dispatch"
	SpanExecute            TraceSpanName = "bridge_execute"
	SpanSync               TraceSpanName = "projection_sync"
)

// 指標名稱常數
type MetricName string

const (
	MetricHttpRequestsTotal   MetricName = "requests_total"
	MetricHttpRequestDuration MetricName = "request_duration_seconds"
	MetricDispatchTotal       MetricName = "dispatch_total"
	MetricDispatchDuration    MetricName = "dispatch_duration_seconds"
	MetricExecutedTotal       MetricName = "executed_commands_total"
	MetricSyncTotal           MetricName = "projection_sync_total"
)

// label name 常數
type MetricLabelName string

const (
	MetricLabelEndpoint MetricLabelName = "endpoint"
	MetricLabelStatus   MetricLabelName = "status"
	MetricLabelCommand  MetricLabelName = "command"
	MetricLabelOutcome  MetricLabelName = "outcome"
	MetricLabelCode     MetricLabelName = "code"
	MetricLabelScope    MetricLabelName = "scope"
)

type LoggerRequestMeta struct {
	Method     string            `trace:"request.method"`
	Path       string            `trace:"request.path"`
	FullPath   string            `trace:"request.full_path"`
	Query      string            `trace:"request.query"`
	Body       string            `trace:"request.body"`
	UserAgent  string            `trace:"http.user_agent"`
	ContentLen int64             `trace:"http.request_content_length"`
	ClientIP   string            `trace:"net.peer.ip"`
	Params     map[string]string `trace:"http.request.param"`
}

type TracePanicMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	ClientIP   string  `trace:"net.peer.ip"`
	UserAgent  string  `trace:"http.user_agent"`
	DurationMs float64 `trace:"response.latency_ms"`
	Status     int     `trace:"http.status_code"`
	Message    string  `trace:"error.message"`
	Stack      string  `trace:"error.stack"`
}

type TraceResponseMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	Status     int     `trace:"http.status_code"`
	Message    string  `trace:"response.message"`
	Code       int     `trace:"response.code"`
	DurationMs float64 `trace:"response.latency_ms"`
	Data       string  `trace:"response.data_preview"`
}

type TraceHttpServerMeta struct {
	ClientAddr        string `trace:"client.address"`
	HttpRequestMethod string `trace:"http.request.method"`
	HttpRoute         string `trace:"http.route"`
	UrlPath           string `trace:"http.request.path"`
	UserAgent         string `trace:"user_agent.original"`
	ServerAddress     string `trace:"server.address"`
	SpanTraceID       string `trace:"span.trace_id"`
	HttpStatusCode    int    `trace:"http.response.status_code"`
}

type TraceErrorMeta struct {
	Code       int     `trace:"error.code"`
	Message    string  `trace:"error.message"`
	Detail     string  `trace:"error.detail,omitempty"`
	DurationMs float64 `trace:"response.latency_ms"`
	Status     int     `trace:"http.status_code"`
}

type TraceIdentityMeta struct {
	UserID string `trace:"auth.user_id,omitempty"`
	Status string `trace:"auth.status,omitempty"`
}

// 供 Dispatcher 使用
type TraceDispatchMeta struct {
	Channel       string `trace:"bridge.channel"`
	Command       string `trace:"bridge.command"`
	CorrelationID string `trace:"bridge.correlation_id"`
	Polls         int    `trace:"bridge.polls"`
	Code          int    `trace:"bridge.result_code"`
	TimedOut      bool   `trace:"bridge.timed_out"`
}

// 供 Executor 使用
type TraceExecuteMeta struct {
	Command       string `trace:"bridge.command"`
	CorrelationID string `trace:"bridge.correlation_id"`
	ArgCount      int    `trace:"bridge.arg_count"`
	Code          int    `trace:"bridge.result_code"`
	Panicked      bool   `trace:"bridge.panicked"`
}

// 供 Sync Engine 使用
type TraceSyncMeta struct {
	UserID string `trace:"sync.user_id"`
	Full   bool   `trace:"sync.full"`
	Rows   int    `trace:"sync.rows"`
}

// 供 Binding Resolver 使用
type TraceBindingMeta struct {
	UserID   string   `trace:"binding.user_id"`
	Insured  string   `trace:"binding.insured"`
	Holders  []string `trace:"binding.holders"`
	Verified bool     `trace:"binding.verified"`
	Outcome  string   `trace:"binding.outcome"`
}

type TraceUserRepoMeta struct {
	Op       string `trace:"op"`
	UserID   string `trace:"user.id,omitempty"`
	Insured  string `trace:"user.insured,omitempty"`
	Count    int    `trace:"result.count,omitempty"`
	Affected int64  `trace:"pg.rows_affected,omitempty"`
}

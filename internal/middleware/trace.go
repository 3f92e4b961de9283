package middleware

import (
	"time"

	"profile/config"
	"profile/internal/core"
	"profile/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TraceEntry 建立 server span，並記錄每個 endpoint 的請求數與延遲
type TraceEntry struct {
	trace  *telemetry.Trace
	metric *telemetry.Metric
	conf   *config.Configuration
}

func NewTraceEntry(trace *telemetry.Trace, metric *telemetry.Metric, conf *config.Configuration) *TraceEntry {
	return &TraceEntry{trace: trace, metric: metric, conf: conf}
}

func (m *TraceEntry) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := c.FullPath()
		if skipInstrument(endpoint) {
			c.Next()
			return
		}
		start := time.Now()
		if _, exists := c.Get("requestDuration"); !exists {
			c.Set("requestDuration", start)
		}

		carrier := propagation.HeaderCarrier(c.Request.Header)
		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), carrier)
		route := endpoint
		if route == "" {
			route = c.Request.URL.Path
		}
		ctx, span := m.trace.StartSpanForLayer(ctx, core.TraceSpanName(c.Request.Method+" "+route), trace.WithSpanKind(trace.SpanKindServer))
		c.Request = c.Request.WithContext(ctx)
		c.Set(core.ContextTraceKey, ctx)

		meta := core.TraceHttpServerMeta{
			ClientAddr:        c.ClientIP(),
			HttpRequestMethod: c.Request.Method,
			HttpRoute:         route,
			UrlPath:           c.Request.URL.Path,
			UserAgent:         c.Request.UserAgent(),
			ServerAddress:     m.conf.App.Name,
			SpanTraceID:       span.SpanContext().TraceID().String(),
		}

		c.Next()

		statusCode := c.Writer.Status()
		meta.HttpStatusCode = statusCode
		m.trace.ApplyTraceAttributes(span, meta)

		var err error
		if statusCode >= 500 && len(c.Errors) > 0 {
			err = c.Errors.Last().Err
		}
		m.trace.EndSpan(span, err)

		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.metric.ObserveRequest(endpoint, statusCode, time.Since(start))
	}
}

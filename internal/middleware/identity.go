package middleware

import (
	"profile/internal/core"
	cErr "profile/internal/pkg/error"
	"profile/internal/pkg/response"
	"profile/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Identity 驗證由上游 gateway 處理，這裡只信任 X-User-ID
type Identity struct {
	logger *zap.Logger
	trace  *telemetry.Trace
}

func NewIdentity(logger *zap.Logger, trace *telemetry.Trace) *Identity {
	return &Identity{logger: logger, trace: trace}
}

func (m *Identity) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanIdentityMiddleware))

		raw := c.GetHeader(core.HeaderUserID)
		if raw == "" {
			m.trace.ApplyTraceAttributes(span, core.TraceIdentityMeta{Status: "missing_user_id"})
			err := cErr.Unauthorized("missing " + core.HeaderUserID)
			end(err)
			response.AbortWithError(c, err)
			return
		}

		uid, err := uuid.Parse(raw)
		if err != nil {
			m.trace.ApplyTraceAttributes(span, core.TraceIdentityMeta{Status: "invalid_user_id"})
			appErr := cErr.Unauthorized("invalid " + core.HeaderUserID)
			end(appErr)
			response.AbortWithError(c, appErr)
			return
		}

		m.trace.ApplyTraceAttributes(span, core.TraceIdentityMeta{UserID: uid.String(), Status: "success"})
		c.Set(core.ContextUserIDKey, uid.String())
		end(nil)
		c.Next()
	}
}

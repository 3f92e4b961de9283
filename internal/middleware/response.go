package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"profile/config"
	"profile/internal/core"
	"profile/internal/database/fluentd/model"
	"profile/internal/database/fluentd/repository"
	cErr "profile/internal/pkg/error"
	"profile/internal/pkg/response"
	"profile/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const responsePreviewLimit = 2000

type Response struct {
	logger            *zap.Logger
	trace             *telemetry.Trace
	config            *config.Configuration
	fluentdRepository *repository.LogRepository
}

func NewResponse(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
	fluentdRepository *repository.LogRepository,
) *Response {
	return &Response{
		logger:            logger,
		trace:             trace,
		config:            config,
		fluentdRepository: fluentdRepository,
	}
}

// FormatHandler 把 handler 透過 response.Success 設定的 data/message 包成統一格式
func (middleware *Response) FormatHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if skipInstrument(c.FullPath()) {
			c.Next()
			return
		}

		requestTime := time.Now()
		if startTime, exists := c.Get("requestDuration"); exists {
			if t, ok := startTime.(time.Time); ok {
				requestTime = t
			}
		} else {
			c.Set("requestDuration", requestTime)
		}

		c.Next()

		// 若已經有錯誤交由 Recovery 處理，或已經寫出回應，就不要再動了
		if len(c.Errors) > 0 || c.Writer.Written() {
			return
		}

		statusCode := c.Writer.Status()
		// 沒有 handler 處理（404/405）也轉成統一錯誤格式
		if statusCode >= http.StatusBadRequest {
			response.AbortWithError(c, cErr.MapHttpStatusToError(statusCode, http.StatusText(statusCode)))
			return
		}

		ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanResponseMiddleware))
		defer end(nil)

		data, _ := c.Get("data")
		if data == nil {
			data = map[string]any{}
		}
		message := "Request Success"
		if s := c.GetString("message"); s != "" {
			message = s
		}
		requestID := c.GetString(core.ContextRequestIDKey)
		duration := time.Since(requestTime)
		preview := safePreviewJSON(data, responsePreviewLimit)

		middleware.trace.ApplyTraceAttributes(span, core.TraceResponseMeta{
			Path:       c.Request.URL.Path,
			Method:     c.Request.Method,
			Status:     statusCode,
			Message:    message,
			Code:       0,
			DurationMs: float64(duration.Milliseconds()),
			Data:       preview,
		})
		middleware.logger.Info("[Response] "+message,
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Int("status", statusCode),
			zap.Duration("duration", duration),
			zap.String("requestId", requestID),
			zap.String("traceId", span.SpanContext().TraceID().String()),
		)

		if err := middleware.fluentdRepository.LogResponse(ctx, model.ResponseLog{
			RequestID:  requestID,
			Code:       0,
			StatusCode: statusCode,
			Body:       preview,
			LatencyMs:  float64(duration.Milliseconds()),
			Version:    middleware.config.App.Version,
			ResponseTS: time.Now().UTC().Format("2006-01-02 15:04:05.999999 UTC"),
		}); err != nil {
			middleware.logger.Warn("fluentd response log", zap.Error(err))
		}

		jsonBytes, err := json.Marshal(response.Response{
			RequestID:   requestID,
			Code:        0,
			Data:        data,
			Message:     "OK",
			Description: message,
		})
		if err != nil {
			response.AbortWithError(c, cErr.InternalServer("marshal response failed"))
			return
		}

		c.Writer.Header().Set("Content-Type", "application/json")
		c.Writer.WriteHeader(statusCode)
		if _, werr := c.Writer.Write(jsonBytes); werr != nil {
			middleware.logger.Warn("write response", zap.Error(werr))
		}
	}
}

// safePreviewJSON 會把資料序列化為 JSON 字串（UTF-8），並限制長度。
func safePreviewJSON(data any, max int) string {
	var out string
	if s, ok := data.(string); ok {
		out = s
	} else {
		b, err := json.Marshal(data)
		if err != nil {
			return fmt.Sprintf("[marshal error: %v]", err)
		}
		out = string(b)
	}
	if len(out) > max {
		return out[:max] + "…"
	}
	return out
}

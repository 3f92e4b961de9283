package middleware

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"
	"unicode/utf8"

	"profile/config"
	"profile/internal/core"
	"profile/internal/database/fluentd/model"
	"profile/internal/database/fluentd/repository"
	cErr "profile/internal/pkg/error"
	res "profile/internal/pkg/response"
	"profile/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Recovery struct {
	logger            *zap.Logger
	trace             *telemetry.Trace
	config            *config.Configuration
	fluentdRepository *repository.LogRepository
}

func NewRecovery(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
	fluentdRepository *repository.LogRepository,
) *Recovery {
	return &Recovery{
		logger:            logger,
		trace:             trace,
		config:            config,
		fluentdRepository: fluentdRepository,
	}
}

// ErrorHandler 放在 TraceEntry 之後、其他 middleware 之前：產生 requestID，並統一輸出 panic 與 c.Errors
func (middleware *Recovery) ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestTime := time.Now()
		if startTime, exists := c.Get("requestDuration"); exists {
			if t, ok := startTime.(time.Time); ok {
				requestTime = t
			}
		}
		id, err := uuid.NewV7()
		if err != nil {
			id = uuid.New()
		}
		requestID := id.String()
		c.Set(core.ContextRequestIDKey, requestID)

		// ---- panic recover 必須在 c.Next() 之前註冊 ----
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			duration := time.Since(requestTime)
			ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanRecoveryMiddleware))
			traceID := span.SpanContext().TraceID()

			meta := core.TracePanicMeta{
				Path:       c.Request.URL.Path,
				Method:     c.Request.Method,
				ClientIP:   c.ClientIP(),
				UserAgent:  c.Request.UserAgent(),
				DurationMs: float64(duration.Milliseconds()),
				Message:    toSafeString(fmt.Sprint(rec)),
				Stack:      toSafeStack(debug.Stack()),
				Status:     http.StatusInternalServerError,
			}
			middleware.trace.ApplyTraceAttributes(span, meta)

			middleware.logger.Error("[PANIC] Recovered",
				zap.String("path", meta.Path),
				zap.String("method", meta.Method),
				zap.String("client_ip", meta.ClientIP),
				zap.Duration("duration", duration),
				zap.String("panic", meta.Message),
				zap.String("stacktrace", meta.Stack),
				zap.String("requestId", requestID),
				zap.String("traceId", traceID.String()),
			)

			appErr := cErr.InternalServer("unexpected panic")
			end(appErr)
			if !c.Writer.Written() {
				res.FailByErr(c, requestID, appErr)
			}
			middleware.logResponse(ctx, requestID, appErr.ErrorCode(), http.StatusInternalServerError, meta.Message, duration)
			c.Abort()
		}()

		c.Next()

		// ---- 統一處理非 panic 的 gin errors（若尚未回寫）----
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		duration := time.Since(requestTime)
		ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanRecoveryMiddleware))
		traceID := span.SpanContext().TraceID()

		// 找第一個 *cErr.Error
		var appErr *cErr.Error
		for _, e := range c.Errors {
			if errors.As(e.Err, &appErr) {
				break
			}
		}
		if appErr == nil {
			appErr = cErr.New(http.StatusInternalServerError, cErr.INTERNAL_ERROR, "unknown-error", toSafeString(c.Errors.String()))
		}

		middleware.trace.ApplyTraceAttributes(span, core.TraceErrorMeta{
			Code:       appErr.ErrorCode(),
			Message:    appErr.Error(),
			Detail:     appErr.ErrorDesc(),
			DurationMs: float64(duration.Milliseconds()),
			Status:     appErr.HttpCode(),
		})
		fields := []zap.Field{
			zap.Int("code", appErr.ErrorCode()),
			zap.String("data", appErr.ErrorDesc()),
			zap.Duration("duration", duration),
			zap.String("requestId", requestID),
			zap.String("traceId", traceID.String()),
		}
		if appErr.HttpCode() >= http.StatusInternalServerError {
			middleware.logger.Error(appErr.Error(), fields...)
			end(appErr)
		} else {
			middleware.logger.Warn(appErr.Error(), fields...)
			end(nil)
		}

		res.FailByErr(c, requestID, appErr)
		middleware.logResponse(ctx, requestID, appErr.ErrorCode(), appErr.HttpCode(), appErr.ErrorDesc(), duration)
		c.Abort()
	}
}

func (middleware *Recovery) logResponse(ctx context.Context, requestID string, code, status int, message string, duration time.Duration) {
	err := middleware.fluentdRepository.LogResponse(ctx, model.ResponseLog{
		RequestID:  requestID,
		Code:       code,
		StatusCode: status,
		Error:      message,
		LatencyMs:  float64(duration.Milliseconds()),
		Version:    middleware.config.App.Version,
		ResponseTS: time.Now().UTC().Format("2006-01-02 15:04:05.999999 UTC"),
	})
	if err != nil {
		middleware.logger.Warn("fluentd response log", zap.Error(err))
	}
}

// ---- helpers ----

func toSafeString(s string) string {
	const max = 8000
	if utf8.ValidString(s) {
		if len(s) > max {
			return s[:max] + "…"
		}
		return s
	}
	b := []byte(s)
	if len(b) > max {
		b = b[:max]
	}
	return "b64:" + base64.StdEncoding.EncodeToString(b)
}

func toSafeStack(b []byte) string {
	const max = 16000
	if utf8.Valid(b) {
		if len(b) > max {
			return string(b[:max]) + "…"
		}
		return string(b)
	}
	if len(b) > max {
		b = b[:max]
	}
	return "b64:" + base64.StdEncoding.EncodeToString(b)
}

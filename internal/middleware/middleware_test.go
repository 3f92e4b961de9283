package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"profile/config"
	"profile/internal/core"
	"profile/internal/database/fluentd/repository"
	cErr "profile/internal/pkg/error"
	"profile/internal/pkg/response"
	"profile/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingClient struct {
	tags []string
}

func (c *recordingClient) Post(_ context.Context, tag string, _ map[string]any) error {
	c.tags = append(c.tags, tag)
	return nil
}

func (c *recordingClient) Close() error { return nil }

func newEngine(t *testing.T) (*gin.Engine, *recordingClient, *telemetry.Metric) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	conf := &config.Configuration{}
	conf.App.Name = "profile"
	logger := zap.NewNop()
	trace := &telemetry.Trace{}
	metric := &telemetry.Metric{
		HttpRequestsTotal:   prometheus.NewCounterVec(prometheus.CounterOpts{Name: "t_requests_total"}, []string{"endpoint", "status"}),
		HttpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "t_request_duration_seconds"}, []string{"endpoint"}),
	}
	rc := &recordingClient{}
	logRepo := repository.NewLogRepository(conf, rc)

	r := gin.New()
	r.Use(NewTraceEntry(trace, metric, conf).Handler())
	r.Use(NewRecovery(logger, trace, conf, logRepo).ErrorHandler())
	r.Use(NewLogger(logger, trace, conf, logRepo).LoggerHandler())
	r.Use(NewCors(trace).CorsHandler())
	r.Use(NewResponse(logger, trace, conf, logRepo).FormatHandler())

	r.GET("/ok", func(c *gin.Context) { response.Success(c, gin.H{"message": "done", "n": 1}) })
	r.GET("/boom", func(c *gin.Context) { panic("boom") })
	r.GET("/conflict", func(c *gin.Context) { response.AbortWithError(c, cErr.BindingConflict("taken")) })
	r.GET("/plain", func(c *gin.Context) { response.AbortWithError(c, assert.AnError) })
	r.GET("/me", NewIdentity(logger, trace).Handler(), func(c *gin.Context) {
		response.Success(c, c.GetString(core.ContextUserIDKey))
	})
	r.GET("/health/liveness", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "alive"}) })
	return r, rc, metric
}

func serve(r *gin.Engine, target string, header http.Header) (*httptest.ResponseRecorder, response.Response) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestSuccessIsWrapped(t *testing.T) {
	r, rc, metric := newEngine(t)

	w, env := serve(r, "/ok", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Code)
	assert.Equal(t, "OK", env.Message)
	assert.Equal(t, "done", env.Description)
	assert.Equal(t, map[string]any{"n": float64(1)}, env.Data)
	assert.NotEmpty(t, env.RequestID)

	assert.Equal(t, []string{"request_log", "response_log"}, rc.tags)
	assert.Equal(t, 1.0, testutil.ToFloat64(metric.HttpRequestsTotal.WithLabelValues("/ok", "200")))
}

func TestPanicBecomes500(t *testing.T) {
	r, rc, metric := newEngine(t)

	w, env := serve(r, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, cErr.INTERNAL_ERROR, env.Code)
	assert.Equal(t, "unexpected panic", env.Description)
	assert.Contains(t, rc.tags, "response_log")
	assert.Equal(t, 1.0, testutil.ToFloat64(metric.HttpRequestsTotal.WithLabelValues("/boom", "500")))
}

func TestAppErrorKeepsCode(t *testing.T) {
	r, _, _ := newEngine(t)

	w, env := serve(r, "/conflict", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, cErr.BINDING_CONFLICT, env.Code)
	assert.Equal(t, "taken", env.Description)
}

func TestUnknownErrorIs500(t *testing.T) {
	r, _, _ := newEngine(t)

	w, env := serve(r, "/plain", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, cErr.INTERNAL_ERROR, env.Code)
}

func TestUnmatchedRouteUsesEnvelope(t *testing.T) {
	r, _, metric := newEngine(t)

	w, env := serve(r, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, cErr.NOT_FOUND, env.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(metric.HttpRequestsTotal.WithLabelValues("unmatched", "404")))
}

func TestIdentity(t *testing.T) {
	r, _, _ := newEngine(t)

	w, env := serve(r, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, cErr.UNAUTHORIZED, env.Code)

	w, _ = serve(r, "/me", http.Header{core.HeaderUserID: {"nope"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = serve(r, "/me", http.Header{core.HeaderUserID: {"6F1C0C43-7A0E-4A56-8A3C-3E2B1F0A9D01"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "6f1c0c43-7a0e-4a56-8a3c-3e2b1f0a9d01", env.Data)

	// gateway 可能以任意大小寫轉送 header
	w, env = serve(r, "/me", http.Header{"x-user-id": {"6f1c0c43-7a0e-4a56-8a3c-3e2b1f0a9d01"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "6f1c0c43-7a0e-4a56-8a3c-3e2b1f0a9d01", env.Data)
}

func TestHealthIsNotWrapped(t *testing.T) {
	r, rc, _ := newEngine(t)

	w, _ := serve(r, "/health/liveness", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"alive"}`, w.Body.String())
	assert.Empty(t, rc.tags)
}

func TestSafePreviewJSONTruncates(t *testing.T) {
	assert.Equal(t, `{"a":1}`, safePreviewJSON(map[string]int{"a": 1}, 100))
	assert.Equal(t, "abc…", safePreviewJSON("abcdef", 3))
}

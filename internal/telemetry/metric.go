package telemetry

import (
	"strconv"
	"time"

	"profile/config"
	"profile/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric 所有 prometheus 指標；關閉時欄位皆為 nil，方法會直接略過
type Metric struct {
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec
	DispatchTotal       *prometheus.CounterVec
	DispatchDuration    *prometheus.HistogramVec
	ExecutedTotal       *prometheus.CounterVec
	SyncTotal           *prometheus.CounterVec
}

// NewMetric 建立所有指標
func NewMetric(config *config.Configuration) *Metric {
	if config == nil || !config.Telemetry.Metric.Enabled {
		return &Metric{}
	}
	return newMetric(promauto.With(prometheus.DefaultRegisterer), config)
}

func newMetric(factory promauto.Factory, config *config.Configuration) *Metric {
	buckets := prometheus.DefBuckets
	if len(config.Telemetry.Metric.Buckets) > 0 {
		buckets = config.Telemetry.Metric.Buckets
	}
	prefix := config.App.Name + "_"
	return &Metric{
		HttpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricHttpRequestsTotal),
				Help: "Total received API requests",
			},
			labelNames(core.MetricLabelEndpoint, core.MetricLabelStatus),
		),
		HttpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + string(core.MetricHttpRequestDuration),
				Help:    "API request duration (seconds)",
				Buckets: buckets,
			},
			labelNames(core.MetricLabelEndpoint),
		),
		DispatchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricDispatchTotal),
				Help: "Commands dispatched to the processor, by outcome (ok/failed/timeout/error)",
			},
			labelNames(core.MetricLabelCommand, core.MetricLabelOutcome),
		),
		DispatchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + string(core.MetricDispatchDuration),
				Help:    "Time from publish to correlated result (seconds)",
				Buckets: buckets,
			},
			labelNames(core.MetricLabelCommand),
		),
		ExecutedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricExecutedTotal),
				Help: "Commands executed by the processor, by result code",
			},
			labelNames(core.MetricLabelCommand, core.MetricLabelCode),
		),
		SyncTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricSyncTotal),
				Help: "Projection sync runs, by scope (user/full) and outcome",
			},
			labelNames(core.MetricLabelScope, core.MetricLabelOutcome),
		),
	}
}

func (m *Metric) ObserveRequest(endpoint string, status int, elapsed time.Duration) {
	if m == nil || m.HttpRequestsTotal == nil {
		return
	}
	m.HttpRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	m.HttpRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (m *Metric) ObserveDispatch(command, outcome string, elapsed time.Duration) {
	if m == nil || m.DispatchTotal == nil {
		return
	}
	m.DispatchTotal.WithLabelValues(command, outcome).Inc()
	m.DispatchDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}

func (m *Metric) IncExecuted(command string, code int) {
	if m == nil || m.ExecutedTotal == nil {
		return
	}
	m.ExecutedTotal.WithLabelValues(command, strconv.Itoa(code)).Inc()
}

func (m *Metric) IncSync(scope, outcome string) {
	if m == nil || m.SyncTotal == nil {
		return
	}
	m.SyncTotal.WithLabelValues(scope, outcome).Inc()
}

// labelNames helper: LabelName slice 轉成 []string
func labelNames(labels ...core.MetricLabelName) []string {
	strs := make([]string, len(labels))
	for i, l := range labels {
		strs[i] = string(l)
	}
	return strs
}

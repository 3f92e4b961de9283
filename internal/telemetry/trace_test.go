package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type sampleMeta struct {
	UserID  string   `trace:"user.id,omitempty"`
	Full    bool     `trace:"sync.full"`
	Rows    int      `trace:"sync.rows"`
	Holders []string `trace:"binding.holders"`
	Ignored string
}

func recordingTrace() (*Trace, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return &Trace{TracerProvider: tp, ServiceName: "profile-test"}, recorder
}

func TestWithSpanRecordsAttributesAndError(t *testing.T) {
	tr, recorder := recordingTrace()

	_, span, end := tr.WithSpan(context.Background(), "projection_sync")
	tr.ApplyTraceAttributes(span, sampleMeta{Full: true, Rows: 3, Holders: []string{"a", "b"}})
	end(errors.New("boom"))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "projection_sync", spans[0].Name())

	attrs := map[string]any{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, true, attrs["sync.full"])
	assert.Equal(t, int64(3), attrs["sync.rows"])
	assert.Equal(t, []string{"a", "b"}, attrs["binding.holders"])
	assert.NotContains(t, attrs, "user.id")
	assert.Equal(t, "boom", spans[0].Status().Description)
}

func TestWithSpanWithoutProviderIsNoop(t *testing.T) {
	tr := &Trace{}
	ctx, span, end := tr.WithSpan(context.Background())
	assert.NotNil(t, ctx)
	assert.False(t, span.SpanContext().IsValid())
	end(nil)
}

func TestPrettifyFuncName(t *testing.T) {
	assert.Equal(t, "Syncer.Sync", prettifyFuncName("profile/internal/projection.(*Syncer).Sync"))
	assert.Equal(t, "Handler.GetMe", prettifyFuncName("profile/internal/handler.(*Handler).GetMe-fm"))
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), sampler(0).Description())
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased")
}

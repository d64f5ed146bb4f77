package tracing

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"moviecatalog/internal/config"
)

func TestNewTracerNone(t *testing.T) {
	tr, err := NewTracer(context.Background(), config.TracingConfig{Exporter: ExporterNone}, nil)
	require.NoError(t, err)

	_, span := tr.Tracer().Start(context.Background(), "catalog.view")
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, tr.Shutdown(context.Background()))
}

func TestNewTracerStdout(t *testing.T) {
	var buf bytes.Buffer
	tr, err := NewTracer(context.Background(), config.TracingConfig{Exporter: ExporterStdout, ServiceName: "test"}, &buf)
	require.NoError(t, err)

	_, span := tr.Tracer().Start(context.Background(), "catalog.search")
	span.End()

	require.NoError(t, tr.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "catalog.search")
}

func TestNewTracerUnknownExporter(t *testing.T) {
	_, err := NewTracer(context.Background(), config.TracingConfig{Exporter: "zipkin"}, nil)
	assert.Error(t, err)
}

func TestNewTracerProviderResource(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := NewTracerProvider("moviecatalog-test", sdktrace.WithSpanProcessor(recorder))

	_, span := tp.Tracer("test").Start(context.Background(), "catalog.add")
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Resource().Attributes(), attribute.String("service.name", "moviecatalog-test"))
}

func TestOperationAttrs(t *testing.T) {
	attrs := OperationAttrs("delete", "sqlite")
	assert.Contains(t, attrs, attribute.String("catalog.operation", "delete"))
	assert.Contains(t, attrs, attribute.String("db.system", "sqlite"))

	assert.Len(t, OperationAttrs("delete", ""), 2)
}

package trace

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), &Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	require.NoError(t, shutdown(context.Background()))

	shutdown, err = InitTracing(context.Background(), nil, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitTracing_HTTP(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	cfg := &Config{
		Enabled:     true,
		ServiceName: "openai-mcp-test",
		Protocol:    "http",
		Insecure:    true,
		SamplerRate: 2.5, // clamped to 1.0
		Environment: "dev",
		Headers:     map[string]string{"x-test": "1"},
	}

	shutdown, err := InitTracing(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	require.NoError(t, shutdown(context.Background()))
}

func TestConfig_Defaults(t *testing.T) {
	cases := []struct {
		cfg      Config
		protocol string
		endpoint string
		rate     float64
	}{
		{Config{}, ProtocolGRPC, "localhost:4317", 0},
		{Config{Protocol: "http", SamplerRate: 0.5}, ProtocolHTTP, "localhost:4318", 0.5},
		{Config{Protocol: "HTTP", Endpoint: "otel:4317", SamplerRate: -1}, ProtocolGRPC, "otel:4317", 0},
		{Config{Protocol: "http", Endpoint: "otel:4318", SamplerRate: 3}, ProtocolHTTP, "otel:4318", 1},
	}
	for _, c := range cases {
		assert.Equal(t, c.protocol, c.cfg.protocol())
		assert.Equal(t, c.endpoint, c.cfg.endpoint())
		assert.Equal(t, c.rate, c.cfg.samplerRate())
	}
}

func TestSpan_Lifecycle(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)

	span := Start(context.Background(), "test", "mcp.method.ping", attribute.String("mcp.method", "ping"))
	span.Set(attribute.Int("mcp.error_code", -32601))
	span.Fail(errors.New("boom"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "mcp.method.ping", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("mcp.method", "ping"))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("mcp.error_code", -32601))
}

func TestSpan_NilSafe(t *testing.T) {
	var s *Span
	assert.NotPanics(t, func() {
		s.Set(attribute.Bool("x", true))
		s.Fail(errors.New("x"))
		s.End()
	})
}

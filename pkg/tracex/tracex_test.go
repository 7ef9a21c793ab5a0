package tracex_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/identity/pkg/tracex"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestSetupNoopWhenEndpointEmpty(t *testing.T) {
	shutdown, err := tracex.Setup(t.Context(), tracex.Config{ServiceName: "identity"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, shutdown(ctx), "noop shutdown should ignore a cancelled context")
}

func TestSetupCreatesProviderWhenEndpointSet(t *testing.T) {
	// Non-routable address so no export actually happens.
	shutdown, err := tracex.Setup(t.Context(), tracex.Config{
		Endpoint:    "http://192.0.2.1:4318",
		ServiceName: "identity",
		SampleRatio: 0.5,
	})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestSamplerRatioBounds(t *testing.T) {
	params := sdktrace.SamplingParameters{
		ParentContext: context.Background(),
		TraceID:       trace.TraceID{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 1},
		Name:          "root",
	}

	tests := []struct {
		ratio float64
		want  sdktrace.SamplingDecision
	}{
		{0, sdktrace.Drop},
		{-1, sdktrace.Drop},
		{1, sdktrace.RecordAndSample},
		{2, sdktrace.RecordAndSample},
	}
	for _, tt := range tests {
		got := tracex.Sampler(tt.ratio).ShouldSample(params).Decision
		require.Equal(t, tt.want, got, "ratio %v", tt.ratio)
	}

	require.Contains(t, tracex.Sampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}

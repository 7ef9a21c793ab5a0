package service

import (
	"time"

	"github.com/aussiebroadwan/identity/internal/auth/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/aussiebroadwan/identity/internal/auth/service")

// Clock returns the current time. Services default to time.Now.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

func recorder(r metrics.Recorder) metrics.Recorder {
	if r == nil {
		return metrics.NewNoopMetrics()
	}
	return r
}

// endSpan records err on span, if any, and ends it. Caller-facing failures
// are not marked as span errors.
func endSpan(span trace.Span, err error) {
	if err != nil && KindOf(err) == KindInternal {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

package metrics

import (
	"net/http"
	"strconv"
	"time"
)

// HTTPMiddleware records request counts and latency labelled by the mux
// pattern that serves each request, so path parameters do not explode the
// label space.
func HTTPMiddleware(m Recorder, mux *http.ServeMux) func(http.Handler) http.Handler {
	if _, ok := m.(*NoopMetrics); ok {
		return func(next http.Handler) http.Handler { return next }
	}

	var inFlight interface{ Inc(); Dec() }
	if pm, ok := m.(*Metrics); ok {
		inFlight = pm.HTTPRequestsInFlight
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip metrics endpoint to avoid self-recording
			if r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			if inFlight != nil {
				inFlight.Inc()
				defer inFlight.Dec()
			}

			start := time.Now()
			rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			m.RecordHTTPRequest(r.Method, routeOf(mux, r), rw.status, time.Since(start))
		})
	}
}

func routeOf(mux *http.ServeMux, r *http.Request) string {
	if mux == nil {
		return "unknown"
	}
	if _, pattern := mux.Handler(r); pattern != "" {
		return pattern
	}
	return "unmatched"
}

func statusLabel(code int) string { return strconv.Itoa(code) }

type statusRecorder struct {
	http.ResponseWriter

	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

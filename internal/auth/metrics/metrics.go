package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultError   = "error"
)

// Recorder is what the services and the HTTP layer report into.
type Recorder interface {
	// RecordSessionIssued counts register/login attempts by outcome.
	RecordSessionIssued(method string, success bool)

	// RecordSessionVerification counts session checks: valid, missing,
	// malformed, invalid, expired.
	RecordSessionVerification(result string)

	// RecordCodeIssued counts approvals by outcome.
	RecordCodeIssued(result string)

	// RecordTokenExchange counts exchanges by the reason they ended.
	RecordTokenExchange(result string, duration time.Duration)

	// RecordCodesPurged counts codes removed by housekeeping.
	RecordCodesPurged(n int64)

	RecordHTTPRequest(method, route string, status int, duration time.Duration)
}

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	SessionsIssuedTotal       *prometheus.CounterVec
	SessionVerificationsTotal *prometheus.CounterVec

	CodesIssuedTotal      *prometheus.CounterVec
	CodesPurgedTotal      prometheus.Counter
	TokenExchangesTotal   *prometheus.CounterVec
	TokenExchangeDuration prometheus.Histogram

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init returns the Prometheus-backed recorder when enabled, otherwise a
// NoopMetrics. Collectors are registered once per process.
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

func initMetrics() *Metrics {
	return &Metrics{
		SessionsIssuedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "identity_sessions_issued_total",
				Help: "Total number of session issuance attempts",
			},
			[]string{"method", "result"}, // method: register, login
		),
		SessionVerificationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "identity_session_verifications_total",
				Help: "Total number of session token verifications",
			},
			[]string{"result"},
		),
		CodesIssuedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "identity_authorization_codes_issued_total",
				Help: "Total number of authorization approvals",
			},
			[]string{"result"},
		),
		CodesPurgedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "identity_authorization_codes_purged_total",
				Help: "Total number of expired, unredeemed codes deleted by housekeeping",
			},
		),
		TokenExchangesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "identity_token_exchanges_total",
				Help: "Total number of code-for-token exchanges",
			},
			[]string{"result"},
		),
		TokenExchangeDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "identity_token_exchange_duration_seconds",
				Help:    "Time taken to redeem an authorization code",
				Buckets: prometheus.DefBuckets,
			},
		),
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request latency in seconds",
				Buckets: []float64{
					0.001, 0.005, 0.010, 0.025, 0.050, 0.100,
					0.250, 0.500, 1.0, 2.5, 5.0, 10.0,
				},
			},
			[]string{"method", "route"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
		),
	}
}

func (m *Metrics) RecordSessionIssued(method string, success bool) {
	result := ResultSuccess
	if !success {
		result = ResultFailure
	}
	m.SessionsIssuedTotal.WithLabelValues(method, result).Inc()
}

func (m *Metrics) RecordSessionVerification(result string) {
	m.SessionVerificationsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordCodeIssued(result string) {
	m.CodesIssuedTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordTokenExchange(result string, duration time.Duration) {
	m.TokenExchangesTotal.WithLabelValues(result).Inc()
	m.TokenExchangeDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordCodesPurged(n int64) {
	if n > 0 {
		m.CodesPurgedTotal.Add(float64(n))
	}
}

func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, statusLabel(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

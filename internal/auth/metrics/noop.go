package metrics

import "time"

// NoopMetrics does nothing; it is what Init(false) returns.
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordSessionIssued(method string, success bool)                     {}
func (n *NoopMetrics) RecordSessionVerification(result string)                             {}
func (n *NoopMetrics) RecordCodeIssued(result string)                                      {}
func (n *NoopMetrics) RecordTokenExchange(result string, duration time.Duration)           {}
func (n *NoopMetrics) RecordCodesPurged(count int64)                                       {}
func (n *NoopMetrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {}

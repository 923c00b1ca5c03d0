// internal/poller/metrics.go
package poller

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the read counters shared by every snapshot of one process.
// Counters only grow. Safe for concurrent use.
type Metrics struct {
	attempts  atomic.Uint64
	errors    atomic.Uint64
	exhausted atomic.Uint64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// Attempts is the number of transport reads issued.
func (m *Metrics) Attempts() uint64 { return m.attempts.Load() }

// Errors is the number of transport reads that failed.
func (m *Metrics) Errors() uint64 { return m.errors.Load() }

// Exhausted is the number of register reads that failed every attempt.
func (m *Metrics) Exhausted() uint64 { return m.exhausted.Load() }

// ---- prometheus.Collector ----

var (
	attemptsDesc = prometheus.NewDesc(
		"am2_read_attempts_total",
		"Register read attempts issued to the bus.",
		nil, nil,
	)
	errorsDesc = prometheus.NewDesc(
		"am2_read_errors_total",
		"Register read attempts that failed.",
		nil, nil,
	)
	exhaustedDesc = prometheus.NewDesc(
		"am2_read_exhausted_total",
		"Register reads that failed every retry.",
		nil, nil,
	)
)

func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- attemptsDesc
	ch <- errorsDesc
	ch <- exhaustedDesc
}

func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(attemptsDesc, prometheus.CounterValue, float64(m.Attempts()))
	ch <- prometheus.MustNewConstMetric(errorsDesc, prometheus.CounterValue, float64(m.Errors()))
	ch <- prometheus.MustNewConstMetric(exhaustedDesc, prometheus.CounterValue, float64(m.Exhausted()))
}

// internal/poller/reader.go
package poller

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/am2-bridge/internal/catalog"
	"github.com/tamzrod/am2-bridge/internal/scale"
)

// ErrShortRead means the transport answered with the wrong number of words.
var ErrShortRead = errors.New("poller: unexpected register count")

// Defaults match the AM2 bus behaviour observed in the field.
const (
	DefaultRetries = 5
	DefaultDelay   = 300 * time.Millisecond
)

// ReadOutcome is the result of one Reader.Read call.
type ReadOutcome uint8

const (
	OutcomeRead    ReadOutcome = iota // transport read succeeded
	OutcomeSkipped                    // no transport call was made
	OutcomeFailed                     // every attempt failed
)

// ReaderConfig is the retry policy.
type ReaderConfig struct {
	Retries int
	Delay   time.Duration
}

// Reader reads one register with bounded retry.
// Transport errors are absorbed here and never returned.
type Reader struct {
	retries int
	delay   time.Duration
	metrics *Metrics
	logger  *zap.Logger

	sleep func(time.Duration)
}

// NewReader builds a Reader. Retries <= 0 takes DefaultRetries; a negative Delay takes DefaultDelay.
func NewReader(cfg ReaderConfig, metrics *Metrics, logger *zap.Logger) *Reader {
	if cfg.Retries <= 0 {
		cfg.Retries = DefaultRetries
	}
	if cfg.Delay < 0 {
		cfg.Delay = DefaultDelay
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{
		retries: cfg.Retries,
		delay:   cfg.Delay,
		metrics: metrics,
		logger:  logger,
		sleep:   time.Sleep,
	}
}

// Metrics returns the counters this reader increments.
func (r *Reader) Metrics() *Metrics { return r.metrics }

// Read refreshes rec from the bus.
//
//   - Computed: never read.
//   - TwoCharASCII: read until the first success, then never again.
//   - otherwise: up to Retries attempts, Delay between attempts.
//
// On exhaustion Raw is cleared and Value keeps the last known good value.
func (r *Reader) Read(c Client, rec *Record) ReadOutcome {
	d := rec.Descriptor

	switch d.Kind {
	case catalog.Computed:
		return OutcomeSkipped
	case catalog.TwoCharASCII:
		if rec.Raw != nil {
			return OutcomeSkipped
		}
	}

	rec.Attempted = true

	var lastErr error
	for attempt := 1; attempt <= r.retries; attempt++ {
		r.metrics.attempts.Add(1)

		words, err := c.ReadHoldingRegisters(d.Address, d.Words)
		if err == nil && len(words) != int(d.Words) {
			err = fmt.Errorf("%w: got=%d want=%d", ErrShortRead, len(words), d.Words)
		}

		if err == nil {
			rec.Raw = append([]uint16(nil), words...)
			v, serr := scale.Scale(d.Kind, rec.Raw, rec.Value)
			if serr != nil {
				r.logger.Error("register scale failed",
					zap.Uint16("address", d.Address),
					zap.String("name", d.Name),
					zap.Error(serr))
			}
			rec.Value = v
			return OutcomeRead
		}

		lastErr = err
		r.metrics.errors.Add(1)

		if attempt < r.retries && r.delay > 0 {
			r.sleep(r.delay)
		}
	}

	rec.Raw = nil
	r.metrics.exhausted.Add(1)

	// If this happens often, check the 120Ω bus termination.
	r.logger.Warn("register read failed",
		zap.Uint16("address", d.Address),
		zap.String("name", d.Name),
		zap.Uint16("words", d.Words),
		zap.Int("attempts", r.retries),
		zap.Uint64("read_count", r.metrics.Attempts()),
		zap.Uint64("read_errors", r.metrics.Errors()),
		zap.Error(lastErr))

	return OutcomeFailed
}

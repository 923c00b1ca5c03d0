// internal/poller/runner.go
package poller

import (
	"context"
	"time"
)

// Run polls immediately, then on every tick, and emits one PollResult per device.
// One goroutine per bus. No overlap.
func (p *Poller) Run(ctx context.Context, out chan<- PollResult) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		for _, s := range p.snaps {
			if ctx.Err() != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			case out <- p.pollDevice(s):
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// internal/writer/writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/am2-bridge/internal/poller"
)

// endpointClient is the exact contract the writers use.
// IMPORTANT: There must be NO other version of this interface anywhere.
type endpointClient interface {
	Publish(topic string, payload []byte, retain bool) error
}

type writerImpl struct {
	plan Plan
	cli  endpointClient
}

// New returns the state writer: one message per register with a value.
func New(plan Plan, cli endpointClient) Writer {
	return &writerImpl{
		plan: plan,
		cli:  cli,
	}
}

func (w *writerImpl) Write(res poller.PollResult) error {
	if w.cli == nil {
		return errors.New("writer: missing client")
	}

	var errs []string

	for _, e := range res.Entries {
		// nothing known yet; do not publish a placeholder
		if !e.Value.Valid() {
			continue
		}

		topic := StateTopic(w.plan.BaseTopic, res.Device, e.Name)
		if err := w.cli.Publish(topic, []byte(e.Value.String()), false); err != nil {
			errs = append(errs, fmt.Sprintf(
				"writer: device=%d reg=%d topic=%s err=%v",
				res.Device, e.Address, topic, err,
			))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}

	return nil
}

// ------------------------------------------------------------
// FAN-OUT
// ------------------------------------------------------------

// Multi writes to every writer in order. One failing writer does not stop the rest.
type Multi []Writer

func (m Multi) Write(res poller.PollResult) error {
	var errs []error
	for _, w := range m {
		if err := w.Write(res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

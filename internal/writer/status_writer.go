// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"

	"github.com/tamzrod/am2-bridge/internal/poller"
	"github.com/tamzrod/am2-bridge/internal/status"
)

// deviceStatusWriter owns one health tracker per device and publishes
// the tracked snapshot on the first write and whenever it changes.
type deviceStatusWriter struct {
	base string
	cli  endpointClient

	trackers map[uint8]*status.Tracker
	asserted map[uint8]bool // false => publish regardless of change
}

// NewDeviceStatusWriter builds a status writer if status is enabled in the plan.
func NewDeviceStatusWriter(plan Plan, cli endpointClient) (*deviceStatusWriter, bool) {
	if !plan.Status {
		return nil, false
	}
	return &deviceStatusWriter{
		base:     plan.BaseTopic,
		cli:      cli,
		trackers: make(map[uint8]*status.Tracker),
		asserted: make(map[uint8]bool),
	}, true
}

// Write folds the pass into the device health and publishes it
// on the first write and whenever it changes.
func (sw *deviceStatusWriter) Write(res poller.PollResult) error {
	tr := sw.trackers[res.Device]
	if tr == nil {
		tr = status.NewTracker()
		sw.trackers[res.Device] = tr
	}

	s, changed := tr.Observe(res.Pass, res.At)
	if !changed && sw.asserted[res.Device] {
		return nil
	}
	return sw.WriteStatus(res.Device, s)
}

// WriteStatus publishes s for device as-is, bypassing the tracker.
// On failure, the next Write re-asserts even if nothing changed.
func (sw *deviceStatusWriter) WriteStatus(device uint8, s status.Snapshot) error {
	if sw == nil {
		return errors.New("status writer: disabled")
	}
	if sw.cli == nil {
		return errors.New("status writer: missing client")
	}

	b, err := status.Encode(s)
	if err != nil {
		sw.asserted[device] = false
		return fmt.Errorf("status writer: encode: %w", err)
	}

	topic := StatusTopic(sw.base, device)
	if err := sw.cli.Publish(topic, b, false); err != nil {
		sw.asserted[device] = false
		return fmt.Errorf("status writer: device=%d publish failed: %w", device, err)
	}

	sw.asserted[device] = true
	return nil
}

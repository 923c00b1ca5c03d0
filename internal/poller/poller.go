// internal/poller/poller.go
package poller

import (
	"errors"
	"fmt"
	"time"
)

// Client abstracts the Modbus operations the poller needs.
// One Client serves every device on the bus; the poller switches the unit id.
type Client interface {
	SetUnitID(id uint8)
	ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) // FC 3
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Devices  []uint8
	Interval time.Duration
	Sweep    bool

	// Now overrides the clock (tests).
	Now func() time.Time
}

// Poller reads a bank of devices sharing one bus, strictly one after another.
type Poller struct {
	cfg    Config
	client Client
	reader *Reader
	snaps  []*Snapshot
}

// New creates a poller with one snapshot per device.
// A nil reader gets the default retry policy.
func New(cfg Config, client Client, reader *Reader) (*Poller, error) {
	if client == nil {
		return nil, errors.New("poller: client required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if len(cfg.Devices) == 0 {
		return nil, errors.New("poller: at least one device required")
	}
	if reader == nil {
		reader = NewReader(ReaderConfig{}, nil, nil)
	}

	p := &Poller{cfg: cfg, client: client, reader: reader}

	seen := make(map[uint8]bool, len(cfg.Devices))
	for _, addr := range cfg.Devices {
		if seen[addr] {
			return nil, fmt.Errorf("poller: duplicate device address %d", addr)
		}
		seen[addr] = true

		s, err := NewSnapshot(addr, SnapshotOptions{Sweep: cfg.Sweep, Now: cfg.Now})
		if err != nil {
			return nil, err
		}
		p.snaps = append(p.snaps, s)
	}

	return p, nil
}

// Snapshots returns the live device snapshots in configured order.
func (p *Poller) Snapshots() []*Snapshot { return p.snaps }

// PollOnce performs exactly one read pass per device.
// Best effort: a failing register or device never aborts the cycle.
func (p *Poller) PollOnce() []PollResult {
	out := make([]PollResult, 0, len(p.snaps))
	for _, s := range p.snaps {
		out = append(out, p.pollDevice(s))
	}
	return out
}

func (p *Poller) pollDevice(s *Snapshot) PollResult {
	pass := s.ReadAll(p.client, p.reader)
	return PollResult{
		Device:   s.Address(),
		At:       s.SampledAt(),
		Pass:     pass,
		Entries:  s.Entries(),
		Identity: s.IdentityInfo(),
	}
}

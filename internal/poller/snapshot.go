// internal/poller/snapshot.go
package poller

import (
	"fmt"
	"time"

	"github.com/tamzrod/am2-bridge/internal/catalog"
	"github.com/tamzrod/am2-bridge/internal/scale"
)

// Modbus station address range.
const (
	MinDeviceAddress = 1
	MaxDeviceAddress = 247
)

// SnapshotOptions tunes which registers a Snapshot holds.
type SnapshotOptions struct {
	// Sweep adds every hardware address 0..180, known or not.
	Sweep bool

	// Now overrides the clock (tests).
	Now func() time.Time
}

// Snapshot is the register table of one device.
// Records are kept in ascending address order.
// Not safe for concurrent use; read it from one goroutine.
type Snapshot struct {
	address   uint8
	records   []*Record
	index     map[uint16]*Record
	sampledAt time.Time
	now       func() time.Time
}

// NewSnapshot builds the table for the device at address.
func NewSnapshot(address uint8, opt SnapshotOptions) (*Snapshot, error) {
	if address < MinDeviceAddress || address > MaxDeviceAddress {
		return nil, fmt.Errorf("poller: device address %d out of range %d..%d",
			address, MinDeviceAddress, MaxDeviceAddress)
	}

	now := opt.Now
	if now == nil {
		now = time.Now
	}

	s := &Snapshot{
		address: address,
		index:   make(map[uint16]*Record),
		now:     now,
	}

	for _, d := range catalog.Known() {
		s.add(d)
	}
	if opt.Sweep {
		for a := uint16(0); a <= catalog.MaxHardwareAddress; a++ {
			s.add(catalog.Lookup(a))
		}
	}

	return s, nil
}

// add inserts d keeping ascending order. Existing addresses are kept.
func (s *Snapshot) add(d catalog.Descriptor) {
	if _, ok := s.index[d.Address]; ok {
		return
	}
	rec := &Record{Descriptor: d}
	s.index[d.Address] = rec

	i := len(s.records)
	for i > 0 && s.records[i-1].Descriptor.Address > d.Address {
		i--
	}
	s.records = append(s.records, nil)
	copy(s.records[i+1:], s.records[i:])
	s.records[i] = rec
}

// Address is the device's Modbus station address.
func (s *Snapshot) Address() uint8 { return s.address }

// SampledAt is the start time of the last ReadAll.
func (s *Snapshot) SampledAt() time.Time { return s.sampledAt }

// Len is the number of registers held.
func (s *Snapshot) Len() int { return len(s.records) }

// Record returns the live record for addr.
func (s *Snapshot) Record(addr uint16) (*Record, bool) {
	rec, ok := s.index[addr]
	return rec, ok
}

// ReadAll reads every non-computed register in ascending order, then aggregates.
// Failures are per register; the pass always completes.
func (s *Snapshot) ReadAll(c Client, r *Reader) PassResult {
	c.SetUnitID(s.address)
	s.sampledAt = s.now()

	var pass PassResult
	for _, rec := range s.records {
		if rec.Descriptor.Kind == catalog.Computed {
			continue
		}
		switch r.Read(c, rec) {
		case OutcomeRead:
			pass.Read++
		case OutcomeSkipped:
			pass.Skipped++
		case OutcomeFailed:
			pass.Failed++
		}
	}

	s.aggregate(s.now())
	return pass
}

// Entries returns a copy of the table in ascending address order.
func (s *Snapshot) Entries() []Entry {
	out := make([]Entry, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, Entry{
			Address: rec.Descriptor.Address,
			Name:    rec.Descriptor.Name,
			Value:   rec.Value,
			Unit:    rec.Descriptor.Unit,
		})
	}
	return out
}

// Identity returns a decoded identity string by name (Version, S_N_BMS, S_N_Pack).
// ok is false for unknown names and identities not read yet.
func (s *Snapshot) Identity(name string) (string, bool) {
	addr, ok := catalog.IdentityAddress(name)
	if !ok {
		return "", false
	}
	rec, ok := s.index[addr]
	if !ok {
		return "", false
	}
	return rec.Value.Text()
}

// IdentityInfo returns all identity strings; unread ones are empty.
func (s *Snapshot) IdentityInfo() Identity {
	var id Identity
	id.Version, _ = s.Identity(catalog.IdentityVersion)
	id.SerialBMS, _ = s.Identity(catalog.IdentitySerialBMS)
	id.SerialPack, _ = s.Identity(catalog.IdentitySerialPack)
	return id
}

func (s *Snapshot) set(addr uint16, v scale.Value) {
	if rec, ok := s.index[addr]; ok {
		rec.Value = v
	}
}

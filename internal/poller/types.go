// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/am2-bridge/internal/catalog"
	"github.com/tamzrod/am2-bridge/internal/scale"
)

// Record is the per-device state of one register.
type Record struct {
	Descriptor catalog.Descriptor

	// Raw is nil until a successful read, and again after a failed one.
	Raw []uint16

	// Value is the last known good scaled value.
	Value scale.Value

	Attempted bool
}

// Entry is one row of the output table.
type Entry struct {
	Address uint16
	Name    string
	Value   scale.Value
	Unit    string
}

// Identity holds the decoded identity strings of a device.
type Identity struct {
	Version    string
	SerialBMS  string
	SerialPack string
}

// PassResult summarises one ReadAll pass.
type PassResult struct {
	Read    int // registers read successfully
	Skipped int // identity registers already known
	Failed  int // registers that exhausted all attempts
}

// Attempted is the number of registers that went to the bus.
func (p PassResult) Attempted() int { return p.Read + p.Failed }

// PollResult is a copy of one device snapshot produced by one poll cycle.
// Writers may keep it; the poller never mutates it.
type PollResult struct {
	Device   uint8
	At       time.Time
	Pass     PassResult
	Entries  []Entry
	Identity Identity
}

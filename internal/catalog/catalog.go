// internal/catalog/catalog.go
package catalog

import (
	"sort"
	"strconv"
)

// ScaleKind selects how raw words become a scaled value.
type ScaleKind uint8

const (
	UnsignedInt    ScaleKind = iota // uint16 as-is
	SignedFixed100                  // int16 / 100, 2 decimals
	Fixed10                         // uint16 / 10, 1 decimal
	Fixed100                        // uint16 / 100, 2 decimals
	Fixed1000                       // uint16 / 1000, 3 decimals
	TwoCharASCII                    // two ASCII chars per word
	Computed                        // derived, never read from the bus
	Raw                             // unknown register, uint16 as-is
)

func (k ScaleKind) String() string {
	switch k {
	case UnsignedInt:
		return "uint"
	case SignedFixed100:
		return "f100s"
	case Fixed10:
		return "f10"
	case Fixed100:
		return "f100"
	case Fixed1000:
		return "f1000"
	case TwoCharASCII:
		return "char2"
	case Computed:
		return "comp"
	case Raw:
		return "raw"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Descriptor is the static identity of one register.
type Descriptor struct {
	Address uint16
	Name    string
	Unit    string
	Kind    ScaleKind
	Words   uint16
}

// ---- HARDWARE GEOMETRY ----

// MaxHardwareAddress is the last register address the AM2 exposes.
const MaxHardwareAddress = 180

// Primary sensors.
const (
	AddrCurrent uint16 = 0
	AddrVoltage uint16 = 1
)

// Cell voltage span (inclusive).
const (
	CellFirst uint16 = 15
	CellLast  uint16 = 27
	CellCount        = int(CellLast-CellFirst) + 1
)

// Identity string registers.
const (
	AddrVersion    uint16 = 150
	AddrSerialBMS  uint16 = 160
	AddrSerialPack uint16 = 170
)

// Computed registers.
const (
	AddrCellMaxID  uint16 = 1000
	AddrCellMax    uint16 = 1001
	AddrCellMinID  uint16 = 1002
	AddrCellMin    uint16 = 1003
	AddrCellDiff   uint16 = 1004
	AddrCellAvg    uint16 = 1005
	AddrPower      uint16 = 1006
	AddrDevice     uint16 = 1010
	AddrSampleTime uint16 = 1011
)

// Identity names usable with IdentityAddress.
const (
	IdentityVersion    = "Version"
	IdentitySerialBMS  = "S_N_BMS"
	IdentitySerialPack = "S_N_Pack"
)

var table = map[uint16]Descriptor{}

func init() {
	add := func(addr uint16, name, unit string, kind ScaleKind, words uint16) {
		table[addr] = Descriptor{Address: addr, Name: name, Unit: unit, Kind: kind, Words: words}
	}

	add(AddrCurrent, "Current", "A", SignedFixed100, 1)
	add(AddrVoltage, "Voltage", "V", Fixed100, 1)
	add(2, "SoC", "%", UnsignedInt, 1)
	add(3, "SoH", "%", UnsignedInt, 1)
	add(4, "Capacity_Remain", "Ah", Fixed100, 1)
	add(5, "Capacity_Full", "Ah", Fixed100, 1)
	add(7, "Cycles", "int", UnsignedInt, 1)

	for a := CellFirst; a <= CellLast; a++ {
		add(a, cellName(int(a-CellFirst)+1), "V", Fixed1000, 1)
	}

	// average temperatures
	add(31, "Tcell_1", "°C", Fixed10, 1)
	add(32, "Tcell_2", "°C", Fixed10, 1)
	add(33, "Tcell_3", "°C", Fixed10, 1)
	add(34, "Tcell_4", "°C", Fixed10, 1)
	add(35, "T_MOSFET", "°C", Fixed10, 1)
	add(36, "T_ENV", "°C", Fixed10, 1)

	// static, read once
	add(AddrVersion, IdentityVersion, "str", TwoCharASCII, 10)
	add(AddrSerialBMS, IdentitySerialBMS, "str", TwoCharASCII, 10)
	add(AddrSerialPack, IdentitySerialPack, "str", TwoCharASCII, 10)

	add(AddrCellMaxID, "Vcell_max_id", "int", Computed, 1)
	add(AddrCellMax, "Vcell_max", "V", Computed, 1)
	add(AddrCellMinID, "Vcell_min_id", "int", Computed, 1)
	add(AddrCellMin, "Vcell_min", "V", Computed, 1)
	add(AddrCellDiff, "Vcell_diff", "V", Computed, 1)
	add(AddrCellAvg, "Vcell_avg", "V", Computed, 1)
	add(AddrPower, "Power", "W", Computed, 1)
	add(AddrDevice, "Address", "int", Computed, 1)
	add(AddrSampleTime, "Time", "tm", Computed, 1)
}

func cellName(n int) string {
	if n < 10 {
		return "Vcell_0" + strconv.Itoa(n)
	}
	return "Vcell_" + strconv.Itoa(n)
}

// Lookup returns the descriptor for addr.
// Addresses outside the table resolve to a synthetic Raw descriptor.
func Lookup(addr uint16) Descriptor {
	if d, ok := table[addr]; ok {
		return d
	}
	return Descriptor{
		Address: addr,
		Name:    "unknown_reg_" + strconv.Itoa(int(addr)),
		Unit:    "?",
		Kind:    Raw,
		Words:   1,
	}
}

// IsKnown reports whether addr is in the static table.
func IsKnown(addr uint16) bool {
	_, ok := table[addr]
	return ok
}

// Known returns every table descriptor in ascending address order.
func Known() []Descriptor {
	out := make([]Descriptor, 0, len(table))
	for _, d := range table {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}

// IdentityAddress maps an identity name to its register address.
func IdentityAddress(name string) (uint16, bool) {
	switch name {
	case IdentityVersion:
		return AddrVersion, true
	case IdentitySerialBMS:
		return AddrSerialBMS, true
	case IdentitySerialPack:
		return AddrSerialPack, true
	}
	return 0, false
}

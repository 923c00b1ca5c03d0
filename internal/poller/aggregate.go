// internal/poller/aggregate.go
package poller

import (
	"time"

	"github.com/tamzrod/am2-bridge/internal/catalog"
	"github.com/tamzrod/am2-bridge/internal/scale"
)

// CellStats is the summary of the cell voltage span.
// Positions are 1-based.
type CellStats struct {
	MinID  int
	Min    float64
	MaxID  int
	Max    float64
	Avg    float64
	Spread float64
}

// SummarizeCells scans cells once. On ties the first position wins.
// ok is false for an empty slice.
func SummarizeCells(cells []float64) (CellStats, bool) {
	if len(cells) == 0 {
		return CellStats{}, false
	}

	st := CellStats{MinID: 1, Min: cells[0], MaxID: 1, Max: cells[0]}
	total := cells[0]

	for i := 1; i < len(cells); i++ {
		v := cells[i]
		if v < st.Min {
			st.Min, st.MinID = v, i+1
		}
		if v > st.Max {
			st.Max, st.MaxID = v, i+1
		}
		total += v
	}

	st.Min = scale.Round(st.Min, 3)
	st.Max = scale.Round(st.Max, 3)
	st.Spread = scale.Round(st.Max-st.Min, 3)
	st.Avg = scale.Round(total/float64(len(cells)), 3)
	return st, true
}

// aggregate writes the computed registers from already scaled values.
// Derived values whose inputs have never been read are set absent.
func (s *Snapshot) aggregate(at time.Time) {
	if cells, ok := s.cellVoltages(); ok {
		st, _ := SummarizeCells(cells)
		s.set(catalog.AddrCellMaxID, scale.Int(int64(st.MaxID)))
		s.set(catalog.AddrCellMax, scale.Float(st.Max, 3))
		s.set(catalog.AddrCellMinID, scale.Int(int64(st.MinID)))
		s.set(catalog.AddrCellMin, scale.Float(st.Min, 3))
		s.set(catalog.AddrCellDiff, scale.Float(st.Spread, 3))
		s.set(catalog.AddrCellAvg, scale.Float(st.Avg, 3))
	} else {
		for _, a := range []uint16{
			catalog.AddrCellMaxID, catalog.AddrCellMax,
			catalog.AddrCellMinID, catalog.AddrCellMin,
			catalog.AddrCellDiff, catalog.AddrCellAvg,
		} {
			s.set(a, scale.Value{})
		}
	}

	if p, ok := s.power(); ok {
		s.set(catalog.AddrPower, scale.Float(p, 1))
	} else {
		s.set(catalog.AddrPower, scale.Value{})
	}

	s.set(catalog.AddrDevice, scale.Int(int64(s.address)))
	s.set(catalog.AddrSampleTime, scale.Str(at.Format(time.RFC3339)))
}

// cellVoltages collects the cell span; ok is false if any cell has no value.
func (s *Snapshot) cellVoltages() ([]float64, bool) {
	cells := make([]float64, 0, catalog.CellCount)
	for a := catalog.CellFirst; a <= catalog.CellLast; a++ {
		rec, ok := s.index[a]
		if !ok {
			return nil, false
		}
		v, ok := rec.Value.Float64()
		if !ok {
			return nil, false
		}
		cells = append(cells, v)
	}
	return cells, true
}

func (s *Snapshot) power() (float64, bool) {
	cur, ok := s.index[catalog.AddrCurrent]
	if !ok {
		return 0, false
	}
	volt, ok := s.index[catalog.AddrVoltage]
	if !ok {
		return 0, false
	}
	a, ok := cur.Value.Float64()
	if !ok {
		return 0, false
	}
	v, ok := volt.Value.Float64()
	if !ok {
		return 0, false
	}
	return scale.Round(a*v, 1), true
}

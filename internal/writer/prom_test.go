// internal/writer/prom_test.go
package writer

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tamzrod/am2-bridge/internal/scale"
)

func TestPrometheusWriter_NumericOnly(t *testing.T) {
	reg := prometheus.NewRegistry()
	w, err := NewPrometheusWriter(reg)
	if err != nil {
		t.Fatalf("NewPrometheusWriter() err=%v", err)
	}

	if err := w.Write(sampleResult(2)); err != nil {
		t.Fatalf("Write() err=%v", err)
	}

	pw := w.(*promWriter)

	// Current, Voltage, SoC; Version is a string, Power is absent
	if n := testutil.CollectAndCount(pw.values); n != 3 {
		t.Fatalf("series: got %d want 3", n)
	}
	if v := testutil.ToFloat64(pw.values.WithLabelValues("2", "Voltage", "V")); v != 53.2 {
		t.Fatalf("voltage: %v", v)
	}
}

func TestPrometheusWriter_DropsSeriesThatGoAbsent(t *testing.T) {
	w, err := NewPrometheusWriter(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewPrometheusWriter() err=%v", err)
	}
	pw := w.(*promWriter)

	res := sampleResult(1)
	res.Entries[4].Value = scale.Float(546, 1)
	_ = w.Write(res)
	if n := testutil.CollectAndCount(pw.values); n != 4 {
		t.Fatalf("series: got %d want 4", n)
	}

	res = sampleResult(1)
	_ = w.Write(res)
	if n := testutil.CollectAndCount(pw.values); n != 3 {
		t.Fatalf("absent power series not dropped: %d", n)
	}
}

func TestPrometheusWriter_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPrometheusWriter(reg); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := NewPrometheusWriter(reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

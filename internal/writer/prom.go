// internal/writer/prom.go
package writer

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tamzrod/am2-bridge/internal/poller"
)

type promWriter struct {
	values *prometheus.GaugeVec
}

// NewPrometheusWriter registers the register gauge with reg.
// Only numeric values are exported; string registers are skipped.
func NewPrometheusWriter(reg prometheus.Registerer) (Writer, error) {
	values := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "am2_register_value",
		Help: "Last known scaled value of an AM2 register.",
	}, []string{"device", "register", "unit"})

	if err := reg.Register(values); err != nil {
		return nil, err
	}

	return &promWriter{values: values}, nil
}

func (pw *promWriter) Write(res poller.PollResult) error {
	dev := strconv.Itoa(int(res.Device))

	for _, e := range res.Entries {
		v, ok := e.Value.Float64()
		if !ok {
			// absent or string; drop a stale series if there was one
			pw.values.DeleteLabelValues(dev, e.Name, e.Unit)
			continue
		}
		pw.values.WithLabelValues(dev, e.Name, e.Unit).Set(v)
	}

	return nil
}

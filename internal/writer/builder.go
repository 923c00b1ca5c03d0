// internal/writer/builder.go
package writer

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	cfg "github.com/tamzrod/am2-bridge/internal/config"
	wmqtt "github.com/tamzrod/am2-bridge/internal/writer/mqtt"
)

// BuildPlan converts the mqtt config into a Writer Plan.
// Assumes config has already been validated and normalized.
func BuildPlan(m cfg.MQTTConfig) (Plan, error) {
	if !m.Enabled {
		return Plan{}, errors.New("writer: mqtt disabled")
	}
	if m.BaseTopic == "" {
		return Plan{}, errors.New("writer: base_topic required")
	}

	plan := Plan{
		BaseTopic: m.BaseTopic,
		Status:    true,
	}

	if m.HASS.Enabled {
		plan.Discovery = &DiscoveryPlan{
			Prefix: m.HASS.Prefix,
			Retain: m.HASS.Retain,
			Every:  m.HASS.Every,
		}
	}

	return plan, nil
}

// BuildEndpointClient connects to the configured broker.
func BuildEndpointClient(m cfg.MQTTConfig) (*wmqtt.EndpointClient, func() error, error) {
	c, err := wmqtt.NewEndpointClient(wmqtt.Config{
		Broker:   m.Broker,
		Port:     m.Port,
		ClientID: m.ClientID,
		Username: m.Username,
		Password: m.Password,
		Timeout:  time.Duration(m.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}
	return c, c.Close, nil
}

// Build assembles every enabled writer.
// Order: discovery, state, status, metrics.
// reg may be nil when metrics are disabled.
func Build(c *cfg.Config, reg prometheus.Registerer) (Writer, func() error, error) {
	var (
		out     Multi
		closers []func() error
	)

	if c.MQTT.Enabled {
		plan, err := BuildPlan(c.MQTT)
		if err != nil {
			return nil, nil, err
		}

		cli, closeFn, err := BuildEndpointClient(c.MQTT)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, closeFn)

		out = append(out, assemble(plan, cli)...)
	}

	if reg != nil {
		pw, err := NewPrometheusWriter(reg)
		if err != nil {
			closeAll(closers)
			return nil, nil, err
		}
		out = append(out, pw)
	}

	return out, func() error { return closeAll(closers) }, nil
}

// assemble builds the broker writers for plan on top of cli.
func assemble(plan Plan, cli endpointClient) Multi {
	var out Multi
	if dw, ok := NewDiscoveryWriter(plan, cli); ok {
		out = append(out, dw)
	}
	out = append(out, New(plan, cli))
	if sw, ok := NewDeviceStatusWriter(plan, cli); ok {
		out = append(out, sw)
	}
	return out
}

func closeAll(closers []func() error) error {
	var last error
	for _, fn := range closers {
		if err := fn(); err != nil {
			last = err
		}
	}
	return last
}

// internal/poller/builder.go
package poller

import (
	"time"

	"go.uber.org/zap"

	cfg "github.com/tamzrod/am2-bridge/internal/config"
	pmodbus "github.com/tamzrod/am2-bridge/internal/poller/modbus"
)

// Build opens the bus and constructs a Poller for every configured device.
// Expects a validated and normalized config.
// The returned closer releases the bus.
func Build(c *cfg.Config, metrics *Metrics, logger *zap.Logger) (*Poller, func() error, error) {
	s := c.Source

	client, err := pmodbus.New(pmodbus.Config{
		Transport: s.Transport,
		Endpoint:  s.Endpoint,
		UnitID:    uint8(s.Devices[0]),
		BaudRate:  s.BaudRate,
		DataBits:  s.DataBits,
		Parity:    s.Parity,
		StopBits:  s.StopBits,
		Timeout:   time.Duration(s.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	delay := DefaultDelay
	if c.Read.DelayMs != nil {
		delay = time.Duration(*c.Read.DelayMs) * time.Millisecond
	}

	reader := NewReader(ReaderConfig{
		Retries: c.Read.Retries,
		Delay:   delay,
	}, metrics, logger)

	devices := make([]uint8, 0, len(s.Devices))
	for _, d := range s.Devices {
		devices = append(devices, uint8(d))
	}

	p, err := New(
		Config{
			Devices:  devices,
			Interval: time.Duration(c.Poll.IntervalMs) * time.Millisecond,
			Sweep:    s.Sweep,
		},
		client,
		reader,
	)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	return p, client.Close, nil
}

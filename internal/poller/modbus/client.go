// internal/poller/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// Transports.
const (
	TransportRTU = "rtu"
	TransportTCP = "tcp"
)

// Client implements poller.Client on top of goburrow/modbus.
// It serializes requests because it mutates SlaveId per device.
type Client struct {
	mu       sync.Mutex
	client   modbus.Client
	setSlave func(byte)
	close    func() error
}

// Config is minimal transport config.
type Config struct {
	Transport string // rtu | tcp
	Endpoint  string // serial device or host:port
	UnitID    uint8

	// serial only
	BaudRate int
	DataBits int
	Parity   string
	StopBits int

	Timeout time.Duration
}

// New creates a connected Modbus client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbus client: endpoint required")
	}

	switch cfg.Transport {
	case TransportRTU, "":
		h := modbus.NewRTUClientHandler(cfg.Endpoint)
		h.BaudRate = cfg.BaudRate
		h.DataBits = cfg.DataBits
		h.Parity = cfg.Parity
		h.StopBits = cfg.StopBits
		h.SlaveId = cfg.UnitID
		h.Timeout = cfg.Timeout

		if err := h.Connect(); err != nil {
			return nil, fmt.Errorf("modbus client: open %s: %w", cfg.Endpoint, err)
		}
		return &Client{
			client:   modbus.NewClient(h),
			setSlave: func(id byte) { h.SlaveId = id },
			close:    h.Close,
		}, nil

	case TransportTCP:
		h := modbus.NewTCPClientHandler(cfg.Endpoint)
		h.SlaveId = cfg.UnitID
		h.Timeout = cfg.Timeout

		if err := h.Connect(); err != nil {
			return nil, fmt.Errorf("modbus client: dial %s: %w", cfg.Endpoint, err)
		}
		return &Client{
			client:   modbus.NewClient(h),
			setSlave: func(id byte) { h.SlaveId = id },
			close:    h.Close,
		}, nil

	default:
		return nil, fmt.Errorf("modbus client: unknown transport %q", cfg.Transport)
	}
}

// Close releases the serial port or TCP connection.
func (c *Client) Close() error {
	if c == nil || c.close == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.close()
}

// ---- poller.Client interface ----

// SetUnitID selects the device addressed by following reads.
func (c *Client) SetUnitID(id uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setSlave(id)
}

// ReadHoldingRegisters issues FC 3 and unpacks big-endian words.
func (c *Client) ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) {
	if qty == 0 {
		return nil, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := c.client.ReadHoldingRegisters(addr, qty)
	if err != nil {
		return nil, err
	}
	return unpackRegisters(raw)
}

// ---- helpers (pure geometry) ----

func unpackRegisters(data []byte) ([]uint16, error) {
	if len(data)%2 != 0 {
		return nil, errors.New("modbus: register payload length not even")
	}
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out, nil
}

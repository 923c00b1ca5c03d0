// internal/config/normalize.go
package config

import (
	"strings"

	"github.com/google/uuid"
)

// Defaults.
const (
	DefaultTransport   = "rtu"
	DefaultTimeoutMs   = 1000
	DefaultBaudRate    = 9600
	DefaultDataBits    = 8
	DefaultParity      = "N"
	DefaultStopBits    = 1
	DefaultRetries     = 5
	DefaultDelayMs     = 300
	DefaultIntervalMs  = 60_000
	DefaultMQTTPort    = 1883
	DefaultMQTTTimeout = 5000
	DefaultBaseTopic   = "hubble_am2"
	DefaultHASSPrefix  = "homeassistant"
	DefaultHASSEvery   = 15
	DefaultLogLevel    = "info"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	s := &cfg.Source
	if s.Transport == "" {
		s.Transport = DefaultTransport
	}
	if s.TimeoutMs == 0 {
		s.TimeoutMs = DefaultTimeoutMs
	}
	if s.BaudRate == 0 {
		s.BaudRate = DefaultBaudRate
	}
	if s.DataBits == 0 {
		s.DataBits = DefaultDataBits
	}
	if s.Parity == "" {
		s.Parity = DefaultParity
	}
	if s.StopBits == 0 {
		s.StopBits = DefaultStopBits
	}

	// Expand max_address into an explicit device list.
	if len(s.Devices) == 0 {
		last := s.MaxAddress
		if last == 0 {
			last = 1
		}
		for a := 1; a <= last; a++ {
			s.Devices = append(s.Devices, a)
		}
		s.MaxAddress = 0
	}

	if cfg.Read.Retries == 0 {
		cfg.Read.Retries = DefaultRetries
	}
	if cfg.Read.DelayMs == nil {
		d := DefaultDelayMs
		cfg.Read.DelayMs = &d
	}
	if cfg.Poll.IntervalMs == 0 {
		cfg.Poll.IntervalMs = DefaultIntervalMs
	}

	m := &cfg.MQTT
	if m.Port == 0 {
		m.Port = DefaultMQTTPort
	}
	if m.TimeoutMs == 0 {
		m.TimeoutMs = DefaultMQTTTimeout
	}
	if m.BaseTopic == "" {
		m.BaseTopic = DefaultBaseTopic
	}
	if m.ClientID == "" {
		// Brokers drop the older session on a client id clash.
		m.ClientID = "am2bridge-" + uuid.NewString()[:8]
	}
	if m.HASS.Prefix == "" {
		m.HASS.Prefix = DefaultHASSPrefix
	}
	if m.HASS.Every == 0 {
		m.HASS.Every = DefaultHASSEvery
	}

	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}

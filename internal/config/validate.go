// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Station address range (Modbus RTU).
const (
	minStation = 1
	maxStation = 247
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil")
	}

	// ------------------------------------------------------------
	// SOURCE
	// ------------------------------------------------------------

	s := cfg.Source

	switch s.Transport {
	case "", "rtu", "tcp":
	default:
		return fmt.Errorf("source.transport %q: must be rtu or tcp", s.Transport)
	}

	if s.Endpoint == "" {
		return errors.New("source.endpoint is required")
	}
	if s.TimeoutMs < 0 {
		return fmt.Errorf("source.timeout_ms must be >= 0")
	}

	switch s.Parity {
	case "", "N", "E", "O":
	default:
		return fmt.Errorf("source.parity %q: must be N, E or O", s.Parity)
	}
	if s.BaudRate < 0 || s.DataBits < 0 || s.StopBits < 0 {
		return fmt.Errorf("source: serial parameters must be >= 0")
	}

	if len(s.Devices) > 0 && s.MaxAddress != 0 {
		return fmt.Errorf("source: devices and max_address are mutually exclusive")
	}
	if s.MaxAddress < 0 || s.MaxAddress > maxStation {
		return fmt.Errorf("source.max_address %d: must be 0..%d", s.MaxAddress, maxStation)
	}

	seen := make(map[int]bool, len(s.Devices))
	for _, d := range s.Devices {
		if d < minStation || d > maxStation {
			return fmt.Errorf("source.devices: address %d out of range %d..%d", d, minStation, maxStation)
		}
		if seen[d] {
			return fmt.Errorf("source.devices: duplicate address %d", d)
		}
		seen[d] = true
	}

	// ------------------------------------------------------------
	// READ / POLL
	// ------------------------------------------------------------

	if cfg.Read.Retries < 0 {
		return fmt.Errorf("read.retries must be >= 0")
	}
	if cfg.Read.DelayMs != nil && *cfg.Read.DelayMs < 0 {
		return fmt.Errorf("read.delay_ms must be >= 0")
	}
	if cfg.Poll.IntervalMs < 0 {
		return fmt.Errorf("poll.interval_ms must be >= 0")
	}

	// ------------------------------------------------------------
	// MQTT (OPT-IN)
	// ------------------------------------------------------------

	m := cfg.MQTT
	if m.Enabled {
		if m.Broker == "" {
			return fmt.Errorf("mqtt.broker is required when mqtt is enabled")
		}
		if m.Port < 0 || m.Port > 65535 {
			return fmt.Errorf("mqtt.port %d out of range", m.Port)
		}
		if err := validateTopic("mqtt.base_topic", m.BaseTopic); err != nil {
			return err
		}
		if err := validateTopic("mqtt.hass.prefix", m.HASS.Prefix); err != nil {
			return err
		}
		if m.HASS.Every < 0 {
			return fmt.Errorf("mqtt.hass.every must be >= 0")
		}
	} else if m.HASS.Enabled {
		return fmt.Errorf("mqtt.hass requires mqtt.enabled")
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	switch strings.ToLower(cfg.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q: must be debug, info, warn or error", cfg.Log.Level)
	}

	return nil
}

// validateTopic rejects wildcards and leading/trailing separators.
// Empty is allowed (defaulted later).
func validateTopic(field, topic string) error {
	if topic == "" {
		return nil
	}
	if strings.ContainsAny(topic, "+#") {
		return fmt.Errorf("%s %q: wildcards are not allowed", field, topic)
	}
	if strings.HasPrefix(topic, "/") || strings.HasSuffix(topic, "/") {
		return fmt.Errorf("%s %q: must not start or end with '/'", field, topic)
	}
	return nil
}

// internal/config/validate_test.go
package config

import (
	"strings"
	"testing"
)

// helper to build a valid config quickly
func base() *Config {
	return &Config{
		Source: SourceConfig{
			Transport: "rtu",
			Endpoint:  "/dev/ttyUSB0",
		},
	}
}

func intp(v int) *int { return &v }

// ---- tests ----

func TestValidate_Minimal(t *testing.T) {
	if err := Validate(base()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name string
		mut  func(c *Config)
	}{
		{"missing endpoint", func(c *Config) { c.Source.Endpoint = "" }},
		{"bad transport", func(c *Config) { c.Source.Transport = "ascii" }},
		{"bad parity", func(c *Config) { c.Source.Parity = "X" }},
		{"device zero", func(c *Config) { c.Source.Devices = []int{0} }},
		{"device too high", func(c *Config) { c.Source.Devices = []int{248} }},
		{"duplicate device", func(c *Config) { c.Source.Devices = []int{1, 2, 1} }},
		{"devices and max", func(c *Config) { c.Source.Devices = []int{1}; c.Source.MaxAddress = 2 }},
		{"max address too high", func(c *Config) { c.Source.MaxAddress = 250 }},
		{"negative retries", func(c *Config) { c.Read.Retries = -1 }},
		{"negative delay", func(c *Config) { c.Read.DelayMs = intp(-5) }},
		{"negative interval", func(c *Config) { c.Poll.IntervalMs = -1 }},
		{"mqtt without broker", func(c *Config) { c.MQTT.Enabled = true }},
		{"hass without mqtt", func(c *Config) { c.MQTT.HASS.Enabled = true }},
		{"wildcard topic", func(c *Config) {
			c.MQTT.Enabled = true
			c.MQTT.Broker = "localhost"
			c.MQTT.BaseTopic = "am2/#"
		}},
		{"leading slash topic", func(c *Config) {
			c.MQTT.Enabled = true
			c.MQTT.Broker = "localhost"
			c.MQTT.BaseTopic = "/am2"
		}},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base()
			tc.mut(c)
			if err := Validate(c); err == nil {
				t.Fatalf("expected error, got nil")
			}
		})
	}
}

func TestValidate_DoesNotMutate(t *testing.T) {
	c := base()
	c.Source.MaxAddress = 3
	if err := Validate(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Source.Devices) != 0 || c.Read.DelayMs != nil {
		t.Fatalf("Validate mutated config: %+v", c)
	}
}

func TestNormalize_Defaults(t *testing.T) {
	c := base()
	c.Source.Transport = ""
	Normalize(c)

	if c.Source.Transport != "rtu" || c.Source.BaudRate != 9600 || c.Source.Parity != "N" {
		t.Fatalf("serial defaults not applied: %+v", c.Source)
	}
	if len(c.Source.Devices) != 1 || c.Source.Devices[0] != 1 {
		t.Fatalf("expected default device [1], got %v", c.Source.Devices)
	}
	if c.Read.Retries != DefaultRetries || c.Read.DelayMs == nil || *c.Read.DelayMs != DefaultDelayMs {
		t.Fatalf("read defaults not applied: %+v", c.Read)
	}
	if c.Poll.IntervalMs != DefaultIntervalMs {
		t.Fatalf("interval default not applied: %d", c.Poll.IntervalMs)
	}
	if c.MQTT.BaseTopic != "hubble_am2" || c.MQTT.HASS.Prefix != "homeassistant" || c.MQTT.HASS.Every != 15 {
		t.Fatalf("mqtt defaults not applied: %+v", c.MQTT)
	}
	if !strings.HasPrefix(c.MQTT.ClientID, "am2bridge-") {
		t.Fatalf("client id: %q", c.MQTT.ClientID)
	}
	if c.Log.Level != "info" {
		t.Fatalf("log level: %q", c.Log.Level)
	}
}

func TestNormalize_MaxAddressExpands(t *testing.T) {
	c := base()
	c.Source.MaxAddress = 3
	Normalize(c)

	want := []int{1, 2, 3}
	if len(c.Source.Devices) != len(want) {
		t.Fatalf("got %v want %v", c.Source.Devices, want)
	}
	for i := range want {
		if c.Source.Devices[i] != want[i] {
			t.Fatalf("got %v want %v", c.Source.Devices, want)
		}
	}
}

func TestNormalize_ZeroDelayKept(t *testing.T) {
	c := base()
	c.Read.DelayMs = intp(0)
	Normalize(c)
	if *c.Read.DelayMs != 0 {
		t.Fatalf("explicit zero delay overwritten: %d", *c.Read.DelayMs)
	}
}

func TestParse(t *testing.T) {
	doc := []byte(`
source:
  transport: tcp
  endpoint: 192.168.1.50:502
  devices: [1, 2]
read:
  retries: 3
  delay_ms: 0
mqtt:
  enabled: true
  broker: localhost
  hass:
    enabled: true
    retain: true
log:
  level: DEBUG
`)
	c, err := Parse(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := Validate(c); err != nil {
		t.Fatalf("validate: %v", err)
	}
	Normalize(c)

	if c.Source.Transport != "tcp" || len(c.Source.Devices) != 2 {
		t.Fatalf("source: %+v", c.Source)
	}
	if c.Read.Retries != 3 || *c.Read.DelayMs != 0 {
		t.Fatalf("read: %+v", c.Read)
	}
	if !c.MQTT.HASS.Retain || c.MQTT.Port != 1883 {
		t.Fatalf("mqtt: %+v", c.MQTT)
	}
	if c.Log.Level != "debug" {
		t.Fatalf("log level: %q", c.Log.Level)
	}
}

func TestParse_UnknownKey(t *testing.T) {
	if _, err := Parse([]byte("source:\n  endpont: /dev/ttyUSB0\n")); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestParse_Empty(t *testing.T) {
	c, err := Parse(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Source.Endpoint != "" {
		t.Fatalf("expected zero config")
	}
}

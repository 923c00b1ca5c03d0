// internal/config/config.go
package config

type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Read    ReadConfig    `yaml:"read"`
	Poll    PollConfig    `yaml:"poll"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
}

// ---- SOURCE ----

type SourceConfig struct {
	Transport string `yaml:"transport"` // rtu | tcp
	Endpoint  string `yaml:"endpoint"`  // /dev/ttyUSB0 or host:port
	TimeoutMs int    `yaml:"timeout_ms"`

	// serial line
	BaudRate int    `yaml:"baud_rate"`
	DataBits int    `yaml:"data_bits"`
	Parity   string `yaml:"parity"`
	StopBits int    `yaml:"stop_bits"`

	// Devices lists station addresses explicitly.
	// If empty, addresses 1..MaxAddress are used.
	Devices    []int `yaml:"devices"`
	MaxAddress int   `yaml:"max_address"`

	// Sweep reads every hardware register 0..180, including unknown ones.
	Sweep bool `yaml:"sweep"`
}

// ---- READ POLICY ----

type ReadConfig struct {
	Retries int  `yaml:"retries"`
	DelayMs *int `yaml:"delay_ms"` // nil => default, 0 => no delay
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- MQTT ----

type MQTTConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Broker    string `yaml:"broker"`
	Port      int    `yaml:"port"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	ClientID  string `yaml:"client_id"`
	BaseTopic string `yaml:"base_topic"`
	TimeoutMs int    `yaml:"timeout_ms"`

	HASS HASSConfig `yaml:"hass"`
}

// HASSConfig controls Home Assistant discovery.
type HASSConfig struct {
	Enabled bool   `yaml:"enabled"`
	Prefix  string `yaml:"prefix"`
	Retain  bool   `yaml:"retain"`
	Every   int    `yaml:"every"` // re-publish discovery every N cycles
}

// ---- METRICS ----

type MetricsConfig struct {
	Listen string `yaml:"listen"` // empty => disabled
}

// ---- LOG ----

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

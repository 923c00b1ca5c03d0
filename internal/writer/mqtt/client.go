// internal/writer/mqtt/client.go
package mqtt

import (
	"errors"
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// EndpointClient is a single connection to one MQTT broker.
// Publishes are serialized and wait for the broker ack or the timeout.
type EndpointClient struct {
	mu      sync.Mutex
	client  pahomqtt.Client
	timeout time.Duration
}

type Config struct {
	Broker   string
	Port     int
	ClientID string
	Username string
	Password string
	Timeout  time.Duration
}

func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Broker == "" {
		return nil, errors.New("writer mqtt: broker required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Broker, cfg.Port))
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetWriteTimeout(cfg.Timeout)

	c := pahomqtt.NewClient(opts)

	token := c.Connect()
	if !token.WaitTimeout(cfg.Timeout) {
		return nil, fmt.Errorf("writer mqtt: connect to %s:%d timed out", cfg.Broker, cfg.Port)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("writer mqtt: connect: %w", err)
	}

	return &EndpointClient{
		client:  c,
		timeout: cfg.Timeout,
	}, nil
}

func (c *EndpointClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.client.Disconnect(250)
	return nil
}

// Publish sends payload at qos 0.
func (c *EndpointClient) Publish(topic string, payload []byte, retain bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	token := c.client.Publish(topic, 0, retain, payload)
	if !token.WaitTimeout(c.timeout) {
		return fmt.Errorf("writer mqtt: publish %s timed out", topic)
	}
	return token.Error()
}

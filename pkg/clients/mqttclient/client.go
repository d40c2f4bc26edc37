package mqttclient

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/plazacoche/charger-rota/internal/config"
)

const publishTimeout = 10 * time.Second

// pahoClient is the subset of the paho client used here
type pahoClient interface {
	IsConnected() bool
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Client publishes charger plans to the broker the charger controller listens on.
// Messages are retained so a controller that reconnects still sees the current week's plan.
type Client struct {
	client  pahoClient
	qos     byte
	timeout time.Duration
}

// NewClient connects to the configured broker
func NewClient(mqttCfg *config.MQTTConfig) (*Client, error) {
	clientID := mqttCfg.ClientID
	if clientID == "" {
		clientID = "charger-rota"
	}

	opts := mqtt.NewClientOptions().
		AddBroker(mqttCfg.Broker).
		SetClientID(clientID).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)

	if mqttCfg.Username != "" {
		opts.SetUsername(mqttCfg.Username)
		opts.SetPassword(mqttCfg.Password)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to mqtt broker %s: %w", mqttCfg.Broker, token.Error())
	}

	return &Client{client: client, qos: mqttCfg.QoS, timeout: publishTimeout}, nil
}

// Publish sends a retained message and waits for the broker to accept it
func (c *Client) Publish(topic string, payload []byte) error {
	token := c.client.Publish(topic, c.qos, true, payload)
	if !token.WaitTimeout(c.timeout) {
		return fmt.Errorf("timed out publishing to %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// Close disconnects from the broker
func (c *Client) Close() {
	if c.client.IsConnected() {
		c.client.Disconnect(250)
	}
}

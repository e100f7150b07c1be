package mqtt

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Client wraps a paho client for publishing controller commands
type Client struct {
	client  mqtt.Client
	timeout time.Duration
}

// Config holds MQTT client configuration
type Config struct {
	ServerURL      string
	ClientID       string
	ConnectTimeout time.Duration // How long NewClient waits for the broker
	PublishTimeout time.Duration // How long Publish waits for the broker to acknowledge
	MaxRetryDelay  time.Duration // Maximum delay between reconnect attempts
}

// LevelCommand is the payload published to set an output level
type LevelCommand struct {
	ID        int     `json:"id"`
	Level     float64 `json:"level"`
	Timestamp string  `json:"timestamp"`
}

// PressCommand is the payload published to press a keypad button
type PressCommand struct {
	KeypadID  int    `json:"keypad_id"`
	Component int    `json:"component"`
	Timestamp string `json:"timestamp"`
}

// NewClient connects to the broker and waits until the connection is
// established or the connect timeout expires.
func NewClient(config Config) (*Client, error) {
	parsedURL, err := url.Parse(config.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid MQTT server URL: %w", err)
	}

	if parsedURL.Scheme != "mqtt" {
		return nil, fmt.Errorf("MQTT server URL must use mqtt:// scheme")
	}

	connectTimeout := config.ConnectTimeout
	if connectTimeout == 0 {
		connectTimeout = 10 * time.Second
	}
	publishTimeout := config.PublishTimeout
	if publishTimeout == 0 {
		publishTimeout = 5 * time.Second
	}
	maxDelay := config.MaxRetryDelay
	if maxDelay == 0 {
		maxDelay = 30 * time.Second
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.ServerURL)
	opts.SetClientID(config.ClientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(maxDelay)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		log.Printf("MQTT connection lost: %v", err)
	})
	opts.SetOnConnectHandler(func(client mqtt.Client) {
		log.Printf("Connected to MQTT broker at %s", config.ServerURL)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("timed out connecting to MQTT broker at %s", config.ServerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}

	return &Client{client: client, timeout: publishTimeout}, nil
}

// Publish publishes a message and waits for the broker to acknowledge it
func (c *Client) Publish(topic string, qos byte, retained bool, payload interface{}) error {
	if c.client == nil || !c.client.IsConnected() {
		return fmt.Errorf("MQTT client is not connected")
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(c.timeout) {
		return fmt.Errorf("timed out publishing to %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish MQTT message: %w", err)
	}

	return nil
}

// PublishJSON marshals v and publishes it with QoS 1
func (c *Client) PublishJSON(topic string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload to JSON: %w", topic, err)
	}
	return c.Publish(topic, 1, false, payload)
}

// NewLevelCommand builds a LevelCommand stamped with the current time
func NewLevelCommand(id int, level float64) LevelCommand {
	return LevelCommand{ID: id, Level: level, Timestamp: time.Now().Format(time.RFC3339)}
}

// NewPressCommand builds a PressCommand stamped with the current time
func NewPressCommand(keypadID, component int) PressCommand {
	return PressCommand{KeypadID: keypadID, Component: component, Timestamp: time.Now().Format(time.RFC3339)}
}

// IsConnected returns true if the client is connected to the MQTT broker
func (c *Client) IsConnected() bool {
	return c.client != nil && c.client.IsConnected()
}

// Disconnect disconnects from the MQTT broker
func (c *Client) Disconnect(quiesce uint) {
	if c.client != nil && c.client.IsConnected() {
		c.client.Disconnect(quiesce)
		log.Printf("Disconnected from MQTT broker")
	}
}

package controllers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/larsks/lutronctl/internal/devicetree"
	"github.com/larsks/lutronctl/internal/mqtt"
)

const defaultTopicPrefix = "lutron"

// MQTTConfig represents mqtt driver configuration
type MQTTConfig struct {
	ServerURL   string        `mapstructure:"server-url"`
	ClientID    string        `mapstructure:"client-id"`
	TopicPrefix string        `mapstructure:"topic-prefix"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// MQTTFactory implements Factory for controllers reached through an MQTT bridge
type MQTTFactory struct{}

// CreateController connects to the broker and returns a controller that
// publishes commands to it.
func (f *MQTTFactory) CreateController(config map[string]interface{}) (devicetree.Controller, error) {
	cfg, err := f.parseConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mqtt config: %w", err)
	}

	client, err := mqtt.NewClient(mqtt.Config{
		ServerURL:      cfg.ServerURL,
		ClientID:       cfg.ClientID,
		ConnectTimeout: cfg.Timeout,
		PublishTimeout: cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}

	return NewMQTTController(client, cfg.TopicPrefix), nil
}

// ValidateConfig validates mqtt configuration
func (f *MQTTFactory) ValidateConfig(config map[string]interface{}) error {
	_, err := f.parseConfig(config)
	return err
}

func (f *MQTTFactory) parseConfig(config map[string]interface{}) (*MQTTConfig, error) {
	cfg := &MQTTConfig{}
	if err := decodeConfig(config, cfg); err != nil {
		return nil, err
	}
	if cfg.ServerURL == "" {
		return nil, ErrMissingAddress
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "lutronctl"
	}
	if cfg.TopicPrefix == "" {
		cfg.TopicPrefix = defaultTopicPrefix
	}
	return cfg, nil
}

// Publisher is the part of the MQTT client used by MQTTController
type Publisher interface {
	PublishJSON(topic string, v interface{}) error
	Disconnect(quiesce uint)
}

// MQTTController publishes level and press commands for a bridge to
// forward to the controller. A command is acknowledged once the broker
// accepts it.
type MQTTController struct {
	publisher   Publisher
	topicPrefix string
}

// NewMQTTController creates a controller publishing under topicPrefix
func NewMQTTController(publisher Publisher, topicPrefix string) *MQTTController {
	return &MQTTController{
		publisher:   publisher,
		topicPrefix: strings.TrimSuffix(topicPrefix, "/"),
	}
}

// SetOutputLevel publishes to <prefix>/output/<id>/set
func (mc *MQTTController) SetOutputLevel(ctx context.Context, id int, level float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	topic := fmt.Sprintf("%s/output/%d/set", mc.topicPrefix, id)
	return mc.publisher.PublishJSON(topic, mqtt.NewLevelCommand(id, level))
}

// PressButton publishes to <prefix>/keypad/<id>/button/<component>/press
func (mc *MQTTController) PressButton(ctx context.Context, keypadID, component int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	topic := fmt.Sprintf("%s/keypad/%d/button/%d/press", mc.topicPrefix, keypadID, component)
	return mc.publisher.PublishJSON(topic, mqtt.NewPressCommand(keypadID, component))
}

// Close disconnects from the broker
func (mc *MQTTController) Close() error {
	mc.publisher.Disconnect(250)
	return nil
}

func (mc *MQTTController) String() string {
	return fmt.Sprintf("mqtt(%s)", mc.topicPrefix)
}

func init() {
	Register("mqtt", &MQTTFactory{}) //nolint:errcheck
}

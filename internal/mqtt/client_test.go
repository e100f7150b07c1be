package mqtt

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelCommand_MarshalJSON(t *testing.T) {
	cmd := LevelCommand{ID: 12, Level: 50, Timestamp: "2023-01-01T12:00:00Z"}

	data, err := json.Marshal(cmd)
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":12,"level":50,"timestamp":"2023-01-01T12:00:00Z"}`, string(data))
}

func TestPressCommand_MarshalJSON(t *testing.T) {
	cmd := PressCommand{KeypadID: 5, Component: 2, Timestamp: "2023-01-01T12:00:00Z"}

	data, err := json.Marshal(cmd)
	require.NoError(t, err)

	assert.JSONEq(t, `{"keypad_id":5,"component":2,"timestamp":"2023-01-01T12:00:00Z"}`, string(data))
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(Config{ServerURL: "invalid-url"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "MQTT server URL must use mqtt:// scheme")
}

func TestNewClient_WrongScheme(t *testing.T) {
	_, err := NewClient(Config{ServerURL: "http://localhost:1883"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "MQTT server URL must use mqtt:// scheme")
}

func TestPublish_NoClient(t *testing.T) {
	c := &Client{}

	err := c.Publish("lutron/output/1/set", 1, false, []byte("{}"))
	assert.Error(t, err)
	assert.False(t, c.IsConnected())

	// Should not panic when the client was never connected
	c.Disconnect(0)
}

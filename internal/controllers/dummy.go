package controllers

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/larsks/lutronctl/internal/devicetree"
)

// DummyConfig represents dummy driver configuration
type DummyConfig struct {
	// FailIDs lists integration ids whose commands fail with
	// ErrDeviceUnreachable.
	FailIDs []int `mapstructure:"fail-ids"`
}

// DummyFactory implements Factory for dummy controllers
type DummyFactory struct{}

// CreateController creates a new dummy controller
func (f *DummyFactory) CreateController(config map[string]interface{}) (devicetree.Controller, error) {
	cfg := &DummyConfig{}
	if err := decodeConfig(config, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse dummy config: %w", err)
	}
	return NewDummyController(cfg.FailIDs...), nil
}

// ValidateConfig validates dummy configuration
func (f *DummyFactory) ValidateConfig(config map[string]interface{}) error {
	return decodeConfig(config, &DummyConfig{})
}

// Press records a single button press seen by the dummy controller.
type Press struct {
	KeypadID  int
	Component int
}

// DummyController accepts every command and remembers it.
type DummyController struct {
	levels  map[int]float64
	presses []Press
	failIDs map[int]bool
	mutex   sync.RWMutex
}

// NewDummyController creates a dummy controller. Commands addressed to
// any of failIDs fail.
func NewDummyController(failIDs ...int) *DummyController {
	dc := &DummyController{
		levels:  make(map[int]float64),
		failIDs: make(map[int]bool),
	}
	for _, id := range failIDs {
		dc.failIDs[id] = true
	}
	return dc
}

// SetOutputLevel records the level for the output
func (dc *DummyController) SetOutputLevel(ctx context.Context, id int, level float64) error {
	dc.mutex.Lock()
	defer dc.mutex.Unlock()

	if dc.failIDs[id] {
		return fmt.Errorf("%w: output %d", ErrDeviceUnreachable, id)
	}
	log.Printf("dummy: setting output %d to %.2f", id, level)
	dc.levels[id] = level
	return nil
}

// PressButton records the press
func (dc *DummyController) PressButton(ctx context.Context, keypadID, component int) error {
	dc.mutex.Lock()
	defer dc.mutex.Unlock()

	if dc.failIDs[keypadID] {
		return fmt.Errorf("%w: keypad %d", ErrDeviceUnreachable, keypadID)
	}
	log.Printf("dummy: pressing button %d on keypad %d", component, keypadID)
	dc.presses = append(dc.presses, Press{KeypadID: keypadID, Component: component})
	return nil
}

// QueryOutputLevel returns the last level set for the output. Outputs
// that were never set report devicetree.ErrLevelUnknown.
func (dc *DummyController) QueryOutputLevel(ctx context.Context, id int) (float64, error) {
	dc.mutex.RLock()
	defer dc.mutex.RUnlock()

	level, ok := dc.levels[id]
	if !ok {
		return 0, fmt.Errorf("%w: output %d", devicetree.ErrLevelUnknown, id)
	}
	return level, nil
}

// Levels returns a copy of the recorded output levels
func (dc *DummyController) Levels() map[int]float64 {
	dc.mutex.RLock()
	defer dc.mutex.RUnlock()

	levels := make(map[int]float64, len(dc.levels))
	for id, level := range dc.levels {
		levels[id] = level
	}
	return levels
}

// Presses returns the recorded presses in order
func (dc *DummyController) Presses() []Press {
	dc.mutex.RLock()
	defer dc.mutex.RUnlock()
	return append([]Press(nil), dc.presses...)
}

// Close closes the dummy controller (no-op)
func (dc *DummyController) Close() error {
	log.Printf("closing dummy controller")
	return nil
}

func (dc *DummyController) String() string {
	return "dummy controller"
}

func init() {
	Register("dummy", &DummyFactory{}) //nolint:errcheck
}

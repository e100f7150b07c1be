package controllers

import (
	"fmt"
	"sort"
	"sync"

	"github.com/larsks/lutronctl/internal/devicetree"
	"github.com/mitchellh/mapstructure"
)

// Factory creates a controller from configuration
type Factory interface {
	CreateController(config map[string]interface{}) (devicetree.Controller, error)
	ValidateConfig(config map[string]interface{}) error
}

// Registry manages controller factories
type Registry struct {
	drivers map[string]Factory
	mu      sync.RWMutex
}

// NewRegistry creates a new driver registry
func NewRegistry() *Registry {
	return &Registry{
		drivers: make(map[string]Factory),
	}
}

// Register adds a controller factory to the registry
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.drivers[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateDriver, name)
	}

	r.drivers[name] = factory
	return nil
}

func (r *Registry) lookup(driverName string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.drivers[driverName]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driverName)
	}
	return factory, nil
}

// Create creates a controller using the specified driver
func (r *Registry) Create(driverName string, config map[string]interface{}) (devicetree.Controller, error) {
	factory, err := r.lookup(driverName)
	if err != nil {
		return nil, err
	}
	return factory.CreateController(config)
}

// ValidateConfig validates configuration for the specified driver
func (r *Registry) ValidateConfig(driverName string, config map[string]interface{}) error {
	factory, err := r.lookup(driverName)
	if err != nil {
		return err
	}
	return factory.ValidateConfig(config)
}

// ListDrivers returns the names of all registered drivers, sorted
func (r *Registry) ListDrivers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.drivers))
	for name := range r.drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// decodeConfig decodes a driver config map into a tagged struct.
func decodeConfig(config map[string]interface{}, target interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

var defaultRegistry = NewRegistry()

// Register adds a controller factory to the default registry
func Register(name string, factory Factory) error {
	return defaultRegistry.Register(name, factory)
}

// Create creates a controller using the default registry
func Create(driverName string, config map[string]interface{}) (devicetree.Controller, error) {
	return defaultRegistry.Create(driverName, config)
}

// ValidateConfig validates configuration using the default registry
func ValidateConfig(driverName string, config map[string]interface{}) error {
	return defaultRegistry.ValidateConfig(driverName, config)
}

// ListDrivers returns the names of all registered drivers in the default registry
func ListDrivers() []string {
	return defaultRegistry.ListDrivers()
}

package devicetree

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
)

// Output is a dimmer, switch or fan with a level between 0 and 100.
type Output struct {
	id    int
	name  string
	kind  string
	area  *Area
	level float64
	mutex sync.RWMutex
}

func (o *Output) ID() int {
	return o.id
}

func (o *Output) Name() string {
	return o.name
}

func (o *Output) Type() string {
	return o.kind
}

func (o *Output) Area() *Area {
	return o.area
}

// Level returns the last level acknowledged by the controller.
func (o *Output) Level() float64 {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.level
}

// SetLevel sends the new level to the controller and records it once the
// controller has acknowledged it.
func (o *Output) SetLevel(ctx context.Context, level float64) error {
	if !ValidLevel(level) {
		return fmt.Errorf("%w: %g", ErrLevelOutOfRange, level)
	}

	ctl, err := o.area.tree.getController()
	if err != nil {
		return err
	}

	o.mutex.Lock()
	defer o.mutex.Unlock()

	slog.Debug("setting output level", "output", o.name, "id", o.id, "level", level)
	if err := ctl.SetOutputLevel(ctx, o.id, level); err != nil {
		return fmt.Errorf("failed to set level of %q: %w", o.name, err)
	}
	o.level = level
	return nil
}

// ValidLevel reports whether level lies in [MinLevel, MaxLevel]. NaN is
// not a level.
func ValidLevel(level float64) bool {
	return !math.IsNaN(level) && level >= MinLevel && level <= MaxLevel
}

func (o *Output) syncLevel(level float64) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.level = level
}

func (o *Output) String() string {
	return fmt.Sprintf("Output name: %q, level: %.2f, type: %s, id: %d", o.name, o.Level(), o.kind, o.id)
}

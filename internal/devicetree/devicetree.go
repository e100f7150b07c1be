package devicetree

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

const (
	MinLevel = 0.0
	MaxLevel = 100.0
)

type (
	// Device is the capability set shared by keypads, outputs and buttons.
	Device interface {
		Name() string
		Type() string
		String() string
	}

	// Controller is the mutation side of the controller session. Both
	// calls block until the controller acknowledges the command or fails.
	Controller interface {
		SetOutputLevel(ctx context.Context, id int, level float64) error
		PressButton(ctx context.Context, keypadID, component int) error
		Close() error
	}

	// LevelQuerier is implemented by controllers that can report the
	// current level of an output.
	LevelQuerier interface {
		QueryOutputLevel(ctx context.Context, id int) (float64, error)
	}
)

// Tree is the set of areas loaded from the controller's device database.
type Tree struct {
	areas      []*Area
	controller Controller
	mutex      sync.RWMutex
}

// NewTree creates an empty tree with no controller attached.
func NewTree() *Tree {
	return &Tree{}
}

// AddArea appends a new area to the tree.
func (t *Tree) AddArea(name string) *Area {
	area := &Area{name: name, tree: t}
	t.areas = append(t.areas, area)
	return area
}

// Areas returns the areas in load order.
func (t *Tree) Areas() []*Area {
	return t.areas
}

// SetController attaches the controller used by SetLevel and Press.
func (t *Tree) SetController(ctl Controller) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.controller = ctl
}

func (t *Tree) getController() (Controller, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	if t.controller == nil {
		return nil, ErrNoController
	}
	return t.controller, nil
}

// SyncLevels asks the controller for the current level of every output.
// Controllers that cannot report levels leave the loaded levels alone, as
// do outputs whose level the controller reports as ErrLevelUnknown.
func (t *Tree) SyncLevels(ctx context.Context) error {
	ctl, err := t.getController()
	if err != nil {
		return err
	}

	querier, ok := ctl.(LevelQuerier)
	if !ok {
		return nil
	}

	for _, area := range t.areas {
		for _, output := range area.outputs {
			level, err := querier.QueryOutputLevel(ctx, output.id)
			if errors.Is(err, ErrLevelUnknown) {
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to query level of %q: %w", output.name, err)
			}
			if !ValidLevel(level) {
				return fmt.Errorf("%w: %q reported %g", ErrLevelOutOfRange, output.name, level)
			}
			output.syncLevel(level)
		}
	}
	return nil
}

// String returns a summary of the tree
func (t *Tree) String() string {
	var keypads, outputs int
	for _, area := range t.areas {
		keypads += len(area.keypads)
		outputs += len(area.outputs)
	}
	return fmt.Sprintf("%d areas, %d keypads, %d outputs", len(t.areas), keypads, outputs)
}

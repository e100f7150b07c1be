package devicetree

import "errors"

var (
	ErrNoController    = errors.New("no controller attached to device tree")
	ErrLevelOutOfRange = errors.New("level must be between 0 and 100")
	ErrLevelUnknown    = errors.New("level not known to controller")
)

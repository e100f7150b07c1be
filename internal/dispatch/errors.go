package dispatch

import "errors"

var (
	ErrAborted           = errors.New("dispatch aborted")
	ErrUnsupportedDevice = errors.New("action not supported by device")
)

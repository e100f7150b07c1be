package shell

import (
	"errors"
	"fmt"
)

// ErrExit is returned by Execute when the user asks to leave the shell.
var ErrExit = errors.New("exit requested")

// UsageError reports a malformed command line.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

func usageErrorf(format string, args ...any) error {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

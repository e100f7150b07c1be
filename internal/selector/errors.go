package selector

import (
	"errors"
	"fmt"
)

// ErrBadPattern is matched by every *BadPatternError.
var ErrBadPattern = errors.New("bad match pattern")

// BadPatternError reports a pattern that is not a valid regular expression.
type BadPatternError struct {
	Pattern string
	Err     error
}

func (e *BadPatternError) Error() string {
	return fmt.Sprintf("%v %q: %v", ErrBadPattern, e.Pattern, e.Err)
}

func (e *BadPatternError) Unwrap() []error {
	return []error{ErrBadPattern, e.Err}
}

package lutronctl

import "errors"

var ErrInvalidConfig = errors.New("invalid configuration")

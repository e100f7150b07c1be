package controllers

import "errors"

// Registry errors
var (
	ErrUnknownDriver   = errors.New("unknown driver")
	ErrDuplicateDriver = errors.New("driver already registered")
	ErrInvalidConfig   = errors.New("invalid driver configuration")
)

// Controller errors
var (
	ErrMissingAddress    = errors.New("controller address must be set")
	ErrNotConnected      = errors.New("not connected to controller")
	ErrLoginFailed       = errors.New("controller login failed")
	ErrCommandRejected   = errors.New("controller rejected command")
	ErrUnexpectedReply   = errors.New("unexpected reply from controller")
	ErrDeviceUnreachable = errors.New("device unreachable")
)

package errors

import "errors"

var (
	// ErrNotFound is the sentinel for a lookup by id that resolved nothing.
	// Business-rule rejections are not errors; see services.Response.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
)

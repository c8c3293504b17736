package models

import "errors"

var (
	// ErrNotFound means the resolved input file does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput covers bad row counts, bad lengths, malformed dates and unsafe paths.
	ErrInvalidInput = errors.New("invalid input")
	// ErrIO is any read or write failure that is not a missing input.
	ErrIO = errors.New("io failure")
)

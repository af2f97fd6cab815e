package model

import "errors"

var (
	// ErrNotFound is returned when a ledger file is missing.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when creating a ledger over an existing file.
	ErrAlreadyExists = errors.New("already exists")
	// ErrIO wraps read, write and commit failures of the underlying store.
	ErrIO = errors.New("i/o error")
	// ErrInvalidArgument marks bad operator input.
	ErrInvalidArgument = errors.New("invalid argument")
)

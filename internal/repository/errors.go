package repository

import "errors"

// Common repository errors
var (
	ErrNotFound        = errors.New("record not found")
	ErrIndexOutOfRange = errors.New("attachment index out of range")
)

package model

import "errors"

var (
	ErrValidation     = errors.New("validation failed")
	ErrMalformedInput = errors.New("malformed input")
	ErrNotFound       = errors.New("not found")
	ErrPersistence    = errors.New("persistence failure")
	ErrUpstream       = errors.New("upstream service failure")
)

package services

import "errors"

// Error kinds surfaced by the services. Handlers map these onto HTTP codes;
// bulk certificate operations report them per item.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrConcurrentOperation = errors.New("operation already in flight")
	ErrUpstreamUnavailable = errors.New("record store unavailable")
)

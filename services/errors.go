package services

import "errors"

// Sentinel errors controllers map onto HTTP statuses. Anything else is a 500.
// Upstream failures (USDA, Gemini) are absorbed inside the services and never
// reach the caller as request failures.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

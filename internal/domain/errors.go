package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no candidate could be resolved for a food name
	ErrNotFound = errors.New("no nutrition data found")

	// ErrUpstreamFailure is returned when the external nutrition search itself fails
	ErrUpstreamFailure = errors.New("nutrition search request failed")

	// ErrInvalidInput is returned when request parameters are malformed
	ErrInvalidInput = errors.New("invalid request parameters")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)

// ValidationError names the input field that was rejected
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidInput, e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidInput
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

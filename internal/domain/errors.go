// Package domain provides error values shared across domain and service layers.
package domain

import "errors"

// Domain errors.
var (
	// ErrNotFound indicates a requested resource was not found.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a validation error.
	ErrValidation = errors.New("validation error")

	// ErrConflict indicates a conflict with existing data.
	ErrConflict = errors.New("conflict")

	// ErrRateLimited indicates the caller exceeded the hourly request allowance.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrQuotaExceeded indicates the account's monthly generation quota is spent.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrBusy indicates the generation gate is at capacity.
	ErrBusy = errors.New("server busy")

	// ErrUnavailable indicates a required upstream provider is not configured
	// or not reachable.
	ErrUnavailable = errors.New("service unavailable")
)

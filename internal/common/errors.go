// Package common defines shared sentinel errors used across ProConnect
// client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Transport-level failures (connection refused, DNS, timeout).
	ErrUnavailable = errors.New("server unavailable")

	// Session expiry / rejected credentials. The API client raises this for
	// a 401 status or an error body whose message mentions the token.
	ErrUnauthorized = errors.New("unauthorized")

	// Validation errors caught before any network call.
	ErrValidation = errors.New("validation error")

	// Local persistence errors.
	ErrNoSavedState = errors.New("no saved state")
)

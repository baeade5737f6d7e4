// Package common defines shared constants and sentinel errors used across
// the gallery client and the token server. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Storage errors. A backend that cannot be opened degrades to memory
	// and logs ErrBackendUnavailable; ingestion and resolution failures are
	// reported per file / per record.
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrIngestionFailed    = errors.New("ingestion failed")
	ErrResolutionFailed   = errors.New("resolution failed")

	// Session errors.
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrAlreadyExists     = errors.New("user already exists")
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrInvalidInput      = errors.New("email and password are required")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)

package api

import (
	"errors"
	"fmt"
)

// The error taxonomy is a closed set so callers branch on kind, never on
// message text.
var (
	// ErrSessionExpired means the preflight check found the credential
	// missing or past its grace-adjusted expiry. The guard has already
	// cleared the session and redirected; callers treat this as handled
	// and show nothing.
	ErrSessionExpired = errors.New("session expired")

	// ErrUnauthorized means the server rejected the credential with a 401.
	// Handled the same way as ErrSessionExpired: centrally, silently.
	ErrUnauthorized = errors.New("unauthorized")
)

// NetworkError wraps a transport-level failure (no response at all).
// Surfaced to the user as a generic retry prompt; local state is kept.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError carries the server's message field for a rejected write
// (duplicate email, bad reset token, ...). Shown to the user verbatim.
type ValidationError struct {
	Status  int
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

package schemas

import "errors"

// Failure taxonomy. Executors and the verifier return these narrow
// sentinels (wrapped with context); the dispatcher is the single place
// that translates them into caller-facing messages.
var (
	// ErrValidation marks a malformed action request. Surfaced
	// immediately, never retried.
	ErrValidation = errors.New("invalid action request")

	// ErrDecode marks a credential blob that could not be decoded.
	// Callers must treat it identically to "no valid session".
	ErrDecode = errors.New("credential decode failed")

	// ErrAuth marks a failed session establishment.
	ErrAuth = errors.New("invalid or expired credentials")

	// ErrElementNotFound marks an exhausted selector candidate list.
	ErrElementNotFound = errors.New("element not found")

	// ErrNavigation marks a navigation timeout or network failure.
	// Safe to retry manually.
	ErrNavigation = errors.New("navigation failed")
)

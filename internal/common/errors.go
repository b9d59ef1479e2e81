// Package common defines shared constants and sentinel errors used across
// filevault components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// ErrVaultLocked is returned whenever a file operation is attempted
	// outside the unlocked phase; the backing store is never reached in
	// that case.
	ErrVaultLocked = errors.New("vault locked")

	// ErrResetNotVerified marks a protocol-order violation: completing a
	// password reset without a prior successful answer verification.
	ErrResetNotVerified = errors.New("reset not verified")

	// State-machine errors.
	ErrInvalidPhase     = errors.New("operation not allowed in current phase")
	ErrProfileNotLoaded = errors.New("profile not loaded")
)

package application

import "errors"

var (
	// ErrValidation marks malformed or missing caller input; no state was changed.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateIdentity marks an email or username uniqueness violation.
	ErrDuplicateIdentity = errors.New("identity already taken")
	// ErrAccountNotFound is surfaced distinctly from bad credentials so the
	// HTTP layer can mirror the original status split (404 vs 403).
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidCredentials covers both wrong passwords and hash-layer
	// failures; the two are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken marks a bearer or one-time token with no match.
	ErrInvalidToken = errors.New("invalid token")
	// ErrAlreadyConfirmed rejects re-confirmation of an active account.
	ErrAlreadyConfirmed = errors.New("account already confirmed")
	// ErrAccountDisabled rejects authentication for unconfirmed or
	// deactivated accounts.
	ErrAccountDisabled = errors.New("account disabled")
	// ErrPermissionDenied is the authorization engine's deny, mapped at the
	// HTTP boundary.
	ErrPermissionDenied = errors.New("permission denied")
)

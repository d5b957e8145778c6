// Package repository defines the persistence boundary of the domain.
// Implementations live under internal/infrastructure.
package repository

import "errors"

var (
	// ErrNotFound is returned when no record matches.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned on uniqueness violations (email, username, token).
	ErrConflict = errors.New("conflict")
)

package permissions

import (
	"errors"
	"fmt"
)

// Sentinels for the two failure kinds the resolver can produce. Callers
// match with errors.Is; the concrete types below carry the identifiers.
var (
	ErrRoleNotFound = errors.New("role not found")
	ErrInvalidInput = errors.New("invalid input")
)

// RoleNotFoundError reports a role referenced by a member or an overwrite
// that has no entry in the supplied role grants. It signals stale or
// mismatched caller data, never a recoverable condition.
type RoleNotFoundError struct {
	RoleID int64
	UserID int64
}

func (e *RoleNotFoundError) Error() string {
	if e.UserID != 0 {
		return fmt.Sprintf("member %d holds role %d but it was not supplied", e.UserID, e.RoleID)
	}
	return fmt.Sprintf("role %d was not supplied", e.RoleID)
}

func (e *RoleNotFoundError) Unwrap() error { return ErrRoleNotFound }

// InvalidInputError reports malformed construction arguments, detected
// eagerly when the resolver is built.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string { return "invalid resolver input: " + e.Reason }

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

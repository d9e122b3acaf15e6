package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDate indicates that a day identifier is not a YYYY-MM-DD calendar date.
	ErrInvalidDate = errors.New("invalid date")
	// ErrUnauthenticated indicates that the caller has no valid session.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrNotFound indicates that the entity does not exist or is not owned by
	// the caller. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")
	// ErrGoalNotFound indicates that a user has no Goal row. Goals are created
	// at sign-in, so this is a provisioning bug.
	ErrGoalNotFound = errors.New("goal not found")
	// ErrExternalLookup indicates that the product-data service was
	// unreachable or answered with data that failed validation.
	ErrExternalLookup = errors.New("external product lookup failed")
	// ErrDataIntegrity indicates stored rows that violate a model invariant,
	// such as a diary entry whose food item is gone.
	ErrDataIntegrity = errors.New("data integrity violation")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Invalid returns a *ValidationError for field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound                 = errors.New("not found")
	ErrValidation               = errors.New("validation failed")
	ErrInvalidStateTransition   = errors.New("invalid state transition")
	ErrDuplicateMilestoneBudget = errors.New("milestone already has a budget")
	ErrActiveFundReleaseExists  = errors.New("milestone already has an active fund release request")
	ErrDuplicateTransfer        = errors.New("fund release request already has a scheduled transfer")
	ErrInvalidResource          = errors.New("invalid resource")
	ErrInsufficientFunds        = errors.New("insufficient donations")
	ErrForbidden                = errors.New("forbidden")
)

// NotFoundError names the entity that could not be resolved.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError is returned before any write when input is unusable.
// Kind lets callers match more specific sentinels such as ErrDuplicateMilestoneBudget.
type ValidationError struct {
	Field  string
	Reason string
	Kind   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation || (e.Kind != nil && target == e.Kind)
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func InvalidKind(kind error, field, reason string) error {
	return &ValidationError{Field: field, Reason: reason, Kind: kind}
}

// TransitionError reports an action that is not allowed from the current state.
type TransitionError struct {
	Entity string
	From   string
	Action string
}

func (e *TransitionError) Error() string {
	from := e.From
	if from == "" {
		from = "undefined"
	}
	return fmt.Sprintf("cannot %s %s in state %q", e.Action, e.Entity, from)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidStateTransition }

// InvalidResourceError reports a resource line item that cannot be priced.
type InvalidResourceError struct {
	ResourceID string
	Reason     string
}

func (e *InvalidResourceError) Error() string {
	return fmt.Sprintf("resource %q: %s", e.ResourceID, e.Reason)
}

func (e *InvalidResourceError) Is(target error) bool {
	return target == ErrInvalidResource || target == ErrValidation
}

package domain

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates input rejected before any store call.
	ErrValidation = errors.New("validation failed")

	// ErrReadOnly indicates the plan cannot be edited by the current actor.
	ErrReadOnly = errors.New("planning is read-only")

	// ErrNotPermitted indicates the actor's role does not allow the action.
	ErrNotPermitted = errors.New("action not permitted for role")

	// ErrInvalidTransition indicates a lifecycle transition that the state machine rejects.
	ErrInvalidTransition = errors.New("invalid status transition")
)

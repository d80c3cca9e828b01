package appointment

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("appointment not found")
	ErrForbidden         = errors.New("not allowed on this appointment")
	ErrInvalidTransition = errors.New("status change not legal from current state")
	ErrArtifactsMissing  = errors.New("images and pdf report required before finish")
	ErrWorkshopInactive  = errors.New("workshop is not active")
)

// ValidationError carries field-level messages surfaced to the client as
// `errors: string[]`.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Messages)
}

func validationErr(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// SlotConflictError is returned when the requested time is no longer free.
// It carries the fresh unavailable-slot list so the client can redisplay
// choices without a second round trip.
type SlotConflictError struct {
	UnavailableTimes []string
}

func (e *SlotConflictError) Error() string {
	return "requested time slot is no longer available"
}

package domain

import (
	"errors"
	"fmt"
	"strings"
)

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending    BookingStatus = "PENDING"
	StatusConfirmed  BookingStatus = "CONFIRMED"
	StatusInProgress BookingStatus = "IN_PROGRESS"
	StatusCompleted  BookingStatus = "COMPLETED"
	StatusPaid       BookingStatus = "PAID"
	StatusCancelled  BookingStatus = "CANCELLED"
)

var (
	// ErrUnknownStatus is returned when a string does not name a booking status.
	ErrUnknownStatus = errors.New("unknown booking status")

	// ErrInvalidTransition is returned when the transition table forbids a status change.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// validTransitions is the complete booking state machine. A transition that
// is not listed here is rejected.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {StatusPaid},
	StatusPaid:       {},
	StatusCancelled:  {},
}

// AllStatuses lists every booking status in lifecycle order.
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusPaid,
	StatusCancelled,
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransitionTo returns true if the state machine allows s -> target.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible.
func (s BookingStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// AllowedTransitions returns a copy of the statuses reachable from s.
func (s BookingStatus) AllowedTransitions() []BookingStatus {
	allowed := validTransitions[s]
	out := make([]BookingStatus, len(allowed))
	copy(out, allowed)
	return out
}

// ValidateTransition returns an *InvalidTransitionError when s -> target is not allowed.
func (s BookingStatus) ValidateTransition(target BookingStatus) error {
	if !s.CanTransitionTo(target) {
		return &InvalidTransitionError{From: s, To: target}
	}
	return nil
}

func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts user input (case-insensitive) into a BookingStatus.
func ParseBookingStatus(raw string) (BookingStatus, error) {
	status := BookingStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return status, nil
}

// InvalidTransitionError names the rejected transition.
type InvalidTransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

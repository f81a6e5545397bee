package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownStatus is returned when a status string is not part of the kind's vocabulary
var ErrUnknownStatus = errors.New("unknown booking status")

// Status is the canonical booking status. Exactly one value at any time.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ServiceStatusAccepted is how service bookings name StatusConfirmed
const ServiceStatusAccepted = "accepted"

// AllStatuses lists every canonical status
var AllStatuses = []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

// IsTerminal returns true for statuses without outgoing edges
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsOpen returns true while the booking may still be cancelled or rescheduled
func (s Status) IsOpen() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Valid reports whether s is a canonical status
func (s Status) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Label translates the canonical status into the vocabulary of the given kind
func (s Status) Label(kind BookingKind) string {
	if kind == KindService && s == StatusConfirmed {
		return ServiceStatusAccepted
	}
	return string(s)
}

// ParseStatus translates a boundary status string into the canonical status.
// Session bookings accept pending/confirmed/completed/cancelled,
// service bookings accept pending/accepted/completed/cancelled.
// An empty kind accepts both vocabularies.
func ParseStatus(kind BookingKind, raw string) (Status, error) {
	switch raw {
	case string(StatusPending), string(StatusCompleted), string(StatusCancelled):
		return Status(raw), nil
	case string(StatusConfirmed):
		if kind == KindService {
			return "", fmt.Errorf("%w: %q is not a service booking status, use %q", ErrUnknownStatus, raw, ServiceStatusAccepted)
		}
		return StatusConfirmed, nil
	case ServiceStatusAccepted:
		if kind == KindSession {
			return "", fmt.Errorf("%w: %q is not a session booking status, use %q", ErrUnknownStatus, raw, StatusConfirmed)
		}
		return StatusConfirmed, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
}

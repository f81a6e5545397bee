package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ConsultBooking/pkg/types"
)

// BookingKind distinguishes consultation sessions from service bookings.
// Both share one shape; service bookings use a different status vocabulary at the boundary.
type BookingKind string

const (
	KindSession BookingKind = "session"
	KindService BookingKind = "service"
)

// Valid reports whether k is a known booking kind
func (k BookingKind) Valid() bool {
	return k == KindSession || k == KindService
}

// Booking represents a seeker's booking with a consultant
type Booking struct {
	ID           uuid.UUID
	Kind         BookingKind
	SeekerID     int64
	ConsultantID int64
	ServiceID    *int64 // set for service bookings only

	// SessionDate is the calendar date of the session. When its time of day is
	// midnight, StartTime supplies the hour and minute (see eligibility.SessionDateTime).
	// Stores keep only the date part, see CalendarDate.
	SessionDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          Status

	TotalAmount     decimal.Decimal
	AdvanceAmount   decimal.Decimal
	RemainingAmount decimal.Decimal

	Notes              *string
	CancellationReason *string
	CancelledAt        *time.Time
	CancelledBy        *ActorRole

	// Version is incremented by the store on every write
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking has not reached a terminal state
func (b *Booking) IsActive() bool {
	return !b.Status.IsTerminal()
}

// IsParty returns true if userID takes part in the booking under the given role
func (b *Booking) IsParty(userID int64, role ActorRole) bool {
	switch role {
	case RoleSeeker:
		return b.SeekerID == userID
	case RoleConsultant:
		return b.ConsultantID == userID
	default:
		return false
	}
}

// StatusLabel returns the status as spoken by the booking's kind
func (b *Booking) StatusLabel() string {
	return b.Status.Label(b.Kind)
}

// CalendarDate returns the date t falls on in its own location, as midnight UTC.
// Session dates pass through it before validation and at every store boundary.
func CalendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// BookingFilter filter for listing bookings of one party
type BookingFilter struct {
	SeekerID     *int64
	ConsultantID *int64
	Status       *Status
	Kind         *BookingKind
}

// Rating is a seeker's review of a completed booking
type Rating struct {
	BookingID    uuid.UUID
	SeekerID     int64
	ConsultantID int64
	Score        int
	Comment      *string
	CreatedAt    time.Time
}

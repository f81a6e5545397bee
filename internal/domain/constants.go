package domain

import "time"

// CancellationWindow is how long before the session cancellation and rescheduling close.
// Fixed for every consultant and service.
const CancellationWindow = 24 * time.Hour

// Default configuration values
const (
	DefaultSessionDurationMinutes  = 60
	DefaultAdvanceBookingDays      = 0  // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 60 // 1 hour
)

// Business validation constants
const (
	MinSessionDurationMinutes   = 15
	MaxSessionDurationMinutes   = 480 // 8 hours
	MinAdvanceBookingDays       = 0
	MaxAdvanceBookingDays       = 365 // 1 year
	MinBookingNoticeMinutes     = 0
	MaxBookingNoticeMinutes     = 10080 // 1 week
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxReviewCommentLength      = 1000
	MinRatingScore              = 1
	MaxRatingScore              = 5
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// OpenStatuses statuses from which cancel and reschedule are possible
var OpenStatuses = []Status{StatusPending, StatusConfirmed}

// TerminalStatuses statuses without outgoing transitions
var TerminalStatuses = []Status{StatusCompleted, StatusCancelled}

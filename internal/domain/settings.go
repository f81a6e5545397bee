package domain

import "time"

// ConsultantSettings booking window settings of a consultant.
// They apply to booking creation only and are never consulted by the cancellation rule.
type ConsultantSettings struct {
	ConsultantID            int64
	MinBookingNoticeMinutes int
	AdvanceBookingDays      int // 0 = unlimited
	DefaultDurationMinutes  int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// DefaultConsultantSettings returns the settings used when a consultant has none stored
func DefaultConsultantSettings(consultantID int64) *ConsultantSettings {
	return &ConsultantSettings{
		ConsultantID:            consultantID,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
		DefaultDurationMinutes:  DefaultSessionDurationMinutes,
	}
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (s *ConsultantSettings) HasAdvanceBookingLimit() bool {
	return s.AdvanceBookingDays > 0
}

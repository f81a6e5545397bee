package kvstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	"github.com/m04kA/SMC-ConsultBooking/pkg/types"
)

// bookingRecord JSON-представление бронирования в Redis
type bookingRecord struct {
	ID                 uuid.UUID          `json:"id"`
	Kind               domain.BookingKind `json:"kind"`
	SeekerID           int64              `json:"seekerId"`
	ConsultantID       int64              `json:"consultantId"`
	ServiceID          *int64             `json:"serviceId,omitempty"`
	SessionDate        time.Time          `json:"sessionDate"`
	StartTime          types.TimeString   `json:"startTime"`
	DurationMinutes    int                `json:"durationMinutes"`
	Status             domain.Status      `json:"status"`
	TotalAmount        decimal.Decimal    `json:"totalAmount"`
	AdvanceAmount      decimal.Decimal    `json:"advanceAmount"`
	RemainingAmount    decimal.Decimal    `json:"remainingAmount"`
	Notes              *string            `json:"notes,omitempty"`
	CancellationReason *string            `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time         `json:"cancelledAt,omitempty"`
	CancelledBy        *domain.ActorRole  `json:"cancelledBy,omitempty"`
	Version            int64              `json:"version"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

func toBookingRecord(b *domain.Booking) bookingRecord {
	return bookingRecord{
		ID:                 b.ID,
		Kind:               b.Kind,
		SeekerID:           b.SeekerID,
		ConsultantID:       b.ConsultantID,
		ServiceID:          b.ServiceID,
		SessionDate:        domain.CalendarDate(b.SessionDate),
		StartTime:          b.StartTime,
		DurationMinutes:    b.DurationMinutes,
		Status:             b.Status,
		TotalAmount:        b.TotalAmount,
		AdvanceAmount:      b.AdvanceAmount,
		RemainingAmount:    b.RemainingAmount,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		CancelledBy:        b.CancelledBy,
		Version:            b.Version,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func (r bookingRecord) toDomain() *domain.Booking {
	return &domain.Booking{
		ID:                 r.ID,
		Kind:               r.Kind,
		SeekerID:           r.SeekerID,
		ConsultantID:       r.ConsultantID,
		ServiceID:          r.ServiceID,
		SessionDate:        domain.CalendarDate(r.SessionDate),
		StartTime:          r.StartTime,
		DurationMinutes:    r.DurationMinutes,
		Status:             r.Status,
		TotalAmount:        r.TotalAmount,
		AdvanceAmount:      r.AdvanceAmount,
		RemainingAmount:    r.RemainingAmount,
		Notes:              r.Notes,
		CancellationReason: r.CancellationReason,
		CancelledAt:        r.CancelledAt,
		CancelledBy:        r.CancelledBy,
		Version:            r.Version,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

type ratingRecord struct {
	BookingID    uuid.UUID `json:"bookingId"`
	SeekerID     int64     `json:"seekerId"`
	ConsultantID int64     `json:"consultantId"`
	Score        int       `json:"score"`
	Comment      *string   `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type settingsRecord struct {
	ConsultantID            int64     `json:"consultantId"`
	MinBookingNoticeMinutes int       `json:"minBookingNoticeMinutes"`
	AdvanceBookingDays      int       `json:"advanceBookingDays"`
	DefaultDurationMinutes  int       `json:"defaultDurationMinutes"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

package models

import (
	"time"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	"github.com/m04kA/SMC-ConsultBooking/internal/eligibility"
)

// Request модели

// Actor пользователь, выполняющий действие, и его роль в бронировании
type Actor struct {
	UserID int64
	Role   domain.ActorRole
}

// ListBookingsRequest запрос на получение бронирований стороны
type ListBookingsRequest struct {
	Actor   Actor
	OwnerID int64   // пользователь из URL, чьи бронирования запрашиваются
	Status  *string // в словаре вида бронирования (accepted для услуг)
	Kind    *string
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Actor              Actor
	CancellationReason *string
}

// RescheduleBookingRequest запрос на перенос сессии
type RescheduleBookingRequest struct {
	Actor       Actor
	SessionDate string // "2025-10-20" или RFC3339
	StartTime   string // "14:00"
}

// ReviewBookingRequest запрос на отзыв о завершенной сессии
type ReviewBookingRequest struct {
	Actor   Actor
	Score   int
	Comment *string
}

// Response модели

// BookingResponse ответ с данными бронирования и доступными действиями
type BookingResponse struct {
	ID              string  `json:"id"`
	Kind            string  `json:"kind"`
	SeekerID        int64   `json:"seekerId"`
	ConsultantID    int64   `json:"consultantId"`
	ServiceID       *int64  `json:"serviceId,omitempty"`
	SessionDate     string  `json:"sessionDate"` // "2025-10-20"
	StartTime       string  `json:"startTime"`   // "14:00"
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	TotalAmount     string  `json:"totalAmount"`
	AdvanceAmount   string  `json:"advanceAmount"`
	RemainingAmount string  `json:"remainingAmount"`
	Notes           *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format
	CancelledBy        *string `json:"cancelledBy,omitempty"`

	CanCancel            bool     `json:"canCancel"`
	CancellationDeadline *string  `json:"cancellationDeadline,omitempty"`
	Actions              []string `json:"actions"`
	Reviewed             bool     `json:"reviewed"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// ReviewResponse ответ с сохраненным отзывом
type ReviewResponse struct {
	BookingID string    `json:"bookingId"`
	Score     int       `json:"score"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// RatingSummaryResponse сводка отзывов о консультанте
type RatingSummaryResponse struct {
	ConsultantID int64   `json:"consultantId"`
	Average      float64 `json:"average"` // 0, если отзывов нет
	Count        int     `json:"count"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO на момент now
func FromDomainBooking(b *domain.Booking, now time.Time, reviewed bool, actions []domain.Action) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID.String(),
		Kind:               string(b.Kind),
		SeekerID:           b.SeekerID,
		ConsultantID:       b.ConsultantID,
		ServiceID:          b.ServiceID,
		SessionDate:        b.SessionDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		DurationMinutes:    b.DurationMinutes,
		Status:             b.StatusLabel(),
		TotalAmount:        b.TotalAmount.StringFixed(domain.MoneyScale),
		AdvanceAmount:      b.AdvanceAmount.StringFixed(domain.MoneyScale),
		RemainingAmount:    b.RemainingAmount.StringFixed(domain.MoneyScale),
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CanCancel:          eligibility.CanCancel(b, now),
		Reviewed:           reviewed,
		Version:            b.Version,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}
	if b.CancelledBy != nil {
		by := string(*b.CancelledBy)
		resp.CancelledBy = &by
	}

	if b.Status.IsOpen() {
		if deadline, err := eligibility.CancellationDeadline(b); err == nil {
			deadlineStr := deadline.Format(time.RFC3339)
			resp.CancellationDeadline = &deadlineStr
		}
	}

	resp.Actions = make([]string, len(actions))
	for i, a := range actions {
		resp.Actions[i] = string(a)
	}

	return resp
}

// FromReview конвертирует отзыв в DTO
func FromReview(r *domain.Rating) *ReviewResponse {
	return &ReviewResponse{
		BookingID: r.BookingID.String(),
		Score:     r.Score,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

// ParseSessionDate разбирает дату сессии: "2006-01-02" или RFC3339.
// Берется только календарная дата в смещении клиента; время задает startTime.
func ParseSessionDate(s string) (time.Time, error) {
	t, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, err
		}
	}
	return domain.CalendarDate(t), nil
}

package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-ConsultBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-ConsultBooking/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid session date")
	errInvalidTime = errors.New("invalid start time")
)

// CreateBookingRequest HTTP request model
// Суммы принимаются строкой или числом ("1500.00" или 1500)
type CreateBookingRequest struct {
	ConsultantID    int64            `json:"consultantId"`
	Kind            string           `json:"kind"` // session или service
	ServiceID       *int64           `json:"serviceId,omitempty"`
	SessionDate     string           `json:"sessionDate"` // "2025-10-20"
	StartTime       string           `json:"startTime"`   // "14:00"
	DurationMinutes *int             `json:"durationMinutes,omitempty"`
	TotalAmount     decimal.Decimal  `json:"totalAmount"`
	AdvanceAmount   decimal.Decimal  `json:"advanceAmount"`
	RemainingAmount *decimal.Decimal `json:"remainingAmount,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              string  `json:"id"`
	Kind            string  `json:"kind"`
	SeekerID        int64   `json:"seekerId"`
	ConsultantID    int64   `json:"consultantId"`
	ServiceID       *int64  `json:"serviceId,omitempty"`
	SessionDate     string  `json:"sessionDate"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	TotalAmount     string  `json:"totalAmount"`
	AdvanceAmount   string  `json:"advanceAmount"`
	RemainingAmount string  `json:"remainingAmount"`
	Notes           *string `json:"notes,omitempty"`
	Version         int64   `json:"version"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(seekerID int64) (*createBooking.Request, error) {
	sessionDate, err := time.Parse(domain.DateFormat, r.SessionDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	startTime, err := types.ParseTimeString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	return &createBooking.Request{
		SeekerID:        seekerID,
		ConsultantID:    r.ConsultantID,
		Kind:            domain.BookingKind(r.Kind),
		ServiceID:       r.ServiceID,
		Date:            sessionDate,
		StartTime:       startTime,
		DurationMinutes: r.DurationMinutes,
		TotalAmount:     r.TotalAmount,
		AdvanceAmount:   r.AdvanceAmount,
		RemainingAmount: r.RemainingAmount,
		Notes:           r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		Kind:            resp.Kind,
		SeekerID:        resp.SeekerID,
		ConsultantID:    resp.ConsultantID,
		ServiceID:       resp.ServiceID,
		SessionDate:     resp.SessionDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		TotalAmount:     resp.TotalAmount.StringFixed(domain.MoneyScale),
		AdvanceAmount:   resp.AdvanceAmount.StringFixed(domain.MoneyScale),
		RemainingAmount: resp.RemainingAmount.StringFixed(domain.MoneyScale),
		Notes:           resp.Notes,
		Version:         resp.Version,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}

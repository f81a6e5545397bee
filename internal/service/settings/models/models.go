package models

import (
	"time"

	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
)

// UpdateSettingsRequest запрос на изменение настроек; nil поля не меняются
type UpdateSettingsRequest struct {
	UserID                  int64
	Role                    domain.ActorRole
	ConsultantID            int64
	MinBookingNoticeMinutes *int
	AdvanceBookingDays      *int
	DefaultDurationMinutes  *int
}

// SettingsResponse ответ с настройками консультанта
type SettingsResponse struct {
	ConsultantID            int64      `json:"consultantId"`
	MinBookingNoticeMinutes int        `json:"minBookingNoticeMinutes"`
	AdvanceBookingDays      int        `json:"advanceBookingDays"` // 0 = без ограничения
	DefaultDurationMinutes  int        `json:"defaultDurationMinutes"`
	IsDefault               bool       `json:"isDefault"`
	UpdatedAt               *time.Time `json:"updatedAt,omitempty"`
}

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.ConsultantSettings, isDefault bool) *SettingsResponse {
	resp := &SettingsResponse{
		ConsultantID:            s.ConsultantID,
		MinBookingNoticeMinutes: s.MinBookingNoticeMinutes,
		AdvanceBookingDays:      s.AdvanceBookingDays,
		DefaultDurationMinutes:  s.DefaultDurationMinutes,
		IsDefault:               isDefault,
	}
	if !s.UpdatedAt.IsZero() {
		updatedAt := s.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

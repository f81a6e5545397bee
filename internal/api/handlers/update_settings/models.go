package update_settings

import (
	"github.com/m04kA/SMC-ConsultBooking/internal/domain"
	"github.com/m04kA/SMC-ConsultBooking/internal/service/settings/models"
)

// UpdateSettingsRequest HTTP request model; отсутствующие поля не меняются
type UpdateSettingsRequest struct {
	MinBookingNoticeMinutes *int `json:"minBookingNoticeMinutes,omitempty"`
	AdvanceBookingDays      *int `json:"advanceBookingDays,omitempty"`
	DefaultDurationMinutes  *int `json:"defaultDurationMinutes,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateSettingsRequest) ToServiceRequest(userID int64, role domain.ActorRole, consultantID int64) *models.UpdateSettingsRequest {
	return &models.UpdateSettingsRequest{
		UserID:                  userID,
		Role:                    role,
		ConsultantID:            consultantID,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
		AdvanceBookingDays:      r.AdvanceBookingDays,
		DefaultDurationMinutes:  r.DefaultDurationMinutes,
	}
}

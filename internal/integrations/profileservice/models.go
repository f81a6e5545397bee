package profileservice

import "time"

// Consultant профиль консультанта из сервиса профилей
type Consultant struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	IsActive     bool         `json:"is_active"`
	ServiceIDs   []int64      `json:"service_ids"`
	Availability WorkingHours `json:"availability"`
}

// WorkingHours недельное расписание приема консультанта
type WorkingHours struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// DaySchedule часы приема в один день недели
type DaySchedule struct {
	IsOpen    bool    `json:"is_open"`
	OpenTime  *string `json:"open_time,omitempty"`  // "09:00"
	CloseTime *string `json:"close_time,omitempty"` // "18:00"
}

// OffersService проверяет, оказывает ли консультант услугу
func (c *Consultant) OffersService(serviceID int64) bool {
	for _, id := range c.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

// ScheduleFor возвращает часы приема на день недели указанной даты
func (h WorkingHours) ScheduleFor(date time.Time) DaySchedule {
	switch date.Weekday() {
	case time.Monday:
		return h.Monday
	case time.Tuesday:
		return h.Tuesday
	case time.Wednesday:
		return h.Wednesday
	case time.Thursday:
		return h.Thursday
	case time.Friday:
		return h.Friday
	case time.Saturday:
		return h.Saturday
	case time.Sunday:
		return h.Sunday
	default:
		return DaySchedule{}
	}
}

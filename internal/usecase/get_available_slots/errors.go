package get_available_slots

import "errors"

var (
	// ErrConsultantNotFound возвращается, когда консультант не найден
	ErrConsultantNotFound = errors.New("get_available_slots: consultant not found")

	// ErrConsultantInactive возвращается, когда консультант не принимает бронирования
	ErrConsultantInactive = errors.New("get_available_slots: consultant is not accepting bookings")

	// ErrInvalidDate возвращается для даты в прошлом
	ErrInvalidDate = errors.New("get_available_slots: invalid date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("get_available_slots: date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)

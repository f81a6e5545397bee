package create_booking

import "errors"

var (
	// ErrConsultantNotFound возвращается, когда консультант не найден
	ErrConsultantNotFound = errors.New("create_booking: consultant not found")

	// ErrConsultantInactive возвращается, когда консультант не принимает бронирования
	ErrConsultantInactive = errors.New("create_booking: consultant is not accepting bookings")

	// ErrServiceNotOffered возвращается, когда консультант не оказывает указанную услугу
	ErrServiceNotOffered = errors.New("create_booking: service is not offered by consultant")

	// ErrSelfBooking возвращается при попытке забронировать сессию у самого себя
	ErrSelfBooking = errors.New("create_booking: seeker and consultant must differ")

	// ErrInvalidAmount возвращается, когда суммы не сходятся (advance + remaining != total)
	ErrInvalidAmount = errors.New("create_booking: invalid amounts")

	// ErrInvalidDate возвращается при дате бронирования в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrTooLateToBook возвращается, когда бронирование нарушает minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("create_booking: too late to book this time")

	// ErrSlotNotAvailable возвращается, когда у консультанта уже есть сессия в это время
	ErrSlotNotAvailable = errors.New("create_booking: consultant is busy at this time")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

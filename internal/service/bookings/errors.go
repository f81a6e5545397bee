package bookings

import (
	"errors"

	"github.com/m04kA/SMC-ConsultBooking/internal/eligibility"
	"github.com/m04kA/SMC-ConsultBooking/internal/lifecycle"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда пользователь не является стороной бронирования
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrConflict возвращается, когда бронирование изменили параллельно
	ErrConflict = errors.New("booking was modified concurrently")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

// Ошибки правил жизненного цикла пробрасываются без изменений
var (
	ErrInvalidTransition = lifecycle.ErrInvalidTransition
	ErrUnauthorized      = lifecycle.ErrUnauthorized
	ErrDeadlinePassed    = lifecycle.ErrDeadlinePassed
	ErrAlreadyReviewed   = lifecycle.ErrAlreadyReviewed
	ErrInvalidSchedule   = lifecycle.ErrInvalidSchedule
	ErrMalformedBooking  = eligibility.ErrMalformedBooking
)

package lifecycle

import "errors"

var (
	// ErrInvalidTransition возвращается, когда переход отсутствует в таблице переходов
	ErrInvalidTransition = errors.New("lifecycle: invalid status transition")

	// ErrUnauthorized возвращается, когда роль не может выполнить переход
	ErrUnauthorized = errors.New("lifecycle: actor role may not perform this transition")

	// ErrDeadlinePassed возвращается, когда до сессии осталось меньше 24 часов
	ErrDeadlinePassed = errors.New("lifecycle: cancellation deadline has passed")

	// ErrAlreadyReviewed возвращается при повторном отзыве
	ErrAlreadyReviewed = errors.New("lifecycle: booking has already been reviewed")

	// ErrUnknownAction возвращается для неизвестного действия
	ErrUnknownAction = errors.New("lifecycle: unknown action")

	// ErrInvalidSchedule возвращается, когда новое время сессии некорректно или в прошлом
	ErrInvalidSchedule = errors.New("lifecycle: invalid new session time")
)

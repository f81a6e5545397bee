package profileservice

import "errors"

var (
	// ErrConsultantNotFound возвращается, когда профиль консультанта не найден
	ErrConsultantNotFound = errors.New("consultant not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("profileservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("profileservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что сервис профилей недоступен и проверка консультанта пропущена
	ErrServiceDegraded = errors.New("profileservice unavailable: graceful degradation applied")
)

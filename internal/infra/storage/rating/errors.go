package rating

import "errors"

var (
	// ErrAlreadyRated возвращается при попытке оставить второй отзыв на бронирование
	ErrAlreadyRated = errors.New("rating.repository: booking already rated")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("rating.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("rating.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("rating.repository: failed to scan row")
)

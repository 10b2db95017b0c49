package schedule

import "errors"

var (
	// ErrBlockedDateNotFound возвращается, когда выходной день не найден
	ErrBlockedDateNotFound = errors.New("blocked date not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

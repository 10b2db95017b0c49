package gallery

import "errors"

var (
	// ErrItemNotFound возвращается, когда изображение не найдено
	ErrItemNotFound = errors.New("gallery item not found")

	// ErrInvalidImage возвращается для файлов, которые не являются jpeg/png изображением
	ErrInvalidImage = errors.New("invalid image")

	// ErrImageTooLarge возвращается при превышении лимита размера
	ErrImageTooLarge = errors.New("image is too large")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

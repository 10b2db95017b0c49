package auth

import "errors"

var (
	// ErrInvalidPin возвращается при неверном PIN
	ErrInvalidPin = errors.New("invalid pin")

	// ErrInvalidToken возвращается для поврежденного или чужого токена
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken возвращается для просроченного токена
	ErrExpiredToken = errors.New("token expired")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

package models

import "time"

// LoginRequest запрос на вход администратора
type LoginRequest struct {
	Pin string `json:"pin" validate:"required,min=4,max=32"`
}

// LoginResponse токен администратора
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

package middleware

import (
	"time"

	"github.com/m04kA/salon-booking/internal/service/auth"
)

// TokenVerifier проверяет токен администратора
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// HTTPMetrics интерфейс сбора метрик HTTP запросов
type HTTPMetrics interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

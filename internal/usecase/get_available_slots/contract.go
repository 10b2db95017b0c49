package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/internal/usecase/snapshot"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// ListByDate получает все бронирования дня, занимающие календарь
	ListByDate(ctx context.Context, date time.Time) ([]*domain.Booking, error)
}

// SnapshotLoader загружает расписание салона для даты
type SnapshotLoader interface {
	Load(ctx context.Context, date time.Time) (*snapshot.Snapshot, error)
}

// Metrics счетчики запросов слотов
type Metrics interface {
	SlotQuery(open bool)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/internal/integrations/whatsapp"
	"github.com/m04kA/salon-booking/internal/usecase/snapshot"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListByDate(ctx context.Context, date time.Time) ([]*domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	UpsertByPhone(ctx context.Context, name, phone string, now time.Time) (*domain.Client, error)
}

// SnapshotLoader загружает расписание салона для даты
type SnapshotLoader interface {
	Load(ctx context.Context, date time.Time) (*snapshot.Snapshot, error)
}

// Locker блокировка календарного дня на время проверки и записи
type Locker interface {
	WithDayLock(ctx context.Context, date time.Time, fn func(ctx context.Context) error) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// LinkBuilder строит ссылку на чат с салоном
type LinkBuilder interface {
	BookingLink(salonPhone, salonName string, summary whatsapp.BookingSummary) (string, error)
}

// Metrics счетчик исходов создания бронирования
type Metrics interface {
	BookingAttempt(outcome string)
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

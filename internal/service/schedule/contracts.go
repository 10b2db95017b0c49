package schedule

import (
	"context"
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписания и настроек салона
type ScheduleRepository interface {
	GetBusinessHours(ctx context.Context) (domain.WeeklySchedule, error)
	ReplaceBusinessHours(ctx context.Context, hours domain.WeeklySchedule) error
	ListBlockedDates(ctx context.Context, from *time.Time) ([]domain.BlockedDate, error)
	AddBlockedDate(ctx context.Context, blocked domain.BlockedDate) error
	DeleteBlockedDate(ctx context.Context, date time.Time) error
	GetSettings(ctx context.Context) (domain.Settings, error)
	SaveSettings(ctx context.Context, settings domain.Settings) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

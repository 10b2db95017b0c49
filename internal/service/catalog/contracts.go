package catalog

import (
	"context"

	"github.com/m04kA/salon-booking/internal/domain"
)

// CatalogRepository интерфейс репозитория услуг и мастеров
type CatalogRepository interface {
	CreateService(ctx context.Context, service *domain.Service) (*domain.Service, error)
	UpdateService(ctx context.Context, service *domain.Service) (*domain.Service, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	ListServices(ctx context.Context, activeOnly bool) ([]*domain.Service, error)
	DeleteService(ctx context.Context, id int64) error

	CreateStaff(ctx context.Context, staff *domain.Staff) (*domain.Staff, error)
	UpdateStaff(ctx context.Context, staff *domain.Staff) (*domain.Staff, error)
	GetStaff(ctx context.Context, id int64) (*domain.Staff, error)
	ListStaff(ctx context.Context, activeOnly bool) ([]*domain.Staff, error)
	DeleteStaff(ctx context.Context, id int64) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CountByService(ctx context.Context, serviceID int64) (int, error)
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

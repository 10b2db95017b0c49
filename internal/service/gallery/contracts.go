package gallery

import (
	"context"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/internal/infra/filestore"
)

// GalleryRepository интерфейс репозитория метаданных галереи
type GalleryRepository interface {
	Create(ctx context.Context, item *domain.GalleryItem) (*domain.GalleryItem, error)
	GetByID(ctx context.Context, id int64) (*domain.GalleryItem, error)
	List(ctx context.Context) ([]*domain.GalleryItem, error)
	Delete(ctx context.Context, id int64) error
}

// FileStore интерфейс хранилища файлов изображений
type FileStore interface {
	Save(data []byte) (*filestore.Stored, error)
	Delete(names ...string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package gallery

import (
	"context"

	"github.com/m04kA/salon-booking/internal/service/gallery/models"
)

type GalleryService interface {
	Upload(ctx context.Context, req *models.UploadRequest) (*models.ItemResponse, error)
	List(ctx context.Context) (*models.ItemListResponse, error)
	Delete(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

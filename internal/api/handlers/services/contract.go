package services

import (
	"context"

	"github.com/m04kA/salon-booking/internal/service/catalog/models"
)

type CatalogService interface {
	ListServices(ctx context.Context, activeOnly bool) (*models.ServiceListResponse, error)
	GetService(ctx context.Context, id int64) (*models.ServiceResponse, error)
	CreateService(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error)
	UpdateService(ctx context.Context, id int64, req *models.UpdateServiceRequest) (*models.ServiceResponse, error)
	DeleteService(ctx context.Context, id int64) (*models.DeleteServiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

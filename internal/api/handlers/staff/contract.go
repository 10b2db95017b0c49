package staff

import (
	"context"

	"github.com/m04kA/salon-booking/internal/service/catalog/models"
)

type CatalogService interface {
	ListStaff(ctx context.Context, activeOnly bool) (*models.StaffListResponse, error)
	GetStaff(ctx context.Context, id int64) (*models.StaffResponse, error)
	CreateStaff(ctx context.Context, req *models.CreateStaffRequest) (*models.StaffResponse, error)
	UpdateStaff(ctx context.Context, id int64, req *models.UpdateStaffRequest) (*models.StaffResponse, error)
	DeleteStaff(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

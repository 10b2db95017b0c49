package clients

import (
	"context"

	"github.com/m04kA/salon-booking/internal/service/clients/models"
)

type ClientService interface {
	List(ctx context.Context, req *models.ListClientsRequest) (*models.ClientListResponse, error)
	Get(ctx context.Context, id int64) (*models.ClientDetailsResponse, error)
	UpdateNotes(ctx context.Context, id int64, req *models.UpdateNotesRequest) (*models.ClientResponse, error)
	Delete(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

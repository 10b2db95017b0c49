package schedule

import (
	"context"
	"time"

	"github.com/m04kA/salon-booking/internal/service/schedule/models"
)

type ScheduleService interface {
	GetSchedule(ctx context.Context) (*models.ScheduleResponse, error)
	ReplaceBusinessHours(ctx context.Context, req *models.ReplaceHoursRequest) (models.WeeklyHours, error)
	ListBlockedDates(ctx context.Context, from *time.Time) ([]models.BlockedDateResponse, error)
	AddBlockedDate(ctx context.Context, req *models.AddBlockedDateRequest) (*models.BlockedDateResponse, error)
	DeleteBlockedDate(ctx context.Context, date string) error
	GetSettings(ctx context.Context) (*models.SettingsResponse, error)
	UpdateSettings(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Package snapshot загружает из хранилища всё, что нужно ядру расписания для одного дня
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/internal/scheduling"
)

var ErrLoad = errors.New("snapshot: failed to load schedule")

type ScheduleRepository interface {
	GetSettings(ctx context.Context) (domain.Settings, error)
	GetBusinessHours(ctx context.Context) (domain.WeeklySchedule, error)
	ListBlockedDates(ctx context.Context, from *time.Time) ([]domain.BlockedDate, error)
}

type CatalogRepository interface {
	ListServices(ctx context.Context, activeOnly bool) ([]*domain.Service, error)
	ListStaff(ctx context.Context, activeOnly bool) ([]*domain.Staff, error)
}

// Snapshot расписание салона и его настройки на момент чтения
type Snapshot struct {
	Schedule scheduling.Schedule
	Settings domain.Settings
}

// ServiceNames названия услуг в порядке ids, неизвестные пропускаются
func (s *Snapshot) ServiceNames(ids []int64) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if svc, ok := s.Schedule.Services[id]; ok {
			names = append(names, svc.Name)
		}
	}
	return names
}

// StaffName имя мастера или пустая строка
func (s *Snapshot) StaffName(id *int64) string {
	if id == nil {
		return ""
	}
	if st, ok := s.Schedule.Staff[*id]; ok {
		return st.Name
	}
	return ""
}

type Loader struct {
	scheduleRepo ScheduleRepository
	catalogRepo  CatalogRepository
}

func NewLoader(scheduleRepo ScheduleRepository, catalogRepo CatalogRepository) *Loader {
	return &Loader{scheduleRepo: scheduleRepo, catalogRepo: catalogRepo}
}

// Load читает настройки, часы работы, выходные начиная с date, услуги и мастеров.
// Неактивные услуги и мастера тоже загружаются: ядро само считает их недоступными.
func (l *Loader) Load(ctx context.Context, date time.Time) (*Snapshot, error) {
	settings, err := l.scheduleRepo.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: settings: %v", ErrLoad, err)
	}

	hours, err := l.scheduleRepo.GetBusinessHours(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: business hours: %v", ErrLoad, err)
	}

	blocked, err := l.scheduleRepo.ListBlockedDates(ctx, &date)
	if err != nil {
		return nil, fmt.Errorf("%w: blocked dates: %v", ErrLoad, err)
	}

	services, err := l.catalogRepo.ListServices(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("%w: services: %v", ErrLoad, err)
	}

	staff, err := l.catalogRepo.ListStaff(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("%w: staff: %v", ErrLoad, err)
	}

	return &Snapshot{
		Schedule: scheduling.NewSchedule(hours, staff, blocked, services),
		Settings: settings.WithDefaults(),
	}, nil
}

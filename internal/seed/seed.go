package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/m04kA/salon-booking/internal/domain"
)

var (
	ErrInvalidSeed = errors.New("seed: invalid seed file")
	ErrApply       = errors.New("seed: failed to apply")
)

// File начальные данные салона: часы работы, услуги, мастера, выходные дни
type File struct {
	Settings      SettingsEntry           `yaml:"settings"`
	BusinessHours map[string]*WindowEntry `yaml:"business_hours"`
	Services      []ServiceEntry          `yaml:"services"`
	Staff         []StaffEntry            `yaml:"staff"`
	BlockedDates  []BlockedDateEntry      `yaml:"blocked_dates"`
}

type SettingsEntry struct {
	SalonName          string `yaml:"salon_name"`
	SalonPhone         string `yaml:"salon_phone"`
	SlotStepMinutes    int    `yaml:"slot_step_minutes"`
	AdvanceBookingDays int    `yaml:"advance_booking_days"`
	MinNoticeMinutes   int    `yaml:"min_notice_minutes"`
}

// WindowEntry null в YAML означает выходной
type WindowEntry struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type ServiceEntry struct {
	Name            string  `yaml:"name"`
	Description     string  `yaml:"description"`
	DurationMinutes int     `yaml:"duration_minutes"`
	Price           float64 `yaml:"price"`
}

type StaffEntry struct {
	Name         string                  `yaml:"name"`
	Role         string                  `yaml:"role"`
	Services     []string                `yaml:"services"` // названия услуг
	WorkingHours map[string]*WindowEntry `yaml:"working_hours"`
}

type BlockedDateEntry struct {
	Date   string `yaml:"date"`
	Reason string `yaml:"reason"`
}

// Load читает и валидирует YAML файл
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse разбирает YAML и проверяет ссылки между разделами
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate проверяет, что окна корректны, услуги мастеров существуют, даты в формате YYYY-MM-DD
func (f *File) Validate() error {
	if _, err := toWeeklySchedule(f.BusinessHours); err != nil {
		return fmt.Errorf("%w: business_hours: %v", ErrInvalidSeed, err)
	}

	names := make(map[string]struct{}, len(f.Services))
	for _, s := range f.Services {
		if s.Name == "" {
			return fmt.Errorf("%w: service without name", ErrInvalidSeed)
		}
		if s.DurationMinutes < domain.MinServiceDuration || s.DurationMinutes > domain.MaxServiceDuration {
			return fmt.Errorf("%w: service %q: duration_minutes out of range", ErrInvalidSeed, s.Name)
		}
		if _, dup := names[s.Name]; dup {
			return fmt.Errorf("%w: duplicate service %q", ErrInvalidSeed, s.Name)
		}
		names[s.Name] = struct{}{}
	}

	for _, st := range f.Staff {
		if st.Name == "" {
			return fmt.Errorf("%w: staff without name", ErrInvalidSeed)
		}
		for _, svc := range st.Services {
			if _, ok := names[svc]; !ok {
				return fmt.Errorf("%w: staff %q references unknown service %q", ErrInvalidSeed, st.Name, svc)
			}
		}
		if _, err := toWeeklySchedule(st.WorkingHours); err != nil {
			return fmt.Errorf("%w: staff %q: %v", ErrInvalidSeed, st.Name, err)
		}
	}

	for _, b := range f.BlockedDates {
		if _, err := time.Parse(domain.DateFormat, b.Date); err != nil {
			return fmt.Errorf("%w: blocked date %q", ErrInvalidSeed, b.Date)
		}
	}

	return nil
}

func toWeeklySchedule(entries map[string]*WindowEntry) (domain.WeeklySchedule, error) {
	schedule := make(domain.WeeklySchedule, len(entries))
	for name, entry := range entries {
		day, err := domain.ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			continue
		}
		w, err := domain.NewWorkingWindow(entry.Start, entry.End)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		schedule[day] = w
	}
	return schedule, nil
}

// ScheduleRepository часть репозитория расписания, нужная для сидирования
type ScheduleRepository interface {
	GetBusinessHours(ctx context.Context) (domain.WeeklySchedule, error)
	ReplaceBusinessHours(ctx context.Context, hours domain.WeeklySchedule) error
	SaveSettings(ctx context.Context, settings domain.Settings) error
	AddBlockedDate(ctx context.Context, blocked domain.BlockedDate) error
}

// CatalogRepository часть репозитория каталога, нужная для сидирования
type CatalogRepository interface {
	CreateService(ctx context.Context, service *domain.Service) (*domain.Service, error)
	CreateStaff(ctx context.Context, staff *domain.Staff) (*domain.Staff, error)
}

type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// Seeder заполняет пустое хранилище данными из File
type Seeder struct {
	scheduleRepo ScheduleRepository
	catalogRepo  CatalogRepository
	txManager    TransactionManager
	logger       Logger
}

func NewSeeder(
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	logger Logger,
) *Seeder {
	return &Seeder{
		scheduleRepo: scheduleRepo,
		catalogRepo:  catalogRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// Apply записывает данные, только если часы работы салона ещё не заданы.
// Возвращает true, если сидирование выполнено.
func (s *Seeder) Apply(ctx context.Context, f *File) (bool, error) {
	applied := false

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		existing, err := s.scheduleRepo.GetBusinessHours(txCtx)
		if err != nil {
			return fmt.Errorf("%w: read business hours: %v", ErrApply, err)
		}
		if len(existing) > 0 {
			s.logger.Info("Seed: business hours already configured, skipping")
			return nil
		}

		hours, _ := toWeeklySchedule(f.BusinessHours)
		if err := s.scheduleRepo.ReplaceBusinessHours(txCtx, hours); err != nil {
			return fmt.Errorf("%w: business hours: %v", ErrApply, err)
		}

		if err := s.scheduleRepo.SaveSettings(txCtx, domain.Settings{
			SalonName:          f.Settings.SalonName,
			SalonPhone:         f.Settings.SalonPhone,
			SlotStepMinutes:    f.Settings.SlotStepMinutes,
			AdvanceBookingDays: f.Settings.AdvanceBookingDays,
			MinNoticeMinutes:   f.Settings.MinNoticeMinutes,
		}.WithDefaults()); err != nil {
			return fmt.Errorf("%w: settings: %v", ErrApply, err)
		}

		serviceIDs := make(map[string]int64, len(f.Services))
		for _, entry := range f.Services {
			svc := &domain.Service{
				Name:            entry.Name,
				DurationMinutes: entry.DurationMinutes,
				Price:           entry.Price,
				Active:          true,
			}
			if entry.Description != "" {
				desc := entry.Description
				svc.Description = &desc
			}
			created, err := s.catalogRepo.CreateService(txCtx, svc)
			if err != nil {
				return fmt.Errorf("%w: service %q: %v", ErrApply, entry.Name, err)
			}
			serviceIDs[entry.Name] = created.ID
		}

		for _, entry := range f.Staff {
			hours, _ := toWeeklySchedule(entry.WorkingHours)
			staff := &domain.Staff{
				Name:         entry.Name,
				WorkingHours: hours,
				Active:       true,
			}
			if entry.Role != "" {
				role := entry.Role
				staff.Role = &role
			}
			for _, name := range entry.Services {
				staff.ServicesOffered = append(staff.ServicesOffered, serviceIDs[name])
			}
			if _, err := s.catalogRepo.CreateStaff(txCtx, staff); err != nil {
				return fmt.Errorf("%w: staff %q: %v", ErrApply, entry.Name, err)
			}
		}

		for _, entry := range f.BlockedDates {
			date, _ := time.Parse(domain.DateFormat, entry.Date)
			if err := s.scheduleRepo.AddBlockedDate(txCtx, domain.BlockedDate{Date: date, Reason: entry.Reason}); err != nil {
				return fmt.Errorf("%w: blocked date %s: %v", ErrApply, entry.Date, err)
			}
		}

		s.logger.Info("Seed: applied %d services, %d staff, %d blocked dates",
			len(f.Services), len(f.Staff), len(f.BlockedDates))
		applied = true
		return nil
	})

	return applied, err
}

package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/salon-booking/internal/domain"
	scheduleRepo "github.com/m04kA/salon-booking/internal/infra/storage/schedule"
	"github.com/m04kA/salon-booking/internal/service/schedule/models"
)

// Service сервис часов работы, выходных дней и настроек салона
type Service struct {
	repo      ScheduleRepository
	txManager TransactionManager
	logger    Logger
	now       func() time.Time
}

// NewService создает новый экземпляр сервиса расписания
func NewService(repo ScheduleRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// GetSchedule публичное расписание: часы работы, ближайшие выходные и настройки
func (s *Service) GetSchedule(ctx context.Context) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: fetching salon schedule")

	hours, err := s.repo.GetBusinessHours(ctx)
	if err != nil {
		s.logger.Error("GetSchedule: failed to get business hours: %v", err)
		return nil, fmt.Errorf("%w: GetSchedule - business hours: %v", ErrInternal, err)
	}

	today := s.today()
	blocked, err := s.repo.ListBlockedDates(ctx, &today)
	if err != nil {
		s.logger.Error("GetSchedule: failed to list blocked dates: %v", err)
		return nil, fmt.Errorf("%w: GetSchedule - blocked dates: %v", ErrInternal, err)
	}

	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		s.logger.Error("GetSchedule: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: GetSchedule - settings: %v", ErrInternal, err)
	}

	return &models.ScheduleResponse{
		BusinessHours: models.FromDomainWeekly(hours),
		BlockedDates:  models.FromDomainBlockedDates(blocked),
		Settings:      models.FromDomainSettings(settings.WithDefaults()),
	}, nil
}

// ReplaceBusinessHours заменяет недельные часы работы салона целиком
func (s *Service) ReplaceBusinessHours(ctx context.Context, req *models.ReplaceHoursRequest) (models.WeeklyHours, error) {
	s.logger.Info("ReplaceBusinessHours: %d days in request", len(req.Hours))

	hours, err := req.Hours.ToDomain()
	if err != nil {
		s.logger.Warn("ReplaceBusinessHours: invalid hours: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.repo.ReplaceBusinessHours(txCtx, hours)
	})
	if err != nil {
		s.logger.Error("ReplaceBusinessHours: repository error: %v", err)
		return nil, fmt.Errorf("%w: ReplaceBusinessHours - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ReplaceBusinessHours: salon is open %d days a week", len(hours))
	return models.FromDomainWeekly(hours), nil
}

// ListBlockedDates все выходные дни, начиная с from (nil = все)
func (s *Service) ListBlockedDates(ctx context.Context, from *time.Time) ([]models.BlockedDateResponse, error) {
	blocked, err := s.repo.ListBlockedDates(ctx, from)
	if err != nil {
		s.logger.Error("ListBlockedDates: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBlockedDates - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainBlockedDates(blocked), nil
}

// AddBlockedDate добавляет выходной день салона
func (s *Service) AddBlockedDate(ctx context.Context, req *models.AddBlockedDateRequest) (*models.BlockedDateResponse, error) {
	s.logger.Info("AddBlockedDate: date=%s", req.Date)

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		s.logger.Warn("AddBlockedDate: invalid date %q", req.Date)
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	reason := strings.TrimSpace(req.Reason)
	if utf8.RuneCountInString(reason) > domain.MaxBlockedReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxBlockedReasonLength)
	}

	blocked := domain.BlockedDate{Date: date, Reason: reason, CreatedAt: s.now()}
	if err := s.repo.AddBlockedDate(ctx, blocked); err != nil {
		s.logger.Error("AddBlockedDate: repository error: %v", err)
		return nil, fmt.Errorf("%w: AddBlockedDate - repository error: %v", ErrInternal, err)
	}

	return &models.BlockedDateResponse{Date: blocked.Key(), Reason: blocked.Reason}, nil
}

// DeleteBlockedDate снимает выходной день
func (s *Service) DeleteBlockedDate(ctx context.Context, dateStr string) error {
	s.logger.Info("DeleteBlockedDate: date=%s", dateStr)

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	if err := s.repo.DeleteBlockedDate(ctx, date); err != nil {
		if errors.Is(err, scheduleRepo.ErrBlockedDateNotFound) {
			s.logger.Warn("DeleteBlockedDate: date=%s not found", dateStr)
			return ErrBlockedDateNotFound
		}
		s.logger.Error("DeleteBlockedDate: repository error: %v", err)
		return fmt.Errorf("%w: DeleteBlockedDate - repository error: %v", ErrInternal, err)
	}
	return nil
}

// GetSettings текущие настройки салона
func (s *Service) GetSettings(ctx context.Context) (*models.SettingsResponse, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		s.logger.Error("GetSettings: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetSettings - repository error: %v", ErrInternal, err)
	}

	resp := models.FromDomainSettings(settings.WithDefaults())
	return &resp, nil
}

// UpdateSettings обновляет только переданные поля настроек
func (s *Service) UpdateSettings(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("UpdateSettings: updating salon settings")

	var saved domain.Settings

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := s.repo.GetSettings(txCtx)
		if err != nil {
			return fmt.Errorf("%w: UpdateSettings - get settings: %v", ErrInternal, err)
		}

		updated := req.Apply(current)
		if err := validateSettings(updated); err != nil {
			return err
		}
		updated.UpdatedAt = s.now()

		if err := s.repo.SaveSettings(txCtx, updated); err != nil {
			return fmt.Errorf("%w: UpdateSettings - save settings: %v", ErrInternal, err)
		}

		saved = updated
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			s.logger.Warn("UpdateSettings: validation failed: %v", err)
		} else {
			s.logger.Error("UpdateSettings: %v", err)
		}
		return nil, err
	}

	resp := models.FromDomainSettings(saved)
	return &resp, nil
}

// validateSettings проверяет настройки после применения изменений
func validateSettings(settings domain.Settings) error {
	if settings.SlotStepMinutes < domain.MinSlotStepMinutes || settings.SlotStepMinutes > domain.MaxSlotStepMinutes {
		return fmt.Errorf("%w: slotStepMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotStepMinutes, domain.MaxSlotStepMinutes)
	}

	if settings.AdvanceBookingDays < 0 || settings.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between 0 and %d",
			ErrInvalidInput, domain.MaxAdvanceBookingDays)
	}

	if settings.MinNoticeMinutes < 0 {
		return fmt.Errorf("%w: minNoticeMinutes must not be negative", ErrInvalidInput)
	}

	return nil
}

func (s *Service) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

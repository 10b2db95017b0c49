package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/internal/scheduling"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	bookingRepo    BookingRepository
	snapshotLoader SnapshotLoader
	metrics        Metrics
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	snapshotLoader SnapshotLoader,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		snapshotLoader: snapshotLoader,
		metrics:        metrics,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: date=%s, services=%v, staff=%s",
		req.Date.Format(domain.DateFormat), req.ServiceIDs, formatStaff(req.StaffID))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Загружаем расписание салона
	snap, err := uc.snapshotLoader.Load(ctx, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to load schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to load schedule: %v", ErrInternal, err)
	}

	// 4. Валидация даты с учетом настроек
	if err := validateDate(req.Date, now, snap.Settings.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 5. Мастер должен оказывать все выбранные услуги
	if req.StaffID != nil {
		if staff, ok := snap.Schedule.Staff[*req.StaffID]; ok && !staff.Offers(req.ServiceIDs) {
			uc.logger.Warn("GetAvailableSlots: staff id=%d does not offer services %v", *req.StaffID, req.ServiceIDs)
			return nil, ErrInvalidServiceSelection
		}
	}

	// 6. Получаем все бронирования на эту дату
	bookings, err := uc.bookingRepo.ListByDate(ctx, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 7. Окно -> сетка слотов -> фильтр занятости
	availability, err := scheduling.AvailableSlots(
		snap.Schedule,
		scheduling.Query{Date: req.Date, StaffID: req.StaffID, ServiceIDs: req.ServiceIDs},
		bookings,
		now,
		snap.Settings.SlotStepMinutes,
	)
	if err != nil {
		if errors.Is(err, scheduling.ErrInvalidServiceSelection) {
			uc.logger.Warn("GetAvailableSlots: invalid service selection %v", req.ServiceIDs)
			return nil, ErrInvalidServiceSelection
		}
		uc.logger.Error("GetAvailableSlots: failed to compute slots: %v", err)
		return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}

	// 8. Минимальное время до записи на сегодня
	applyMinNotice(availability.Slots, req.Date, now, snap.Settings.MinNoticeMinutes)

	uc.metrics.SlotQuery(availability.Window != nil)

	slots := availability.Slots
	if req.OnlyAvailable {
		slots = onlyAvailable(slots)
	}

	if availability.Window == nil {
		uc.logger.Info("GetAvailableSlots: closed on %s", req.Date.Format(domain.DateFormat))
	} else {
		uc.logger.Info("GetAvailableSlots: generated %d slots for date=%s, duration=%d",
			len(slots), req.Date.Format(domain.DateFormat), availability.DurationMinutes)
	}

	return &Response{
		Date:            req.Date,
		StaffID:         req.StaffID,
		ServiceIDs:      req.ServiceIDs,
		DurationMinutes: availability.DurationMinutes,
		StepMinutes:     availability.StepMinutes,
		Window:          availability.Window,
		Slots:           slots,
	}, nil
}

func formatStaff(id *int64) string {
	if id == nil {
		return "any"
	}
	return fmt.Sprintf("%d", *id)
}

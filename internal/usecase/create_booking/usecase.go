package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/internal/infra/lock"
	"github.com/m04kA/salon-booking/internal/integrations/whatsapp"
	"github.com/m04kA/salon-booking/internal/scheduling"
	"github.com/m04kA/salon-booking/internal/usecase/snapshot"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo    BookingRepository
	clientRepo     ClientRepository
	snapshotLoader SnapshotLoader
	locker         Locker
	txManager      TransactionManager
	links          LinkBuilder
	metrics        Metrics
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	clientRepo ClientRepository,
	snapshotLoader SnapshotLoader,
	locker Locker,
	txManager TransactionManager,
	links LinkBuilder,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		clientRepo:     clientRepo,
		snapshotLoader: snapshotLoader,
		locker:         locker,
		txManager:      txManager,
		links:          links,
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

// Execute выполняет use case создания бронирования.
// Проверка доступности и запись выполняются под блокировкой дня в сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: date=%s, time=%s, services=%v, staff=%s",
		req.Date.Format(domain.DateFormat), req.StartTime, req.ServiceIDs, formatStaff(req.StaffID))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.metrics.BookingAttempt(OutcomeRejected)
		return nil, err
	}

	date := dateOnly(req.Date)

	var (
		result *domain.Booking
		snap   *snapshot.Snapshot
	)

	// 2. Блокируем день, затем открываем транзакцию
	err := uc.locker.WithDayLock(ctx, date, func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			// 2.1. Текущее время берем под блокировкой
			now := uc.timeProvider.Now()

			// 2.2. Перечитываем расписание салона
			var err error
			snap, err = uc.snapshotLoader.Load(txCtx, date)
			if err != nil {
				uc.logger.Error("CreateBooking: failed to load schedule: %v", err)
				return fmt.Errorf("%w: failed to load schedule: %v", ErrInternal, err)
			}

			// 2.3. Валидация даты с учетом настроек
			if err := validateDate(date, now, snap.Settings.AdvanceBookingDays); err != nil {
				uc.logger.Warn("CreateBooking: date validation failed: %v", err)
				return err
			}

			// 2.4. Время начала на сегодня не должно быть в прошлом
			if err := validateStartTime(date, req.StartTime, now, snap.Settings.MinNoticeMinutes); err != nil {
				uc.logger.Warn("CreateBooking: start time %s rejected: %v", req.StartTime, err)
				return err
			}

			// 2.5. Получаем все бронирования дня
			bookings, err := uc.bookingRepo.ListByDate(txCtx, date)
			if err != nil {
				uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
				return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
			}

			// 2.6. Повторная проверка всех правил доступности
			booking, err := scheduling.ValidateAndBuildBooking(scheduling.Candidate{
				Date:        date,
				StartTime:   req.StartTime,
				ServiceIDs:  req.ServiceIDs,
				StaffID:     req.StaffID,
				ClientName:  strings.TrimSpace(req.ClientName),
				ClientPhone: strings.TrimSpace(req.ClientPhone),
				Notes:       req.Notes,
			}, bookings, snap.Schedule)
			if err != nil {
				uc.logger.Warn("CreateBooking: rejected by schedule: %v", err)
				return err
			}

			// 2.7. Находим или создаем клиента по телефону
			client, err := uc.clientRepo.UpsertByPhone(txCtx, booking.ClientName, booking.ClientPhone, now)
			if err != nil {
				uc.logger.Error("CreateBooking: failed to upsert client: %v", err)
				return fmt.Errorf("%w: failed to upsert client: %v", ErrInternal, err)
			}
			booking.ClientID = &client.ID
			booking.CreatedAt = now
			booking.UpdatedAt = now

			// 2.8. Сохраняем бронирование
			created, err := uc.bookingRepo.Create(txCtx, booking)
			if err != nil {
				uc.logger.Error("CreateBooking: failed to create booking: %v", err)
				return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
			}

			result = created
			return nil
		})
	})

	if err != nil {
		return nil, uc.fail(err)
	}

	uc.metrics.BookingAttempt(OutcomeCreated)
	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	// 3. Ссылка на WhatsApp салона
	serviceNames := snap.ServiceNames(result.ServiceIDs)
	staffName := snap.StaffName(result.StaffID)

	link, err := uc.links.BookingLink(
		snap.Settings.SalonPhone,
		snap.Settings.SalonName,
		whatsapp.NewBookingSummary(result, serviceNames, staffName),
	)
	if err != nil {
		uc.logger.Warn("CreateBooking: whatsapp link not built: %v", err)
		link = ""
	}

	return &Response{
		Booking:      result,
		ServiceNames: serviceNames,
		StaffName:    staffName,
		WhatsAppLink: link,
	}, nil
}

// fail учитывает исход в метриках и приводит ошибку блокировки к ошибке usecase
func (uc *UseCase) fail(err error) error {
	switch {
	case errors.Is(err, lock.ErrLockNotAcquired):
		uc.logger.Warn("CreateBooking: day is locked by another request")
		uc.metrics.BookingAttempt(OutcomeBusy)
		return ErrBookingBusy
	case errors.Is(err, ErrSlotNoLongerAvailable):
		uc.metrics.BookingAttempt(OutcomeConflict)
		return err
	case errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrDateTooFarInFuture),
		errors.Is(err, ErrSlotInPast),
		errors.Is(err, ErrInvalidServiceSelection),
		errors.Is(err, ErrClosedOnDate),
		errors.Is(err, ErrOutsideWorkingHours):
		uc.metrics.BookingAttempt(OutcomeRejected)
		return err
	case errors.Is(err, ErrInternal):
		uc.metrics.BookingAttempt(OutcomeError)
		return err
	default:
		uc.logger.Error("CreateBooking: unexpected error: %v", err)
		uc.metrics.BookingAttempt(OutcomeError)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

func formatStaff(id *int64) string {
	if id == nil {
		return "any"
	}
	return fmt.Sprintf("%d", *id)
}

package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/internal/infra/lock"
	bookingRepo "github.com/m04kA/salon-booking/internal/infra/storage/booking"
	"github.com/m04kA/salon-booking/internal/scheduling"
	"github.com/m04kA/salon-booking/internal/service/bookings/models"
)

// Service сервис администратора для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	txManager   TransactionManager
	locker      Locker
	// strictTransitions false разрешает любой переход между известными статусами
	strictTransitions bool
	logger            Logger
	now               func() time.Time
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	locker Locker,
	strictTransitions bool,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:       bookingRepo,
		txManager:         txManager,
		locker:            locker,
		strictTransitions: strictTransitions,
		logger:            logger,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// List получает бронирования салона с фильтрацией
//
// Примеры использования:
// - Бронирования на дату: StartDate и EndDate указывают на одну дату
// - Бронирования мастера за период: StaffID + StartDate/EndDate
// - Только подтвержденные: Status = "confirmed"
// - Включая отменённые: IncludeCancelled = true
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("List: fetching bookings, period=%s..%s, staff=%v, status=%v",
		formatDate(req.StartDate), formatDate(req.EndDate), req.StaffID, req.Status)

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		s.logger.Warn("List: end date before start date")
		return nil, ErrInvalidTimeRange
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus переводит бронирование в новый статус.
// Возврат отмененного бронирования в календарь выполняется под блокировкой дня
// с повторной проверкой пересечений.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: booking id=%d -> %s", id, req.Status)

	next, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: %v", err)
		return nil, ErrInvalidStatus
	}

	current, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - get booking: %v", ErrInternal, err)
	}

	var updated *domain.Booking
	apply := func(txCtx context.Context) error {
		booking, err := s.applyStatus(txCtx, id, next)
		if err != nil {
			return err
		}
		updated = booking
		return nil
	}

	if reactivates(current.Status, next) {
		err = s.locker.WithDayLock(ctx, current.Date, func(lockCtx context.Context) error {
			return s.txManager.DoSerializable(lockCtx, apply)
		})
	} else {
		err = s.txManager.Do(ctx, apply)
	}
	if err != nil {
		switch {
		case errors.Is(err, lock.ErrLockNotAcquired):
			s.logger.Warn("UpdateStatus: day %s is busy: %v", current.Date.Format(domain.DateFormat), err)
			return nil, ErrBookingBusy
		case errors.Is(err, ErrBookingNotFound), errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrSlotOccupied):
			s.logger.Warn("UpdateStatus: booking id=%d: %v", id, err)
		default:
			s.logger.Error("UpdateStatus: booking id=%d: %v", id, err)
		}
		return nil, err
	}

	s.logger.Info("UpdateStatus: booking id=%d is now %s", id, updated.Status)
	return models.FromDomainBooking(updated), nil
}

// applyStatus проверяет переход и сохраняет статус в текущей транзакции
func (s *Service) applyStatus(txCtx context.Context, id int64, next domain.BookingStatus) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(txCtx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: UpdateStatus - get booking: %v", ErrInternal, err)
	}

	if booking.Status == next {
		return booking, nil
	}

	if err := booking.Status.CanTransitionTo(next, s.strictTransitions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	if reactivates(booking.Status, next) {
		sameDay, err := s.bookingRepo.ListByDate(txCtx, booking.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: UpdateStatus - list bookings: %v", ErrInternal, err)
		}

		candidate := *booking
		candidate.Status = next
		if scheduling.Collides(&candidate, sameDay) {
			return nil, fmt.Errorf("%w: booking id=%d %s %s-%s", ErrSlotOccupied, id,
				booking.Date.Format(domain.DateFormat), booking.StartTime, booking.EndTime)
		}
	}

	now := s.now()
	if err := s.bookingRepo.UpdateStatus(txCtx, id, next, now); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	booking.Status = next
	booking.UpdatedAt = now
	return booking, nil
}

// reactivates возвращает true, если бронирование снова начинает занимать календарь
func reactivates(current, next domain.BookingStatus) bool {
	return current == domain.StatusCancelled && next != domain.StatusCancelled
}

// Delete удаляет бронирование
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting booking id=%d", id)

	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Delete: booking id=%d not found", id)
			return ErrBookingNotFound
		}
		s.logger.Error("Delete: repository error for booking id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: booking id=%d deleted", id)
	return nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "*"
	}
	return t.Format(domain.DateFormat)
}

package create_booking

import (
	"errors"

	"github.com/m04kA/salon-booking/internal/scheduling"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInvalidDate возвращается при дате бронирования в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrSlotInPast возвращается, когда время начала сегодня уже прошло или нарушает minNoticeMinutes
	ErrSlotInPast = errors.New("create_booking: start time has already passed")

	// ErrBookingBusy возвращается, если день занят параллельным созданием бронирования
	ErrBookingBusy = errors.New("create_booking: another booking for this date is in progress")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")

	// Отказы ядра расписания
	ErrInvalidServiceSelection = scheduling.ErrInvalidServiceSelection
	ErrClosedOnDate            = scheduling.ErrClosedOnDate
	ErrOutsideWorkingHours     = scheduling.ErrOutsideWorkingHours
	ErrSlotNoLongerAvailable   = scheduling.ErrSlotNoLongerAvailable
)

// Исходы для метрики bookings_total
const (
	OutcomeCreated  = "created"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeBusy     = "busy"
	OutcomeError    = "error"
)

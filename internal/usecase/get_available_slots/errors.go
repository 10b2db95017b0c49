package get_available_slots

import (
	"errors"

	"github.com/m04kA/salon-booking/internal/scheduling"
)

var (
	// ErrInvalidDate возвращается для даты в прошлом
	ErrInvalidDate = errors.New("invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidServiceSelection пустой список, дубликаты, неизвестные или неактивные услуги,
	// либо мастер не оказывает выбранные услуги
	ErrInvalidServiceSelection = scheduling.ErrInvalidServiceSelection

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)

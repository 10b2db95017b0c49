package scheduling

import "errors"

// Отказы ValidateAndBuildBooking. Это ожидаемые исходы, которые показываются клиенту.
var (
	// ErrInvalidServiceSelection пустой список, неизвестная или неактивная услуга либо услуга, которую мастер не выполняет
	ErrInvalidServiceSelection = errors.New("scheduling: invalid service selection")

	// ErrClosedOnDate салон или выбранный мастер не работает в эту дату
	ErrClosedOnDate = errors.New("scheduling: closed on date")

	// ErrOutsideWorkingHours запись не помещается в рабочее окно
	ErrOutsideWorkingHours = errors.New("scheduling: outside working hours")

	// ErrSlotNoLongerAvailable интервал пересекается с существующим бронированием
	ErrSlotNoLongerAvailable = errors.New("scheduling: slot no longer available")
)

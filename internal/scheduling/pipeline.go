package scheduling

import (
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
)

// Query запрос свободных слотов
type Query struct {
	Date       time.Time
	StaffID    *int64
	ServiceIDs []int64
}

// Availability результат полного расчета
type Availability struct {
	Window          *domain.WorkingWindow
	DurationMinutes int
	StepMinutes     int
	Slots           []domain.Slot
}

// AvailableSlots выполняет ResolveWindow -> GenerateSlots -> FilterAvailable для запроса.
// Ошибкой считается только некорректный выбор услуг. Закрытый день дает пустой список слотов.
func AvailableSlots(
	s Schedule,
	q Query,
	bookings []*domain.Booking,
	now time.Time,
	stepMinutes int,
) (*Availability, error) {
	duration, err := s.TotalDuration(q.ServiceIDs)
	if err != nil {
		return nil, err
	}

	if stepMinutes <= 0 {
		stepMinutes = domain.DefaultSlotStepMinutes
	}

	window := ResolveWindow(s, q.Date, q.StaffID)
	slots := GenerateSlots(window, duration, stepMinutes)
	slots = FilterAvailable(slots, duration, bookings, q.Date, q.StaffID, now)

	return &Availability{
		Window:          window,
		DurationMinutes: duration,
		StepMinutes:     stepMinutes,
		Slots:           slots,
	}, nil
}

package scheduling

import (
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/pkg/types"
)

// Candidate заявка на бронирование до проверки
type Candidate struct {
	Date        time.Time
	StartTime   types.TimeString
	ServiceIDs  []int64
	StaffID     *int64
	ClientName  string
	ClientPhone string
	Notes       *string
}

// ValidateAndBuildBooking повторно применяет все правила доступности к заявке и при успехе
// возвращает бронирование в статусе pending, где EndTime = StartTime + сумма длительностей услуг.
// Порядок проверок: услуги, рабочее окно, вместимость, пересечения. Ничего не сохраняется,
// id и время создания назначает вызывающий код.
func ValidateAndBuildBooking(c Candidate, bookings []*domain.Booking, s Schedule) (*domain.Booking, error) {
	duration, err := s.TotalDuration(c.ServiceIDs)
	if err != nil {
		return nil, err
	}

	if c.StaffID != nil {
		if staff, ok := s.Staff[*c.StaffID]; ok && !staff.Offers(c.ServiceIDs) {
			return nil, ErrInvalidServiceSelection
		}
	}

	window := ResolveWindow(s, c.Date, c.StaffID)
	if window == nil {
		return nil, ErrClosedOnDate
	}

	if !window.Contains(c.StartTime, duration) {
		return nil, ErrOutsideWorkingHours
	}

	if collides(c.StartTime, duration, relevantBookings(bookings, c.Date, c.StaffID)) {
		return nil, ErrSlotNoLongerAvailable
	}

	endTime, err := c.StartTime.AddMinutes(duration)
	if err != nil {
		return nil, ErrOutsideWorkingHours
	}

	serviceIDs := make([]int64, len(c.ServiceIDs))
	copy(serviceIDs, c.ServiceIDs)

	var staffID *int64
	if c.StaffID != nil {
		id := *c.StaffID
		staffID = &id
	}

	return &domain.Booking{
		StaffID:     staffID,
		ServiceIDs:  serviceIDs,
		Date:        time.Date(c.Date.Year(), c.Date.Month(), c.Date.Day(), 0, 0, 0, 0, c.Date.Location()),
		StartTime:   c.StartTime,
		EndTime:     endTime,
		Status:      domain.StatusPending,
		ClientName:  c.ClientName,
		ClientPhone: c.ClientPhone,
		Notes:       c.Notes,
	}, nil
}

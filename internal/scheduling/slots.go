package scheduling

import (
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/pkg/types"
)

// GenerateSlots перечисляет время начала от window.Start до window.End-duration включительно
// с шагом stepMinutes (30, если шаг не положительный). Все слоты предварительно свободны.
// Без окна, при неположительной длительности или длительности больше окна слотов нет.
func GenerateSlots(window *domain.WorkingWindow, durationMinutes, stepMinutes int) []domain.Slot {
	slots := make([]domain.Slot, 0)
	if window == nil || durationMinutes <= 0 {
		return slots
	}
	if stepMinutes <= 0 {
		stepMinutes = domain.DefaultSlotStepMinutes
	}

	last := window.End.Minutes() - durationMinutes
	for m := window.Start.Minutes(); m <= last; m += stepMinutes {
		t, err := types.FromMinutes(m)
		if err != nil {
			break
		}
		slots = append(slots, domain.Slot{Time: t, Available: true})
	}

	return slots
}

// FilterAvailable выставляет итоговый флаг Available и возвращает новый срез в том же порядке.
//
// Слот [t, t+d) занят, если пересекается с неотмененным бронированием на ту же дату
// (при указанном staffID только того же мастера) либо если дата сегодняшняя и t
// не позже текущего времени. Входные данные не изменяются.
func FilterAvailable(
	slots []domain.Slot,
	durationMinutes int,
	bookings []*domain.Booking,
	date time.Time,
	staffID *int64,
	now time.Time,
) []domain.Slot {
	result := make([]domain.Slot, len(slots))

	relevant := relevantBookings(bookings, date, staffID)
	today := isSameDay(date, now)
	nowMinutes := now.Hour()*60 + now.Minute()

	for i, slot := range slots {
		available := slot.Available

		if today && slot.Time.Minutes() <= nowMinutes {
			available = false
		}

		if available && collides(slot.Time, durationMinutes, relevant) {
			available = false
		}

		result[i] = domain.Slot{Time: slot.Time, Available: available}
	}

	return result
}

// relevantBookings оставляет бронирования, занимающие календарь на дату, с учетом фильтра по мастеру
func relevantBookings(bookings []*domain.Booking, date time.Time, staffID *int64) []*domain.Booking {
	result := make([]*domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b == nil || !b.OccupiesCalendar() || !isSameDay(b.Date, date) {
			continue
		}
		if staffID != nil && (b.StaffID == nil || *b.StaffID != *staffID) {
			continue
		}
		result = append(result, b)
	}
	return result
}

// collides проверяет [start, start+duration) на пересечение с интервалами бронирований.
// Если одно бронирование заканчивается ровно там, где начинается другое, это НЕ пересечение.
func collides(start types.TimeString, durationMinutes int, bookings []*domain.Booking) bool {
	slotStart := start.Minutes()
	slotEnd := slotStart + durationMinutes

	for _, b := range bookings {
		if slotStart < b.EndTime.Minutes() && slotEnd > b.StartTime.Minutes() {
			return true
		}
	}
	return false
}

// Collides проверяет, пересекается ли b с другим бронированием, занимающим календарь в ту же дату.
// Если у b есть мастер, учитываются только его бронирования. Само b пропускается по ID.
func Collides(b *domain.Booking, others []*domain.Booking) bool {
	if b == nil {
		return false
	}

	competing := make([]*domain.Booking, 0, len(others))
	for _, other := range relevantBookings(others, b.Date, b.StaffID) {
		if other.ID != b.ID {
			competing = append(competing, other)
		}
	}

	return collides(b.StartTime, b.EndTime.Minutes()-b.StartTime.Minutes(), competing)
}

// isSameDay сравнивает календарные дни без учета времени
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

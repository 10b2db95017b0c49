package scheduling

import (
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/pkg/types"
)

// 2025-03-10 - понедельник
var (
	monday    = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	wednesday = time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	lastWeek  = time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
)

func ts(s string) types.TimeString {
	return types.MustTimeString(s)
}

func window(start, end string) domain.WorkingWindow {
	return domain.WorkingWindow{Start: ts(start), End: ts(end)}
}

func id(v int64) *int64 {
	return &v
}

func slotTimes(slots []domain.Slot) []string {
	result := make([]string, 0, len(slots))
	for _, s := range slots {
		result = append(result, s.Time.String())
	}
	return result
}

func availability(slots []domain.Slot) map[string]bool {
	result := make(map[string]bool, len(slots))
	for _, s := range slots {
		result[s.Time.String()] = s.Available
	}
	return result
}

func booking(staffID *int64, date time.Time, start, end string, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		StaffID:   staffID,
		Date:      date,
		StartTime: ts(start),
		EndTime:   ts(end),
		Status:    status,
	}
}

// testSchedule: салон открыт пн-сб 09:00-18:00, воскресенье выходной.
// Мастер 1 работает пн/вт 10:00-16:00, в среду не работает. Мастер 2 неактивен.
// Услуги: 1 = 60 мин, 2 = 240 мин, 3 = 30 мин (неактивна), 4 = 30 мин.
func testSchedule() Schedule {
	hours := domain.WeeklySchedule{}
	for d := time.Monday; d <= time.Saturday; d++ {
		hours[d] = window("09:00", "18:00")
	}

	staff := []*domain.Staff{
		{
			ID:              1,
			Name:            "Anna",
			Active:          true,
			ServicesOffered: []int64{1, 2, 4},
			WorkingHours: domain.WeeklySchedule{
				time.Monday:  window("10:00", "16:00"),
				time.Tuesday: window("10:00", "16:00"),
			},
		},
		{
			ID:              2,
			Name:            "Olga",
			Active:          false,
			ServicesOffered: []int64{1},
			WorkingHours:    domain.WeeklySchedule{time.Monday: window("09:00", "18:00")},
		},
	}

	services := []*domain.Service{
		{ID: 1, Name: "Haircut", DurationMinutes: 60, Active: true},
		{ID: 2, Name: "Coloring", DurationMinutes: 240, Active: true},
		{ID: 3, Name: "Old service", DurationMinutes: 30, Active: false},
		{ID: 4, Name: "Styling", DurationMinutes: 30, Active: true},
	}

	return NewSchedule(hours, staff, nil, services)
}

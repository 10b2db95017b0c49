// Package scheduling рассчитывает свободные слоты и проверяет заявки на бронирование.
//
// Все функции пакета синхронные и чистые, работают над снимком Schedule в памяти.
// Хранилище, текущее время и блокировки остаются на стороне вызывающего кода.
package scheduling

import (
	"sort"
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
)

// Schedule снимок настроек салона только для чтения
type Schedule struct {
	BusinessHours domain.WeeklySchedule
	Staff         map[int64]*domain.Staff
	BlockedDates  map[string]domain.BlockedDate
	Services      map[int64]*domain.Service
}

// NewSchedule индексирует загруженные коллекции
func NewSchedule(
	hours domain.WeeklySchedule,
	staff []*domain.Staff,
	blocked []domain.BlockedDate,
	services []*domain.Service,
) Schedule {
	s := Schedule{
		BusinessHours: hours,
		Staff:         make(map[int64]*domain.Staff, len(staff)),
		BlockedDates:  make(map[string]domain.BlockedDate, len(blocked)),
		Services:      make(map[int64]*domain.Service, len(services)),
	}
	for _, st := range staff {
		s.Staff[st.ID] = st
	}
	for _, b := range blocked {
		s.BlockedDates[b.Key()] = b
	}
	for _, svc := range services {
		s.Services[svc.ID] = svc
	}
	return s
}

// IsBlocked проверяет, что дата - общий выходной салона
func (s Schedule) IsBlocked(date time.Time) bool {
	_, ok := s.BlockedDates[date.Format(domain.DateFormat)]
	return ok
}

// TotalDuration суммирует длительность выбранных услуг.
// Список должен быть непустым, без повторов и содержать только активные услуги.
func (s Schedule) TotalDuration(serviceIDs []int64) (int, error) {
	if len(serviceIDs) == 0 {
		return 0, ErrInvalidServiceSelection
	}

	seen := make(map[int64]struct{}, len(serviceIDs))
	total := 0
	for _, id := range serviceIDs {
		if _, dup := seen[id]; dup {
			return 0, ErrInvalidServiceSelection
		}
		seen[id] = struct{}{}

		svc, ok := s.Services[id]
		if !ok || !svc.Active || svc.DurationMinutes <= 0 {
			return 0, ErrInvalidServiceSelection
		}
		total += svc.DurationMinutes
	}
	return total, nil
}

// StaffOffering возвращает активных мастеров, выполняющих все выбранные услуги, по возрастанию id
func (s Schedule) StaffOffering(serviceIDs []int64) []*domain.Staff {
	result := make([]*domain.Staff, 0, len(s.Staff))
	for _, st := range s.Staff {
		if st.Active && st.Offers(serviceIDs) {
			result = append(result, st)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

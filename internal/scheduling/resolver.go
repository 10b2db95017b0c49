package scheduling

import (
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
)

// ResolveWindow возвращает рабочее окно на дату или nil, если в этот день не работают.
//
// Заблокированная дата закрывает салон для всех. Если указан staffID, собственные часы мастера
// заменяют часы салона, но только когда сам салон открыт в этот день недели.
// Неизвестный или неактивный мастер, как и отсутствующий день недели, означает выходной.
func ResolveWindow(s Schedule, date time.Time, staffID *int64) *domain.WorkingWindow {
	if s.IsBlocked(date) {
		return nil
	}

	weekday := date.Weekday()

	salon := s.BusinessHours.For(weekday)
	if salon == nil {
		return nil
	}

	if staffID == nil {
		return salon
	}

	staff, ok := s.Staff[*staffID]
	if !ok || !staff.Active {
		return nil
	}

	return staff.WorkingHours.For(weekday)
}

package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
)

// Locker сериализует создание бронирований на один календарный день
type Locker interface {
	WithDayLock(ctx context.Context, date time.Time, fn func(ctx context.Context) error) error
}

// DayKey ключ блокировки для даты
func DayKey(date time.Time) string {
	return fmt.Sprintf("salon:lock:day:%s", date.Format(domain.DateFormat))
}

package get_available_slots

import (
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	Date          time.Time // Дата (без времени)
	ServiceIDs    []int64   // Выбранные услуги, длительность суммируется
	StaffID       *int64    // Мастер, nil - любой (часы салона)
	OnlyAvailable bool      // Убрать занятые слоты из ответа
}

// Response модель ответа со списком слотов
type Response struct {
	Date            time.Time
	StaffID         *int64
	ServiceIDs      []int64
	DurationMinutes int                   // Суммарная длительность услуг
	StepMinutes     int                   // Шаг сетки слотов
	Window          *domain.WorkingWindow // nil - выходной
	Slots           []domain.Slot
}

package create_booking

import (
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	Date        time.Time        // Дата бронирования (без времени)
	StartTime   types.TimeString // Время начала (например, "10:00")
	ServiceIDs  []int64          // Выбранные услуги, порядок сохраняется
	StaffID     *int64           // Мастер (опционально, nil = любой)
	ClientName  string           // Имя клиента
	ClientPhone string           // Телефон клиента
	Notes       *string          // Комментарий клиента (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking      *domain.Booking
	ServiceNames []string // Названия услуг в порядке ServiceIDs
	StaffName    string   // Имя мастера, пусто если мастер не выбран
	WhatsAppLink string   // Ссылка на чат с салоном, пусто если телефон салона не задан
}

package whatsapp

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/m04kA/salon-booking/internal/domain"
)

var ErrInvalidPhone = errors.New("whatsapp: phone number has no digits")

// LinkBuilder собирает ссылки вида https://wa.me/<номер>?text=<сообщение>
type LinkBuilder struct {
	baseURL string
}

func NewLinkBuilder(baseURL string) *LinkBuilder {
	return &LinkBuilder{baseURL: strings.TrimRight(baseURL, "/")}
}

// BookingSummary данные бронирования для текста сообщения
type BookingSummary struct {
	BookingID    int64
	ClientName   string
	Date         string
	StartTime    string
	EndTime      string
	ServiceNames []string
	StaffName    string
}

// NewBookingSummary собирает сводку по бронированию и названиям услуг
func NewBookingSummary(b *domain.Booking, serviceNames []string, staffName string) BookingSummary {
	return BookingSummary{
		BookingID:    b.ID,
		ClientName:   b.ClientName,
		Date:         b.DateString(),
		StartTime:    b.StartTime.String(),
		EndTime:      b.EndTime.String(),
		ServiceNames: serviceNames,
		StaffName:    staffName,
	}
}

// Message текст сообщения клиента салону
func (s BookingSummary) Message(salonName string) string {
	var sb strings.Builder
	if salonName != "" {
		fmt.Fprintf(&sb, "Здравствуйте, %s! ", salonName)
	} else {
		sb.WriteString("Здравствуйте! ")
	}
	fmt.Fprintf(&sb, "Я записался(ась) онлайн, бронирование №%d.\n", s.BookingID)
	fmt.Fprintf(&sb, "Имя: %s\n", s.ClientName)
	fmt.Fprintf(&sb, "Дата: %s, %s-%s\n", s.Date, s.StartTime, s.EndTime)
	if len(s.ServiceNames) > 0 {
		fmt.Fprintf(&sb, "Услуги: %s\n", strings.Join(s.ServiceNames, ", "))
	}
	if s.StaffName != "" {
		fmt.Fprintf(&sb, "Мастер: %s\n", s.StaffName)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Link ссылка на чат с номером phone и заранее набранным текстом
func (b *LinkBuilder) Link(phone, text string) (string, error) {
	digits := normalizePhone(phone)
	if digits == "" {
		return "", ErrInvalidPhone
	}

	link := b.baseURL + "/" + digits
	if text != "" {
		link += "?text=" + url.QueryEscape(text)
	}
	return link, nil
}

// BookingLink ссылка для отправки сводки бронирования на номер салона
func (b *LinkBuilder) BookingLink(salonPhone, salonName string, summary BookingSummary) (string, error) {
	return b.Link(salonPhone, summary.Message(salonName))
}

// normalizePhone оставляет только цифры: wa.me принимает номер в международном формате без "+"
func normalizePhone(phone string) string {
	var sb strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

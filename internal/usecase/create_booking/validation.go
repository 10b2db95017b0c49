package create_booking

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/pkg/types"
)

const (
	minPhoneDigits    = 7
	maxPhoneDigits    = 15
	maxClientNameRune = 100
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	if len(req.ServiceIDs) > domain.MaxServicesPerBooking {
		return fmt.Errorf("%w: at most %d services per booking", ErrInvalidInput, domain.MaxServicesPerBooking)
	}

	for _, id := range req.ServiceIDs {
		if id <= 0 {
			return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
		}
	}

	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.ClientName)
	if name == "" {
		return fmt.Errorf("%w: client name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > maxClientNameRune {
		return fmt.Errorf("%w: client name is too long", ErrInvalidInput)
	}

	digits := countDigits(req.ClientPhone)
	if digits < minPhoneDigits || digits > maxPhoneDigits {
		return fmt.Errorf("%w: client phone must contain %d-%d digits", ErrInvalidInput, minPhoneDigits, maxPhoneDigits)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата подходит для бронирования
func validateDate(bookingDate time.Time, now time.Time, advanceBookingDays int) error {
	// Проверяем, что дата не в прошлом
	if isDateInPast(bookingDate, now) {
		return ErrInvalidDate
	}

	// Если advanceBookingDays = 0, нет ограничений на дату
	if advanceBookingDays == 0 {
		return nil
	}

	maxDate := dateOnly(now).AddDate(0, 0, advanceBookingDays)
	if dateOnly(bookingDate).After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}

// validateStartTime отклоняет на сегодня время начала, которое уже наступило
// или до которого осталось меньше minNoticeMinutes
func validateStartTime(bookingDate time.Time, startTime types.TimeString, now time.Time, minNoticeMinutes int) error {
	if !isSameDay(bookingDate, now) {
		return nil
	}

	nowMinutes := types.NewTimeString(now).Minutes()
	if startTime.Minutes() <= nowMinutes {
		return ErrSlotInPast
	}

	if minNoticeMinutes > 0 && startTime.Minutes() < nowMinutes+minNoticeMinutes {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrSlotInPast, minNoticeMinutes)
	}

	return nil
}

// countDigits количество цифр в телефоне, форматирование не учитывается
func countDigits(phone string) int {
	n := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	return dateOnly(date).Before(dateOnly(now))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
)

var (
	// ErrInvalidTimeString возвращается, если значение не является временем "HH:MM"
	ErrInvalidTimeString = errors.New("invalid time string format")
	// ErrTimeOutOfRange возвращается, если арифметика выходит за пределы суток
	ErrTimeOutOfRange = errors.New("time is out of day range")
)

// TimeString время суток с точностью до минуты, сериализуется как "HH:MM".
// Конец суток (24:00) может получиться в результате арифметики, чтобы интервалы,
// заканчивающиеся в полночь, можно было сравнивать. На входе 24:00 не принимается.
type TimeString struct {
	minutes int
}

// NewTimeString берет часы и минуты из t
func NewTimeString(t time.Time) TimeString {
	return TimeString{minutes: t.Hour()*minutesPerHour + t.Minute()}
}

// NewTimeStringFromString разбирает строгое значение "HH:MM" с ведущими нулями в диапазоне 00:00..23:59
func NewTimeStringFromString(s string) (TimeString, error) {
	if len(s) != 5 || s[2] != ':' {
		return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	hour, ok := parseTwoDigits(s[0:2])
	if !ok || hour > 23 {
		return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	minute, ok := parseTwoDigits(s[3:5])
	if !ok || minute > 59 {
		return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return TimeString{minutes: hour*minutesPerHour + minute}, nil
}

// MustTimeString как NewTimeStringFromString, но паникует при ошибке. Для констант и тестов.
func MustTimeString(s string) TimeString {
	t, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return t
}

// FromMinutes строит TimeString из минут от полуночи (0..1440)
func FromMinutes(m int) (TimeString, error) {
	if m < 0 || m > minutesPerDay {
		return TimeString{}, fmt.Errorf("%w: %d minutes", ErrTimeOutOfRange, m)
	}
	return TimeString{minutes: m}, nil
}

func parseTwoDigits(s string) (int, bool) {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

// Minutes возвращает минуты от полуночи
func (t TimeString) Minutes() int {
	return t.minutes
}

// AddMinutes сдвигает время на d минут. Результат должен остаться в пределах 00:00..24:00.
func (t TimeString) AddMinutes(d int) (TimeString, error) {
	return FromMinutes(t.minutes + d)
}

func (t TimeString) IsBefore(other TimeString) bool {
	return t.minutes < other.minutes
}

func (t TimeString) IsAfter(other TimeString) bool {
	return t.minutes > other.minutes
}

func (t TimeString) Equal(other TimeString) bool {
	return t.minutes == other.minutes
}

// String форматирует время как "HH:MM"
func (t TimeString) String() string {
	return fmt.Sprintf("%02d:%02d", t.minutes/minutesPerHour, t.minutes%minutesPerHour)
}

// OnDate переносит время на календарный день date в его часовом поясе
func (t TimeString) OnDate(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.minutes/minutesPerHour, t.minutes%minutesPerHour, 0, 0, date.Location())
}

// Value реализует driver.Valuer. Время хранится как TEXT.
func (t TimeString) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan реализует sql.Scanner
func (t *TimeString) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case nil:
		return fmt.Errorf("%w: NULL", ErrInvalidTimeString)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidTimeString, src)
	}

	// колонки TIME в postgres возвращаются как "HH:MM:SS"
	if len(s) == 8 && s[5] == ':' {
		s = s[:5]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t TimeString) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

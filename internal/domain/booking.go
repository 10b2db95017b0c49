package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/salon-booking/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no-show"
)

var (
	ErrUnknownStatus           = errors.New("unknown booking status")
	ErrInvalidStatusTransition = errors.New("invalid booking status transition")
)

// allowedTransitions lists the admin-driven moves between statuses.
var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusNoShow, StatusCancelled},
}

// ParseBookingStatus validates a raw status value
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}

// IsValid returns true for the five known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status may change to next.
// With strict=false any known status may be set, matching the loose admin panel behaviour.
func (s BookingStatus) CanTransitionTo(next BookingStatus, strict bool) error {
	if !next.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, next)
	}
	if !strict {
		return nil
	}
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, s, next)
}

// Booking represents an appointment in the salon calendar
type Booking struct {
	ID         int64
	StaffID    *int64
	ServiceIDs []int64
	ClientID   *int64
	Date       time.Time // calendar day, time part is ignored
	StartTime  types.TimeString
	EndTime    types.TimeString
	Status     BookingStatus

	// Contact data captured with the submission
	ClientName  string
	ClientPhone string
	Notes       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OccupiesCalendar returns true if the booking blocks its interval for collision checks.
// Only cancelled bookings free their slot.
func (b *Booking) OccupiesCalendar() bool {
	return b.Status != StatusCancelled
}

// DurationMinutes returns the length of the booked interval
func (b *Booking) DurationMinutes() int {
	return b.EndTime.Minutes() - b.StartTime.Minutes()
}

// DateString formats the booking day as YYYY-MM-DD
func (b *Booking) DateString() string {
	return b.Date.Format(DateFormat)
}

// BookingsFilter фильтр для выборки бронирований
type BookingsFilter struct {
	StartDate        *time.Time     // Начало периода (включительно)
	EndDate          *time.Time     // Конец периода (включительно)
	StaffID          *int64         // Фильтр по мастеру
	ClientID         *int64         // Фильтр по клиенту
	Status           *BookingStatus // Фильтр по статусу
	IncludeCancelled bool           // Включать отменённые бронирования
}

// IsSingleDay returns true if the filter targets exactly one date
func (f BookingsFilter) IsSingleDay() bool {
	return f.StartDate != nil && f.EndDate != nil &&
		f.StartDate.Format(DateFormat) == f.EndDate.Format(DateFormat)
}

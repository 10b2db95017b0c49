package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/salon-booking/pkg/types"
)

var ErrInvalidWindow = errors.New("working window start must be before end")

// WorkingWindow is the part of a day during which appointments may take place
type WorkingWindow struct {
	Start types.TimeString
	End   types.TimeString
}

// NewWorkingWindow parses "HH:MM" bounds and checks start < end
func NewWorkingWindow(start, end string) (WorkingWindow, error) {
	s, err := types.NewTimeStringFromString(start)
	if err != nil {
		return WorkingWindow{}, err
	}
	e, err := types.NewTimeStringFromString(end)
	if err != nil {
		return WorkingWindow{}, err
	}
	w := WorkingWindow{Start: s, End: e}
	if err := w.Validate(); err != nil {
		return WorkingWindow{}, err
	}
	return w, nil
}

func (w WorkingWindow) Validate() error {
	if !w.Start.IsBefore(w.End) {
		return fmt.Errorf("%w: %s-%s", ErrInvalidWindow, w.Start, w.End)
	}
	return nil
}

// LengthMinutes returns the window length
func (w WorkingWindow) LengthMinutes() int {
	return w.End.Minutes() - w.Start.Minutes()
}

// Contains reports whether [start, start+duration) lies inside the window
func (w WorkingWindow) Contains(start types.TimeString, durationMinutes int) bool {
	end := start.Minutes() + durationMinutes
	return !start.IsBefore(w.Start) && end <= w.End.Minutes()
}

// WeeklySchedule maps a weekday to its window. A missing weekday means closed.
type WeeklySchedule map[time.Weekday]WorkingWindow

// For returns the window of the given weekday or nil when closed
func (s WeeklySchedule) For(day time.Weekday) *WorkingWindow {
	w, ok := s[day]
	if !ok {
		return nil
	}
	return &w
}

// Validate checks every window of the week
func (s WeeklySchedule) Validate() error {
	for day, w := range s {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("%s: %w", day, err)
		}
	}
	return nil
}

// BlockedDate closes the whole salon for one calendar day
type BlockedDate struct {
	Date      time.Time
	Reason    string
	CreatedAt time.Time
}

// Key returns the YYYY-MM-DD form used for lookups
func (b BlockedDate) Key() string {
	return b.Date.Format(DateFormat)
}

// Settings salon-wide booking settings managed from the admin panel
type Settings struct {
	SalonName          string
	SalonPhone         string
	SlotStepMinutes    int
	AdvanceBookingDays int // 0 = unlimited
	MinNoticeMinutes   int
	UpdatedAt          time.Time
}

// WithDefaults fills zero values with the defaults
func (s Settings) WithDefaults() Settings {
	if s.SlotStepMinutes <= 0 {
		s.SlotStepMinutes = DefaultSlotStepMinutes
	}
	if s.AdvanceBookingDays < 0 {
		s.AdvanceBookingDays = DefaultAdvanceBookingDays
	}
	if s.MinNoticeMinutes < 0 {
		s.MinNoticeMinutes = DefaultMinNoticeMinutes
	}
	return s
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (s Settings) HasAdvanceBookingLimit() bool {
	return s.AdvanceBookingDays > 0
}

// ParseWeekday accepts english weekday names in any case, e.g. "monday"
func ParseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

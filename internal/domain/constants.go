package domain

// Default configuration values
const (
	DefaultSlotStepMinutes    = 30
	DefaultAdvanceBookingDays = 60 // 0 = unlimited
	DefaultMinNoticeMinutes   = 0
)

// Business validation constants
const (
	MinSlotStepMinutes      = 5
	MaxSlotStepMinutes      = 240
	MinServiceDuration      = 5
	MaxServiceDuration      = 720 // 12 hours
	MaxAdvanceBookingDays   = 365
	MaxNotesLength          = 500
	MaxBlockedReasonLength  = 200
	MaxServicesPerBooking   = 10
	MaxGalleryCaptionLength = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses statuses that occupy the calendar
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusNoShow,
}

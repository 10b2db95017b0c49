package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
)

// ErrDuplicateWeekday день недели указан несколькими ключами, например "Monday" и "monday"
var ErrDuplicateWeekday = errors.New("weekday is listed more than once")

// Window рабочее окно дня в формате HH:MM
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WeeklyHours расписание по дням недели: ключ "monday".."sunday", null или отсутствие = выходной
type WeeklyHours map[string]*Window

// ToDomain разбирает и проверяет расписание
func (h WeeklyHours) ToDomain() (domain.WeeklySchedule, error) {
	schedule := make(domain.WeeklySchedule, len(h))
	seen := make(map[time.Weekday]struct{}, len(h))
	for day, w := range h {
		weekday, err := domain.ParseWeekday(day)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[weekday]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateWeekday, strings.ToLower(day))
		}
		seen[weekday] = struct{}{}
		if w == nil {
			continue
		}
		window, err := domain.NewWorkingWindow(w.Start, w.End)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", strings.ToLower(day), err)
		}
		schedule[weekday] = window
	}
	return schedule, nil
}

// FromDomainWeekly возвращает все семь дней, выходные как null
func FromDomainWeekly(s domain.WeeklySchedule) WeeklyHours {
	hours := make(WeeklyHours, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		key := strings.ToLower(d.String())
		if w := s.For(d); w != nil {
			hours[key] = &Window{Start: w.Start.String(), End: w.End.String()}
		} else {
			hours[key] = nil
		}
	}
	return hours
}

// Request модели

// ReplaceHoursRequest запрос на замену часов работы салона
type ReplaceHoursRequest struct {
	Hours WeeklyHours `json:"hours" validate:"required"`
}

// AddBlockedDateRequest запрос на добавление выходного дня
type AddBlockedDateRequest struct {
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Reason string `json:"reason" validate:"max=200"`
}

// UpdateSettingsRequest запрос на обновление настроек
// Все поля опциональны - обновляются только переданные значения
type UpdateSettingsRequest struct {
	SalonName          *string `json:"salonName,omitempty" validate:"omitempty,max=100"`
	SalonPhone         *string `json:"salonPhone,omitempty" validate:"omitempty,max=32"`
	SlotStepMinutes    *int    `json:"slotStepMinutes,omitempty" validate:"omitempty,gte=5,lte=240"`
	AdvanceBookingDays *int    `json:"advanceBookingDays,omitempty" validate:"omitempty,gte=0,lte=365"`
	MinNoticeMinutes   *int    `json:"minNoticeMinutes,omitempty" validate:"omitempty,gte=0,lte=1440"`
}

// Response модели

// BlockedDateResponse выходной день
type BlockedDateResponse struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// SettingsResponse настройки салона
type SettingsResponse struct {
	SalonName          string     `json:"salonName"`
	SalonPhone         string     `json:"salonPhone"`
	SlotStepMinutes    int        `json:"slotStepMinutes"`
	AdvanceBookingDays int        `json:"advanceBookingDays"` // 0 = без ограничений
	MinNoticeMinutes   int        `json:"minNoticeMinutes"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}

// ScheduleResponse публичное расписание салона
type ScheduleResponse struct {
	BusinessHours WeeklyHours           `json:"businessHours"`
	BlockedDates  []BlockedDateResponse `json:"blockedDates"`
	Settings      SettingsResponse      `json:"settings"`
}

// Методы конвертации

// FromDomainBlockedDates конвертирует выходные дни в DTO
func FromDomainBlockedDates(blocked []domain.BlockedDate) []BlockedDateResponse {
	resp := make([]BlockedDateResponse, 0, len(blocked))
	for _, b := range blocked {
		resp = append(resp, BlockedDateResponse{Date: b.Key(), Reason: b.Reason})
	}
	return resp
}

// FromDomainSettings конвертирует настройки в DTO
func FromDomainSettings(s domain.Settings) SettingsResponse {
	resp := SettingsResponse{
		SalonName:          s.SalonName,
		SalonPhone:         s.SalonPhone,
		SlotStepMinutes:    s.SlotStepMinutes,
		AdvanceBookingDays: s.AdvanceBookingDays,
		MinNoticeMinutes:   s.MinNoticeMinutes,
	}
	if !s.UpdatedAt.IsZero() {
		updatedAt := s.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

// Apply применяет переданные поля к текущим настройкам
func (r *UpdateSettingsRequest) Apply(s domain.Settings) domain.Settings {
	if r.SalonName != nil {
		s.SalonName = strings.TrimSpace(*r.SalonName)
	}
	if r.SalonPhone != nil {
		s.SalonPhone = strings.TrimSpace(*r.SalonPhone)
	}
	if r.SlotStepMinutes != nil {
		s.SlotStepMinutes = *r.SlotStepMinutes
	}
	if r.AdvanceBookingDays != nil {
		s.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.MinNoticeMinutes != nil {
		s.MinNoticeMinutes = *r.MinNoticeMinutes
	}
	return s
}

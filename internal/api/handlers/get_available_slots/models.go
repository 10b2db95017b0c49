package get_available_slots

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
	getAvailableSlots "github.com/m04kA/salon-booking/internal/usecase/get_available_slots"
)

var (
	errMissingDate       = errors.New("date is required")
	errInvalidDate       = errors.New("invalid date")
	errMissingServiceIDs = errors.New("serviceIds is required")
	errInvalidServiceIDs = errors.New("invalid serviceIds")
	errInvalidStaffID    = errors.New("invalid staffId")
	errInvalidOnlyFlag   = errors.New("invalid onlyAvailable")
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	StaffID         *int64          `json:"staffId,omitempty"`
	ServiceIDs      []int64         `json:"serviceIds"`
	DurationMinutes int             `json:"durationMinutes"`
	StepMinutes     int             `json:"stepMinutes"`
	Closed          bool            `json:"closed"`
	WorkingHours    *WorkingHours   `json:"workingHours,omitempty"`
	Slots           []AvailableSlot `json:"slots"`
}

// WorkingHours окно работы на дату
type WorkingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// ToUseCaseRequest создает запрос use case из query параметров
// date=2025-03-10&serviceIds=1,2&staffId=3&onlyAvailable=true
func ToUseCaseRequest(query url.Values) (*getAvailableSlots.Request, error) {
	dateStr := query.Get("date")
	if dateStr == "" {
		return nil, errMissingDate
	}
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	serviceIDs, err := parseIDList(query.Get("serviceIds"))
	if err != nil {
		return nil, err
	}

	req := &getAvailableSlots.Request{
		Date:       date,
		ServiceIDs: serviceIDs,
	}

	if staffStr := query.Get("staffId"); staffStr != "" {
		staffID, err := strconv.ParseInt(staffStr, 10, 64)
		if err != nil || staffID <= 0 {
			return nil, errInvalidStaffID
		}
		req.StaffID = &staffID
	}

	if onlyStr := query.Get("onlyAvailable"); onlyStr != "" {
		only, err := strconv.ParseBool(onlyStr)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", errInvalidOnlyFlag, onlyStr)
		}
		req.OnlyAvailable = only
	}

	return req, nil
}

func parseIDList(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errMissingServiceIDs
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", errInvalidServiceIDs, part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			Time:      slot.Time.String(),
			Available: slot.Available,
		}
	}

	result := &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		StaffID:         resp.StaffID,
		ServiceIDs:      resp.ServiceIDs,
		DurationMinutes: resp.DurationMinutes,
		StepMinutes:     resp.StepMinutes,
		Closed:          resp.Window == nil,
		Slots:           slots,
	}
	if resp.Window != nil {
		result.WorkingHours = &WorkingHours{
			Start: resp.Window.Start.String(),
			End:   resp.Window.End.String(),
		}
	}
	return result
}

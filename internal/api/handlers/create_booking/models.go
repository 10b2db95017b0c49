package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
	createBooking "github.com/m04kA/salon-booking/internal/usecase/create_booking"
	"github.com/m04kA/salon-booking/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid start time")
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Date        string  `json:"date"`      // "2025-10-15"
	StartTime   string  `json:"startTime"` // "10:00"
	ServiceIDs  []int64 `json:"serviceIds"`
	StaffID     *int64  `json:"staffId,omitempty"`
	ClientName  string  `json:"clientName"`
	ClientPhone string  `json:"clientPhone"`
	Notes       *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64    `json:"id"`
	Date            string   `json:"date"`
	StartTime       string   `json:"startTime"`
	EndTime         string   `json:"endTime"`
	DurationMinutes int      `json:"durationMinutes"`
	Status          string   `json:"status"`
	ServiceIDs      []int64  `json:"serviceIds"`
	ServiceNames    []string `json:"serviceNames"`
	StaffID         *int64   `json:"staffId,omitempty"`
	StaffName       string   `json:"staffName,omitempty"`
	ClientName      string   `json:"clientName"`
	ClientPhone     string   `json:"clientPhone"`
	Notes           *string  `json:"notes,omitempty"`
	WhatsAppLink    string   `json:"whatsappLink,omitempty"`
	CreatedAt       string   `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	return &createBooking.Request{
		Date:        date,
		StartTime:   startTime,
		ServiceIDs:  r.ServiceIDs,
		StaffID:     r.StaffID,
		ClientName:  r.ClientName,
		ClientPhone: r.ClientPhone,
		Notes:       r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	b := resp.Booking
	return &BookingResponse{
		ID:              b.ID,
		Date:            b.DateString(),
		StartTime:       b.StartTime.String(),
		EndTime:         b.EndTime.String(),
		DurationMinutes: b.DurationMinutes(),
		Status:          string(b.Status),
		ServiceIDs:      b.ServiceIDs,
		ServiceNames:    resp.ServiceNames,
		StaffID:         b.StaffID,
		StaffName:       resp.StaffName,
		ClientName:      b.ClientName,
		ClientPhone:     b.ClientPhone,
		Notes:           b.Notes,
		WhatsAppLink:    resp.WhatsAppLink,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
	}
}

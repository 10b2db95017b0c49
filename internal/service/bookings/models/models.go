package models

import (
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
)

// Request модели

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListBookingsRequest запрос на получение бронирований салона
type ListBookingsRequest struct {
	StartDate        *time.Time // Начало периода (опционально)
	EndDate          *time.Time // Конец периода (опционально)
	StaffID          *int64     // Фильтр по мастеру (опционально)
	ClientID         *int64     // Фильтр по клиенту (опционально)
	Status           *string    // Фильтр по статусу (опционально)
	IncludeCancelled bool       // Включить отменённые бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		StaffID:          r.StaffID,
		ClientID:         r.ClientID,
		IncludeCancelled: r.IncludeCancelled,
	}

	// Конвертируем статус если указан
	if r.Status != nil {
		status, err := domain.ParseBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
		// явный фильтр по отменённым подразумевает их включение
		if status == domain.StatusCancelled {
			filter.IncludeCancelled = true
		}
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64   `json:"id"`
	Date            string  `json:"date"`      // "2025-10-15"
	StartTime       string  `json:"startTime"` // "10:00"
	EndTime         string  `json:"endTime"`   // "11:30"
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	StaffID         *int64  `json:"staffId,omitempty"`
	ServiceIDs      []int64 `json:"serviceIds"`
	ClientID        *int64  `json:"clientId,omitempty"`
	ClientName      string  `json:"clientName"`
	ClientPhone     string  `json:"clientPhone"`
	Notes           *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	serviceIDs := b.ServiceIDs
	if serviceIDs == nil {
		serviceIDs = []int64{}
	}

	return &BookingResponse{
		ID:              b.ID,
		Date:            b.DateString(),
		StartTime:       b.StartTime.String(),
		EndTime:         b.EndTime.String(),
		DurationMinutes: b.DurationMinutes(),
		Status:          string(b.Status),
		StaffID:         b.StaffID,
		ServiceIDs:      serviceIDs,
		ClientID:        b.ClientID,
		ClientName:      b.ClientName,
		ClientPhone:     b.ClientPhone,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

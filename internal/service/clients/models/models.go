package models

import (
	"strings"
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
	bookingmodels "github.com/m04kA/salon-booking/internal/service/bookings/models"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Request модели

// ListClientsRequest параметры поиска клиентов
type ListClientsRequest struct {
	Search string
	Limit  int
	Offset int
}

// UpdateNotesRequest запрос на изменение заметок о клиенте
type UpdateNotesRequest struct {
	Notes *string `json:"notes" validate:"omitempty,max=500"`
}

// Normalize подставляет значения по умолчанию для пагинации
func (r *ListClientsRequest) Normalize() {
	r.Search = strings.TrimSpace(r.Search)
	if r.Limit <= 0 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
}

// Response модели

// ClientResponse клиент салона
type ClientResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	Notes         *string   `json:"notes,omitempty"`
	BookingsCount int       `json:"bookingsCount"`
	LastVisit     *string   `json:"lastVisit,omitempty"` // YYYY-MM-DD
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ClientListResponse список клиентов
type ClientListResponse struct {
	Clients []ClientResponse `json:"clients"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

// ClientDetailsResponse клиент с историей бронирований
type ClientDetailsResponse struct {
	ClientResponse
	Bookings []bookingmodels.BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainClient конвертирует клиента в DTO
func FromDomainClient(c *domain.Client) ClientResponse {
	resp := ClientResponse{
		ID:            c.ID,
		Name:          c.Name,
		Phone:         c.Phone,
		Notes:         c.Notes,
		BookingsCount: c.BookingsCount,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if c.LastVisit != nil {
		lastVisit := c.LastVisit.Format(domain.DateFormat)
		resp.LastVisit = &lastVisit
	}
	return resp
}

// FromDomainClientList конвертирует список клиентов
func FromDomainClientList(clients []*domain.Client, limit, offset int) *ClientListResponse {
	resp := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		resp = append(resp, FromDomainClient(c))
	}
	return &ClientListResponse{Clients: resp, Limit: limit, Offset: offset}
}

package models

import (
	"strings"
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
	schedulemodels "github.com/m04kA/salon-booking/internal/service/schedule/models"
)

// Request модели

// CreateServiceRequest запрос на создание услуги
type CreateServiceRequest struct {
	Name            string  `json:"name" validate:"required,max=100"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=500"`
	DurationMinutes int     `json:"durationMinutes" validate:"required,gte=5,lte=720"`
	Price           float64 `json:"price" validate:"gte=0"`
	Active          *bool   `json:"active,omitempty"` // по умолчанию true
}

// UpdateServiceRequest запрос на обновление услуги
// Все поля опциональны - обновляются только переданные значения
type UpdateServiceRequest struct {
	Name            *string  `json:"name,omitempty" validate:"omitempty,max=100"`
	Description     *string  `json:"description,omitempty" validate:"omitempty,max=500"`
	DurationMinutes *int     `json:"durationMinutes,omitempty" validate:"omitempty,gte=5,lte=720"`
	Price           *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Active          *bool    `json:"active,omitempty"`
}

// CreateStaffRequest запрос на создание мастера
type CreateStaffRequest struct {
	Name         string                     `json:"name" validate:"required,max=100"`
	Role         *string                    `json:"role,omitempty" validate:"omitempty,max=100"`
	WorkingHours schedulemodels.WeeklyHours `json:"workingHours"`
	ServiceIDs   []int64                    `json:"serviceIds" validate:"dive,gt=0"`
	Active       *bool                      `json:"active,omitempty"` // по умолчанию true
}

// UpdateStaffRequest запрос на обновление мастера
// nil WorkingHours и ServiceIDs оставляют текущие значения, пустые - очищают
type UpdateStaffRequest struct {
	Name         *string                    `json:"name,omitempty" validate:"omitempty,max=100"`
	Role         *string                    `json:"role,omitempty" validate:"omitempty,max=100"`
	WorkingHours schedulemodels.WeeklyHours `json:"workingHours,omitempty"`
	ServiceIDs   *[]int64                   `json:"serviceIds,omitempty"`
	Active       *bool                      `json:"active,omitempty"`
}

// Response модели

// ServiceResponse услуга салона
type ServiceResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	DurationMinutes int       `json:"durationMinutes"`
	Price           float64   `json:"price"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// StaffResponse мастер салона
type StaffResponse struct {
	ID           int64                      `json:"id"`
	Name         string                     `json:"name"`
	Role         *string                    `json:"role,omitempty"`
	WorkingHours schedulemodels.WeeklyHours `json:"workingHours"`
	ServiceIDs   []int64                    `json:"serviceIds"`
	Active       bool                       `json:"active"`
	CreatedAt    time.Time                  `json:"createdAt"`
	UpdatedAt    time.Time                  `json:"updatedAt"`
}

// ServiceListResponse список услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// StaffListResponse список мастеров
type StaffListResponse struct {
	Staff []StaffResponse `json:"staff"`
}

// DeleteServiceResponse результат удаления услуги
type DeleteServiceResponse struct {
	// Deactivated true, если на услугу есть бронирования и она только скрыта
	Deactivated bool `json:"deactivated"`
}

// Методы конвертации

// ToDomain создает услугу из запроса
func (r *CreateServiceRequest) ToDomain() *domain.Service {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return &domain.Service{
		Name:            strings.TrimSpace(r.Name),
		Description:     trimOptional(r.Description),
		DurationMinutes: r.DurationMinutes,
		Price:           r.Price,
		Active:          active,
	}
}

// Apply применяет переданные поля к услуге
func (r *UpdateServiceRequest) Apply(s *domain.Service) {
	if r.Name != nil {
		s.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		s.Description = trimOptional(r.Description)
	}
	if r.DurationMinutes != nil {
		s.DurationMinutes = *r.DurationMinutes
	}
	if r.Price != nil {
		s.Price = *r.Price
	}
	if r.Active != nil {
		s.Active = *r.Active
	}
}

// ToDomain создает мастера из запроса
func (r *CreateStaffRequest) ToDomain() (*domain.Staff, error) {
	hours, err := r.WorkingHours.ToDomain()
	if err != nil {
		return nil, err
	}
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return &domain.Staff{
		Name:            strings.TrimSpace(r.Name),
		Role:            trimOptional(r.Role),
		WorkingHours:    hours,
		ServicesOffered: uniqueIDs(r.ServiceIDs),
		Active:          active,
	}, nil
}

// Apply применяет переданные поля к мастеру
func (r *UpdateStaffRequest) Apply(s *domain.Staff) error {
	if r.WorkingHours != nil {
		hours, err := r.WorkingHours.ToDomain()
		if err != nil {
			return err
		}
		s.WorkingHours = hours
	}
	if r.Name != nil {
		s.Name = strings.TrimSpace(*r.Name)
	}
	if r.Role != nil {
		s.Role = trimOptional(r.Role)
	}
	if r.ServiceIDs != nil {
		s.ServicesOffered = uniqueIDs(*r.ServiceIDs)
	}
	if r.Active != nil {
		s.Active = *r.Active
	}
	return nil
}

// FromDomainService конвертирует услугу в DTO
func FromDomainService(s *domain.Service) ServiceResponse {
	return ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		Active:          s.Active,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// FromDomainStaff конвертирует мастера в DTO
func FromDomainStaff(s *domain.Staff) StaffResponse {
	serviceIDs := s.ServicesOffered
	if serviceIDs == nil {
		serviceIDs = []int64{}
	}
	return StaffResponse{
		ID:           s.ID,
		Name:         s.Name,
		Role:         s.Role,
		WorkingHours: schedulemodels.FromDomainWeekly(s.WorkingHours),
		ServiceIDs:   serviceIDs,
		Active:       s.Active,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// FromDomainServiceList конвертирует список услуг
func FromDomainServiceList(services []*domain.Service) *ServiceListResponse {
	resp := make([]ServiceResponse, 0, len(services))
	for _, s := range services {
		resp = append(resp, FromDomainService(s))
	}
	return &ServiceListResponse{Services: resp}
}

// FromDomainStaffList конвертирует список мастеров
func FromDomainStaffList(staff []*domain.Staff) *StaffListResponse {
	resp := make([]StaffResponse, 0, len(staff))
	for _, s := range staff {
		resp = append(resp, FromDomainStaff(s))
	}
	return &StaffListResponse{Staff: resp}
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

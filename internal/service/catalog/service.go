package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
	catalogRepo "github.com/m04kA/salon-booking/internal/infra/storage/catalog"
	"github.com/m04kA/salon-booking/internal/service/catalog/models"
)

// Service сервис каталога: услуги и мастера салона
type Service struct {
	catalogRepo CatalogRepository
	bookingRepo BookingRepository
	txManager   TransactionManager
	logger      Logger
	now         func() time.Time
}

// NewService создает новый экземпляр сервиса каталога
func NewService(
	catalogRepo CatalogRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		catalogRepo: catalogRepo,
		bookingRepo: bookingRepo,
		txManager:   txManager,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ListServices список услуг. Публичный каталог показывает только активные.
func (s *Service) ListServices(ctx context.Context, activeOnly bool) (*models.ServiceListResponse, error) {
	services, err := s.catalogRepo.ListServices(ctx, activeOnly)
	if err != nil {
		s.logger.Error("ListServices: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListServices - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainServiceList(services), nil
}

// GetService получает услугу по ID
func (s *Service) GetService(ctx context.Context, id int64) (*models.ServiceResponse, error) {
	service, err := s.catalogRepo.GetService(ctx, id)
	if err != nil {
		return nil, s.mapServiceError("GetService", id, err)
	}
	resp := models.FromDomainService(service)
	return &resp, nil
}

// CreateService создает услугу
func (s *Service) CreateService(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("CreateService: name=%q, duration=%d", req.Name, req.DurationMinutes)

	service := req.ToDomain()
	if err := validateService(service); err != nil {
		s.logger.Warn("CreateService: validation failed: %v", err)
		return nil, err
	}
	service.CreatedAt = s.now()

	created, err := s.catalogRepo.CreateService(ctx, service)
	if err != nil {
		s.logger.Error("CreateService: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateService - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateService: created service id=%d", created.ID)
	resp := models.FromDomainService(created)
	return &resp, nil
}

// UpdateService частично обновляет услугу
func (s *Service) UpdateService(ctx context.Context, id int64, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("UpdateService: id=%d", id)

	var updated *domain.Service

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		service, err := s.catalogRepo.GetService(txCtx, id)
		if err != nil {
			return err
		}

		req.Apply(service)
		if err := validateService(service); err != nil {
			return err
		}
		service.UpdatedAt = s.now()

		updated, err = s.catalogRepo.UpdateService(txCtx, service)
		return err
	})
	if err != nil {
		return nil, s.mapServiceError("UpdateService", id, err)
	}

	resp := models.FromDomainService(updated)
	return &resp, nil
}

// DeleteService удаляет услугу. Если на неё ссылаются бронирования,
// услуга только деактивируется, чтобы история записей не потеряла названия.
func (s *Service) DeleteService(ctx context.Context, id int64) (*models.DeleteServiceResponse, error) {
	s.logger.Info("DeleteService: id=%d", id)

	resp := &models.DeleteServiceResponse{}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		service, err := s.catalogRepo.GetService(txCtx, id)
		if err != nil {
			return err
		}

		count, err := s.bookingRepo.CountByService(txCtx, id)
		if err != nil {
			return err
		}

		if count == 0 {
			return s.catalogRepo.DeleteService(txCtx, id)
		}

		service.Active = false
		service.UpdatedAt = s.now()
		if _, err := s.catalogRepo.UpdateService(txCtx, service); err != nil {
			return err
		}
		resp.Deactivated = true
		return nil
	})
	if err != nil {
		return nil, s.mapServiceError("DeleteService", id, err)
	}

	if resp.Deactivated {
		s.logger.Info("DeleteService: service id=%d has bookings, deactivated", id)
	} else {
		s.logger.Info("DeleteService: service id=%d deleted", id)
	}
	return resp, nil
}

// ListStaff список мастеров. Публичный каталог показывает только активных.
func (s *Service) ListStaff(ctx context.Context, activeOnly bool) (*models.StaffListResponse, error) {
	staff, err := s.catalogRepo.ListStaff(ctx, activeOnly)
	if err != nil {
		s.logger.Error("ListStaff: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListStaff - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainStaffList(staff), nil
}

// GetStaff получает мастера по ID
func (s *Service) GetStaff(ctx context.Context, id int64) (*models.StaffResponse, error) {
	staff, err := s.catalogRepo.GetStaff(ctx, id)
	if err != nil {
		return nil, s.mapStaffError("GetStaff", id, err)
	}
	resp := models.FromDomainStaff(staff)
	return &resp, nil
}

// CreateStaff создает мастера с графиком и списком услуг
func (s *Service) CreateStaff(ctx context.Context, req *models.CreateStaffRequest) (*models.StaffResponse, error) {
	s.logger.Info("CreateStaff: name=%q, services=%v", req.Name, req.ServiceIDs)

	staff, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("CreateStaff: invalid working hours: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	staff.CreatedAt = s.now()

	var created *domain.Staff

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.validateStaff(txCtx, staff); err != nil {
			return err
		}
		created, err = s.catalogRepo.CreateStaff(txCtx, staff)
		return err
	})
	if err != nil {
		return nil, s.mapStaffError("CreateStaff", 0, err)
	}

	s.logger.Info("CreateStaff: created staff id=%d", created.ID)
	resp := models.FromDomainStaff(created)
	return &resp, nil
}

// UpdateStaff частично обновляет мастера
func (s *Service) UpdateStaff(ctx context.Context, id int64, req *models.UpdateStaffRequest) (*models.StaffResponse, error) {
	s.logger.Info("UpdateStaff: id=%d", id)

	var updated *domain.Staff

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		staff, err := s.catalogRepo.GetStaff(txCtx, id)
		if err != nil {
			return err
		}

		if err := req.Apply(staff); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := s.validateStaff(txCtx, staff); err != nil {
			return err
		}
		staff.UpdatedAt = s.now()

		updated, err = s.catalogRepo.UpdateStaff(txCtx, staff)
		return err
	})
	if err != nil {
		return nil, s.mapStaffError("UpdateStaff", id, err)
	}

	resp := models.FromDomainStaff(updated)
	return &resp, nil
}

// DeleteStaff удаляет мастера. Его бронирования остаются без мастера.
func (s *Service) DeleteStaff(ctx context.Context, id int64) error {
	s.logger.Info("DeleteStaff: id=%d", id)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.catalogRepo.DeleteStaff(txCtx, id)
	})
	if err != nil {
		return s.mapStaffError("DeleteStaff", id, err)
	}

	s.logger.Info("DeleteStaff: staff id=%d deleted", id)
	return nil
}

// validateService проверяет услугу после применения изменений
func validateService(service *domain.Service) error {
	if service.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if service.DurationMinutes < domain.MinServiceDuration || service.DurationMinutes > domain.MaxServiceDuration {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinServiceDuration, domain.MaxServiceDuration)
	}
	if service.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	return nil
}

// validateStaff проверяет мастера: имя и существование всех услуг
func (s *Service) validateStaff(ctx context.Context, staff *domain.Staff) error {
	if staff.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	for _, serviceID := range staff.ServicesOffered {
		if serviceID <= 0 {
			return fmt.Errorf("%w: service id must be positive", ErrInvalidInput)
		}
		if _, err := s.catalogRepo.GetService(ctx, serviceID); err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				return fmt.Errorf("%w: service id=%d does not exist", ErrInvalidInput, serviceID)
			}
			return err
		}
	}
	return nil
}

// mapServiceError переводит ошибки репозитория в ошибки сервиса и логирует их
func (s *Service) mapServiceError(op string, id int64, err error) error {
	switch {
	case errors.Is(err, catalogRepo.ErrServiceNotFound):
		s.logger.Warn("%s: service id=%d not found", op, id)
		return ErrServiceNotFound
	case errors.Is(err, ErrInvalidInput):
		s.logger.Warn("%s: validation failed: %v", op, err)
		return err
	default:
		s.logger.Error("%s: repository error for service id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}

// mapStaffError переводит ошибки репозитория в ошибки сервиса и логирует их
func (s *Service) mapStaffError(op string, id int64, err error) error {
	switch {
	case errors.Is(err, catalogRepo.ErrStaffNotFound):
		s.logger.Warn("%s: staff id=%d not found", op, id)
		return ErrStaffNotFound
	case errors.Is(err, ErrInvalidInput):
		s.logger.Warn("%s: validation failed: %v", op, err)
		return err
	default:
		s.logger.Error("%s: repository error for staff id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}

package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/salon-booking/internal/domain"
	clientRepo "github.com/m04kA/salon-booking/internal/infra/storage/client"
	bookingmodels "github.com/m04kA/salon-booking/internal/service/bookings/models"
	"github.com/m04kA/salon-booking/internal/service/clients/models"
)

// Service сервис клиентской базы салона
type Service struct {
	clientRepo  ClientRepository
	bookingRepo BookingRepository
	txManager   TransactionManager
	logger      Logger
	now         func() time.Time
}

// NewService создает новый экземпляр сервиса клиентов
func NewService(
	clientRepo ClientRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		clientRepo:  clientRepo,
		bookingRepo: bookingRepo,
		txManager:   txManager,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// List ищет клиентов по имени или телефону
func (s *Service) List(ctx context.Context, req *models.ListClientsRequest) (*models.ClientListResponse, error) {
	req.Normalize()
	s.logger.Info("List: search=%q, limit=%d, offset=%d", req.Search, req.Limit, req.Offset)

	clients, err := s.clientRepo.List(ctx, req.Search, req.Limit, req.Offset)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainClientList(clients, req.Limit, req.Offset), nil
}

// Get получает клиента вместе с историей бронирований, включая отменённые
func (s *Service) Get(ctx context.Context, id int64) (*models.ClientDetailsResponse, error) {
	s.logger.Info("Get: fetching client id=%d", id)

	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			s.logger.Warn("Get: client id=%d not found", id)
			return nil, ErrClientNotFound
		}
		s.logger.Error("Get: repository error for client id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	history, err := s.bookingRepo.List(ctx, domain.BookingsFilter{ClientID: &client.ID, IncludeCancelled: true})
	if err != nil {
		s.logger.Error("Get: failed to list bookings of client id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Get - list bookings: %v", ErrInternal, err)
	}

	return &models.ClientDetailsResponse{
		ClientResponse: models.FromDomainClient(client),
		Bookings:       bookingmodels.FromDomainBookingList(history).Bookings,
	}, nil
}

// UpdateNotes сохраняет заметки о клиенте. Пустая строка удаляет заметки.
func (s *Service) UpdateNotes(ctx context.Context, id int64, req *models.UpdateNotesRequest) (*models.ClientResponse, error) {
	s.logger.Info("UpdateNotes: client id=%d", id)

	var notes *string
	if req.Notes != nil {
		trimmed := strings.TrimSpace(*req.Notes)
		if utf8.RuneCountInString(trimmed) > domain.MaxNotesLength {
			return nil, fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
		}
		if trimmed != "" {
			notes = &trimmed
		}
	}

	var updated *domain.Client

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.clientRepo.UpdateNotes(txCtx, id, notes, s.now()); err != nil {
			return err
		}
		var err error
		updated, err = s.clientRepo.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			s.logger.Warn("UpdateNotes: client id=%d not found", id)
			return nil, ErrClientNotFound
		}
		s.logger.Error("UpdateNotes: repository error for client id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateNotes - repository error: %v", ErrInternal, err)
	}

	resp := models.FromDomainClient(updated)
	return &resp, nil
}

// Delete удаляет клиента, бронирования сохраняются без ссылки на него
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting client id=%d", id)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.clientRepo.Delete(txCtx, id)
	})
	if err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			s.logger.Warn("Delete: client id=%d not found", id)
			return ErrClientNotFound
		}
		s.logger.Error("Delete: repository error for client id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: client id=%d deleted", id)
	return nil
}

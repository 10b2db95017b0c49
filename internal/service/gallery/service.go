package gallery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/internal/infra/filestore"
	galleryRepo "github.com/m04kA/salon-booking/internal/infra/storage/gallery"
	"github.com/m04kA/salon-booking/internal/service/gallery/models"
)

// Service сервис галереи работ салона
type Service struct {
	repo         GalleryRepository
	files        FileStore
	publicPrefix string
	logger       Logger
	now          func() time.Time
}

// NewService создает новый экземпляр сервиса галереи
func NewService(repo GalleryRepository, files FileStore, publicPrefix string, logger Logger) *Service {
	return &Service{
		repo:         repo,
		files:        files,
		publicPrefix: publicPrefix,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Upload сохраняет изображение с превью и записывает его в галерею
func (s *Service) Upload(ctx context.Context, req *models.UploadRequest) (*models.ItemResponse, error) {
	s.logger.Info("Upload: %d bytes", len(req.Data))

	caption, err := normalizeCaption(req.Caption)
	if err != nil {
		return nil, err
	}
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidImage)
	}

	stored, err := s.files.Save(req.Data)
	if err != nil {
		switch {
		case errors.Is(err, filestore.ErrTooLarge):
			s.logger.Warn("Upload: file rejected: %v", err)
			return nil, ErrImageTooLarge
		case errors.Is(err, filestore.ErrUnsupportedType), errors.Is(err, filestore.ErrDecode):
			s.logger.Warn("Upload: file rejected: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
		default:
			s.logger.Error("Upload: failed to store file: %v", err)
			return nil, fmt.Errorf("%w: Upload - store file: %v", ErrInternal, err)
		}
	}

	item, err := s.repo.Create(ctx, &domain.GalleryItem{
		FileName:    stored.FileName,
		ThumbName:   stored.ThumbName,
		ContentType: stored.ContentType,
		Caption:     caption,
		Width:       stored.Width,
		Height:      stored.Height,
		CreatedAt:   s.now(),
	})
	if err != nil {
		s.logger.Error("Upload: repository error: %v", err)
		// файлы без записи в БД никто не удалит
		if rmErr := s.files.Delete(stored.FileName, stored.ThumbName); rmErr != nil {
			s.logger.Warn("Upload: failed to remove orphan files: %v", rmErr)
		}
		return nil, fmt.Errorf("%w: Upload - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upload: stored item id=%d as %s", item.ID, item.FileName)
	resp := models.FromDomainItem(item, s.publicPrefix)
	return &resp, nil
}

// List все изображения галереи, новые первыми
func (s *Service) List(ctx context.Context) (*models.ItemListResponse, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainItemList(items, s.publicPrefix), nil
}

// Delete удаляет запись, затем файлы. Ошибка удаления файлов только логируется.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: gallery item id=%d", id)

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return s.mapRepoError("Delete", id, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError("Delete", id, err)
	}

	if err := s.files.Delete(item.FileName, item.ThumbName); err != nil {
		s.logger.Warn("Delete: item id=%d removed, files left on disk: %v", id, err)
	}
	return nil
}

func (s *Service) mapRepoError(op string, id int64, err error) error {
	if errors.Is(err, galleryRepo.ErrItemNotFound) {
		s.logger.Warn("%s: gallery item id=%d not found", op, id)
		return ErrItemNotFound
	}
	s.logger.Error("%s: repository error for item id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

func normalizeCaption(caption *string) (*string, error) {
	if caption == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*caption)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > domain.MaxGalleryCaptionLength {
		return nil, fmt.Errorf("%w: caption must be at most %d characters", ErrInvalidInput, domain.MaxGalleryCaptionLength)
	}
	return &trimmed, nil
}

package models

import (
	"strings"
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
)

// UploadRequest загруженное изображение и подпись к нему
type UploadRequest struct {
	Data    []byte
	Caption *string
}

// ItemResponse изображение галереи
type ItemResponse struct {
	ID          int64     `json:"id"`
	URL         string    `json:"url"`
	ThumbURL    string    `json:"thumbUrl"`
	ContentType string    `json:"contentType"`
	Caption     *string   `json:"caption,omitempty"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ItemListResponse список изображений
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
}

// FromDomainItem конвертирует изображение в DTO, prefix - публичный путь к файлам
func FromDomainItem(item *domain.GalleryItem, prefix string) ItemResponse {
	prefix = strings.TrimRight(prefix, "/")
	return ItemResponse{
		ID:          item.ID,
		URL:         prefix + "/" + item.FileName,
		ThumbURL:    prefix + "/" + item.ThumbName,
		ContentType: item.ContentType,
		Caption:     item.Caption,
		Width:       item.Width,
		Height:      item.Height,
		CreatedAt:   item.CreatedAt,
	}
}

// FromDomainItemList конвертирует список изображений
func FromDomainItemList(items []*domain.GalleryItem, prefix string) *ItemListResponse {
	resp := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, FromDomainItem(item, prefix))
	}
	return &ItemListResponse{Items: resp}
}

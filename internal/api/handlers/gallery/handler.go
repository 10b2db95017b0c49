package gallery

import (
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/salon-booking/internal/api/handlers"
	"github.com/m04kA/salon-booking/internal/service/gallery"
	"github.com/m04kA/salon-booking/internal/service/gallery/models"
)

const (
	// FileField имя поля multipart формы с изображением
	FileField = "file"
	// CaptionField имя поля multipart формы с подписью
	CaptionField = "caption"

	msgInvalidItemID  = "некорректный ID изображения"
	msgInvalidForm    = "ожидается multipart/form-data с полем file"
	msgInvalidImage   = "поддерживаются только изображения JPEG и PNG"
	msgImageTooLarge  = "изображение слишком большое"
	msgInvalidCaption = "подпись слишком длинная"
	msgNotFound       = "изображение не найдено"

	formMemoryBytes = 1 << 20
)

// Handler обработчики галереи работ
type Handler struct {
	service        GalleryService
	maxUploadBytes int64
	logger         Logger
}

func NewHandler(service GalleryService, maxUploadBytes int64, logger Logger) *Handler {
	return &Handler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// List GET /api/v1/gallery
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("GET /gallery - Failed to list gallery: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Upload POST /api/v1/admin/gallery (multipart/form-data: file, caption)
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	// Запас на служебные части формы сверх лимита файла
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+formMemoryBytes)

	if err := r.ParseMultipartForm(formMemoryBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.logger.Warn("POST /admin/gallery - Request too large: %v", err)
			handlers.RespondBadRequest(w, msgImageTooLarge)
			return
		}
		h.logger.Warn("POST /admin/gallery - Invalid multipart form: %v", err)
		handlers.RespondBadRequest(w, msgInvalidForm)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, _, err := r.FormFile(FileField)
	if err != nil {
		h.logger.Warn("POST /admin/gallery - Missing file: %v", err)
		handlers.RespondBadRequest(w, msgInvalidForm)
		return
	}
	defer file.Close()

	// Читаем на байт больше лимита, чтобы сервис увидел превышение
	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		h.logger.Error("POST /admin/gallery - Failed to read file: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	req := &models.UploadRequest{Data: data}
	if values, ok := r.MultipartForm.Value[CaptionField]; ok && len(values) > 0 {
		caption := values[0]
		req.Caption = &caption
	}

	result, err := h.service.Upload(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, gallery.ErrInvalidImage):
			h.logger.Warn("POST /admin/gallery - Invalid image: %v", err)
			handlers.RespondBadRequest(w, msgInvalidImage)

		case errors.Is(err, gallery.ErrImageTooLarge):
			h.logger.Warn("POST /admin/gallery - Image too large: size=%d", len(data))
			handlers.RespondBadRequest(w, msgImageTooLarge)

		case errors.Is(err, gallery.ErrInvalidInput):
			h.logger.Warn("POST /admin/gallery - Invalid caption: %v", err)
			handlers.RespondBadRequest(w, msgInvalidCaption)

		default:
			h.logger.Error("POST /admin/gallery - Failed to upload image: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/gallery - Image uploaded: item_id=%d, size=%d", result.ID, len(data))
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Delete DELETE /api/v1/admin/gallery/{itemId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	itemID, err := handlers.PathID(r, "itemId")
	if err != nil {
		h.logger.Warn("DELETE /admin/gallery/{id} - Invalid item ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidItemID)
		return
	}

	if err := h.service.Delete(r.Context(), itemID); err != nil {
		switch {
		case errors.Is(err, gallery.ErrItemNotFound):
			h.logger.Warn("DELETE /admin/gallery/{id} - Item not found: item_id=%d", itemID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /admin/gallery/{id} - Failed to delete item: item_id=%d, error=%v", itemID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/gallery/{id} - Item deleted: item_id=%d", itemID)
	handlers.RespondNoContent(w)
}

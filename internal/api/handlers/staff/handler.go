package staff

import (
	"errors"
	"net/http"

	"github.com/m04kA/salon-booking/internal/api/handlers"
	"github.com/m04kA/salon-booking/internal/service/catalog"
	"github.com/m04kA/salon-booking/internal/service/catalog/models"
)

const (
	msgInvalidStaffID     = "некорректный ID мастера"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "мастер не найден"
	msgInvalidData        = "некорректные данные мастера"
)

// Handler обработчики мастеров салона
type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/v1/staff - только активные мастера
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true, "GET /staff")
}

// ListAll GET /api/v1/admin/staff
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false, "GET /admin/staff")
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, activeOnly bool, route string) {
	result, err := h.service.ListStaff(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("%s - Failed to list staff: %v", route, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("%s - Staff retrieved successfully: count=%d", route, len(result.Staff))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Get GET /api/v1/staff/{staffId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	staffID, err := handlers.PathID(r, "staffId")
	if err != nil {
		h.logger.Warn("GET /staff/{id} - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	result, err := h.service.GetStaff(r.Context(), staffID)
	if err != nil {
		h.respondError(w, "GET /staff/{id}", staffID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create POST /api/v1/admin/staff
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStaffRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/staff - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if details := handlers.Validate(&req); details != nil {
		h.logger.Warn("POST /admin/staff - Validation failed: %v", details)
		handlers.RespondValidationError(w, details)
		return
	}

	result, err := h.service.CreateStaff(r.Context(), &req)
	if err != nil {
		h.respondError(w, "POST /admin/staff", 0, err)
		return
	}

	h.logger.Info("POST /admin/staff - Staff created successfully: staff_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Update PATCH /api/v1/admin/staff/{staffId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	staffID, err := handlers.PathID(r, "staffId")
	if err != nil {
		h.logger.Warn("PATCH /admin/staff/{id} - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	var req models.UpdateStaffRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/staff/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if details := handlers.Validate(&req); details != nil {
		h.logger.Warn("PATCH /admin/staff/{id} - Validation failed: %v", details)
		handlers.RespondValidationError(w, details)
		return
	}

	result, err := h.service.UpdateStaff(r.Context(), staffID, &req)
	if err != nil {
		h.respondError(w, "PATCH /admin/staff/{id}", staffID, err)
		return
	}

	h.logger.Info("PATCH /admin/staff/{id} - Staff updated successfully: staff_id=%d", staffID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Delete DELETE /api/v1/admin/staff/{staffId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	staffID, err := handlers.PathID(r, "staffId")
	if err != nil {
		h.logger.Warn("DELETE /admin/staff/{id} - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	if err := h.service.DeleteStaff(r.Context(), staffID); err != nil {
		h.respondError(w, "DELETE /admin/staff/{id}", staffID, err)
		return
	}

	h.logger.Info("DELETE /admin/staff/{id} - Staff deleted successfully: staff_id=%d", staffID)
	handlers.RespondNoContent(w)
}

func (h *Handler) respondError(w http.ResponseWriter, route string, staffID int64, err error) {
	switch {
	case errors.Is(err, catalog.ErrStaffNotFound):
		h.logger.Warn("%s - Staff not found: staff_id=%d", route, staffID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, catalog.ErrInvalidInput):
		h.logger.Warn("%s - Invalid data: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidData)

	default:
		h.logger.Error("%s - Failed: staff_id=%d, error=%v", route, staffID, err)
		handlers.RespondInternalError(w)
	}
}

package services

import (
	"errors"
	"net/http"

	"github.com/m04kA/salon-booking/internal/api/handlers"
	"github.com/m04kA/salon-booking/internal/service/catalog"
	"github.com/m04kA/salon-booking/internal/service/catalog/models"
)

const (
	msgInvalidServiceID   = "некорректный ID услуги"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "услуга не найдена"
	msgInvalidData        = "некорректные данные услуги"
)

// Handler обработчики каталога услуг
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

// List GET /api/v1/services - только активные услуги
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true, "GET /services")
}

// ListAll GET /api/v1/admin/services - включая отключенные
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false, "GET /admin/services")
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, activeOnly bool, route string) {
	result, err := h.service.ListServices(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("%s - Failed to list services: %v", route, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("%s - Services retrieved successfully: count=%d", route, len(result.Services))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Get GET /api/v1/services/{serviceId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	serviceID, err := handlers.PathID(r, "serviceId")
	if err != nil {
		h.logger.Warn("GET /services/{id} - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	result, err := h.service.GetService(r.Context(), serviceID)
	if err != nil {
		h.respondError(w, "GET /services/{id}", serviceID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create POST /api/v1/admin/services
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/services - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if details := handlers.Validate(&req); details != nil {
		h.logger.Warn("POST /admin/services - Validation failed: %v", details)
		handlers.RespondValidationError(w, details)
		return
	}

	result, err := h.service.CreateService(r.Context(), &req)
	if err != nil {
		h.respondError(w, "POST /admin/services", 0, err)
		return
	}

	h.logger.Info("POST /admin/services - Service created successfully: service_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Update PATCH /api/v1/admin/services/{serviceId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	serviceID, err := handlers.PathID(r, "serviceId")
	if err != nil {
		h.logger.Warn("PATCH /admin/services/{id} - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	var req models.UpdateServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/services/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if details := handlers.Validate(&req); details != nil {
		h.logger.Warn("PATCH /admin/services/{id} - Validation failed: %v", details)
		handlers.RespondValidationError(w, details)
		return
	}

	result, err := h.service.UpdateService(r.Context(), serviceID, &req)
	if err != nil {
		h.respondError(w, "PATCH /admin/services/{id}", serviceID, err)
		return
	}

	h.logger.Info("PATCH /admin/services/{id} - Service updated successfully: service_id=%d", serviceID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Delete DELETE /api/v1/admin/services/{serviceId}
// Услуга, на которую есть бронирования, не удаляется, а отключается
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	serviceID, err := handlers.PathID(r, "serviceId")
	if err != nil {
		h.logger.Warn("DELETE /admin/services/{id} - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	result, err := h.service.DeleteService(r.Context(), serviceID)
	if err != nil {
		h.respondError(w, "DELETE /admin/services/{id}", serviceID, err)
		return
	}

	h.logger.Info("DELETE /admin/services/{id} - Service removed: service_id=%d, deactivated=%t",
		serviceID, result.Deactivated)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) respondError(w http.ResponseWriter, route string, serviceID int64, err error) {
	switch {
	case errors.Is(err, catalog.ErrServiceNotFound):
		h.logger.Warn("%s - Service not found: service_id=%d", route, serviceID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, catalog.ErrInvalidInput):
		h.logger.Warn("%s - Invalid data: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidData)

	default:
		h.logger.Error("%s - Failed: service_id=%d, error=%v", route, serviceID, err)
		handlers.RespondInternalError(w)
	}
}

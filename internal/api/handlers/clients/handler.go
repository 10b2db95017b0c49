package clients

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/salon-booking/internal/api/handlers"
	"github.com/m04kA/salon-booking/internal/service/clients"
	"github.com/m04kA/salon-booking/internal/service/clients/models"
)

const (
	msgInvalidClientID    = "некорректный ID клиента"
	msgInvalidParams      = "некорректные параметры запроса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidNotes       = "заметка слишком длинная"
	msgNotFound           = "клиент не найден"
)

// Handler обработчики клиентской базы (только для администратора)
type Handler struct {
	service ClientService
	logger  Logger
}

func NewHandler(service ClientService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/v1/admin/clients
// Query params: search, limit, offset (опционально)
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &models.ListClientsRequest{Search: query.Get("search")}

	var err error
	if limitStr := query.Get("limit"); limitStr != "" {
		if req.Limit, err = strconv.Atoi(limitStr); err != nil {
			h.logger.Warn("GET /admin/clients - Invalid limit: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if req.Offset, err = strconv.Atoi(offsetStr); err != nil {
			h.logger.Warn("GET /admin/clients - Invalid offset: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("GET /admin/clients - Failed to list clients: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/clients - Clients retrieved successfully: count=%d", len(result.Clients))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Get GET /api/v1/admin/clients/{clientId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	clientID, err := handlers.PathID(r, "clientId")
	if err != nil {
		h.logger.Warn("GET /admin/clients/{id} - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	result, err := h.service.Get(r.Context(), clientID)
	if err != nil {
		h.respondError(w, "GET /admin/clients/{id}", clientID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// UpdateNotes PUT /api/v1/admin/clients/{clientId}/notes
func (h *Handler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	clientID, err := handlers.PathID(r, "clientId")
	if err != nil {
		h.logger.Warn("PUT /admin/clients/{id}/notes - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	var req models.UpdateNotesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/clients/{id}/notes - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if details := handlers.Validate(&req); details != nil {
		h.logger.Warn("PUT /admin/clients/{id}/notes - Validation failed: %v", details)
		handlers.RespondValidationError(w, details)
		return
	}

	result, err := h.service.UpdateNotes(r.Context(), clientID, &req)
	if err != nil {
		h.respondError(w, "PUT /admin/clients/{id}/notes", clientID, err)
		return
	}

	h.logger.Info("PUT /admin/clients/{id}/notes - Notes updated: client_id=%d", clientID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Delete DELETE /api/v1/admin/clients/{clientId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	clientID, err := handlers.PathID(r, "clientId")
	if err != nil {
		h.logger.Warn("DELETE /admin/clients/{id} - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	if err := h.service.Delete(r.Context(), clientID); err != nil {
		h.respondError(w, "DELETE /admin/clients/{id}", clientID, err)
		return
	}

	h.logger.Info("DELETE /admin/clients/{id} - Client deleted: client_id=%d", clientID)
	handlers.RespondNoContent(w)
}

func (h *Handler) respondError(w http.ResponseWriter, route string, clientID int64, err error) {
	switch {
	case errors.Is(err, clients.ErrClientNotFound):
		h.logger.Warn("%s - Client not found: client_id=%d", route, clientID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, clients.ErrInvalidInput):
		h.logger.Warn("%s - Invalid data: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidNotes)

	default:
		h.logger.Error("%s - Failed: client_id=%d, error=%v", route, clientID, err)
		handlers.RespondInternalError(w)
	}
}

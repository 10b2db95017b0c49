package schedule

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/salon-booking/internal/api/handlers"
	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/internal/service/schedule"
	"github.com/m04kA/salon-booking/internal/service/schedule/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidHours       = "некорректные часы работы"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidSettings    = "некорректные настройки"
	msgBlockedNotFound    = "выходной день не найден"
)

// Handler обработчики расписания и настроек салона
type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Get GET /api/v1/schedule - часы работы, ближайшие выходные и настройки
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetSchedule(r.Context())
	if err != nil {
		h.logger.Error("GET /schedule - Failed to get schedule: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// ReplaceHours PUT /api/v1/admin/schedule/hours
func (h *Handler) ReplaceHours(w http.ResponseWriter, r *http.Request) {
	var req models.ReplaceHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/schedule/hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if details := handlers.Validate(&req); details != nil {
		h.logger.Warn("PUT /admin/schedule/hours - Validation failed: %v", details)
		handlers.RespondValidationError(w, details)
		return
	}

	result, err := h.service.ReplaceBusinessHours(r.Context(), &req)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidInput) {
			h.logger.Warn("PUT /admin/schedule/hours - Invalid hours: %v", err)
			handlers.RespondBadRequest(w, msgInvalidHours)
			return
		}
		h.logger.Error("PUT /admin/schedule/hours - Failed to replace hours: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /admin/schedule/hours - Business hours replaced")
	handlers.RespondJSON(w, http.StatusOK, result)
}

// ListBlockedDates GET /api/v1/admin/schedule/blocked-dates
// Query params: from (опционально, YYYY-MM-DD)
func (h *Handler) ListBlockedDates(w http.ResponseWriter, r *http.Request) {
	var from *time.Time
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		date, err := time.Parse(domain.DateFormat, fromStr)
		if err != nil {
			h.logger.Warn("GET /admin/schedule/blocked-dates - Invalid from: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		from = &date
	}

	result, err := h.service.ListBlockedDates(r.Context(), from)
	if err != nil {
		h.logger.Error("GET /admin/schedule/blocked-dates - Failed to list blocked dates: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// AddBlockedDate POST /api/v1/admin/schedule/blocked-dates
func (h *Handler) AddBlockedDate(w http.ResponseWriter, r *http.Request) {
	var req models.AddBlockedDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/schedule/blocked-dates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if details := handlers.Validate(&req); details != nil {
		h.logger.Warn("POST /admin/schedule/blocked-dates - Validation failed: %v", details)
		handlers.RespondValidationError(w, details)
		return
	}

	result, err := h.service.AddBlockedDate(r.Context(), &req)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidInput) {
			h.logger.Warn("POST /admin/schedule/blocked-dates - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		h.logger.Error("POST /admin/schedule/blocked-dates - Failed to add blocked date: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /admin/schedule/blocked-dates - Blocked date added: date=%s", result.Date)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// DeleteBlockedDate DELETE /api/v1/admin/schedule/blocked-dates/{date}
func (h *Handler) DeleteBlockedDate(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	if err := h.service.DeleteBlockedDate(r.Context(), date); err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("DELETE /admin/schedule/blocked-dates/{date} - Invalid date: %s", date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, schedule.ErrBlockedDateNotFound):
			h.logger.Warn("DELETE /admin/schedule/blocked-dates/{date} - Not found: %s", date)
			handlers.RespondNotFound(w, msgBlockedNotFound)

		default:
			h.logger.Error("DELETE /admin/schedule/blocked-dates/{date} - Failed: date=%s, error=%v", date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/schedule/blocked-dates/{date} - Blocked date removed: date=%s", date)
	handlers.RespondNoContent(w)
}

// GetSettings GET /api/v1/admin/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetSettings(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/settings - Failed to get settings: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// UpdateSettings PATCH /api/v1/admin/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if details := handlers.Validate(&req); details != nil {
		h.logger.Warn("PATCH /admin/settings - Validation failed: %v", details)
		handlers.RespondValidationError(w, details)
		return
	}

	result, err := h.service.UpdateSettings(r.Context(), &req)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidInput) {
			h.logger.Warn("PATCH /admin/settings - Invalid settings: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSettings)
			return
		}
		h.logger.Error("PATCH /admin/settings - Failed to update settings: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PATCH /admin/settings - Settings updated")
	handlers.RespondJSON(w, http.StatusOK, result)
}

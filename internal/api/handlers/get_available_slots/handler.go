package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/salon-booking/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/salon-booking/internal/usecase/get_available_slots"
)

const (
	msgMissingDate          = "дата обязательна"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingServiceIDs    = "нужно выбрать хотя бы одну услугу"
	msgInvalidServiceIDs    = "некорректный список услуг"
	msgInvalidStaffID       = "некорректный ID мастера"
	msgInvalidOnlyAvailable = "параметр onlyAvailable должен быть true или false"
	msgPastDate             = "нельзя записаться на прошедшую дату"
	msgDateTooFar           = "дата слишком далеко в будущем"
	msgInvalidSelection     = "выбранные услуги недоступны"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/available-slots
// Query params: date (required, YYYY-MM-DD), serviceIds (required, 1,2), staffId, onlyAvailable
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	useCaseReq, err := ToUseCaseRequest(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid query: %v", err)
		switch {
		case errors.Is(err, errMissingDate):
			handlers.RespondBadRequest(w, msgMissingDate)
		case errors.Is(err, errInvalidDate):
			handlers.RespondBadRequest(w, msgInvalidDate)
		case errors.Is(err, errMissingServiceIDs):
			handlers.RespondBadRequest(w, msgMissingServiceIDs)
		case errors.Is(err, errInvalidStaffID):
			handlers.RespondBadRequest(w, msgInvalidStaffID)
		case errors.Is(err, errInvalidOnlyFlag):
			handlers.RespondBadRequest(w, msgInvalidOnlyAvailable)
		default:
			handlers.RespondBadRequest(w, msgInvalidServiceIDs)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		date := r.URL.Query().Get("date")
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /available-slots - Past date: date=%s", date)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /available-slots - Date too far: date=%s", date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrInvalidServiceSelection):
			h.logger.Warn("GET /available-slots - Invalid service selection: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSelection)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceIDs)

		default:
			h.logger.Error("GET /available-slots - Failed to get slots: date=%s, error=%v", date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /available-slots - Slots retrieved: date=%s, total=%d",
		response.Date, len(response.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}

package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/salon-booking/internal/api/handlers"
	createBooking "github.com/m04kA/salon-booking/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgInvalidInput       = "проверьте имя, телефон и выбранные услуги"
	msgInvalidBookingDate = "нельзя записаться на прошедшую дату"
	msgDateTooFar         = "дата бронирования слишком далеко в будущем"
	msgSlotInPast         = "слишком поздно для записи на это время"
	msgInvalidSelection   = "выбранные услуги недоступны"
	msgClosed             = "салон не работает в выбранную дату"
	msgOutsideHours       = "услуги не помещаются в рабочее время"
	msgSlotNotAvailable   = "выбранное время уже занято"
	msgBusy               = "сейчас идет другая запись на эту дату, попробуйте еще раз"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNoLongerAvailable):
			h.logger.Warn("POST /bookings - Slot not available: date=%s, start=%s", req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrBookingBusy):
			h.logger.Warn("POST /bookings - Day is locked: date=%s", req.Date)
			handlers.RespondConflict(w, msgBusy)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings - Date too far in future: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrSlotInPast):
			h.logger.Warn("POST /bookings - Too late to book: date=%s, start=%s", req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgSlotInPast)

		case errors.Is(err, createBooking.ErrInvalidServiceSelection):
			h.logger.Warn("POST /bookings - Invalid service selection: services=%v, staff=%v", req.ServiceIDs, req.StaffID)
			handlers.RespondBadRequest(w, msgInvalidSelection)

		case errors.Is(err, createBooking.ErrClosedOnDate):
			h.logger.Warn("POST /bookings - Salon closed: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgClosed)

		case errors.Is(err, createBooking.ErrOutsideWorkingHours):
			h.logger.Warn("POST /bookings - Outside working hours: date=%s, start=%s", req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgOutsideHours)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: date=%s, start=%s, error=%v",
				req.Date, req.StartTime, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, date=%s, start=%s",
		response.ID, response.Date, response.StartTime)
	handlers.RespondJSON(w, http.StatusCreated, response)
}

package check_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	checkAvailability "github.com/m04kA/SMC-RentalService/internal/usecase/check_availability"
)

const (
	msgInvalidVehicleID   = "некорректный ID автомобиля"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDates       = "некорректные даты аренды"
	msgNotFound           = "автомобиль не найден"
)

type Handler struct {
	useCase CheckAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/vehicles/{vehicleId}/check-availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := strconv.ParseInt(mux.Vars(r)["vehicleId"], 10, 64)
	if err != nil || vehicleID <= 0 {
		h.logger.Warn("POST /vehicles/{id}/check-availability - Invalid vehicle ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVehicleID)
		return
	}

	var req CheckAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /vehicles/{id}/check-availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(vehicleID))
	if err != nil {
		switch {
		case errors.Is(err, checkAvailability.ErrVehicleNotFound):
			h.logger.Warn("POST /vehicles/{id}/check-availability - Vehicle not found: vehicle_id=%d", vehicleID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, checkAvailability.ErrInvalidRange):
			h.logger.Warn("POST /vehicles/{id}/check-availability - Inverted range: vehicle_id=%d", vehicleID)
			handlers.RespondValidationError(w, msgInvalidDates, map[string]string{
				"dateRange": "End date must be after start date",
			})

		case errors.Is(err, checkAvailability.ErrInvalidInput):
			h.logger.Warn("POST /vehicles/{id}/check-availability - Invalid input: vehicle_id=%d, error=%v", vehicleID, err)
			handlers.RespondValidationError(w, msgInvalidDates, map[string]string{
				"dateRange": "Start and end dates are required",
			})

		default:
			h.logger.Error("POST /vehicles/{id}/check-availability - Failed to check availability: vehicle_id=%d, error=%v",
				vehicleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /vehicles/{id}/check-availability - vehicle_id=%d, available=%t", vehicleID, result.Available)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

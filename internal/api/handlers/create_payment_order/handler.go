package create_payment_order

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/api/middleware"
	createPaymentOrder "github.com/m04kA/SMC-RentalService/internal/usecase/create_payment_order"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidation         = "некорректные данные бронирования"
	msgNotFound           = "автомобиль не найден"
	msgNotAvailable       = "Car is not available for the selected dates."
	msgGateway            = "не удалось создать платёжный заказ"
)

type Handler struct {
	useCase  CreatePaymentOrderUseCase
	location *time.Location
	logger   Logger
}

// NewHandler location задаёт часовой пояс календарных дат запроса
func NewHandler(useCase CreatePaymentOrderUseCase, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}

	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/bookings/payment-orders
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/payment-orders - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req handlers.BookingDetails
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/payment-orders - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	draft, fields := req.ToDraft(h.location)
	if fields != nil {
		h.logger.Warn("POST /bookings/payment-orders - Invalid formats: user_id=%d, fields=%v", userID, fields)
		handlers.RespondValidationError(w, msgValidation, fields)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &createPaymentOrder.Request{UserID: userID, Draft: draft})
	if err != nil {
		var validationErr *createPaymentOrder.ValidationError

		switch {
		case errors.As(err, &validationErr):
			h.logger.Warn("POST /bookings/payment-orders - Validation failed: user_id=%d, error=%v", userID, err)
			handlers.RespondValidationError(w, msgValidation, validationErr.Fields)

		case errors.Is(err, createPaymentOrder.ErrVehicleNotFound):
			h.logger.Warn("POST /bookings/payment-orders - Vehicle not found: vehicle_id=%d", draft.VehicleID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, createPaymentOrder.ErrNotAvailable):
			h.logger.Warn("POST /bookings/payment-orders - Vehicle not available: vehicle_id=%d", draft.VehicleID)
			handlers.RespondConflict(w, msgNotAvailable)

		case errors.Is(err, createPaymentOrder.ErrGateway):
			h.logger.Error("POST /bookings/payment-orders - Gateway error: vehicle_id=%d, error=%v", draft.VehicleID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgGateway)

		default:
			h.logger.Error("POST /bookings/payment-orders - Failed to create order: vehicle_id=%d, error=%v",
				draft.VehicleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/payment-orders - Order created: order_id=%s, user_id=%d", result.OrderID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

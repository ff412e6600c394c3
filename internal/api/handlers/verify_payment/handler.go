package verify_payment

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/api/middleware"
	"github.com/m04kA/SMC-RentalService/internal/service/bookings/models"
	verifyPayment "github.com/m04kA/SMC-RentalService/internal/usecase/verify_payment"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidation         = "некорректные данные бронирования"
	msgInvalidSignature   = "Payment verification failed: invalid signature."
	msgOrderNotFound      = "Payment order not found or expired."
	msgOrderMismatch      = "Booking details do not match the payment order."
	msgInProgress         = "Payment is already being processed."
	msgNotAvailable       = "Car is no longer available for the selected dates."

	msgConfirmed        = "Booking confirmed successfully."
	msgAlreadyConfirmed = "Booking was already confirmed for this payment."
)

type Handler struct {
	useCase  VerifyPaymentUseCase
	location *time.Location
	logger   Logger
}

// NewHandler location задаёт часовой пояс календарных дат запроса
func NewHandler(useCase VerifyPaymentUseCase, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}

	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/bookings/verify-payment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/verify-payment - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req VerifyPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/verify-payment - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	draft, fields := req.BookingDetails.ToDraft(h.location)
	if fields != nil {
		h.logger.Warn("POST /bookings/verify-payment - Invalid formats: user_id=%d, fields=%v", userID, fields)
		handlers.RespondValidationError(w, msgValidation, fields)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &verifyPayment.Request{
		UserID:    userID,
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
		Draft:     draft,
	})
	if err != nil {
		switch {
		case errors.Is(err, verifyPayment.ErrInvalidInput):
			h.logger.Warn("POST /bookings/verify-payment - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, verifyPayment.ErrInvalidSignature):
			h.logger.Warn("POST /bookings/verify-payment - Invalid signature: order_id=%s", req.OrderID)
			handlers.RespondBadRequest(w, msgInvalidSignature)

		case errors.Is(err, verifyPayment.ErrOrderNotFound):
			h.logger.Warn("POST /bookings/verify-payment - Order not found: order_id=%s", req.OrderID)
			handlers.RespondNotFound(w, msgOrderNotFound)

		case errors.Is(err, verifyPayment.ErrOrderMismatch):
			h.logger.Warn("POST /bookings/verify-payment - Order mismatch: order_id=%s, user_id=%d", req.OrderID, userID)
			handlers.RespondBadRequest(w, msgOrderMismatch)

		case errors.Is(err, verifyPayment.ErrPaymentInProgress):
			h.logger.Warn("POST /bookings/verify-payment - Payment in progress: payment_id=%s", req.PaymentID)
			handlers.RespondConflict(w, msgInProgress)

		case errors.Is(err, verifyPayment.ErrNotAvailable):
			h.logger.Warn("POST /bookings/verify-payment - Vehicle taken during payment: order_id=%s", req.OrderID)
			handlers.RespondConflict(w, msgNotAvailable)

		default:
			h.logger.Error("POST /bookings/verify-payment - Failed to verify payment: order_id=%s, error=%v",
				req.OrderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status, message := http.StatusCreated, msgConfirmed
	if result.AlreadyConfirmed {
		status, message = http.StatusOK, msgAlreadyConfirmed
	}

	h.logger.Info("POST /bookings/verify-payment - Booking confirmed: booking_id=%d, payment_id=%s",
		result.Booking.ID, req.PaymentID)
	handlers.RespondJSON(w, status, VerifyPaymentResponse{
		Message: message,
		Booking: models.FromDomainBooking(result.Booking, time.Now()),
	})
}

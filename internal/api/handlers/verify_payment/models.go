package verify_payment

import (
	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/service/bookings/models"
)

// VerifyPaymentRequest HTTP request model
type VerifyPaymentRequest struct {
	OrderID        string                  `json:"orderId"`
	PaymentID      string                  `json:"paymentId"`
	Signature      string                  `json:"signature"`
	BookingDetails handlers.BookingDetails `json:"bookingDetails"`
}

// VerifyPaymentResponse HTTP response model
type VerifyPaymentResponse struct {
	Message string                  `json:"message"`
	Booking *models.BookingResponse `json:"booking"`
}

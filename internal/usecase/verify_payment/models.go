package verify_payment

import "github.com/m04kA/SMC-RentalService/internal/domain"

// Request подтверждение оплаты вместе с черновиком, который видел покупатель
type Request struct {
	UserID    int64
	OrderID   string
	PaymentID string
	Signature string
	Draft     domain.BookingDraft
}

// Response созданное (или уже существующее) бронирование
type Response struct {
	Booking *domain.Booking

	// AlreadyConfirmed бронирование по этому платежу было создано раньше
	AlreadyConfirmed bool
}

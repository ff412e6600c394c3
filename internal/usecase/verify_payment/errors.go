package verify_payment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("verify_payment: invalid input data")

	// ErrInvalidSignature подпись платежа не совпала
	ErrInvalidSignature = errors.New("verify_payment: invalid payment signature")

	// ErrPaymentInProgress платёж уже подтверждается другим запросом
	ErrPaymentInProgress = errors.New("verify_payment: payment is already being processed")

	// ErrOrderNotFound заказ не найден или истёк
	ErrOrderNotFound = errors.New("verify_payment: payment order not found or expired")

	// ErrOrderMismatch заказ оформлен другим пользователем или на другие параметры
	ErrOrderMismatch = errors.New("verify_payment: booking details do not match the payment order")

	// ErrNotAvailable автомобиль заняли, пока шла оплата
	ErrNotAvailable = errors.New("verify_payment: vehicle is no longer available for the selected dates")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("verify_payment: internal error")
)

// Причины ошибок подтверждения для метрик
const (
	reasonSignature    = "signature"
	reasonOrderMissing = "order_not_found"
	reasonMismatch     = "mismatch"
	reasonConflict     = "conflict"
	reasonInternal     = "internal"
)

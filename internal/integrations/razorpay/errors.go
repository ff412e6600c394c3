package razorpay

import "errors"

var (
	// ErrCreateOrder шлюз отклонил создание заказа
	ErrCreateOrder = errors.New("razorpay: failed to create order")

	// ErrInvalidResponse шлюз вернул неожиданный ответ
	ErrInvalidResponse = errors.New("razorpay: invalid response")

	// ErrInvalidAmount сумма заказа должна быть положительной
	ErrInvalidAmount = errors.New("razorpay: amount must be positive")
)

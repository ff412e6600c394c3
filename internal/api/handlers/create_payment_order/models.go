package create_payment_order

import (
	createPaymentOrder "github.com/m04kA/SMC-RentalService/internal/usecase/create_payment_order"
)

// PaymentOrderResponse HTTP response model для checkout-виджета
type PaymentOrderResponse struct {
	OrderID      string `json:"orderId"`
	Amount       int64  `json:"amount"` // в пайсах
	Currency     string `json:"currency"`
	VehicleTitle string `json:"vehicleTitle"`
	KeyID        string `json:"keyId"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createPaymentOrder.Response) *PaymentOrderResponse {
	return &PaymentOrderResponse{
		OrderID:      resp.OrderID,
		Amount:       resp.Amount,
		Currency:     resp.Currency,
		VehicleTitle: resp.VehicleTitle,
		KeyID:        resp.KeyID,
	}
}

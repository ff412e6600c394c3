package create_payment_order

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// Settings ограничения бронирования из конфигурации
type Settings struct {
	Currency             string
	MaxRentalDays        int
	SpecialRequestsLimit int
	Location             *time.Location // часовой пояс календарных дат
}

// Request модель запроса на создание платёжного заказа
type Request struct {
	UserID int64
	Draft  domain.BookingDraft
}

// Response созданный заказ для checkout-виджета
type Response struct {
	OrderID      string
	Amount       int64 // в пайсах
	Currency     string
	VehicleTitle string
	KeyID        string
}

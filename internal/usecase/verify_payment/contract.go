package verify_payment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/infra/cache/paymentorder"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*domain.Booking, error)
	CountOverlapping(ctx context.Context, vehicleID int64, start, end time.Time) (int, error)
}

// VehicleRepository интерфейс репозитория автомобилей
type VehicleRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	IncrementTotalBookings(ctx context.Context, id int64) error
}

// SignatureVerifier проверка подписи платёжного шлюза
type SignatureVerifier interface {
	VerifySignature(orderID, paymentID, signature string) bool
}

// OrderStore хранилище неоплаченных заказов и блокировок платежей
type OrderStore interface {
	Get(ctx context.Context, orderID string) (*paymentorder.PendingOrder, error)
	Delete(ctx context.Context, orderID string) error
	AcquirePaymentLock(ctx context.Context, paymentID string) (func(context.Context) error, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics бизнес-метрики
type Metrics interface {
	IncBookingConfirmed(mode string)
	IncVerificationError(reason string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package checkout

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// Collaborator server side of the booking flow (vehicles, availability, payments)
type Collaborator interface {
	GetVehicle(ctx context.Context, vehicleID int64) (*domain.Vehicle, error)
	CheckAvailability(ctx context.Context, vehicleID int64, start, end time.Time) (*Verdict, error)
	CreatePaymentOrder(ctx context.Context, draft domain.BookingDraft) (*PaymentOrder, error)
	VerifyPaymentAndCreateBooking(ctx context.Context, proof PaymentProof, draft domain.BookingDraft) (*domain.Booking, error)
}

// PaymentCollector external payment step (checkout widget, terminal prompt).
// Collect must deliver exactly one outcome and then close the channel.
type PaymentCollector interface {
	Collect(ctx context.Context, order *PaymentOrder) <-chan PaymentOutcome
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

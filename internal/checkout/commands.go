package checkout

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// Command side effect requested by a transition
type Command interface {
	isCommand()
}

// CheckAvailability ask the collaborator about the interval tagged with Seq
type CheckAvailability struct {
	Seq       uint64
	VehicleID int64
	Start     time.Time
	End       time.Time
}

// CancelAvailability drop interest in any in-flight availability check
type CancelAvailability struct{}

// CreateOrder create a payment order for the draft
type CreateOrder struct {
	Draft domain.BookingDraft
}

// CollectPayment hand the order to the payment step
type CollectPayment struct {
	Order *PaymentOrder
}

// VerifyPayment verify the proof and create the booking
type VerifyPayment struct {
	Proof PaymentProof
	Draft domain.BookingDraft
}

func (CheckAvailability) isCommand()  {}
func (CancelAvailability) isCommand() {}
func (CreateOrder) isCommand()        {}
func (CollectPayment) isCommand()     {}
func (VerifyPayment) isCommand()      {}

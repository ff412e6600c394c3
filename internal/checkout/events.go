package checkout

import (
	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/rental"
)

// Event something that happened to the form: user input or a collaborator reply
type Event interface {
	isEvent()
}

// VehicleLoaded target vehicle fetched
type VehicleLoaded struct {
	Vehicle *domain.Vehicle
}

// VehicleLoadFailed target vehicle could not be fetched
type VehicleLoadFailed struct {
	Err error
}

// SelectionChanged dates, clock times or mode changed
type SelectionChanged struct {
	Selection rental.Selection
}

// LocationsChanged pickup, dropoff or special requests changed
type LocationsChanged struct {
	PickupLocation  string
	DropoffLocation string
	SpecialRequests *string
}

// AvailabilityResolved reply to the CheckAvailability command with the same Seq
type AvailabilityResolved struct {
	Seq     uint64
	Verdict *Verdict
	Err     error
}

// SubmitRequested customer pressed "book"
type SubmitRequested struct{}

// OrderCreated payment order created
type OrderCreated struct {
	Order *PaymentOrder
}

// OrderFailed payment order creation failed
type OrderFailed struct {
	Err error
}

// PaymentCollected customer paid
type PaymentCollected struct {
	Proof PaymentProof
}

// PaymentCancelled customer closed the payment step
type PaymentCancelled struct{}

// BookingVerified payment verified and booking created
type BookingVerified struct {
	Booking *domain.Booking
}

// VerificationFailed payment verification failed
type VerificationFailed struct {
	Err error
}

// Left customer navigated away
type Left struct{}

// Restarted new attempt after a terminal outcome
type Restarted struct{}

func (VehicleLoaded) isEvent()        {}
func (VehicleLoadFailed) isEvent()    {}
func (SelectionChanged) isEvent()     {}
func (LocationsChanged) isEvent()     {}
func (AvailabilityResolved) isEvent() {}
func (SubmitRequested) isEvent()      {}
func (OrderCreated) isEvent()         {}
func (OrderFailed) isEvent()          {}
func (PaymentCollected) isEvent()     {}
func (PaymentCancelled) isEvent()     {}
func (BookingVerified) isEvent()      {}
func (VerificationFailed) isEvent()   {}
func (Left) isEvent()                 {}
func (Restarted) isEvent()            {}

package checkout

import (
	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/rental"
)

// Phase stage of one booking attempt
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseQuoting
	PhaseAwaitingAvailability
	PhaseReady
	PhaseSubmittingOrder
	PhaseAwaitingPayment
	PhaseVerifyingPayment
	PhaseCompleted
	PhaseErrored
)

var phaseNames = map[Phase]string{
	PhaseIdle:                 "idle",
	PhaseQuoting:              "quoting",
	PhaseAwaitingAvailability: "awaiting_availability",
	PhaseReady:                "ready",
	PhaseSubmittingOrder:      "submitting_order",
	PhaseAwaitingPayment:      "awaiting_payment",
	PhaseVerifyingPayment:     "verifying_payment",
	PhaseCompleted:            "completed",
	PhaseErrored:              "errored",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// Inputs everything the customer has entered
type Inputs struct {
	Selection       rental.Selection
	PickupLocation  string
	DropoffLocation string
	SpecialRequests *string
}

// FormState immutable snapshot of the booking form.
// Transition never mutates a state it receives, it returns a new one.
type FormState struct {
	Phase   Phase
	Vehicle *domain.Vehicle
	Inputs  Inputs

	Interval    *rental.Interval
	IntervalErr error
	Amount      int64

	// Seq identifies the current interval; verdicts carry the Seq they were requested for
	Seq     uint64
	Verdict *Verdict

	Draft   *domain.BookingDraft
	Order   *PaymentOrder
	Booking *domain.Booking

	Err      error
	Terminal bool
}

// InFlight true while an order or a verification is running
func (s FormState) InFlight() bool {
	switch s.Phase {
	case PhaseSubmittingOrder, PhaseAwaitingPayment, PhaseVerifyingPayment:
		return true
	}
	return false
}

// Locked edits are refused while in flight and after a terminal outcome
func (s FormState) Locked() bool {
	return s.InFlight() || s.Terminal
}

// CanSubmit true when the submit button would be enabled
func (s FormState) CanSubmit() bool {
	return s.Phase == PhaseReady && s.Verdict != nil && s.Verdict.Available && s.Amount > 0
}

// Accepts reports whether ev may be applied to s
func (s FormState) Accepts(ev Event) error {
	switch ev.(type) {
	case VehicleLoaded, VehicleLoadFailed, SelectionChanged, LocationsChanged, SubmitRequested, Left:
		if s.Locked() {
			return ErrFlowLocked
		}
	case Restarted:
		if !s.Terminal {
			return ErrNotTerminal
		}
	}
	return nil
}

package checkout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/rental"
)

// Form field keys used in ValidationError
const (
	FieldStartDate       = "startDate"
	FieldEndDate         = "endDate"
	FieldDateRange       = "dateRange"
	FieldPickupLocation  = "pickupLocation"
	FieldDropoffLocation = "dropoffLocation"
	FieldAvailability    = "availability"
	FieldAmount          = "amount"
)

// Transition applies ev to s and returns the next state with the side effects to run.
// Events that s does not accept (see FormState.Accepts) and replies that arrive
// in the wrong phase leave the state unchanged.
func Transition(s FormState, ev Event) (FormState, []Command) {
	if s.Accepts(ev) != nil {
		return s, nil
	}

	switch ev := ev.(type) {
	case VehicleLoaded:
		s.Vehicle = ev.Vehicle
		return requote(s)

	case VehicleLoadFailed:
		s.Seq++
		s.Vehicle = nil
		s.Verdict = nil
		s.Phase = PhaseErrored
		s.Err = asServiceError(ev.Err, MsgVehicleFailed)
		return s, []Command{CancelAvailability{}}

	case SelectionChanged:
		s.Inputs.Selection = ev.Selection
		return requote(s)

	case LocationsChanged:
		s.Inputs.PickupLocation = ev.PickupLocation
		s.Inputs.DropoffLocation = ev.DropoffLocation
		s.Inputs.SpecialRequests = ev.SpecialRequests
		var vErr *ValidationError
		if errors.As(s.Err, &vErr) {
			s.Err = nil
		}
		return s, nil

	case AvailabilityResolved:
		return resolveAvailability(s, ev)

	case SubmitRequested:
		return submit(s)

	case OrderCreated:
		if s.Phase != PhaseSubmittingOrder {
			return s, nil
		}
		s.Order = ev.Order
		s.Phase = PhaseAwaitingPayment
		return s, []Command{CollectPayment{Order: ev.Order}}

	case OrderFailed:
		if s.Phase != PhaseSubmittingOrder {
			return s, nil
		}
		s.Phase = PhaseErrored
		s.Draft = nil
		s.Err = asServiceError(ev.Err, MsgOrderFailed)
		return s, nil

	case PaymentCollected:
		if s.Phase != PhaseAwaitingPayment || s.Draft == nil {
			return s, nil
		}
		s.Phase = PhaseVerifyingPayment
		return s, []Command{VerifyPayment{Proof: ev.Proof, Draft: *s.Draft}}

	case PaymentCancelled:
		if s.Phase != PhaseAwaitingPayment {
			return s, nil
		}
		s.Phase = PhaseReady
		s.Order = nil
		s.Draft = nil
		s.Err = nil
		return s, nil

	case BookingVerified:
		if s.Phase != PhaseVerifyingPayment {
			return s, nil
		}
		s.Phase = PhaseCompleted
		s.Booking = ev.Booking
		s.Err = nil
		s.Terminal = true
		return s, nil

	case VerificationFailed:
		if s.Phase != PhaseVerifyingPayment {
			return s, nil
		}
		s.Phase = PhaseErrored
		s.Err = &VerificationError{Err: ev.Err}
		s.Terminal = true
		return s, nil

	case Left:
		return FormState{Seq: s.Seq + 1}, []Command{CancelAvailability{}}

	case Restarted:
		s.Terminal = false
		s.Booking = nil
		return requote(s)
	}

	return s, nil
}

// requote пересчитывает интервал и сумму и запрашивает доступность.
// Фаза Quoting промежуточная: расчёт синхронный, поэтому наружу она не видна.
func requote(s FormState) (FormState, []Command) {
	s.Seq++
	s.Phase = PhaseQuoting
	s.Verdict = nil
	s.Draft = nil
	s.Order = nil
	s.Err = nil

	iv, err := rental.BuildInterval(s.Inputs.Selection)
	s.Interval = iv
	s.IntervalErr = err
	s.Amount = rental.Quote(iv, rental.RatesOf(s.Vehicle))

	// Пока интервал не валиден, в сеть не ходим
	if err != nil || s.Vehicle == nil {
		s.Phase = PhaseIdle
		return s, []Command{CancelAvailability{}}
	}

	s.Phase = PhaseAwaitingAvailability
	return s, []Command{CheckAvailability{
		Seq:       s.Seq,
		VehicleID: s.Vehicle.ID,
		Start:     iv.Start,
		End:       iv.End,
	}}
}

func resolveAvailability(s FormState, ev AvailabilityResolved) (FormState, []Command) {
	// Ответ на устаревший интервал отбрасываем
	if ev.Seq != s.Seq || s.Phase != PhaseAwaitingAvailability {
		return s, nil
	}

	switch {
	case ev.Err != nil:
		s.Phase = PhaseErrored
		s.Err = asServiceError(ev.Err, MsgAvailabilityFailed)
	case ev.Verdict == nil || !ev.Verdict.Available:
		msg := MsgNotAvailable
		if ev.Verdict != nil && ev.Verdict.Message != "" {
			msg = ev.Verdict.Message
		}
		s.Verdict = &Verdict{Available: false, Message: msg}
		s.Phase = PhaseErrored
		s.Err = &AvailabilityDeniedError{Message: msg}
	case s.Amount <= 0:
		s.Verdict = ev.Verdict
		s.Phase = PhaseErrored
		s.Err = ErrNotQuotable
	default:
		s.Verdict = ev.Verdict
		s.Phase = PhaseReady
		s.Err = nil
	}

	return s, nil
}

func submit(s FormState) (FormState, []Command) {
	if fields := validate(s); len(fields) > 0 {
		s.Err = &ValidationError{Fields: fields}
		return s, nil
	}

	draft := buildDraft(s)
	s.Draft = &draft
	s.Phase = PhaseSubmittingOrder
	s.Err = nil
	return s, []Command{CreateOrder{Draft: draft}}
}

// validate собирает все нарушения сразу, а не по одному
func validate(s FormState) map[string]string {
	fields := make(map[string]string)
	sel := s.Inputs.Selection

	if sel.StartDate == nil {
		fields[FieldStartDate] = MsgInvalidDates
	}
	if sel.EndDate == nil {
		fields[FieldEndDate] = MsgInvalidDates
	}

	switch {
	case errors.Is(s.IntervalErr, rental.ErrInvertedRange):
		fields[FieldDateRange] = MsgInvertedRange
	case errors.Is(s.IntervalErr, rental.ErrInvalidClockTime):
		fields[FieldDateRange] = MsgInvalidClockTime
	case s.IntervalErr != nil && sel.StartDate != nil && sel.EndDate != nil:
		fields[FieldDateRange] = MsgInvalidDates
	}

	if strings.TrimSpace(s.Inputs.PickupLocation) == "" {
		fields[FieldPickupLocation] = MsgPickupRequired
	}
	if strings.TrimSpace(s.Inputs.DropoffLocation) == "" {
		fields[FieldDropoffLocation] = MsgDropoffRequired
	}

	switch {
	case s.Verdict != nil && !s.Verdict.Available:
		fields[FieldAvailability] = MsgNotAvailable
	case s.Phase != PhaseReady || s.Verdict == nil:
		fields[FieldAvailability] = MsgAvailabilityPending
	}

	if s.Interval != nil && s.Amount <= 0 {
		fields[FieldAmount] = MsgAmountNotPositive
	}

	return fields
}

func buildDraft(s FormState) domain.BookingDraft {
	sel := s.Inputs.Selection
	draft := domain.BookingDraft{
		VehicleID:       s.Vehicle.ID,
		StartDate:       *sel.StartDate,
		EndDate:         *sel.EndDate,
		Mode:            sel.Mode,
		PickupLocation:  strings.TrimSpace(s.Inputs.PickupLocation),
		DropoffLocation: strings.TrimSpace(s.Inputs.DropoffLocation),
		SpecialRequests: s.Inputs.SpecialRequests,
	}
	if sel.Mode == domain.ModeHourly {
		draft.StartTime = sel.StartTime
		draft.EndTime = sel.EndTime
	}
	return draft
}

// Describe short human-readable description of the state for logs and the CLI
func Describe(s FormState) string {
	if s.Err != nil {
		return fmt.Sprintf("%s: %v", s.Phase, s.Err)
	}
	return s.Phase.String()
}

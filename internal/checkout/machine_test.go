package checkout

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/rental"
	"github.com/m04kA/SMC-RentalService/pkg/ptr"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

func testVehicle() *domain.Vehicle {
	return &domain.Vehicle{ID: 7, Make: "Toyota", Model: "Innova", PricePerDay: 1000, PricePerHour: 150, IsAvailable: true}
}

func day(d int) *time.Time {
	return ptr.Ptr(time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC))
}

func dailySelection(from, to int) rental.Selection {
	return rental.Selection{StartDate: day(from), EndDate: day(to), Mode: domain.ModeDaily}
}

func hourlySelection(d int, from, to string) rental.Selection {
	return rental.Selection{
		StartDate: day(d),
		EndDate:   day(d),
		StartTime: types.MustTimeString(from),
		EndTime:   types.MustTimeString(to),
		Mode:      domain.ModeHourly,
	}
}

// run applies events in order and returns the final state with the commands of the last one
func run(t *testing.T, s FormState, events ...Event) (FormState, []Command) {
	t.Helper()
	var cmds []Command
	for _, ev := range events {
		s, cmds = Transition(s, ev)
	}
	return s, cmds
}

func checkCommand(t *testing.T, cmds []Command) CheckAvailability {
	t.Helper()
	require.Len(t, cmds, 1)
	c, ok := cmds[0].(CheckAvailability)
	require.True(t, ok, "expected CheckAvailability, got %T", cmds[0])
	return c
}

func readyState(t *testing.T) FormState {
	t.Helper()
	s, cmds := run(t, FormState{},
		VehicleLoaded{Vehicle: testVehicle()},
		SelectionChanged{Selection: dailySelection(1, 3)},
	)
	c := checkCommand(t, cmds)
	s, _ = run(t, s,
		AvailabilityResolved{Seq: c.Seq, Verdict: &Verdict{Available: true, Message: "Car is available for the selected dates."}},
		LocationsChanged{PickupLocation: "Airport", DropoffLocation: "Railway station"},
	)
	require.Equal(t, PhaseReady, s.Phase)
	return s
}

func TestTransition_VehicleWithoutSelectionStaysIdle(t *testing.T) {
	s, cmds := Transition(FormState{}, VehicleLoaded{Vehicle: testVehicle()})

	assert.Equal(t, PhaseIdle, s.Phase)
	assert.ErrorIs(t, s.IntervalErr, rental.ErrIncompleteSelection)
	assert.Zero(t, s.Amount)
	assert.Equal(t, []Command{CancelAvailability{}}, cmds)
}

func TestTransition_SelectionIssuesAvailabilityCheck(t *testing.T) {
	s, cmds := run(t, FormState{},
		VehicleLoaded{Vehicle: testVehicle()},
		SelectionChanged{Selection: dailySelection(1, 3)},
	)

	assert.Equal(t, PhaseAwaitingAvailability, s.Phase)
	assert.Equal(t, int64(2000), s.Amount)
	require.NotNil(t, s.Interval)
	assert.Equal(t, 2, s.Interval.Duration)

	c := checkCommand(t, cmds)
	assert.Equal(t, s.Seq, c.Seq)
	assert.Equal(t, int64(7), c.VehicleID)
	assert.Equal(t, s.Interval.Start, c.Start)
	assert.Equal(t, s.Interval.End, c.End)
}

func TestTransition_HourlyHalfHourQuotesOneHour(t *testing.T) {
	s, _ := run(t, FormState{},
		VehicleLoaded{Vehicle: testVehicle()},
		SelectionChanged{Selection: hourlySelection(1, "09:00", "09:30")},
	)

	assert.Equal(t, 1, s.Interval.Duration)
	assert.Equal(t, int64(150), s.Amount)
}

func TestTransition_AvailableVerdictMakesReady(t *testing.T) {
	s := readyState(t)

	assert.True(t, s.CanSubmit())
	assert.NoError(t, s.Err)
}

func TestTransition_SupersededVerdictIsDiscarded(t *testing.T) {
	s, cmds := run(t, FormState{},
		VehicleLoaded{Vehicle: testVehicle()},
		SelectionChanged{Selection: dailySelection(1, 3)},
	)
	first := checkCommand(t, cmds)

	s, cmds = Transition(s, SelectionChanged{Selection: dailySelection(4, 6)})
	second := checkCommand(t, cmds)
	require.NotEqual(t, first.Seq, second.Seq)

	s, cmds = Transition(s, AvailabilityResolved{Seq: first.Seq, Verdict: &Verdict{Available: true}})
	assert.Empty(t, cmds)
	assert.Equal(t, PhaseAwaitingAvailability, s.Phase)
	assert.Nil(t, s.Verdict)
	assert.False(t, s.CanSubmit())

	s, _ = Transition(s, AvailabilityResolved{Seq: second.Seq, Verdict: &Verdict{Available: true}})
	assert.Equal(t, PhaseReady, s.Phase)
	assert.Equal(t, time.Date(2024, time.June, 4, 0, 0, 0, 0, time.UTC), s.Interval.Start)
}

func TestTransition_UnavailableVerdictIsRecoverable(t *testing.T) {
	s, cmds := run(t, FormState{},
		VehicleLoaded{Vehicle: testVehicle()},
		SelectionChanged{Selection: dailySelection(1, 3)},
	)
	c := checkCommand(t, cmds)

	s, _ = Transition(s, AvailabilityResolved{Seq: c.Seq, Verdict: &Verdict{Available: false, Message: "Car is already booked for the selected dates."}})

	assert.Equal(t, PhaseErrored, s.Phase)
	assert.False(t, s.Terminal)
	assert.Positive(t, s.Amount)
	assert.False(t, s.CanSubmit())

	var denied *AvailabilityDeniedError
	require.ErrorAs(t, s.Err, &denied)
	assert.Equal(t, "Car is already booked for the selected dates.", denied.Message)

	s, cmds = Transition(s, SelectionChanged{Selection: dailySelection(10, 12)})
	assert.Equal(t, PhaseAwaitingAvailability, s.Phase)
	assert.NoError(t, s.Err)
	checkCommand(t, cmds)
}

func TestTransition_AvailabilityRequestFailure(t *testing.T) {
	s, cmds := run(t, FormState{},
		VehicleLoaded{Vehicle: testVehicle()},
		SelectionChanged{Selection: dailySelection(1, 3)},
	)
	c := checkCommand(t, cmds)

	cause := errors.New("POST /api/v1/vehicles/7/check-availability: dial tcp 10.0.0.1:80: connection refused")
	s, _ = Transition(s, AvailabilityResolved{Seq: c.Seq, Err: cause})

	assert.Equal(t, PhaseErrored, s.Phase)
	assert.ErrorIs(t, s.Err, ErrService)
	assert.ErrorIs(t, s.Err, cause)
	assert.Equal(t, MsgAvailabilityFailed, s.Err.Error())
	assert.False(t, s.Terminal)

	// После ошибки интервал можно проверить заново
	s, cmds = Transition(s, SelectionChanged{Selection: dailySelection(2, 4)})
	assert.Equal(t, PhaseAwaitingAvailability, s.Phase)
	checkCommand(t, cmds)
}

func TestTransition_ZeroAmountNeverReady(t *testing.T) {
	vehicle := testVehicle()
	vehicle.PricePerDay = 0

	s, cmds := run(t, FormState{},
		VehicleLoaded{Vehicle: vehicle},
		SelectionChanged{Selection: dailySelection(1, 3)},
	)
	c := checkCommand(t, cmds)

	s, _ = Transition(s, AvailabilityResolved{Seq: c.Seq, Verdict: &Verdict{Available: true}})

	assert.Equal(t, PhaseErrored, s.Phase)
	assert.ErrorIs(t, s.Err, ErrNotQuotable)
}

func TestTransition_InvertedRangeBlocksSubmission(t *testing.T) {
	s, cmds := run(t, FormState{},
		VehicleLoaded{Vehicle: testVehicle()},
		SelectionChanged{Selection: dailySelection(3, 1)},
	)

	assert.Equal(t, PhaseIdle, s.Phase)
	assert.ErrorIs(t, s.IntervalErr, rental.ErrInvertedRange)
	assert.Zero(t, s.Amount)
	assert.Equal(t, []Command{CancelAvailability{}}, cmds)

	s, cmds = Transition(s, SubmitRequested{})
	assert.Empty(t, cmds)
	assert.Equal(t, PhaseIdle, s.Phase)

	var vErr *ValidationError
	require.ErrorAs(t, s.Err, &vErr)
	assert.Equal(t, MsgInvertedRange, vErr.Fields[FieldDateRange])
	assert.True(t, vErr.Has(FieldPickupLocation))
	assert.True(t, vErr.Has(FieldDropoffLocation))
	assert.True(t, vErr.Has(FieldAvailability))
}

func TestTransition_SubmitReportsEveryMissingField(t *testing.T) {
	s, cmds := run(t, FormState{},
		VehicleLoaded{Vehicle: testVehicle()},
		SubmitRequested{},
	)
	assert.Empty(t, cmds)

	var vErr *ValidationError
	require.ErrorAs(t, s.Err, &vErr)
	for _, field := range []string{FieldStartDate, FieldEndDate, FieldPickupLocation, FieldDropoffLocation, FieldAvailability} {
		assert.True(t, vErr.Has(field), field)
	}
	assert.Equal(t, MsgInvalidDates, vErr.Fields[FieldStartDate])
}

func TestTransition_SubmitWithoutLocations(t *testing.T) {
	s := readyState(t)
	s, _ = Transition(s, LocationsChanged{PickupLocation: "  "})

	s, cmds := Transition(s, SubmitRequested{})
	assert.Empty(t, cmds)
	assert.Equal(t, PhaseReady, s.Phase)

	var vErr *ValidationError
	require.ErrorAs(t, s.Err, &vErr)
	assert.Len(t, vErr.Fields, 2)

	s, _ = Transition(s, LocationsChanged{PickupLocation: "Airport", DropoffLocation: "Airport"})
	assert.NoError(t, s.Err)
}

func TestTransition_HappyPath(t *testing.T) {
	s := readyState(t)

	s, cmds := Transition(s, SubmitRequested{})
	assert.Equal(t, PhaseSubmittingOrder, s.Phase)
	require.Len(t, cmds, 1)
	create, ok := cmds[0].(CreateOrder)
	require.True(t, ok)
	assert.Equal(t, int64(7), create.Draft.VehicleID)
	assert.Equal(t, domain.ModeDaily, create.Draft.Mode)
	assert.Equal(t, "Airport", create.Draft.PickupLocation)
	assert.True(t, create.Draft.StartTime.IsZero())

	order := &PaymentOrder{OrderID: "order_1", Amount: 2000, Currency: "INR"}
	s, cmds = Transition(s, OrderCreated{Order: order})
	assert.Equal(t, PhaseAwaitingPayment, s.Phase)
	assert.Equal(t, []Command{CollectPayment{Order: order}}, cmds)

	proof := PaymentProof{OrderID: "order_1", PaymentID: "pay_1", Signature: "sig"}
	s, cmds = Transition(s, PaymentCollected{Proof: proof})
	assert.Equal(t, PhaseVerifyingPayment, s.Phase)
	assert.Equal(t, []Command{VerifyPayment{Proof: proof, Draft: create.Draft}}, cmds)

	booking := &domain.Booking{ID: 1, BookingRef: "BK-1A2B3C4D", Status: domain.StatusConfirmed}
	s, cmds = Transition(s, BookingVerified{Booking: booking})
	assert.Empty(t, cmds)
	assert.Equal(t, PhaseCompleted, s.Phase)
	assert.True(t, s.Terminal)
	assert.Same(t, booking, s.Booking)
}

func TestTransition_EditsLockedWhileInFlight(t *testing.T) {
	s, _ := Transition(readyState(t), SubmitRequested{})
	require.Equal(t, PhaseSubmittingOrder, s.Phase)

	for _, ev := range []Event{
		SelectionChanged{Selection: dailySelection(10, 12)},
		LocationsChanged{PickupLocation: "Elsewhere"},
		VehicleLoaded{Vehicle: testVehicle()},
		SubmitRequested{},
		Left{},
	} {
		assert.ErrorIs(t, s.Accepts(ev), ErrFlowLocked)

		next, cmds := Transition(s, ev)
		assert.Empty(t, cmds)
		assert.Equal(t, s, next)
	}
}

func TestTransition_PaymentCancelledReturnsToReady(t *testing.T) {
	s, _ := run(t, readyState(t),
		SubmitRequested{},
		OrderCreated{Order: &PaymentOrder{OrderID: "order_1"}},
		PaymentCancelled{},
	)

	assert.Equal(t, PhaseReady, s.Phase)
	assert.Nil(t, s.Order)
	assert.NoError(t, s.Err)
	assert.True(t, s.CanSubmit())
	assert.False(t, s.Locked())
}

func TestTransition_OrderFailureIsRecoverable(t *testing.T) {
	s, _ := run(t, readyState(t),
		SubmitRequested{},
		OrderFailed{Err: errors.New("POST /api/v1/bookings/payment-orders: gateway timeout")},
	)

	assert.Equal(t, PhaseErrored, s.Phase)
	assert.ErrorIs(t, s.Err, ErrService)
	assert.Equal(t, MsgOrderFailed, s.Err.Error())
	assert.NotContains(t, s.Err.Error(), "gateway timeout")
	assert.False(t, s.Locked())
}

func TestTransition_VehicleLoadFailureMessage(t *testing.T) {
	s, _ := Transition(FormState{}, VehicleLoadFailed{Err: errors.New("GET /api/v1/vehicles/7: EOF")})

	assert.Equal(t, PhaseErrored, s.Phase)
	assert.ErrorIs(t, s.Err, ErrService)
	assert.Equal(t, MsgVehicleFailed, s.Err.Error())

	s, _ = Transition(FormState{}, VehicleLoadFailed{Err: ErrVehicleNotFound})
	assert.ErrorIs(t, s.Err, ErrVehicleNotFound)
}

func TestTransition_OrderValidationErrorKeepsFields(t *testing.T) {
	rejected := &ValidationError{Fields: map[string]string{FieldStartDate: "Start date cannot be in the past."}}
	s, _ := run(t, readyState(t),
		SubmitRequested{},
		OrderFailed{Err: rejected},
	)

	var vErr *ValidationError
	require.ErrorAs(t, s.Err, &vErr)
	assert.Same(t, rejected, vErr)
}

func TestTransition_VerificationFailureIsTerminal(t *testing.T) {
	s, cmds := run(t, readyState(t),
		SubmitRequested{},
		OrderCreated{Order: &PaymentOrder{OrderID: "order_1"}},
		PaymentCollected{Proof: PaymentProof{OrderID: "order_1", PaymentID: "pay_1"}},
		VerificationFailed{Err: errors.New("signature mismatch")},
	)

	assert.Empty(t, cmds)
	assert.Equal(t, PhaseErrored, s.Phase)
	assert.True(t, s.Terminal)

	var vErr *VerificationError
	require.ErrorAs(t, s.Err, &vErr)
	assert.Contains(t, s.Err.Error(), "contact support")

	// Повторная отправка с тем же платежом невозможна
	next, cmds := Transition(s, SubmitRequested{})
	assert.Empty(t, cmds)
	assert.Equal(t, s, next)
	assert.ErrorIs(t, s.Accepts(SubmitRequested{}), ErrFlowLocked)
}

func TestTransition_RestartAfterTerminal(t *testing.T) {
	s, _ := run(t, readyState(t),
		SubmitRequested{},
		OrderCreated{Order: &PaymentOrder{OrderID: "order_1"}},
		PaymentCollected{Proof: PaymentProof{OrderID: "order_1", PaymentID: "pay_1"}},
		VerificationFailed{Err: errors.New("boom")},
	)
	seq := s.Seq

	s, cmds := Transition(s, Restarted{})
	assert.False(t, s.Terminal)
	assert.Equal(t, PhaseAwaitingAvailability, s.Phase)
	assert.Equal(t, seq+1, checkCommand(t, cmds).Seq)
	assert.Equal(t, "Airport", s.Inputs.PickupLocation)
}

func TestTransition_RestartRefusedMidFlow(t *testing.T) {
	s := readyState(t)
	assert.ErrorIs(t, s.Accepts(Restarted{}), ErrNotTerminal)
}

func TestTransition_LeaveDiscardsEverything(t *testing.T) {
	s, _ := run(t, FormState{},
		VehicleLoaded{Vehicle: testVehicle()},
		SelectionChanged{Selection: dailySelection(1, 3)},
	)
	seq := s.Seq

	s, cmds := Transition(s, Left{})
	assert.Equal(t, FormState{Seq: seq + 1}, s)
	assert.Equal(t, []Command{CancelAvailability{}}, cmds)

	s, _ = Transition(s, AvailabilityResolved{Seq: seq, Verdict: &Verdict{Available: true}})
	assert.Equal(t, PhaseIdle, s.Phase)
}

func TestTransition_LateRepliesIgnored(t *testing.T) {
	s := readyState(t)

	for _, ev := range []Event{
		OrderCreated{Order: &PaymentOrder{}},
		PaymentCollected{},
		BookingVerified{Booking: &domain.Booking{}},
		VerificationFailed{Err: errors.New("x")},
	} {
		next, cmds := Transition(s, ev)
		assert.Empty(t, cmds)
		assert.Equal(t, s, next)
	}
}

func TestTransition_DoesNotMutateInput(t *testing.T) {
	s := readyState(t)
	snapshot := s

	_, _ = Transition(s, SubmitRequested{})
	_, _ = Transition(s, SelectionChanged{Selection: dailySelection(8, 9)})

	assert.Equal(t, snapshot, s)
}


func TestDescribe(t *testing.T) {
	assert.Equal(t, "idle", Describe(FormState{}))

	s, _ := Transition(FormState{}, VehicleLoadFailed{Err: errors.New("GET /api/v1/vehicles/7: EOF")})
	assert.Equal(t, "errored: "+MsgVehicleFailed, Describe(s))
}

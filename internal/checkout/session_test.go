package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/logger"
)

type checkReply struct {
	verdict *Verdict
	err     error
}

type checkCall struct {
	start time.Time
	reply chan checkReply
}

// fakeAPI in-memory collaborator. When checks is set, availability calls block
// until the test answers them.
type fakeAPI struct {
	mu sync.Mutex

	vehicle    *domain.Vehicle
	vehicleErr error
	verdict    *Verdict
	checks     chan checkCall
	orderErr   error
	verifyErr  error

	orders        int
	verifications int
	lastDraft     domain.BookingDraft
}

func (f *fakeAPI) GetVehicle(ctx context.Context, vehicleID int64) (*domain.Vehicle, error) {
	if f.vehicleErr != nil {
		return nil, f.vehicleErr
	}
	return f.vehicle, nil
}

func (f *fakeAPI) CheckAvailability(ctx context.Context, vehicleID int64, start, end time.Time) (*Verdict, error) {
	if f.checks == nil {
		return f.verdict, nil
	}
	reply := make(chan checkReply, 1)
	f.checks <- checkCall{start: start, reply: reply}
	r := <-reply
	return r.verdict, r.err
}

func (f *fakeAPI) CreatePaymentOrder(ctx context.Context, draft domain.BookingDraft) (*PaymentOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders++
	f.lastDraft = draft
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	return &PaymentOrder{OrderID: "order_1", Amount: 2000, Currency: "INR", VehicleTitle: "Toyota Innova"}, nil
}

func (f *fakeAPI) VerifyPaymentAndCreateBooking(ctx context.Context, proof PaymentProof, draft domain.BookingDraft) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifications++
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return &domain.Booking{
		ID:             1,
		BookingRef:     "BK-1A2B3C4D",
		VehicleID:      draft.VehicleID,
		Status:         domain.StatusConfirmed,
		PaymentOrderID: proof.OrderID,
		PaymentID:      proof.PaymentID,
	}, nil
}

type fakePayments struct {
	outcome PaymentOutcome
	calls   int
}

func (f *fakePayments) Collect(ctx context.Context, order *PaymentOrder) <-chan PaymentOutcome {
	f.calls++
	ch := make(chan PaymentOutcome, 1)
	ch <- f.outcome
	close(ch)
	return ch
}

func newTestSession(t *testing.T, api *fakeAPI, payments *fakePayments) *Session {
	t.Helper()
	s := NewSession(api, payments, logger.NewNop())
	t.Cleanup(s.Close)
	return s
}

func paid() *fakePayments {
	return &fakePayments{outcome: Paid(PaymentProof{OrderID: "order_1", PaymentID: "pay_1", Signature: "sig"})}
}

// prepare loads the vehicle, selects dates and waits for the availability verdict
func prepare(t *testing.T, s *Session) FormState {
	t.Helper()
	ctx := context.Background()

	_, err := s.Load(ctx, 7)
	require.NoError(t, err)
	_, err = s.Update(dailySelection(1, 3))
	require.NoError(t, err)
	s.Wait()
	_, err = s.SetLocations("Airport", "Railway station", nil)
	require.NoError(t, err)

	return s.State()
}

func TestSession_HappyPath(t *testing.T) {
	api := &fakeAPI{vehicle: testVehicle(), verdict: &Verdict{Available: true}}
	payments := paid()
	s := newTestSession(t, api, payments)

	st := prepare(t, s)
	require.Equal(t, PhaseReady, st.Phase)

	booking, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "BK-1A2B3C4D", booking.BookingRef)
	assert.Equal(t, "pay_1", booking.PaymentID)

	assert.Equal(t, 1, api.orders)
	assert.Equal(t, 1, api.verifications)
	assert.Equal(t, 1, payments.calls)
	assert.Equal(t, "Railway station", api.lastDraft.DropoffLocation)

	final := s.State()
	assert.Equal(t, PhaseCompleted, final.Phase)

	_, err = s.Update(dailySelection(5, 6))
	assert.ErrorIs(t, err, ErrFlowLocked)
}

func TestSession_VerificationFailureIsNotRetried(t *testing.T) {
	api := &fakeAPI{vehicle: testVehicle(), verdict: &Verdict{Available: true}, verifyErr: errors.New("signature mismatch")}
	s := newTestSession(t, api, paid())
	prepare(t, s)

	_, err := s.Submit(context.Background())

	var vErr *VerificationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, err.Error(), "contact support")

	st := s.State()
	assert.Equal(t, PhaseErrored, st.Phase)
	assert.True(t, st.Terminal)

	_, err = s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrFlowLocked)
	assert.Equal(t, 1, api.verifications)
	assert.Equal(t, 1, api.orders)
}

func TestSession_PaymentCancelledBackToReady(t *testing.T) {
	api := &fakeAPI{vehicle: testVehicle(), verdict: &Verdict{Available: true}}
	s := newTestSession(t, api, &fakePayments{outcome: UserCancelled()})
	prepare(t, s)

	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrPaymentCancelled)

	st := s.State()
	assert.Equal(t, PhaseReady, st.Phase)
	assert.Equal(t, 0, api.verifications)

	// Можно сразу изменить даты
	_, err = s.Update(dailySelection(5, 6))
	assert.NoError(t, err)
}

func TestSession_OrderFailure(t *testing.T) {
	api := &fakeAPI{vehicle: testVehicle(), verdict: &Verdict{Available: true}, orderErr: errors.New("502 bad gateway")}
	payments := paid()
	s := newTestSession(t, api, payments)
	prepare(t, s)

	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrService)
	assert.Equal(t, MsgOrderFailed, err.Error())
	assert.Equal(t, 0, payments.calls)
	assert.True(t, IsRecoverable(err))
}

func TestSession_UnavailableVerdictBlocksSubmit(t *testing.T) {
	api := &fakeAPI{vehicle: testVehicle(), verdict: &Verdict{Available: false, Message: "Car is already booked for the selected dates."}}
	s := newTestSession(t, api, paid())

	st := prepare(t, s)
	assert.Equal(t, PhaseErrored, st.Phase)
	assert.Positive(t, st.Amount)

	_, err := s.Submit(context.Background())
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, MsgNotAvailable, vErr.Fields[FieldAvailability])
	assert.Equal(t, 0, api.orders)
}

func TestSession_MissingLocationsNeverReachServer(t *testing.T) {
	api := &fakeAPI{vehicle: testVehicle(), verdict: &Verdict{Available: true}}
	s := newTestSession(t, api, paid())

	_, err := s.Load(context.Background(), 7)
	require.NoError(t, err)
	_, err = s.Update(dailySelection(1, 3))
	require.NoError(t, err)
	s.Wait()

	_, err = s.Submit(context.Background())
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.True(t, vErr.Has(FieldPickupLocation))
	assert.True(t, vErr.Has(FieldDropoffLocation))
	assert.Equal(t, 0, api.orders)
}

func TestSession_SupersededCheckNeverAuthorizes(t *testing.T) {
	api := &fakeAPI{vehicle: testVehicle(), checks: make(chan checkCall)}
	s := newTestSession(t, api, paid())

	_, err := s.Load(context.Background(), 7)
	require.NoError(t, err)

	_, err = s.Update(dailySelection(1, 3))
	require.NoError(t, err)
	_, err = s.Update(dailySelection(4, 6))
	require.NoError(t, err)

	calls := make(map[int]checkCall, 2)
	for i := 0; i < 2; i++ {
		c := <-api.checks
		calls[c.start.Day()] = c
	}
	require.Len(t, calls, 2)

	// Первый (устаревший) ответ "свободно", актуальный "занято"
	calls[1].reply <- checkReply{verdict: &Verdict{Available: true}}
	calls[4].reply <- checkReply{verdict: &Verdict{Available: false, Message: "Car is already booked for the selected dates."}}
	s.Wait()

	st := s.State()
	assert.Equal(t, PhaseErrored, st.Phase)
	assert.False(t, st.CanSubmit())
	assert.Equal(t, 4, st.Interval.Start.Day())

	var denied *AvailabilityDeniedError
	assert.ErrorAs(t, st.Err, &denied)
}

func TestSession_LoadNotFound(t *testing.T) {
	api := &fakeAPI{vehicleErr: ErrVehicleNotFound}
	s := newTestSession(t, api, paid())

	st, err := s.Load(context.Background(), 404)
	assert.ErrorIs(t, err, ErrVehicleNotFound)
	assert.Equal(t, PhaseErrored, st.Phase)
}

func TestSession_ObserverSeesTransitions(t *testing.T) {
	api := &fakeAPI{vehicle: testVehicle(), verdict: &Verdict{Available: true}}
	s := newTestSession(t, api, paid())

	var mu sync.Mutex
	var phases []Phase
	s.Observe(func(st FormState) {
		mu.Lock()
		defer mu.Unlock()
		phases = append(phases, st.Phase)
	})

	prepare(t, s)
	_, err := s.Submit(context.Background())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, phases, PhaseAwaitingAvailability)
	assert.Contains(t, phases, PhaseReady)
	assert.Contains(t, phases, PhaseAwaitingPayment)
	assert.Equal(t, PhaseCompleted, phases[len(phases)-1])
}

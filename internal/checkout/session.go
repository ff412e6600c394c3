package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/rental"
)

// Session drives one booking form against the collaborator.
// Transitions are serialised under mu; network calls run outside it.
type Session struct {
	api      Collaborator
	payments PaymentCollector
	logger   Logger

	mu          sync.Mutex
	state       FormState
	cancelCheck context.CancelFunc
	observers   []func(FormState)

	base context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup
}

// NewSession создает сессию бронирования
func NewSession(api Collaborator, payments PaymentCollector, logger Logger) *Session {
	base, stop := context.WithCancel(context.Background())
	return &Session{
		api:      api,
		payments: payments,
		logger:   logger,
		base:     base,
		stop:     stop,
	}
}

// Observe registers fn to be called with every new state
func (s *Session) Observe(fn func(FormState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// State current snapshot
func (s *Session) State() FormState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Load fetches the target vehicle and re-quotes the current selection
func (s *Session) Load(ctx context.Context, vehicleID int64) (FormState, error) {
	if st := s.State(); st.Locked() {
		return st, ErrFlowLocked
	}

	vehicle, err := s.api.GetVehicle(ctx, vehicleID)
	if err != nil {
		s.logger.Warn("Load: vehicle %d: %v", vehicleID, err)
		st, _, applyErr := s.apply(VehicleLoadFailed{Err: err})
		if applyErr != nil {
			return st, applyErr
		}
		return st, st.Err
	}

	st, _, err := s.apply(VehicleLoaded{Vehicle: vehicle})
	return st, err
}

// Update replaces the date/time/mode selection
func (s *Session) Update(sel rental.Selection) (FormState, error) {
	st, _, err := s.apply(SelectionChanged{Selection: sel})
	return st, err
}

// SetLocations replaces pickup, dropoff and special requests
func (s *Session) SetLocations(pickup, dropoff string, specialRequests *string) (FormState, error) {
	st, _, err := s.apply(LocationsChanged{
		PickupLocation:  pickup,
		DropoffLocation: dropoff,
		SpecialRequests: specialRequests,
	})
	return st, err
}

// Submit runs order creation, payment collection and verification to a terminal state.
// Returns the confirmed booking, a *ValidationError when nothing was sent,
// ErrPaymentCancelled when the customer closed the payment step (state back to Ready),
// or the error the attempt ended with.
func (s *Session) Submit(ctx context.Context) (*domain.Booking, error) {
	st, cmds, err := s.apply(SubmitRequested{})
	if err != nil {
		return nil, err
	}
	if st.Phase != PhaseSubmittingOrder {
		return nil, st.Err
	}

	for len(cmds) > 0 {
		cmd := cmds[0]
		cmds = cmds[1:]

		ev := s.execute(ctx, cmd)
		if ev == nil {
			continue
		}

		_, more, err := s.apply(ev)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, more...)
	}

	final := s.State()
	switch final.Phase {
	case PhaseCompleted:
		s.logger.Info("Submit: booking %s confirmed", final.Booking.BookingRef)
		return final.Booking, nil
	case PhaseReady:
		return nil, ErrPaymentCancelled
	default:
		return nil, final.Err
	}
}

// Leave discards the form and any in-flight availability check.
// Refused while an order or a verification is running.
func (s *Session) Leave() error {
	_, _, err := s.apply(Left{})
	return err
}

// Restart begins a new attempt with the same vehicle and inputs after a terminal outcome
func (s *Session) Restart() (FormState, error) {
	st, _, err := s.apply(Restarted{})
	return st, err
}

// Wait blocks until in-flight availability checks have been delivered or dropped
func (s *Session) Wait() {
	s.wg.Wait()
}

// Close cancels in-flight checks and waits for them
func (s *Session) Close() {
	s.stop()
	s.wg.Wait()
}

// apply runs the transition under the lock, starts availability checks and
// returns the commands the caller has to execute.
func (s *Session) apply(ev Event) (FormState, []Command, error) {
	s.mu.Lock()

	if err := s.state.Accepts(ev); err != nil {
		st := s.state
		s.mu.Unlock()
		return st, nil, err
	}

	next, cmds := Transition(s.state, ev)
	s.state = next

	var pending []Command
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case CheckAvailability:
			s.startCheck(c)
		case CancelAvailability:
			s.cancelInflight()
		default:
			pending = append(pending, cmd)
		}
	}

	observers := s.observers
	s.mu.Unlock()

	for _, fn := range observers {
		fn(next)
	}

	return next, pending, nil
}

// startCheck вызывается под mu
func (s *Session) startCheck(cmd CheckAvailability) {
	s.cancelInflight()

	ctx, cancel := context.WithCancel(s.base)
	s.cancelCheck = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		verdict, err := s.api.CheckAvailability(ctx, cmd.VehicleID, cmd.Start, cmd.End)

		// Запрос заменён более новым: результат никому не нужен
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			s.logger.Warn("CheckAvailability: vehicle %d seq %d: %v", cmd.VehicleID, cmd.Seq, err)
		}

		_, _, _ = s.apply(AvailabilityResolved{Seq: cmd.Seq, Verdict: verdict, Err: err})
	}()
}

// cancelInflight вызывается под mu
func (s *Session) cancelInflight() {
	if s.cancelCheck != nil {
		s.cancelCheck()
		s.cancelCheck = nil
	}
}

// execute runs one network or payment step and reports its outcome as an event
func (s *Session) execute(ctx context.Context, cmd Command) Event {
	switch c := cmd.(type) {
	case CreateOrder:
		// Создание заказа не отменяется пользователем
		order, err := s.api.CreatePaymentOrder(context.WithoutCancel(ctx), c.Draft)
		if err != nil {
			s.logger.Error("CreatePaymentOrder: vehicle %d: %v", c.Draft.VehicleID, err)
			return OrderFailed{Err: err}
		}
		s.logger.Info("CreatePaymentOrder: order %s, amount %d %s", order.OrderID, order.Amount, order.Currency)
		return OrderCreated{Order: order}

	case CollectPayment:
		outcome := s.collect(ctx, c.Order)
		switch {
		case outcome.Proof != nil:
			return PaymentCollected{Proof: *outcome.Proof}
		case outcome.Err != nil:
			s.logger.Warn("CollectPayment: order %s: %v", c.Order.OrderID, outcome.Err)
		}
		return PaymentCancelled{}

	case VerifyPayment:
		// Деньги могли уже списаться: вызов доводим до конца, даже если вызывающий ушёл
		booking, err := s.api.VerifyPaymentAndCreateBooking(context.WithoutCancel(ctx), c.Proof, c.Draft)
		if err != nil {
			s.logger.Error("VerifyPayment: order %s payment %s: %v", c.Proof.OrderID, c.Proof.PaymentID, err)
			return VerificationFailed{Err: err}
		}
		return BookingVerified{Booking: booking}
	}

	return nil
}

func (s *Session) collect(ctx context.Context, order *PaymentOrder) PaymentOutcome {
	select {
	case outcome, ok := <-s.payments.Collect(ctx, order):
		if !ok {
			return UserCancelled()
		}
		return outcome
	case <-ctx.Done():
		return PaymentOutcome{Cancelled: true, Err: fmt.Errorf("payment step abandoned: %w", ctx.Err())}
	}
}

// IsRecoverable true when the customer can fix the inputs and try again
func IsRecoverable(err error) bool {
	var vErr *VerificationError
	if errors.As(err, &vErr) {
		return false
	}
	return !errors.Is(err, ErrFlowLocked)
}

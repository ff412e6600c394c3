package verify_payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/infra/cache/paymentorder"
	bookingRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-RentalService/internal/rental"
)

// UseCase use case подтверждения оплаты и создания бронирования.
// Повторов нет: ответ либо бронирование, либо окончательная ошибка.
type UseCase struct {
	bookingRepo BookingRepository
	vehicleRepo VehicleRepository
	verifier    SignatureVerifier
	orders      OrderStore
	txManager   TransactionManager
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	vehicleRepo VehicleRepository,
	verifier SignatureVerifier,
	orders OrderStore,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		vehicleRepo: vehicleRepo,
		verifier:    verifier,
		orders:      orders,
		txManager:   txManager,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute проверяет подпись, сверяет черновик с оплаченным заказом
// и создаёт подтверждённое бронирование в сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("VerifyPayment: user=%d, order=%s, payment=%s", req.UserID, req.OrderID, req.PaymentID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("VerifyPayment: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем подпись
	if !uc.verifier.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		uc.logger.Warn("VerifyPayment: invalid signature for order=%s, payment=%s", req.OrderID, req.PaymentID)
		uc.metrics.IncVerificationError(reasonSignature)
		return nil, ErrInvalidSignature
	}

	// 3. Один платёж подтверждается одним запросом
	release, err := uc.orders.AcquirePaymentLock(ctx, req.PaymentID)
	if err != nil {
		if errors.Is(err, paymentorder.ErrLockHeld) {
			uc.logger.Warn("VerifyPayment: payment=%s is already being processed", req.PaymentID)
			return nil, ErrPaymentInProgress
		}
		uc.logger.Error("VerifyPayment: failed to lock payment=%s: %v", req.PaymentID, err)
		uc.metrics.IncVerificationError(reasonInternal)
		return nil, fmt.Errorf("%w: failed to lock payment: %v", ErrInternal, err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			uc.logger.Warn("VerifyPayment: failed to release lock for payment=%s: %v", req.PaymentID, err)
		}
	}()

	// 4. Бронирование по этому платежу уже есть
	if existing, err := uc.existingBooking(ctx, req); existing != nil || err != nil {
		if err != nil {
			return nil, err
		}
		return &Response{Booking: existing, AlreadyConfirmed: true}, nil
	}

	// 5. Сверяем черновик с оплаченным заказом
	order, err := uc.orders.Get(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, paymentorder.ErrOrderNotFound) {
			uc.logger.Warn("VerifyPayment: order=%s not found", req.OrderID)
			uc.metrics.IncVerificationError(reasonOrderMissing)
			return nil, ErrOrderNotFound
		}
		uc.logger.Error("VerifyPayment: failed to load order=%s: %v", req.OrderID, err)
		uc.metrics.IncVerificationError(reasonInternal)
		return nil, fmt.Errorf("%w: failed to load order: %v", ErrInternal, err)
	}

	// 5.1. Черновик запроса приводится к виду сохранённого
	reqDraft := req.Draft.Normalize(order.Draft.StartDate.Location())
	if order.UserID != req.UserID || !order.Draft.SameAs(reqDraft) {
		uc.logger.Warn("VerifyPayment: order=%s does not match request of user=%d", req.OrderID, req.UserID)
		uc.metrics.IncVerificationError(reasonMismatch)
		return nil, ErrOrderMismatch
	}

	// 6. Интервал строится из сохранённого черновика, а не из запроса
	iv, err := rental.BuildInterval(rental.Selection{
		StartDate: &order.Draft.StartDate,
		EndDate:   &order.Draft.EndDate,
		StartTime: order.Draft.StartTime,
		EndTime:   order.Draft.EndTime,
		Mode:      order.Draft.Mode,
	})
	if err != nil {
		uc.logger.Error("VerifyPayment: stored order=%s has invalid interval: %v", req.OrderID, err)
		uc.metrics.IncVerificationError(reasonInternal)
		return nil, fmt.Errorf("%w: stored order has invalid interval: %v", ErrInternal, err)
	}

	// 7. Создаём бронирование в сериализуемой транзакции
	var created *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		vehicle, err := uc.vehicleRepo.GetByID(txCtx, order.Draft.VehicleID)
		if err != nil {
			return fmt.Errorf("%w: failed to get vehicle: %v", ErrInternal, err)
		}
		if !vehicle.IsAvailable {
			return ErrNotAvailable
		}

		// 7.1. Пересекающиеся активные бронирования блокируются FOR UPDATE
		overlapping, err := uc.bookingRepo.CountOverlapping(txCtx, vehicle.ID, iv.Start, iv.End)
		if err != nil {
			return fmt.Errorf("%w: failed to count overlapping bookings: %v", ErrInternal, err)
		}
		if overlapping > 0 {
			return ErrNotAvailable
		}

		// 7.2. Сохраняем бронирование
		booking := newBooking(order, iv, vehicle, req.PaymentID)
		created, err = uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return err
		}

		// 7.3. Счётчик бронирований автомобиля
		if err := uc.vehicleRepo.IncrementTotalBookings(txCtx, vehicle.ID); err != nil {
			return fmt.Errorf("%w: failed to increment total bookings: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return uc.creationFailed(ctx, req, err)
	}

	// 8. Заказ больше не нужен
	if err := uc.orders.Delete(ctx, req.OrderID); err != nil {
		uc.logger.Warn("VerifyPayment: failed to delete order=%s: %v", req.OrderID, err)
	}

	uc.metrics.IncBookingConfirmed(created.Mode.String())
	uc.logger.Info("VerifyPayment: booking id=%d (%s) confirmed for user=%d, payment=%s",
		created.ID, created.BookingRef, req.UserID, req.PaymentID)

	return &Response{Booking: created}, nil
}

// existingBooking возвращает бронирование, уже созданное по этому платежу
func (uc *UseCase) existingBooking(ctx context.Context, req *Request) (*domain.Booking, error) {
	existing, err := uc.bookingRepo.GetByPaymentID(ctx, req.PaymentID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, nil
		}
		uc.logger.Error("VerifyPayment: failed to look up payment=%s: %v", req.PaymentID, err)
		uc.metrics.IncVerificationError(reasonInternal)
		return nil, fmt.Errorf("%w: failed to look up payment: %v", ErrInternal, err)
	}

	if existing.UserID != req.UserID || existing.PaymentOrderID != req.OrderID {
		uc.logger.Warn("VerifyPayment: payment=%s belongs to another booking", req.PaymentID)
		uc.metrics.IncVerificationError(reasonMismatch)
		return nil, ErrOrderMismatch
	}

	uc.logger.Info("VerifyPayment: payment=%s already confirmed as booking id=%d", req.PaymentID, existing.ID)
	return existing, nil
}

// creationFailed переводит ошибку транзакции в ответ
func (uc *UseCase) creationFailed(ctx context.Context, req *Request, err error) (*Response, error) {
	switch {
	case errors.Is(err, ErrNotAvailable):
		uc.logger.Warn("VerifyPayment: vehicle became unavailable for order=%s", req.OrderID)
		uc.metrics.IncVerificationError(reasonConflict)
		return nil, ErrNotAvailable
	case errors.Is(err, bookingRepo.ErrDuplicatePayment):
		// Гонка с другим запросом, завершившимся раньше
		existing, lookupErr := uc.existingBooking(ctx, req)
		if lookupErr != nil {
			return nil, lookupErr
		}
		if existing != nil {
			return &Response{Booking: existing, AlreadyConfirmed: true}, nil
		}
	}

	uc.logger.Error("VerifyPayment: failed to create booking for order=%s: %v", req.OrderID, err)
	uc.metrics.IncVerificationError(reasonInternal)
	if errors.Is(err, ErrInternal) {
		return nil, err
	}
	return nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
}

func newBooking(order *paymentorder.PendingOrder, iv *rental.Interval, vehicle *domain.Vehicle, paymentID string) *domain.Booking {
	d := order.Draft

	return &domain.Booking{
		BookingRef:      newBookingRef(),
		UserID:          order.UserID,
		VehicleID:       vehicle.ID,
		StartDate:       d.StartDate,
		EndDate:         d.EndDate,
		StartTime:       d.StartTime,
		EndTime:         d.EndTime,
		Mode:            d.Mode,
		StartAt:         iv.Start,
		EndAt:           iv.End,
		Duration:        iv.Duration,
		TotalAmount:     order.Amount,
		Currency:        order.Currency,
		PickupLocation:  d.PickupLocation,
		DropoffLocation: d.DropoffLocation,
		SpecialRequests: d.SpecialRequests,
		Status:          domain.StatusConfirmed,
		PaymentOrderID:  order.OrderID,
		PaymentID:       paymentID,
		VehicleTitle:    vehicle.Title(),
	}
}

// newBookingRef BK- и 8 символов из UUID
func newBookingRef() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return domain.BookingRefPrefix + strings.ToUpper(hex[:8])
}

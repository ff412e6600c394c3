package create_payment_order

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/infra/cache/paymentorder"
	vehicleRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/vehicle"
	"github.com/m04kA/SMC-RentalService/internal/integrations/razorpay"
	"github.com/m04kA/SMC-RentalService/internal/rental"
)

// UseCase use case создания платёжного заказа под черновик бронирования
type UseCase struct {
	vehicleRepo  VehicleRepository
	bookingRepo  BookingRepository
	gateway      PaymentGateway
	orders       OrderStore
	metrics      Metrics
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	vehicleRepo VehicleRepository,
	bookingRepo BookingRepository,
	gateway PaymentGateway,
	orders OrderStore,
	metrics Metrics,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}

	return &UseCase{
		vehicleRepo:  vehicleRepo,
		bookingRepo:  bookingRepo,
		gateway:      gateway,
		orders:       orders,
		metrics:      metrics,
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute пересчитывает сумму на сервере, перепроверяет доступность,
// создаёт заказ в Razorpay и запоминает черновик до подтверждения оплаты
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	draft := req.Draft.Normalize(uc.settings.Location)

	uc.logger.Info("CreatePaymentOrder: user=%d, vehicle=%d, mode=%s, start=%s, end=%s",
		req.UserID, draft.VehicleID, draft.Mode,
		draft.StartDate.Format(domain.DateFormat), draft.EndDate.Format(domain.DateFormat))

	// 1. Валидация черновика и построение интервала
	now := uc.timeProvider.Now()
	iv, err := validateDraft(&draft, now, uc.settings)
	if err != nil {
		uc.logger.Warn("CreatePaymentOrder: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем автомобиль
	vehicle, err := uc.vehicleRepo.GetByID(ctx, draft.VehicleID)
	if err != nil {
		if errors.Is(err, vehicleRepo.ErrVehicleNotFound) {
			uc.logger.Warn("CreatePaymentOrder: vehicle id=%d not found", draft.VehicleID)
			return nil, ErrVehicleNotFound
		}
		uc.logger.Error("CreatePaymentOrder: failed to get vehicle id=%d: %v", draft.VehicleID, err)
		return nil, fmt.Errorf("%w: failed to get vehicle: %v", ErrInternal, err)
	}

	// 3. Сумма считается только на сервере
	amount := rental.Quote(iv, rental.RatesOf(vehicle))
	if amount <= 0 {
		uc.logger.Warn("CreatePaymentOrder: vehicle id=%d has no %s rate", vehicle.ID, draft.Mode)
		return nil, &ValidationError{Fields: map[string]string{
			fieldAmount: "Total amount must be greater than zero",
		}}
	}

	// 4. Перепроверяем доступность
	if !vehicle.IsAvailable {
		uc.logger.Warn("CreatePaymentOrder: vehicle id=%d is out of service", vehicle.ID)
		return nil, ErrNotAvailable
	}

	overlapping, err := uc.bookingRepo.CountOverlapping(ctx, vehicle.ID, iv.Start, iv.End)
	if err != nil {
		uc.logger.Error("CreatePaymentOrder: failed to count overlapping bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to count overlapping bookings: %v", ErrInternal, err)
	}
	if overlapping > 0 {
		uc.logger.Warn("CreatePaymentOrder: vehicle id=%d has %d overlapping bookings", vehicle.ID, overlapping)
		return nil, ErrNotAvailable
	}

	// 5. Создаём заказ в платёжном шлюзе
	order, err := uc.gateway.CreateOrder(ctx, razorpay.OrderRequest{
		Amount:   amount,
		Currency: uc.settings.Currency,
		Receipt:  razorpay.NewReceipt(),
		Notes: map[string]string{
			"vehicle_id": strconv.FormatInt(vehicle.ID, 10),
			"user_id":    strconv.FormatInt(req.UserID, 10),
			"mode":       draft.Mode.String(),
			"start_at":   iv.Start.Format(time.RFC3339),
			"end_at":     iv.End.Format(time.RFC3339),
		},
	})
	if err != nil {
		uc.logger.Error("CreatePaymentOrder: gateway error for vehicle id=%d: %v", vehicle.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	// 6. Запоминаем черновик и серверную сумму до подтверждения оплаты
	pending := &paymentorder.PendingOrder{
		OrderID:      order.ID,
		UserID:       req.UserID,
		Draft:        draft,
		Amount:       order.Amount,
		Currency:     order.Currency,
		VehicleTitle: vehicle.Title(),
		CreatedAt:    now,
	}
	if err := uc.orders.Save(ctx, pending); err != nil {
		uc.logger.Error("CreatePaymentOrder: failed to store order %s: %v", order.ID, err)
		return nil, fmt.Errorf("%w: failed to store order: %v", ErrInternal, err)
	}

	uc.metrics.IncPaymentOrder(draft.Mode.String())
	uc.logger.Info("CreatePaymentOrder: order %s created for user=%d, amount=%d %s",
		order.ID, req.UserID, order.Amount, order.Currency)

	return &Response{
		OrderID:      order.ID,
		Amount:       order.Amount,
		Currency:     order.Currency,
		VehicleTitle: vehicle.Title(),
		KeyID:        uc.gateway.KeyID(),
	}, nil
}

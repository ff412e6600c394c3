package check_availability

import (
	"context"
	"errors"
	"fmt"

	vehicleRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/vehicle"
)

// UseCase use case проверки доступности автомобиля
type UseCase struct {
	vehicleRepo VehicleRepository
	bookingRepo BookingRepository
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	vehicleRepo VehicleRepository,
	bookingRepo BookingRepository,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		vehicleRepo: vehicleRepo,
		bookingRepo: bookingRepo,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute проверяет, что автомобиль не занят активными бронированиями в интервале
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckAvailability: vehicle=%d, start=%s, end=%s",
		req.VehicleID, req.Start.Format("2006-01-02 15:04"), req.End.Format("2006-01-02 15:04"))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем автомобиль
	vehicle, err := uc.vehicleRepo.GetByID(ctx, req.VehicleID)
	if err != nil {
		if errors.Is(err, vehicleRepo.ErrVehicleNotFound) {
			uc.logger.Warn("CheckAvailability: vehicle id=%d not found", req.VehicleID)
			return nil, ErrVehicleNotFound
		}
		uc.logger.Error("CheckAvailability: failed to get vehicle id=%d: %v", req.VehicleID, err)
		return nil, fmt.Errorf("%w: failed to get vehicle: %v", ErrInternal, err)
	}

	// 3. Снятый с линии автомобиль недоступен на любые даты
	if !vehicle.IsAvailable {
		uc.logger.Info("CheckAvailability: vehicle id=%d is out of service", req.VehicleID)
		return uc.verdict(false, MsgOutOfService), nil
	}

	// 4. Считаем пересекающиеся активные бронирования
	overlapping, err := uc.bookingRepo.CountOverlapping(ctx, req.VehicleID, req.Start, req.End)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to count overlapping bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to count overlapping bookings: %v", ErrInternal, err)
	}

	if overlapping > 0 {
		uc.logger.Info("CheckAvailability: vehicle id=%d has %d overlapping bookings", req.VehicleID, overlapping)
		return uc.verdict(false, MsgBooked), nil
	}

	return uc.verdict(true, MsgAvailable), nil
}

func (uc *UseCase) verdict(available bool, msg string) *Response {
	uc.metrics.IncAvailabilityCheck(available)
	return &Response{Available: available, Message: msg}
}

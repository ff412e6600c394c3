package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-RentalService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь видит только своё бронирование, администратор видит любое
func (s *Service) GetByID(ctx context.Context, id int64, userID int64, isAdmin bool) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if !canAccess(booking, userID, isAdmin) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking, s.timeProvider.Now()), nil
}

// ListMy получает страницу бронирований пользователя, новые первыми
// Опционально фильтрует по статусу
func (s *Service) ListMy(ctx context.Context, req *models.ListMyBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListMy: fetching bookings for user=%d, status=%v, page=%d, limit=%d",
		req.UserID, req.Status, req.Page, req.Limit)

	filter, err := newFilter(req.Status, req.Page, req.Limit)
	if err != nil {
		s.logger.Warn("ListMy: invalid status=%s for user=%d", *req.Status, req.UserID)
		return nil, err
	}
	filter.UserID = req.UserID

	bookings, total, err := s.bookingRepo.ListByUser(ctx, filter)
	if err != nil {
		s.logger.Error("ListMy: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: ListMy - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListMy: successfully fetched %d of %d bookings for user=%d", len(bookings), total, req.UserID)
	return models.FromDomainBookingList(bookings, s.timeProvider.Now(), filter.Page, filter.Limit, total), nil
}

// Cancel отменяет бронирование
// Отменить можно только подтверждённое бронирование, которое ещё не началось
func (s *Service) Cancel(ctx context.Context, bookingID int64, userID int64, isAdmin bool) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, userID)

	now := s.timeProvider.Now()

	var cancelled *domain.Booking

	// Строка бронирования блокируется до конца транзакции
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("Cancel: booking id=%d not found", bookingID)
				return ErrBookingNotFound
			}
			s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if !canAccess(booking, userID, isAdmin) {
			s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", userID, bookingID)
			return ErrAccessDenied
		}

		if !booking.CanBeCancelled(now) {
			s.logger.Warn("Cancel: booking id=%d with status=%s starting at %s cannot be cancelled",
				bookingID, booking.Status, booking.StartAt.Format("2006-01-02 15:04"))
			return ErrCannotCancel
		}

		updated, err := s.bookingRepo.UpdateStatus(txCtx, bookingID, domain.StatusCancelled)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("Cancel: booking id=%d not found during update", bookingID)
				return ErrBookingNotFound
			}
			s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		cancelled = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return models.FromDomainBooking(cancelled, now), nil
}

// ListAll получает страницу бронирований всех пользователей, новые первыми
// Доступно только администратору
func (s *Service) ListAll(ctx context.Context, req *models.ListAllBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListAll: fetching bookings, status=%v, page=%d, limit=%d", req.Status, req.Page, req.Limit)

	if !req.IsAdmin {
		s.logger.Warn("ListAll: access denied for non-admin")
		return nil, ErrAccessDenied
	}

	filter, err := newFilter(req.Status, req.Page, req.Limit)
	if err != nil {
		s.logger.Warn("ListAll: invalid status=%s", *req.Status)
		return nil, err
	}
	if req.UserID != nil {
		filter.UserID = *req.UserID
	}

	bookings, total, err := s.bookingRepo.ListAll(ctx, filter)
	if err != nil {
		s.logger.Error("ListAll: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListAll - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListAll: successfully fetched %d of %d bookings", len(bookings), total)
	return models.FromDomainBookingList(bookings, s.timeProvider.Now(), filter.Page, filter.Limit, total), nil
}

// UpdateStatus меняет статус бронирования по решению администратора
// Отменённые и завершённые бронирования не меняются, завершить можно только закончившуюся аренду
func (s *Service) UpdateStatus(ctx context.Context, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: admin=%d sets booking id=%d to status=%s", req.AdminID, req.BookingID, req.Status)

	if !req.IsAdmin {
		s.logger.Warn("UpdateStatus: access denied for user=%d", req.AdminID)
		return nil, ErrAccessDenied
	}

	status, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s", req.Status)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	now := s.timeProvider.Now()

	var result *domain.Booking

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("UpdateStatus: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		// Повторная установка того же статуса ничего не меняет
		if booking.Status == status {
			result = booking
			return nil
		}

		if !booking.CanMoveTo(status, now) {
			s.logger.Warn("UpdateStatus: booking id=%d cannot move from status=%s to status=%s",
				req.BookingID, booking.Status, status)
			return ErrInvalidTransition
		}

		updated, err := s.bookingRepo.UpdateStatus(txCtx, req.BookingID, status)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: booking id=%d now has status=%s", req.BookingID, result.Status)
	return models.FromDomainBooking(result, now), nil
}

// newFilter фильтр с нормализованной пагинацией и необязательным статусом
func newFilter(status *string, page, limit int) (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{Page: page, Limit: limit}

	if filter.Page <= 0 {
		filter.Page = domain.DefaultPage
	}
	if filter.Limit <= 0 {
		filter.Limit = domain.DefaultLimit
	}
	if filter.Limit > domain.MaxLimit {
		filter.Limit = domain.MaxLimit
	}

	// Конвертируем статус из строки в domain.BookingStatus
	if status != nil && *status != "" {
		st, err := models.ToDomainBookingStatus(*status)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &st
	}

	return filter, nil
}

// canAccess владелец или администратор
func canAccess(booking *domain.Booking, userID int64, isAdmin bool) bool {
	return isAdmin || booking.UserID == userID
}

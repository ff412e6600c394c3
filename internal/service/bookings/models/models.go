package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/ptr"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// ListMyBookingsRequest запрос на получение бронирований пользователя
type ListMyBookingsRequest struct {
	UserID int64
	Status *string
	Page   int
	Limit  int
}

// ListAllBookingsRequest запрос администратора на получение всех бронирований
type ListAllBookingsRequest struct {
	IsAdmin bool
	UserID  *int64 // фильтр по пользователю (опционально)
	Status  *string
	Page    int
	Limit   int
}

// UpdateStatusRequest запрос администратора на смену статуса бронирования
type UpdateStatusRequest struct {
	BookingID int64
	Status    string
	AdminID   int64
	IsAdmin   bool
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64     `json:"id"`
	BookingRef      string    `json:"bookingRef"`
	UserID          int64     `json:"userId"`
	VehicleID       int64     `json:"vehicleId"`
	VehicleTitle    string    `json:"vehicleTitle"`
	RentalMode      string    `json:"rentalMode"`
	StartDate       string    `json:"startDate"`           // "2024-06-01"
	EndDate         string    `json:"endDate"`             // "2024-06-03"
	StartTime       *string   `json:"startTime,omitempty"` // только для почасовой аренды
	EndTime         *string   `json:"endTime,omitempty"`
	StartAt         time.Time `json:"startAt"`
	EndAt           time.Time `json:"endAt"`
	Duration        int       `json:"duration"`
	TotalAmount     int64     `json:"totalAmount"` // в пайсах
	Currency        string    `json:"currency"`
	PickupLocation  string    `json:"pickupLocation"`
	DropoffLocation string    `json:"dropoffLocation"`
	SpecialRequests *string   `json:"specialRequests,omitempty"`
	Status          string    `json:"status"`
	PaymentOrderID  string    `json:"paymentOrderId"`
	PaymentID       string    `json:"paymentId"`
	CanCancel       bool      `json:"canCancel"`

	CancelledAt *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Pagination параметры страницы
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings   []BookingResponse `json:"bookings"`
	Pagination Pagination        `json:"pagination"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO на момент now
func FromDomainBooking(b *domain.Booking, now time.Time) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:              b.ID,
		BookingRef:      b.BookingRef,
		UserID:          b.UserID,
		VehicleID:       b.VehicleID,
		VehicleTitle:    b.VehicleTitle,
		RentalMode:      b.Mode.String(),
		StartDate:       b.StartDate.Format(domain.DateFormat),
		EndDate:         b.EndDate.Format(domain.DateFormat),
		StartAt:         b.StartAt,
		EndAt:           b.EndAt,
		Duration:        b.Duration,
		TotalAmount:     b.TotalAmount,
		Currency:        b.Currency,
		PickupLocation:  b.PickupLocation,
		DropoffLocation: b.DropoffLocation,
		SpecialRequests: b.SpecialRequests,
		Status:          string(b.Status),
		PaymentOrderID:  b.PaymentOrderID,
		PaymentID:       b.PaymentID,
		CanCancel:       b.CanBeCancelled(now),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}

	if !b.StartTime.IsZero() {
		resp.StartTime = ptr.Ptr(b.StartTime.String())
	}
	if !b.EndTime.IsZero() {
		resp.EndTime = ptr.Ptr(b.EndTime.String())
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		resp.CancelledAt = ptr.Ptr(b.CancelledAt.Format(time.RFC3339))
	}

	return resp
}

// FromDomainBookingList конвертирует страницу domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking, now time.Time, page, limit, total int) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages(total, limit),
		},
	}

	for _, b := range bookings {
		if dto := FromDomainBooking(b, now); dto != nil {
			resp.Bookings = append(resp.Bookings, *dto)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

func totalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

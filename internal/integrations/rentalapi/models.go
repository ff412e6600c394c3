package rentalapi

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/checkout"
	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// Vehicle модель автомобиля из API
type Vehicle struct {
	ID            int64  `json:"id"`
	Make          string `json:"make"`
	Model         string `json:"model"`
	Year          int    `json:"year"`
	Location      string `json:"location"`
	PricePerDay   int64  `json:"pricePerDay"`
	PricePerHour  int64  `json:"pricePerHour"`
	IsAvailable   bool   `json:"isAvailable"`
	TotalBookings int    `json:"totalBookings"`
}

func (v Vehicle) toDomain() *domain.Vehicle {
	return &domain.Vehicle{
		ID:            v.ID,
		Make:          v.Make,
		Model:         v.Model,
		Year:          v.Year,
		Location:      v.Location,
		PricePerDay:   v.PricePerDay,
		PricePerHour:  v.PricePerHour,
		IsAvailable:   v.IsAvailable,
		TotalBookings: v.TotalBookings,
	}
}

// AvailabilityRequest запрос проверки доступности
type AvailabilityRequest struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// AvailabilityResponse ответ проверки доступности
type AvailabilityResponse struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

// BookingDetails черновик бронирования в формате API
type BookingDetails struct {
	VehicleID       int64            `json:"vehicleId"`
	StartDate       string           `json:"startDate"`
	EndDate         string           `json:"endDate"`
	StartTime       types.TimeString `json:"startTime"`
	EndTime         types.TimeString `json:"endTime"`
	RentalMode      string           `json:"rentalMode"`
	PickupLocation  string           `json:"pickupLocation"`
	DropoffLocation string           `json:"dropoffLocation"`
	SpecialRequests *string          `json:"specialRequests,omitempty"`
}

func detailsFromDraft(d domain.BookingDraft) BookingDetails {
	return BookingDetails{
		VehicleID:       d.VehicleID,
		StartDate:       d.StartDate.Format(domain.DateFormat),
		EndDate:         d.EndDate.Format(domain.DateFormat),
		StartTime:       d.StartTime,
		EndTime:         d.EndTime,
		RentalMode:      d.Mode.String(),
		PickupLocation:  d.PickupLocation,
		DropoffLocation: d.DropoffLocation,
		SpecialRequests: d.SpecialRequests,
	}
}

// PaymentOrderResponse созданный платёжный заказ
type PaymentOrderResponse struct {
	OrderID      string `json:"orderId"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	VehicleTitle string `json:"vehicleTitle"`
	KeyID        string `json:"keyId"`
}

func (r PaymentOrderResponse) toCheckout() *checkout.PaymentOrder {
	return &checkout.PaymentOrder{
		OrderID:      r.OrderID,
		Amount:       r.Amount,
		Currency:     r.Currency,
		VehicleTitle: r.VehicleTitle,
		KeyID:        r.KeyID,
	}
}

// VerifyPaymentRequest подтверждение оплаты
type VerifyPaymentRequest struct {
	OrderID        string         `json:"orderId"`
	PaymentID      string         `json:"paymentId"`
	Signature      string         `json:"signature"`
	BookingDetails BookingDetails `json:"bookingDetails"`
}

// VerifyPaymentResponse результат подтверждения оплаты
type VerifyPaymentResponse struct {
	Message string  `json:"message"`
	Booking Booking `json:"booking"`
}

// Booking бронирование в формате API
type Booking struct {
	ID              int64            `json:"id"`
	BookingRef      string           `json:"bookingRef"`
	UserID          int64            `json:"userId"`
	VehicleID       int64            `json:"vehicleId"`
	VehicleTitle    string           `json:"vehicleTitle"`
	StartDate       string           `json:"startDate"`
	EndDate         string           `json:"endDate"`
	StartTime       types.TimeString `json:"startTime"`
	EndTime         types.TimeString `json:"endTime"`
	RentalMode      string           `json:"rentalMode"`
	StartAt         time.Time        `json:"startAt"`
	EndAt           time.Time        `json:"endAt"`
	Duration        int              `json:"duration"`
	TotalAmount     int64            `json:"totalAmount"`
	Currency        string           `json:"currency"`
	PickupLocation  string           `json:"pickupLocation"`
	DropoffLocation string           `json:"dropoffLocation"`
	SpecialRequests *string          `json:"specialRequests,omitempty"`
	Status          string           `json:"status"`
	PaymentOrderID  string           `json:"paymentOrderId"`
	PaymentID       string           `json:"paymentId"`
	CanCancel       bool             `json:"canCancel"`
	CancelledAt     *time.Time       `json:"cancelledAt,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

func (b Booking) toDomain() *domain.Booking {
	startDate, _ := time.Parse(domain.DateFormat, b.StartDate)
	endDate, _ := time.Parse(domain.DateFormat, b.EndDate)

	return &domain.Booking{
		ID:              b.ID,
		BookingRef:      b.BookingRef,
		UserID:          b.UserID,
		VehicleID:       b.VehicleID,
		VehicleTitle:    b.VehicleTitle,
		StartDate:       startDate,
		EndDate:         endDate,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		Mode:            domain.RentalMode(b.RentalMode),
		StartAt:         b.StartAt,
		EndAt:           b.EndAt,
		Duration:        b.Duration,
		TotalAmount:     b.TotalAmount,
		Currency:        b.Currency,
		PickupLocation:  b.PickupLocation,
		DropoffLocation: b.DropoffLocation,
		SpecialRequests: b.SpecialRequests,
		Status:          domain.BookingStatus(b.Status),
		PaymentOrderID:  b.PaymentOrderID,
		PaymentID:       b.PaymentID,
		CancelledAt:     b.CancelledAt,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// BookingsPage страница списка "мои бронирования"
type BookingsPage struct {
	Bookings   []Booking  `json:"bookings"`
	Pagination Pagination `json:"pagination"`
}

// Pagination параметры страницы
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ListFilter параметры запроса списка бронирований
type ListFilter struct {
	Status string
	Page   int
	Limit  int
}

// ErrorResponse модель ошибки от API
type ErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func (e *ErrorResponse) text() string {
	if e == nil {
		return ""
	}
	return e.Message
}

package domain

import (
	"time"

	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// IsValid reports whether s is a known status
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Booking is a confirmed rental reservation
type Booking struct {
	ID         int64
	BookingRef string // BK-XXXXXXXX, shown to customers
	UserID     int64
	VehicleID  int64

	// Calendar selection as entered by the customer
	StartDate time.Time
	EndDate   time.Time
	StartTime types.TimeString // hourly only
	EndTime   types.TimeString // hourly only
	Mode      RentalMode

	// Canonical interval
	StartAt  time.Time
	EndAt    time.Time
	Duration int

	TotalAmount     int64 // minor units
	Currency        string
	PickupLocation  string
	DropoffLocation string
	SpecialRequests *string

	Status         BookingStatus
	PaymentOrderID string
	PaymentID      string

	// Denormalized data for history
	VehicleTitle string

	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive returns true if the booking still blocks the vehicle
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeCancelled returns true for confirmed bookings that have not started yet
func (b *Booking) CanBeCancelled(now time.Time) bool {
	return b.Status == StatusConfirmed && b.StartAt.After(now)
}

// IsFinished returns true once the rental period is over
func (b *Booking) IsFinished(now time.Time) bool {
	return !b.EndAt.After(now)
}

// CanMoveTo reports whether an administrator may set the next status.
// Cancelled and completed bookings are final; completion needs the rental period to be over.
func (b *Booking) CanMoveTo(next BookingStatus, now time.Time) bool {
	if !next.IsValid() || !b.IsActive() {
		return false
	}
	if next == StatusCompleted {
		return b.IsFinished(now)
	}
	return true
}

// BookingsFilter фильтр для списков бронирований
type BookingsFilter struct {
	UserID int64          // 0 - все пользователи (только для администратора)
	Status *BookingStatus // Фильтр по статусу (опционально)
	Page   int
	Limit  int
}

// Offset смещение для выбранной страницы
func (f BookingsFilter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

package domain

// Business validation constants
const (
	MaxLocationLength        = 255
	MaxSpecialRequestsLength = 500
	DefaultCurrency          = "INR"
)

// Pagination defaults for "my bookings"
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 50
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BookingRefPrefix префикс человекочитаемого номера бронирования
const BookingRefPrefix = "BK-"

// ActiveStatuses статусы бронирований, занимающих автомобиль
// Используется при проверке пересечений
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

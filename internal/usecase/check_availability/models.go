package check_availability

import "time"

// Сообщения для покупателя
const (
	MsgAvailable    = "Car is available for the selected dates."
	MsgBooked       = "Car is already booked for the selected dates."
	MsgOutOfService = "Car is currently not available for booking."
)

// Request проверка интервала [Start, End) для автомобиля
type Request struct {
	VehicleID int64
	Start     time.Time
	End       time.Time
}

// Response вердикт доступности
type Response struct {
	Available bool
	Message   string
}

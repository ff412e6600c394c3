package handlers

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// BookingDetails черновик бронирования в теле запроса
type BookingDetails struct {
	VehicleID       int64   `json:"vehicleId"`
	StartDate       string  `json:"startDate"`           // "2024-06-01"
	EndDate         string  `json:"endDate"`             // "2024-06-03"
	StartTime       string  `json:"startTime,omitempty"` // "10:00", только для почасовой аренды
	EndTime         string  `json:"endTime,omitempty"`
	RentalMode      string  `json:"rentalMode"`
	PickupLocation  string  `json:"pickupLocation"`
	DropoffLocation string  `json:"dropoffLocation"`
	SpecialRequests *string `json:"specialRequests,omitempty"`
}

// ToDraft разбирает даты и время в часовом поясе loc.
// Непустые поля в неверном формате возвращаются как ошибки по полям,
// пустые остаются нулевыми и проверяются usecase.
func (d *BookingDetails) ToDraft(loc *time.Location) (domain.BookingDraft, map[string]string) {
	fields := make(map[string]string)

	draft := domain.BookingDraft{
		VehicleID:       d.VehicleID,
		Mode:            domain.RentalMode(strings.ToLower(strings.TrimSpace(d.RentalMode))),
		PickupLocation:  d.PickupLocation,
		DropoffLocation: d.DropoffLocation,
		SpecialRequests: d.SpecialRequests,
	}

	draft.StartDate = parseDate(fields, "startDate", d.StartDate, loc)
	draft.EndDate = parseDate(fields, "endDate", d.EndDate, loc)
	draft.StartTime = parseClock(fields, "startTime", d.StartTime)
	draft.EndTime = parseClock(fields, "endTime", d.EndTime)

	if len(fields) == 0 {
		return draft, nil
	}
	return draft, fields
}

func parseDate(fields map[string]string, field, value string, loc *time.Location) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}

	t, err := time.ParseInLocation(domain.DateFormat, value, loc)
	if err != nil {
		fields[field] = "Date must be in YYYY-MM-DD format"
		return time.Time{}
	}
	return t
}

func parseClock(fields map[string]string, field, value string) types.TimeString {
	if strings.TrimSpace(value) == "" {
		return types.TimeString{}
	}

	ts, err := types.NewTimeStringFromString(value)
	if err != nil {
		fields[field] = "Time must be in HH:MM format"
		return types.TimeString{}
	}
	return ts
}

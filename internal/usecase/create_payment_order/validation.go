package create_payment_order

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/rental"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// Поля черновика в ответе 422
const (
	fieldVehicleID       = "vehicleId"
	fieldRentalMode      = "rentalMode"
	fieldStartDate       = "startDate"
	fieldEndDate         = "endDate"
	fieldStartTime       = "startTime"
	fieldEndTime         = "endTime"
	fieldDateRange       = "dateRange"
	fieldPickupLocation  = "pickupLocation"
	fieldDropoffLocation = "dropoffLocation"
	fieldSpecialRequests = "specialRequests"
	fieldAmount          = "amount"
)

// validateDraft проверяет черновик целиком и строит интервал аренды.
// Возвращает *ValidationError со всеми нарушенными полями.
func validateDraft(d *domain.BookingDraft, now time.Time, settings Settings) (*rental.Interval, error) {
	fields := make(map[string]string)

	if d.VehicleID <= 0 {
		fields[fieldVehicleID] = "Vehicle is required"
	}

	if !d.Mode.IsValid() {
		fields[fieldRentalMode] = "Rental mode must be hourly or daily"
	}

	today := domain.DateIn(now.In(settings.Location), settings.Location)
	if d.StartDate.IsZero() {
		fields[fieldStartDate] = "Start date is required"
	} else if d.StartDate.Before(today) {
		fields[fieldStartDate] = "Start date cannot be in the past"
	}

	if d.EndDate.IsZero() {
		fields[fieldEndDate] = "End date is required"
	}

	if d.Mode == domain.ModeHourly {
		checkClockTime(fields, fieldStartTime, "Start time", d.StartTime)
		checkClockTime(fields, fieldEndTime, "End time", d.EndTime)
	}

	checkLocation(fields, fieldPickupLocation, "Pickup location", d.PickupLocation)
	checkLocation(fields, fieldDropoffLocation, "Dropoff location", d.DropoffLocation)

	if d.SpecialRequests != nil && utf8.RuneCountInString(*d.SpecialRequests) > settings.SpecialRequestsLimit {
		fields[fieldSpecialRequests] = fmt.Sprintf("Special requests cannot exceed %d characters", settings.SpecialRequestsLimit)
	}

	// Интервал строим только из корректных дат и времени
	var iv *rental.Interval
	if !hasAny(fields, fieldRentalMode, fieldStartDate, fieldEndDate, fieldStartTime, fieldEndTime) {
		var err error
		iv, err = rental.BuildInterval(rental.Selection{
			StartDate: &d.StartDate,
			EndDate:   &d.EndDate,
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
			Mode:      d.Mode,
		})
		switch {
		case errors.Is(err, rental.ErrInvertedRange):
			fields[fieldDateRange] = "End date must be after start date"
		case err != nil:
			fields[fieldDateRange] = "Invalid rental period"
		case iv.Mode == domain.ModeHourly && !iv.Start.After(now):
			fields[fieldStartTime] = "Start time has already passed"
		case exceedsMaxRental(iv, settings.MaxRentalDays):
			fields[fieldDateRange] = fmt.Sprintf("Rental period cannot exceed %d days", settings.MaxRentalDays)
		}
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	return iv, nil
}

func checkClockTime(fields map[string]string, field, label string, t types.TimeString) {
	if t.IsZero() {
		fields[field] = label + " is required"
		return
	}
	if err := t.Validate(); err != nil || !t.OnHalfHourGrid() {
		fields[field] = label + " must be on the half-hour grid (HH:00 or HH:30)"
	}
}

func checkLocation(fields map[string]string, field, label, value string) {
	if value == "" {
		fields[field] = label + " is required"
		return
	}
	if utf8.RuneCountInString(value) > domain.MaxLocationLength {
		fields[field] = fmt.Sprintf("%s cannot exceed %d characters", label, domain.MaxLocationLength)
	}
}

// exceedsMaxRental почасовая аренда ограничена тем же числом суток
func exceedsMaxRental(iv *rental.Interval, maxDays int) bool {
	if maxDays <= 0 {
		return false
	}
	if iv.Mode == domain.ModeHourly {
		return iv.Duration > maxDays*24
	}
	return iv.Duration > maxDays
}

func hasAny(fields map[string]string, keys ...string) bool {
	for _, k := range keys {
		if _, ok := fields[k]; ok {
			return true
		}
	}
	return false
}

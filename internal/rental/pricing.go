package rental

import "github.com/m04kA/SMC-RentalService/internal/domain"

// Rates per-day and per-hour price of a vehicle in minor units
type Rates struct {
	PerDay  int64
	PerHour int64
}

// RatesOf extracts the rate pair from a vehicle
func RatesOf(v *domain.Vehicle) Rates {
	if v == nil {
		return Rates{}
	}
	return Rates{PerDay: v.PricePerDay, PerHour: v.PricePerHour}
}

// Quote returns Duration x rate for the interval's mode.
// A nil interval is "not quotable yet" and yields 0.
func Quote(iv *Interval, rates Rates) int64 {
	if iv == nil || iv.Duration <= 0 {
		return 0
	}

	switch iv.Mode {
	case domain.ModeDaily:
		return int64(iv.Duration) * rates.PerDay
	case domain.ModeHourly:
		return int64(iv.Duration) * rates.PerHour
	default:
		return 0
	}
}

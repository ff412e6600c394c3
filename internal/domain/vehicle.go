package domain

import (
	"fmt"
	"time"
)

// Vehicle is a rentable car from the catalog
type Vehicle struct {
	ID           int64
	Make         string
	Model        string
	Year         int
	Location     string
	PricePerDay  int64 // minor units
	PricePerHour int64 // minor units
	IsAvailable  bool  // false when withdrawn from service

	TotalBookings int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Title human-readable name used on payment orders
func (v *Vehicle) Title() string {
	if v.Year > 0 {
		return fmt.Sprintf("%s %s (%d)", v.Make, v.Model, v.Year)
	}
	return v.Make + " " + v.Model
}

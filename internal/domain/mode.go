package domain

// RentalMode determines which interval normalization and rate apply
type RentalMode string

const (
	ModeHourly RentalMode = "hourly"
	ModeDaily  RentalMode = "daily"
)

// IsValid reports whether m is a known rental mode
func (m RentalMode) IsValid() bool {
	return m == ModeHourly || m == ModeDaily
}

// String implements fmt.Stringer
func (m RentalMode) String() string {
	return string(m)
}

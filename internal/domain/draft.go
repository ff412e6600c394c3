package domain

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// BookingDraft is the not-yet-persisted booking payload.
// It seeds the payment order and, once the payment is verified, the booking.
type BookingDraft struct {
	VehicleID       int64
	StartDate       time.Time // calendar date, time part ignored
	EndDate         time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	Mode            RentalMode
	PickupLocation  string
	DropoffLocation string
	SpecialRequests *string
}

// Normalize moves the calendar dates to midnight in loc and trims the text fields.
// Daily drafts lose their clock times: the daily price does not depend on them.
func (d BookingDraft) Normalize(loc *time.Location) BookingDraft {
	if !d.StartDate.IsZero() {
		d.StartDate = DateIn(d.StartDate, loc)
	}
	if !d.EndDate.IsZero() {
		d.EndDate = DateIn(d.EndDate, loc)
	}
	if d.Mode == ModeDaily {
		d.StartTime = types.TimeString{}
		d.EndTime = types.TimeString{}
	}

	d.PickupLocation = strings.TrimSpace(d.PickupLocation)
	d.DropoffLocation = strings.TrimSpace(d.DropoffLocation)
	if d.SpecialRequests != nil {
		trimmed := strings.TrimSpace(*d.SpecialRequests)
		if trimmed == "" {
			d.SpecialRequests = nil
		} else {
			d.SpecialRequests = &trimmed
		}
	}

	return d
}

// SameAs compares the fields that affect price and availability.
// Used to make sure the paid order is the one being booked.
// Clock times only matter for hourly drafts.
func (d BookingDraft) SameAs(o BookingDraft) bool {
	same := d.VehicleID == o.VehicleID &&
		d.StartDate.Format(DateFormat) == o.StartDate.Format(DateFormat) &&
		d.EndDate.Format(DateFormat) == o.EndDate.Format(DateFormat) &&
		d.Mode == o.Mode
	if !same || d.Mode == ModeDaily {
		return same
	}
	return d.StartTime == o.StartTime && d.EndTime == o.EndTime
}

// DateIn midnight of the calendar date of t in loc
func DateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

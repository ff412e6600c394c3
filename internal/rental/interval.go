package rental

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

const (
	day  = 24 * time.Hour
	hour = time.Hour
)

// Selection raw user input for one booking attempt.
// Dates are interpreted in their own location; clock times are used only in hourly mode.
type Selection struct {
	StartDate *time.Time
	EndDate   *time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Mode      domain.RentalMode
}

// Interval canonical reservation window. End is always strictly after Start.
type Interval struct {
	Start    time.Time
	End      time.Time
	Mode     domain.RentalMode
	Duration int // whole days or hours, always >= 1
}

// BuildInterval turns a selection into a canonical interval.
// Pure: the same selection always yields the same interval or error.
func BuildInterval(sel Selection) (*Interval, error) {
	if sel.StartDate == nil || sel.EndDate == nil {
		return nil, ErrIncompleteSelection
	}

	var iv *Interval
	switch sel.Mode {
	case domain.ModeDaily:
		iv = buildDaily(*sel.StartDate, *sel.EndDate)
	case domain.ModeHourly:
		var err error
		iv, err = buildHourly(*sel.StartDate, *sel.EndDate, sel.StartTime, sel.EndTime)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, sel.Mode)
	}

	if !iv.End.After(iv.Start) {
		return nil, ErrInvertedRange
	}

	return iv, nil
}

// buildDaily растягивает интервал на целые календарные дни.
// Количество дней считается по выбранным датам, а не по нормализованным границам:
// 1 июня -> 3 июня это 2 дня, один и тот же день это 1 день.
// Разница берётся по показаниям часов, поэтому перевод часов не добавляет день.
func buildDaily(startDate, endDate time.Time) *Interval {
	days := ceilUnits(absDuration(wallClock(endDate).Sub(wallClock(startDate))), day)
	if days < 1 {
		days = 1
	}

	return &Interval{
		Start:    startOfDay(startDate),
		End:      endOfDay(endDate),
		Mode:     domain.ModeDaily,
		Duration: days,
	}
}

func buildHourly(startDate, endDate time.Time, startTime, endTime types.TimeString) (*Interval, error) {
	if startTime.IsZero() || endTime.IsZero() {
		return nil, ErrIncompleteSelection
	}
	if !startTime.OnHalfHourGrid() || !endTime.OnHalfHourGrid() {
		return nil, ErrInvalidClockTime
	}

	start := startTime.On(startDate)
	end := endTime.On(endDate)

	iv := &Interval{
		Start: start,
		End:   end,
		Mode:  domain.ModeHourly,
	}
	if end.After(start) {
		iv.Duration = ceilUnits(end.Sub(start), hour)
	}

	return iv, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// wallClock те же дата и время на часах, но в UTC
func wallClock(t time.Time) time.Time {
	y, m, d := t.Date()
	h, mi, sec := t.Clock()
	return time.Date(y, m, d, h, mi, sec, t.Nanosecond(), time.UTC)
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// ceilUnits количество unit в d с округлением вверх (d >= 0)
func ceilUnits(d, unit time.Duration) int {
	n := d / unit
	if d%unit != 0 {
		n++
	}
	return int(n)
}

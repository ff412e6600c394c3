package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	minutesPerDay  = 24 * 60
	halfHourStep   = 30
	timeLayout     = "15:04"
	timeLayoutSecs = "15:04:05"
)

var (
	// ErrInvalidFormat возвращается, если строка не соответствует формату HH:MM
	ErrInvalidFormat = errors.New("invalid time string format")

	// ErrOutOfRange возвращается, если результат арифметики выходит за пределы суток
	ErrOutOfRange = errors.New("time string out of range")
)

// TimeString время суток с точностью до минуты ("HH:MM").
// Нулевое значение означает "время не указано".
type TimeString struct {
	minutes int
	set     bool
}

// NewTimeString берёт часы и минуты из t
func NewTimeString(t time.Time) TimeString {
	return TimeString{minutes: t.Hour()*60 + t.Minute(), set: true}
}

// NewTimeStringFromString парсит "HH:MM" (допускается также "HH:MM:SS" из БД)
func NewTimeStringFromString(s string) (TimeString, error) {
	s = strings.TrimSpace(s)
	layout := timeLayout
	if len(s) == len(timeLayoutSecs) {
		layout = timeLayoutSecs
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	return NewTimeString(t), nil
}

// MustTimeString для констант и тестов
func MustTimeString(s string) TimeString {
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// HalfHourGrid возвращает все 48 отметок "00:00" … "23:30"
func HalfHourGrid() []TimeString {
	grid := make([]TimeString, 0, minutesPerDay/halfHourStep)
	for m := 0; m < minutesPerDay; m += halfHourStep {
		grid = append(grid, TimeString{minutes: m, set: true})
	}
	return grid
}

// IsZero true, если время не задано
func (t TimeString) IsZero() bool {
	return !t.set
}

// Validate проверяет, что время задано и лежит в пределах суток
func (t TimeString) Validate() error {
	if !t.set {
		return ErrInvalidFormat
	}
	if t.minutes < 0 || t.minutes >= minutesPerDay {
		return ErrOutOfRange
	}
	return nil
}

// OnHalfHourGrid true для значений, кратных 30 минутам
func (t TimeString) OnHalfHourGrid() bool {
	return t.Validate() == nil && t.minutes%halfHourStep == 0
}

// Hour часы
func (t TimeString) Hour() int {
	return t.minutes / 60
}

// Minute минуты
func (t TimeString) Minute() int {
	return t.minutes % 60
}

// Minutes минуты от начала суток
func (t TimeString) Minutes() int {
	return t.minutes
}

// On возвращает момент времени в дату date (часовой пояс берётся из date)
func (t TimeString) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, date.Location())
}

// String форматирует как "HH:MM"; пустая строка для нулевого значения
func (t TimeString) String() string {
	if !t.set {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// MarshalJSON сериализует как "HH:MM" или null
func (t TimeString) MarshalJSON() ([]byte, error) {
	if !t.set {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON принимает "HH:MM", "" и null
func (t *TimeString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = TimeString{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if s == "" {
		*t = TimeString{}
		return nil
	}

	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value реализует driver.Valuer (колонка TIME)
func (t TimeString) Value() (driver.Value, error) {
	if !t.set {
		return nil, nil
	}
	return t.String(), nil
}

// Scan реализует sql.Scanner
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = TimeString{}
		return nil
	case []byte:
		parsed, err := NewTimeStringFromString(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case string:
		parsed, err := NewTimeStringFromString(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidFormat, src)
	}
}

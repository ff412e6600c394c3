package rental

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/ptr"
)

var rates = Rates{PerDay: 1000, PerHour: 150}

func TestQuote(t *testing.T) {
	tests := []struct {
		name string
		sel  Selection
		want int64
	}{
		{
			name: "daily two days",
			sel:  Selection{StartDate: date(2024, time.June, 1), EndDate: date(2024, time.June, 3), Mode: domain.ModeDaily},
			want: 2000,
		},
		{
			name: "daily 25 hours",
			sel: Selection{
				StartDate: ptr.Ptr(time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)),
				EndDate:   ptr.Ptr(time.Date(2024, time.June, 2, 11, 0, 0, 0, time.UTC)),
				Mode:      domain.ModeDaily,
			},
			want: 2000,
		},
		{
			name: "hourly half hour",
			sel: Selection{
				StartDate: date(2024, time.June, 1),
				EndDate:   date(2024, time.June, 1),
				StartTime: clock("09:00"),
				EndTime:   clock("09:30"),
				Mode:      domain.ModeHourly,
			},
			want: 150,
		},
		{
			name: "hourly ninety minutes",
			sel: Selection{
				StartDate: date(2024, time.June, 1),
				EndDate:   date(2024, time.June, 1),
				StartTime: clock("09:00"),
				EndTime:   clock("10:30"),
				Mode:      domain.ModeHourly,
			},
			want: 300,
		},
		{
			name: "inverted range is not quotable",
			sel:  Selection{StartDate: date(2024, time.June, 3), EndDate: date(2024, time.June, 1), Mode: domain.ModeDaily},
			want: 0,
		},
		{
			name: "incomplete selection is not quotable",
			sel:  Selection{StartDate: date(2024, time.June, 3), Mode: domain.ModeDaily},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv, err := BuildInterval(tt.sel)
			if err != nil {
				iv = nil
			}
			assert.Equal(t, tt.want, Quote(iv, rates))
		})
	}
}

func TestQuote_NilInterval(t *testing.T) {
	assert.Zero(t, Quote(nil, rates))
}

func TestQuote_Idempotent(t *testing.T) {
	iv, err := BuildInterval(Selection{StartDate: date(2024, time.June, 1), EndDate: date(2024, time.June, 5), Mode: domain.ModeDaily})
	require.NoError(t, err)

	first := Quote(iv, rates)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Quote(iv, rates))
	}
}

func TestQuote_ZeroRate(t *testing.T) {
	iv, err := BuildInterval(Selection{StartDate: date(2024, time.June, 1), EndDate: date(2024, time.June, 2), Mode: domain.ModeDaily})
	require.NoError(t, err)

	assert.Zero(t, Quote(iv, Rates{PerHour: 100}))
}

func TestRatesOf(t *testing.T) {
	v := &domain.Vehicle{PricePerDay: 250000, PricePerHour: 15000}
	assert.Equal(t, Rates{PerDay: 250000, PerHour: 15000}, RatesOf(v))
	assert.Equal(t, Rates{}, RatesOf(nil))
}

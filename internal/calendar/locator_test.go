package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateFixedCoptic(t *testing.T) {
	tests := []struct {
		name       string
		day, month int
		pivot      int
		want       string
	}{
		{"nativity 2024", 29, 4, 2024, "2024-01-07"},
		{"nativity 2026", 29, 4, 2026, "2026-01-08"},
		{"theophany 2025", 11, 5, 2025, "2025-01-19"},
		{"annunciation 2025", 29, 7, 2025, "2025-04-07"},
		// The window opens in late April of the previous year, so the
		// earlier of two occurrences wins.
		{"start of nativity fast", 16, 3, 2025, "2024-11-25"},
		{"virgin fast start", 1, 12, 2025, "2024-08-06"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LocateFixedCoptic(tt.day, tt.month, tt.pivot)
			require.NoError(t, err)
			assert.Equal(t, tt.want, FormatDate(got))
		})
	}
}

func TestLocateFixedCoptic_RoundTrip(t *testing.T) {
	// Until late April every date is the first occurrence of its Coptic
	// day/month in the window around its own year.
	for year := 1990; year <= 2040; year++ {
		end := NewDate(year, time.April, 25)
		for d := NewDate(year, time.January, 1); !d.After(end); d = AddDays(d, 1) {
			c := ToCoptic(d)
			got, err := LocateFixedCoptic(c.Day, c.Month, year)
			require.NoError(t, err)
			require.Equal(t, FormatDate(d), FormatDate(got))
		}
	}
}

func TestLocateFixedCoptic_MatchesRequestedDay(t *testing.T) {
	for year := 2020; year <= 2027; year++ {
		for month := 1; month <= 12; month++ {
			for day := 1; day <= 30; day++ {
				got, err := LocateFixedCoptic(day, month, year)
				require.NoError(t, err)

				c := ToCoptic(got)
				require.Equal(t, day, c.Day)
				require.Equal(t, month, c.Month)
			}
		}
	}
}

func TestLocateFixedCoptic_NotFound(t *testing.T) {
	// No sixth day of Nasi falls within 400 days of 1 June 2023.
	_, err := LocateFixedCoptic(6, Nasi, 2023)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsNotFound(err))

	_, err = LocateFixedCoptic(31, 1, 2025)
	assert.True(t, IsNotFound(err))

	got, err := LocateFixedCoptic(6, Nasi, 2025)
	require.NoError(t, err)
	assert.Equal(t, "2024-09-10", FormatDate(got))
}

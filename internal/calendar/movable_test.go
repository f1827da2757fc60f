package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/coptic-calendar-api/internal/dataset"
)

func TestMovableFeasts(t *testing.T) {
	ds := loadMaster(t)

	feasts := MovableFeasts(ds, 2025)
	require.Len(t, feasts, len(ds.MovableFeasts))

	byCode := make(map[string]ResolvedFeast)
	for _, f := range feasts {
		assert.Equal(t, "PASCHA", f.AnchorCode)
		byCode[f.Code] = f
	}

	assert.Equal(t, "2025-04-13", FormatDate(byCode["PALM_SUNDAY"].Date))
	assert.Equal(t, "2025-04-18", FormatDate(byCode["GOOD_FRIDAY"].Date))
	assert.Equal(t, "2025-04-20", FormatDate(byCode["PASCHA"].Date))
	assert.Equal(t, "2025-05-29", FormatDate(byCode["ASCENSION"].Date))
	assert.Equal(t, "2025-06-08", FormatDate(byCode["PENTECOST"].Date))
	assert.Equal(t, 49, byCode["PENTECOST"].Offset)
}

func TestParamonDays(t *testing.T) {
	ds := loadMaster(t)

	tests := []struct {
		name string
		year int
		want map[string][]string
	}{
		{
			// Nativity on Tuesday and Theophany on Sunday.
			name: "2025",
			year: 2025,
			want: map[string][]string{
				"NATIVITY_PARAMON":  {"2025-01-06"},
				"THEOPHANY_PARAMON": {"2025-01-17", "2025-01-18"},
			},
		},
		{
			// Nativity on Sunday; Theophany on Friday has no mapping.
			name: "2024",
			year: 2024,
			want: map[string][]string{
				"NATIVITY_PARAMON":  {"2024-01-05", "2024-01-06"},
				"THEOPHANY_PARAMON": {"2024-01-18"},
			},
		},
		{
			// Nativity on Thursday and Theophany on Tuesday.
			name: "2026",
			year: 2026,
			want: map[string][]string{
				"NATIVITY_PARAMON":  {"2026-01-07"},
				"THEOPHANY_PARAMON": {"2026-01-19"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := ParamonDays(ds, tt.year)
			require.NoError(t, err)

			got := make(map[string][]string)
			for _, d := range days {
				assert.Equal(t, RankParamon, d.Rank)
				got[d.Code] = append(got[d.Code], FormatDate(d.Date))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParamonDays_Titles(t *testing.T) {
	ds := loadMaster(t)

	days, err := ParamonDays(ds, 2025)
	require.NoError(t, err)
	require.NotEmpty(t, days)

	nativity := days[0]
	assert.Equal(t, "NATIVITY", nativity.AnchorCode)
	assert.Equal(t, "Paramon de la Nativité", nativity.Title.In("fr"))
	assert.Equal(t, "Paramon of the Nativity", nativity.Title.In("en"))
	assert.NotEmpty(t, nativity.Title.In("ar"))

	// English has no summary of its own.
	assert.Equal(t, nativity.Summary.In("ar"), nativity.Summary.In("en"))
}

func TestParamonDays_UnlocatableFeast(t *testing.T) {
	ds := dataset.New(dataset.Master{
		ParamonRules: []dataset.ParamonRule{
			{Code: "NASI_PARAMON", FeastCode: "NASI_FEAST", FeastDay: 6, FeastMonth: Nasi},
			{Code: "NATIVITY_PARAMON", FeastCode: "NATIVITY", FeastDay: 29, FeastMonth: 4},
		},
	})

	days, err := ParamonDays(ds, 2023)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "NASI_PARAMON")

	// The locatable rule still resolves, with the default offset.
	require.Len(t, days, 1)
	assert.Equal(t, "NATIVITY_PARAMON", days[0].Code)
	assert.Equal(t, -1, days[0].Offset)
}

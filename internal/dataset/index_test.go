package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedFeastsOn(t *testing.T) {
	m, err := Load("testdata/minimal.yaml")
	require.NoError(t, err)

	codes := func(day, month int) []string {
		var out []string
		for _, f := range m.FixedFeastsOn(day, month) {
			out = append(out, f.Code)
		}
		return out
	}

	assert.Equal(t, []string{"NATIVITY"}, codes(29, 4))
	// The archangel's feast is monthly without the flag.
	assert.Equal(t, []string{MonthlyMichaelCode}, codes(12, 3))
	assert.Equal(t, []string{MonthlyMichaelCode}, codes(12, 9))
	// Flagged feasts match their day in every month.
	assert.Equal(t, []string{"KIAHK_SUNDAYS"}, codes(7, 11))
	assert.Empty(t, codes(13, 4))
}

func TestFixedFeast_IsMonthly(t *testing.T) {
	assert.True(t, FixedFeast{Code: MonthlyMichaelCode}.IsMonthly())
	assert.True(t, FixedFeast{Code: "X", Monthly: true}.IsMonthly())
	assert.False(t, FixedFeast{Code: "NATIVITY"}.IsMonthly())
}

func TestSaintsOn(t *testing.T) {
	m, err := Load("testdata/minimal.yaml")
	require.NoError(t, err)

	saints := m.SaintsOn(1, 1)
	require.Len(t, saints, 1)
	assert.Equal(t, "S1", saints[0].ID)

	// S2 is listed on a day other than its own, S3 is never listed.
	assert.Empty(t, m.SaintsOn(2, 1))
	assert.Empty(t, m.SaintsOn(5, 1))
	assert.Empty(t, m.SaintsOn(3, 1))
}

func TestFeastTitle(t *testing.T) {
	m, err := Load("testdata/minimal.yaml")
	require.NoError(t, err)

	title, ok := m.FeastTitle("PASCHA")
	require.True(t, ok)
	assert.Equal(t, "عيد القيامة المجيد", title.In("fr"))

	_, ok = m.FeastTitle("UNKNOWN_FEAST")
	assert.False(t, ok)
}

func TestLazyIndex(t *testing.T) {
	m := &Master{ParamonRules: []ParamonRule{{Code: "P"}}}
	assert.True(t, m.IsParamonCode("P"))
}

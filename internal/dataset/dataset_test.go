package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_JSON(t *testing.T) {
	m, err := Load("../../data/master_data.json")
	require.NoError(t, err)

	assert.NotEmpty(t, m.Version)
	assert.NotEmpty(t, m.FixedFeasts)
	assert.NotEmpty(t, m.MovableFeasts)
	assert.Len(t, m.ParamonRules, 2)
	assert.True(t, m.IsParamonCode("NATIVITY_PARAMON"))
	assert.False(t, m.IsParamonCode("NATIVITY"))
}

func TestLoad_YAML(t *testing.T) {
	m, err := Load("testdata/minimal.yaml")
	require.NoError(t, err)

	assert.Equal(t, "0.1.0", m.Version)
	require.Len(t, m.FixedFeasts, 3)
	assert.Equal(t, "Nativity of the Lord", m.FixedFeasts[0].Title.In("en"))
	assert.Equal(t, []int{-2, -1}, m.ParamonRules[0].Mapping["SUN"])

	p, ok := m.FastingPeriod("NATIVITY_FAST")
	require.True(t, ok)
	assert.Equal(t, BoundaryFixedCoptic, p.Start.Type)
	assert.Equal(t, 16, p.Start.Day)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))
	_, err = Load(bad)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("feasts_fixed:\n  - code: X\n    coptic_day: 31\n    coptic_month: 1\n    title: {ar: x}\n"), 0o600))
	_, err = Load(invalid)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	valid := func() Master {
		return Master{
			FixedFeasts: []FixedFeast{
				{Code: "NATIVITY", CopticDay: 29, CopticMonth: 4, Title: Text{"ar": "x"}},
			},
			MovableFeasts: []MovableFeast{
				{Code: "PASCHA", Title: Text{"ar": "x"}},
			},
			Saints: []Saint{
				{ID: "S1", Name: Text{"ar": "x"}, CopticDay: 1, CopticMonth: 1},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(m *Master)
		wantErr string
	}{
		{"valid", func(*Master) {}, ""},
		{"duplicate feast across sets", func(m *Master) {
			m.MovableFeasts = append(m.MovableFeasts, MovableFeast{Code: "NATIVITY", Title: Text{"ar": "x"}})
		}, `duplicate feast code "NATIVITY"`},
		{"duplicate saint", func(m *Master) {
			m.Saints = append(m.Saints, m.Saints[0])
		}, `duplicate saint id "S1"`},
		{"month out of range", func(m *Master) {
			m.FixedFeasts[0].CopticMonth = 14
		}, "CopticMonth"},
		{"missing title", func(m *Master) {
			m.FixedFeasts[0].Title = nil
		}, "Title"},
		{"bad weekday key", func(m *Master) {
			m.ParamonRules = []ParamonRule{{Code: "P", FeastCode: "NATIVITY", FeastDay: 29, FeastMonth: 4, Mapping: map[string][]int{"MONDAY": {-1}}}}
		}, "Mapping"},
		{"empty offsets", func(m *Master) {
			m.ParamonRules = []ParamonRule{{Code: "P", FeastCode: "NATIVITY", FeastDay: 29, FeastMonth: 4, Mapping: map[string][]int{"MON": {}}}}
		}, "Mapping"},
		{"fixed boundary without day", func(m *Master) {
			m.FastingPeriods = []FastingPeriod{{
				Code:  "F",
				Start: Boundary{Type: BoundaryFixedCoptic, Month: 3},
				End:   Boundary{Type: BoundaryRelativeToPascha, Offset: 1},
			}}
		}, "required_for_fixed"},
		{"nasi boundary past day six", func(m *Master) {
			m.FastingPeriods = []FastingPeriod{{
				Code:  "F",
				Start: Boundary{Type: BoundaryFixedCoptic, Day: 7, Month: 13},
				End:   Boundary{Type: BoundaryFixedCoptic, Day: 1, Month: 1},
			}}
		}, "nasi_day"},
		{"unknown boundary type", func(m *Master) {
			m.FastingPeriods = []FastingPeriod{{
				Code:  "F",
				Start: Boundary{Type: "lunar"},
				End:   Boundary{Type: BoundaryRelativeToPascha},
			}}
		}, "Type"},
		{"bad intensity", func(m *Master) {
			m.FastingPeriods = []FastingPeriod{{
				Code:      "F",
				Start:     Boundary{Type: BoundaryRelativeToPascha},
				End:       Boundary{Type: BoundaryRelativeToPascha},
				Intensity: "extreme",
			}}
		}, "Intensity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid()
			tt.mutate(&m)

			err := Validate(&m)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestText_In(t *testing.T) {
	text := Text{"ar": "عربي", "fr": "français"}

	assert.Equal(t, "français", text.In("fr"))
	assert.Equal(t, "عربي", text.In("en"))
	assert.Equal(t, "", Text{"fr": "seul"}.In("en"))
}

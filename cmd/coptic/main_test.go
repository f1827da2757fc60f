package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/coptic-calendar-api/internal/calendar"
	"github.com/zapponejosh/coptic-calendar-api/internal/database"
)

const shippedData = "../../data/master_data.json"

// execute runs the CLI with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--log-level", "error"))

	err := root.Execute()
	return out.String(), err
}

func TestDayCommand(t *testing.T) {
	out, err := execute(t, "day", "--data", shippedData, "--date", "2025-01-07", "--lang", "fr")
	require.NoError(t, err)

	var rec calendar.DayRecord
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "2025-01-07", rec.GregorianDate)
	assert.Equal(t, []string{"NATIVITY"}, rec.FeastCodes())
	assert.Equal(t, "Koiak", rec.Coptic.MonthName)
}

func TestDayCommand_Range(t *testing.T) {
	out, err := execute(t, "day", "--data", shippedData, "--date", "2025-04-18", "--days", "3")
	require.NoError(t, err)

	var recs []calendar.DayRecord
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 3)
	assert.Contains(t, recs[2].FeastCodes(), "PASCHA")
}

func TestDayCommand_WrapPeriods(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		source string
	}{
		{"default", nil, calendar.SourceWedFri},
		{"wrapped", []string{"--wrap-periods"}, "NATIVITY_FAST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"day", "--data", shippedData, "--date", "2025-12-10"}, tt.args...)
			out, err := execute(t, args...)
			require.NoError(t, err)

			var rec calendar.DayRecord
			require.NoError(t, json.Unmarshal([]byte(out), &rec))
			assert.Equal(t, tt.source, rec.Fasting.SourceRule)
		})
	}
}

func TestDayCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unsupported language", []string{"day", "--data", shippedData, "--lang", "de"}},
		{"malformed date", []string{"day", "--data", shippedData, "--date", "2025/01/07"}},
		{"missing data file", []string{"day", "--data", "nope.json", "--date", "2025-01-07"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestAuditCommand(t *testing.T) {
	out, err := execute(t, "audit", "--data", shippedData, "--from", "2020", "--to", "2030")
	require.NoError(t, err)
	assert.Contains(t, out, "0 critical, 2 warnings")
	assert.Contains(t, out, "WARNING")
}

func TestAuditCommand_Critical(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"version": "broken",
		"saints": [
			{"id": "S1", "name": {"ar": "أ"}, "coptic_day": 1, "coptic_month": 1},
			{"id": "S1", "name": {"ar": "ب"}, "coptic_day": 2, "coptic_month": 1}
		],
		"daily_commemorations": [
			{"coptic_day": 1, "coptic_month": 1, "saints": ["S1", "S2"]}
		],
		"fasting_periods": [
			{
				"code": "NASI_FAST",
				"start": {"type": "fixed_coptic", "day": 6, "month": 13},
				"end": {"type": "fixed_coptic", "day": 1, "month": 1}
			}
		]
	}`), 0o644))

	out, err := execute(t, "audit", "--data", path, "--from", "2023", "--to", "2024")
	require.ErrorIs(t, err, errCritical)
	assert.Contains(t, out, "CRITICAL duplicate saint ids: [S1]")
	assert.Contains(t, out, "CRITICAL commemorations reference unknown saints: [S2]")
	// Nasi 6 cannot be placed around 2023 but can around 2024.
	assert.Contains(t, out, "CRITICAL 2023: fasting period NASI_FAST start")
	assert.NotContains(t, out, "CRITICAL 2024:")
}

func TestAuditCommand_BadYears(t *testing.T) {
	_, err := execute(t, "audit", "--data", shippedData, "--from", "2030", "--to", "2020")
	assert.Error(t, err)
}

func TestImportCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "coptic.db")

	out, err := execute(t, "import", "--data", shippedData, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "imported")

	// Upserts make a second run harmless.
	_, err = execute(t, "import", "--data", shippedData, "--db", dbPath)
	require.NoError(t, err)

	db, err := database.Open(database.DefaultConfig(dbPath), nil)
	require.NoError(t, err)
	defer db.Close()

	imports, err := db.GetRecentImports(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, imports, 2)
}

func TestCacheCommand(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "cache")
	dbPath := filepath.Join(dir, "coptic.db")

	out, err := execute(t, "cache", "--data", shippedData,
		"--year", "2024", "--lang", "ar,fr", "--out", outDir, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "year_2024_ar.json (366 days)")

	data, err := os.ReadFile(filepath.Join(outDir, "year_2024_fr.json"))
	require.NoError(t, err)

	var c yearCache
	require.NoError(t, json.Unmarshal(data, &c))
	assert.Equal(t, 2024, c.Year)
	assert.Equal(t, "fr", c.Lang)
	require.Len(t, c.Days, 366)
	assert.Equal(t, "2024-01-01", c.Days[0].GregorianDate)

	db, err := database.Open(database.DefaultConfig(dbPath), nil)
	require.NoError(t, err)
	defer db.Close()

	snaps, err := db.ListSnapshots(context.Background())
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, "ar", snaps[0].Lang)
	assert.Equal(t, 366, snaps[0].DayCount)
}

func TestCacheCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing year", []string{"cache", "--data", shippedData}},
		{"year out of range", []string{"cache", "--data", shippedData, "--year", "1200", "--out", t.TempDir()}},
		{"unsupported language", []string{"cache", "--data", shippedData, "--year", "2025", "--lang", "xx"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

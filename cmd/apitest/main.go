// Command apitest runs a smoke suite against a running calendar API and
// sweeps one civil year, tallying liturgical periods and fasting sources.
//
// Usage:
//
//	go run ./cmd/apitest -url http://localhost:8080 -year 2025 -v
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/zapponejosh/coptic-calendar-api/internal/calendar"
)

// =============================================================================
// Response Types
// =============================================================================

type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type HealthResponse struct {
	Status         string `json:"status"`
	DatasetVersion string `json:"dataset_version"`
}

type RangeResponse struct {
	Start string               `json:"start"`
	End   string               `json:"end"`
	Days  []calendar.DayRecord `json:"days"`
}

type YearResponse struct {
	Year   int                  `json:"year"`
	Source string               `json:"source"`
	Days   []calendar.DayRecord `json:"days"`
}

type CopticResponse struct {
	GregorianDate string              `json:"gregorian_date"`
	Coptic        calendar.CopticView `json:"coptic_date"`
}

type PaschaResponse struct {
	Pascha      string `json:"pascha"`
	ParamonDays []struct {
		Code string `json:"code"`
		Date string `json:"date"`
	} `json:"paramon_days"`
}

type SearchResponse struct {
	Total   int `json:"total"`
	Results []struct {
		ResourceType string `json:"resource_type"`
		ID           string `json:"id"`
		Code         string `json:"code"`
	} `json:"results"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	client       *http.Client
	out          io.Writer
	verbose      bool
	year         int
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL string, year int, verbose bool, out io.Writer) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		out:     out,
		verbose: verbose,
		year:    year,
	}
}

func (tr *TestRunner) Run() {
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintln(tr.out, "Coptic Calendar API Smoke Suite")
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintf(tr.out, "Base URL: %s\n", tr.baseURL)

	tr.testHealth()
	tr.testToday()
	tr.testSpecificDates()
	tr.testDateRange()
	tr.testCoptic()
	tr.testPascha()
	tr.testSearch()
	tr.testEdgeCases()
	tr.testYearSweep()

	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	var health HealthResponse
	if err := tr.getData("/health", &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess(fmt.Sprintf("Health check passed (dataset %s)", health.DatasetVersion))
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testToday() {
	tr.printSection("Today")

	var day calendar.DayRecord
	if err := tr.getData("/api/v1/day/today", &day); err != nil {
		tr.recordError("Today", err.Error())
		return
	}

	tr.recordSuccess(fmt.Sprintf("Today (%s): %d/%d/%d, %s",
		day.GregorianDate, day.Coptic.Day, day.Coptic.Month, day.Coptic.Year, day.Period.Code))
	tr.printDayDetail(day)
}

func (tr *TestRunner) testSpecificDates() {
	tr.printSection("Specific Date Tests")

	testCases := []struct {
		date        string
		feast       string
		source      string
		description string
	}{
		{"2025-01-06", "NATIVITY_PARAMON", calendar.SourceParamon, "Paramon of the Nativity"},
		{"2025-01-07", "NATIVITY", calendar.SourceMajorFeast, "Nativity"},
		{"2025-01-19", "THEOPHANY", calendar.SourceMajorFeast, "Theophany"},
		{"2025-02-10", "", "JONAH_FAST", "Fast of Nineveh"},
		{"2025-04-07", "ANNUNCIATION", calendar.SourceMajorFeast, "Annunciation in Great Lent"},
		{"2025-04-13", "PALM_SUNDAY", "HOLY_WEEK", "Palm Sunday"},
		{"2025-04-20", "PASCHA", calendar.SourceMajorFeast, "Pascha"},
		{"2025-06-04", "", calendar.SourceFiftyDays, "Wednesday in the Holy Fifty Days"},
		{"2025-06-08", "PENTECOST", calendar.SourceMajorFeast, "Pentecost"},
		{"2025-08-19", "TRANSFIGURATION", calendar.SourceMajorFeast, "Transfiguration"},
		{"2025-01-01", "", "NATIVITY_FAST", "Nativity Fast"},
		{"2025-12-10", "", calendar.SourceWedFri, "Wednesday in December"},
	}

	for _, tc := range testCases {
		var day calendar.DayRecord
		if err := tr.getData("/api/v1/day?date="+tc.date, &day); err != nil {
			tr.recordError(tc.date, err.Error())
			continue
		}

		if tc.feast != "" && !slices.Contains(day.FeastCodes(), tc.feast) {
			tr.recordError(tc.date, fmt.Sprintf("Expected feast %s, got %v", tc.feast, day.FeastCodes()))
			continue
		}
		if day.Fasting.SourceRule != tc.source {
			tr.recordError(tc.date, fmt.Sprintf("Expected fasting source %s, got %s", tc.source, day.Fasting.SourceRule))
			continue
		}

		tr.recordSuccess(fmt.Sprintf("%s: %s / %s (%s)", tc.date, day.Period.Code, day.Fasting.SourceRule, tc.description))
		if tr.verbose {
			tr.printDayDetail(day)
		}
	}
}

func (tr *TestRunner) testDateRange() {
	tr.printSection("Date Range Tests")

	var week RangeResponse
	if err := tr.getData("/api/v1/week?start=2024-12-29", &week); err != nil {
		tr.recordError("Week", err.Error())
	} else if len(week.Days) == calendar.WeekLength && week.End == "2025-01-04" {
		tr.recordSuccess("Week across the year boundary returned 7 days")
	} else {
		tr.recordError("Week", fmt.Sprintf("Expected 7 days ending 2025-01-04, got %d ending %s", len(week.Days), week.End))
	}

	var rng RangeResponse
	if err := tr.getData("/api/v1/range?start=2025-04-13&end=2025-04-20", &rng); err != nil {
		tr.recordError("Range", err.Error())
	} else if len(rng.Days) == 8 {
		tr.recordSuccess("Holy Week range returned 8 days")
	} else {
		tr.recordError("Range", fmt.Sprintf("Expected 8 days, got %d", len(rng.Days)))
	}

	tr.expectStatus("Range limit enforced", "/api/v1/range?start=2025-01-01&end=2025-12-31", http.StatusBadRequest)
	tr.expectStatus("Reversed range rejected", "/api/v1/range?start=2025-12-31&end=2025-01-01", http.StatusBadRequest)
}

func (tr *TestRunner) testCoptic() {
	tr.printSection("Coptic Conversion")

	testCases := []struct {
		path      string
		gregorian string
		day       int
		month     int
		year      int
	}{
		{"/api/v1/coptic?date=2024-09-11", "2024-09-11", 1, 1, 1740},
		{"/api/v1/coptic?date=2025-01-07", "2025-01-07", 29, 4, 1740},
		{"/api/v1/coptic?day=6&month=13&year=2025", "2024-09-10", 6, 13, 1739},
	}

	for _, tc := range testCases {
		var got CopticResponse
		if err := tr.getData(tc.path, &got); err != nil {
			tr.recordError(tc.path, err.Error())
			continue
		}

		c := got.Coptic
		if got.GregorianDate != tc.gregorian || c.Day != tc.day || c.Month != tc.month || c.Year != tc.year {
			tr.recordError(tc.path, fmt.Sprintf("Expected %s = %d/%d/%d, got %s = %d/%d/%d",
				tc.gregorian, tc.day, tc.month, tc.year, got.GregorianDate, c.Day, c.Month, c.Year))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s = %d %s %d", got.GregorianDate, c.Day, c.MonthName, c.Year))
	}

	tr.expectStatus("Missing Nasi 6 reported", "/api/v1/coptic?day=6&month=13&year=2023", http.StatusNotFound)
}

func (tr *TestRunner) testPascha() {
	tr.printSection("Pascha")

	expected := map[int]string{
		2023: "2023-04-16",
		2024: "2024-05-05",
		2025: "2025-04-20",
		2026: "2026-04-12",
	}

	years := make([]int, 0, len(expected))
	for y := range expected {
		years = append(years, y)
	}
	sort.Ints(years)

	for _, y := range years {
		var got PaschaResponse
		if err := tr.getData(fmt.Sprintf("/api/v1/pascha/%d", y), &got); err != nil {
			tr.recordError(fmt.Sprint(y), err.Error())
			continue
		}
		if got.Pascha != expected[y] {
			tr.recordError(fmt.Sprint(y), fmt.Sprintf("Expected %s, got %s", expected[y], got.Pascha))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("Pascha %d: %s (%d Paramon days)", y, got.Pascha, len(got.ParamonDays)))
	}
}

func (tr *TestRunner) testSearch() {
	tr.printSection("Search")

	var got SearchResponse
	if err := tr.getData("/api/v1/search?q=nativite&lang=fr&type=feast", &got); err != nil {
		tr.recordError("Search", err.Error())
	} else if got.Total > 0 && got.Results[0].Code == "NATIVITY" {
		tr.recordSuccess(fmt.Sprintf("French accent-insensitive search found %d result(s)", got.Total))
	} else {
		tr.recordError("Search", "Expected NATIVITY first for 'nativite'")
	}

	tr.expectStatus("Unknown resource type rejected", "/api/v1/search?type=reading", http.StatusBadRequest)
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	tr.expectStatus("Invalid date format rejected", "/api/v1/day?date=invalid", http.StatusBadRequest)
	tr.expectStatus("Impossible date rejected", "/api/v1/day?date=2025-02-29", http.StatusBadRequest)
	tr.expectStatus("Missing date rejected", "/api/v1/day", http.StatusBadRequest)
	tr.expectStatus("Unsupported language rejected", "/api/v1/day?date=2025-01-07&lang=de", http.StatusBadRequest)
	tr.expectStatus("Leap day handled", "/api/v1/day?date=2024-02-29", http.StatusOK)
	tr.expectStatus("Far future date handled", "/api/v1/day?date=2099-06-15", http.StatusOK)
}

// testYearSweep fetches a whole year and tallies it by period and by
// fasting source.
func (tr *TestRunner) testYearSweep() {
	tr.printSection(fmt.Sprintf("Full Year %d", tr.year))

	var got YearResponse
	if err := tr.getData(fmt.Sprintf("/api/v1/year?year=%d", tr.year), &got); err != nil {
		tr.recordError("Year", err.Error())
		return
	}

	want := calendar.DaysInYear(tr.year)
	if len(got.Days) != want {
		tr.recordError("Year", fmt.Sprintf("Expected %d days, got %d", want, len(got.Days)))
	} else {
		tr.recordSuccess(fmt.Sprintf("%d days (%s)", len(got.Days), got.Source))
	}

	periods := map[string]int{}
	sources := map[string]int{}
	for _, d := range got.Days {
		periods[d.Period.Code]++
		sources[d.Fasting.SourceRule]++
	}

	tr.printTally("Periods", periods)
	tr.printTally("Fasting sources", sources)
}

// =============================================================================
// Helper Methods
// =============================================================================

// getData fetches path and decodes the envelope's data into target.
func (tr *TestRunner) getData(path string, target any) error {
	resp, err := tr.getRaw(path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return fmt.Errorf("API error (HTTP %d): %s", resp.StatusCode, errMsg)
	}

	return json.Unmarshal(apiResp.Data, target)
}

func (tr *TestRunner) getRaw(path string) (*http.Response, error) {
	return tr.client.Get(tr.baseURL + path)
}

func (tr *TestRunner) expectStatus(name, path string, status int) {
	resp, err := tr.getRaw(path)
	if err != nil {
		tr.recordError(name, err.Error())
		return
	}
	resp.Body.Close()

	if resp.StatusCode == status {
		tr.recordSuccess(name)
	} else {
		tr.recordError(name, fmt.Sprintf("Expected HTTP %d, got %d", status, resp.StatusCode))
	}
}

func (tr *TestRunner) printSection(name string) {
	fmt.Fprintln(tr.out)
	fmt.Fprintf(tr.out, "--- %s ---\n", name)
	fmt.Fprintln(tr.out)
}

func (tr *TestRunner) printDayDetail(d calendar.DayRecord) {
	for _, f := range d.Feasts {
		fmt.Fprintf(tr.out, "    Feast: %s (%s)\n", f.Title, f.Code)
	}
	if d.Fasting.IsFasting {
		fmt.Fprintf(tr.out, "    Fasting: %s, %s\n", d.Fasting.Type, d.Fasting.Intensity)
	}
	for _, c := range d.Commemorations {
		fmt.Fprintf(tr.out, "    Commemoration: %s\n", c.Name)
	}
}

func (tr *TestRunner) printTally(title string, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	fmt.Fprintf(tr.out, "  %s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(tr.out, "    %-24s %4d\n", k, counts[k])
	}
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Fprintf(tr.out, "  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Fprintf(tr.out, "  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Fprintln(tr.out)
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintln(tr.out, "Summary")
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintf(tr.out, "  Passed: %d\n", tr.successCount)
	fmt.Fprintf(tr.out, "  Failed: %d\n", tr.errorCount)
	fmt.Fprintln(tr.out)

	if tr.errorCount > 0 {
		fmt.Fprintln(tr.out, "Failures:")
		for _, err := range tr.errors {
			fmt.Fprintf(tr.out, "  • %s\n", err)
		}
		fmt.Fprintln(tr.out)
		fmt.Fprintf(tr.out, "Tests completed with %d failure(s)\n", tr.errorCount)
		return
	}
	fmt.Fprintln(tr.out, "All tests passed! ✓")
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	year := flag.Int("year", time.Now().Year(), "Civil year to sweep")
	verbose := flag.Bool("v", false, "Verbose output (show day details)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, *year, *verbose, os.Stdout)
	runner.Run()

	if runner.errorCount > 0 {
		os.Exit(1)
	}
}

// Package calendar implements the Coptic liturgical calendar engine:
// Gregorian to Coptic conversion, Julian Pascha, movable feasts and Paramon
// days, the fasting-rule precedence chain, and day/week/year aggregation.
//
// Every function here is pure. Dates are time.Time values at midnight UTC;
// there is no sub-day or timezone handling.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO-8601 calendar-date layout used at the boundary.
const DateLayout = "2006-01-02"

// ErrMalformedInput is returned for date strings that do not parse.
var ErrMalformedInput = errors.New("malformed input")

// NewDate returns midnight UTC on the given Gregorian date.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the time-of-day and zone from t, keeping its calendar date.
func Truncate(t time.Time) time.Time {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDateString parses a YYYY-MM-DD date.
func ParseDateString(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrMalformedInput, s)
	}
	return t, nil
}

// FormatDate formats a date as YYYY-MM-DD.
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// IsGregorianLeap reports whether year is a Gregorian leap year.
func IsGregorianLeap(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// DaysInYear returns 365 or 366.
func DaysInYear(year int) int {
	if IsGregorianLeap(year) {
		return 366
	}
	return 365
}

// AddDays shifts a date by a signed number of days.
func AddDays(date time.Time, days int) time.Time {
	return date.AddDate(0, 0, days)
}

// DaysBetween returns the signed whole-day distance from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Truncate(b).Sub(Truncate(a)) / (24 * time.Hour))
}

// WeekdayCode returns the three-letter upper-case weekday (MON..SUN).
func WeekdayCode(date time.Time) string {
	return strings.ToUpper(date.Weekday().String()[:3])
}

// Within reports whether date lies in [start, end] inclusive.
func Within(date, start, end time.Time) bool {
	return !date.Before(start) && !date.After(end)
}

package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a Coptic day/month cannot be located within
// the search window. For legitimate input it signals a data defect.
var ErrNotFound = errors.New("coptic date not found")

// IsNotFound reports whether err is a locator miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// locatorWindow is the half-width of the search window in days. It spans a
// full Coptic year plus margin wherever the new year falls.
const locatorWindow = 400

// LocateFixedCoptic finds the Gregorian date of a Coptic day/month near a
// pivot year. The window [June 1 - 400d, June 1 + 400d] is scanned from its
// earliest day forward and the first match wins.
func LocateFixedCoptic(day, month, pivotYear int) (time.Time, error) {
	pivot := NewDate(pivotYear, time.June, 1)

	if d, ok := scanCoptic(day, month, AddDays(pivot, -locatorWindow), 2*locatorWindow+1); ok {
		return d, nil
	}
	return time.Time{}, fmt.Errorf("%w: %d/%d around %d", ErrNotFound, day, month, pivotYear)
}

// locateOnOrAfter returns the first date on or after from, within limit
// days, whose Coptic day/month match.
func locateOnOrAfter(day, month int, from time.Time, limit int) (time.Time, error) {
	if d, ok := scanCoptic(day, month, from, limit); ok {
		return d, nil
	}
	return time.Time{}, fmt.Errorf("%w: %d/%d after %s", ErrNotFound, day, month, FormatDate(from))
}

// locateOnOrBefore returns the last date on or before to, within limit days,
// whose Coptic day/month match.
func locateOnOrBefore(day, month int, to time.Time, limit int) (time.Time, error) {
	for i := 0; i < limit; i++ {
		g := AddDays(to, -i)
		if c := ToCoptic(g); c.Day == day && c.Month == month {
			return g, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %d/%d before %s", ErrNotFound, day, month, FormatDate(to))
}

// scanCoptic walks n days forward from start.
func scanCoptic(day, month int, start time.Time, n int) (time.Time, bool) {
	for i := 0; i < n; i++ {
		g := AddDays(start, i)
		if c := ToCoptic(g); c.Day == day && c.Month == month {
			return g, true
		}
	}
	return time.Time{}, false
}

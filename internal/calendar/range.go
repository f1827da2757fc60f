package calendar

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zapponejosh/coptic-calendar-api/internal/dataset"
)

// WeekLength is the number of days returned by BuildWeek.
const WeekLength = 7

// DayError reports a single date that could not be built in a batch.
type DayError struct {
	Date time.Time
	Err  error
}

func (e *DayError) Error() string {
	return fmt.Sprintf("%s: %v", FormatDate(e.Date), e.Err)
}

func (e *DayError) Unwrap() error {
	return e.Err
}

// BuildRange builds days consecutive day records starting at start, in date
// order. A date that fails is left out and reported as a *DayError in the
// joined error; it never aborts the rest of the batch. A non-positive days
// yields no records.
//
// Days are independent, so they are computed in parallel over a per-year
// context shared read-only.
func BuildRange(ds *dataset.Master, start time.Time, days int, lang string, opts ...Option) ([]DayRecord, error) {
	if days <= 0 {
		return []DayRecord{}, nil
	}
	start = Truncate(start)
	contexts := yearContexts(ds, start, days, buildOptions(opts))

	records := make([]DayRecord, days)
	errs := make([]error, days)

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < days; i++ {
		i := i
		g.Go(func() error {
			date := AddDays(start, i)
			rec, err := contexts[date.Year()].day(date, lang)
			if err != nil {
				errs[i] = &DayError{Date: date, Err: err}
				return nil
			}
			records[i] = rec
			return nil
		})
	}
	// Workers never return errors; failures are kept per index.
	_ = g.Wait()

	out := make([]DayRecord, 0, days)
	for i := range records {
		if errs[i] == nil {
			out = append(out, records[i])
		}
	}
	return out, errors.Join(errs...)
}

// BuildWeek builds the seven days starting at start.
func BuildWeek(ds *dataset.Master, start time.Time, lang string, opts ...Option) ([]DayRecord, error) {
	return BuildRange(ds, start, WeekLength, lang, opts...)
}

// BuildYearCache builds every day of a Gregorian civil year (365 or 366
// records).
func BuildYearCache(ds *dataset.Master, year int, lang string, opts ...Option) ([]DayRecord, error) {
	return BuildRange(ds, NewDate(year, time.January, 1), DaysInYear(year), lang, opts...)
}

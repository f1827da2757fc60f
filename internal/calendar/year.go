package calendar

import (
	"fmt"
	"time"

	"github.com/zapponejosh/coptic-calendar-api/internal/dataset"
)

// FiftyDaysCode names the post-Paschal season. Its window is hardwired into
// the fasting chain, so a period rule with this code is never consulted.
const FiftyDaysCode = "FIFTY_DAYS"

// FiftyDaysLength is the number of days after Pascha still inside the season.
const FiftyDaysLength = 49

// span is an inclusive Gregorian date range.
type span struct {
	start, end time.Time
}

func (s span) contains(date time.Time) bool {
	return Within(date, s.start, s.end)
}

// periodOccurrences is a fasting-period rule resolved against one civil year.
type periodOccurrences struct {
	rule  dataset.FastingPeriod
	spans []span
}

// Option changes how day records and fasting states are computed.
type Option func(*options)

type options struct {
	wrapPeriods bool
}

// WithWrappedPeriods also matches fasting periods whose fixed boundaries
// straddle the civil year. The default resolves each boundary for the query
// year only, which misses for example the December part of the Nativity
// Fast.
func WithWrappedPeriods() Option {
	return func(o *options) {
		o.wrapPeriods = true
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// yearContext holds everything derived from the dataset for one civil year.
// Day computations in the same year share it read-only.
type yearContext struct {
	ds      *dataset.Master
	opts    options
	year    int
	pascha  time.Time
	feasts  []ResolvedFeast
	periods []periodOccurrences

	// paramonErr is set when a Paramon anchor could not be located.
	paramonErr error
}

func newYearContext(ds *dataset.Master, year int, opts options) *yearContext {
	yc := &yearContext{
		ds:     ds,
		opts:   opts,
		year:   year,
		pascha: PaschaGregorian(year),
	}

	yc.feasts = MovableFeasts(ds, year)
	paramon, err := ParamonDays(ds, year)
	yc.feasts = append(yc.feasts, paramon...)
	yc.paramonErr = err

	for _, rule := range ds.FastingPeriods {
		if rule.Code == FiftyDaysCode {
			continue
		}
		// A rule with no locatable occurrence is inapplicable, not an error.
		if spans := yc.resolvePeriod(rule); len(spans) > 0 {
			yc.periods = append(yc.periods, periodOccurrences{rule: rule, spans: spans})
		}
	}

	return yc
}

// resolvePeriod returns the occurrences of a fasting period relevant to the
// context year. The first is the query-year resolution of both boundaries,
// and it is the only one unless wrapped periods are enabled.
//
// That resolution picks each fixed boundary independently, so it can land a
// fixed end before its start. With wrapped periods, further occurrences pair
// the boundaries instead: a fixed end is the first match on or after a Pascha-relative
// start, a fixed start the last match on or before a Pascha-relative end,
// and a period fixed at both ends is taken from each start in the previous
// and current civil year, which covers periods running across 1 January.
func (yc *yearContext) resolvePeriod(rule dataset.FastingPeriod) []span {
	var spans []span

	start, errStart := yc.boundary(rule.Start)
	end, errEnd := yc.boundary(rule.End)
	if errStart == nil && errEnd == nil {
		spans = append(spans, span{start, end})
	}
	if !yc.opts.wrapPeriods {
		return spans
	}

	startFixed := rule.Start.Type == dataset.BoundaryFixedCoptic
	endFixed := rule.End.Type == dataset.BoundaryFixedCoptic

	switch {
	case !startFixed && endFixed && errStart == nil:
		if e, err := locateOnOrAfter(rule.End.Day, rule.End.Month, start, locatorWindow); err == nil {
			spans = append(spans, span{start, e})
		}

	case startFixed && !endFixed && errEnd == nil:
		if s, err := locateOnOrBefore(rule.Start.Day, rule.Start.Month, end, locatorWindow); err == nil {
			spans = append(spans, span{s, end})
		}

	case startFixed && endFixed:
		for _, y := range []int{yc.year - 1, yc.year} {
			s, err := locateOnOrAfter(rule.Start.Day, rule.Start.Month, NewDate(y, time.January, 1), DaysInYear(y))
			if err != nil {
				continue
			}
			e, err := locateOnOrAfter(rule.End.Day, rule.End.Month, s, locatorWindow)
			if err != nil {
				continue
			}
			spans = append(spans, span{s, e})
		}
	}

	return spans
}

// boundary resolves one end of a fasting period in the context year.
func (yc *yearContext) boundary(b dataset.Boundary) (time.Time, error) {
	switch b.Type {
	case dataset.BoundaryRelativeToPascha:
		return AddDays(yc.pascha, b.Offset), nil
	case dataset.BoundaryFixedCoptic:
		return LocateFixedCoptic(b.Day, b.Month, yc.year)
	default:
		return time.Time{}, fmt.Errorf("unknown boundary type %q", b.Type)
	}
}

// inFiftyDays reports whether date falls in [Pascha, Pascha+49].
func (yc *yearContext) inFiftyDays(date time.Time) bool {
	return Within(date, yc.pascha, AddDays(yc.pascha, FiftyDaysLength))
}

// periodAt returns the first fasting-period rule, in dataset order, with an
// occurrence containing date.
func (yc *yearContext) periodAt(date time.Time) (dataset.FastingPeriod, bool) {
	for _, p := range yc.periods {
		for _, s := range p.spans {
			if s.contains(date) {
				return p.rule, true
			}
		}
	}
	return dataset.FastingPeriod{}, false
}

// feastsOn returns the movable and Paramon feasts placed on date.
func (yc *yearContext) feastsOn(date time.Time) []ResolvedFeast {
	var out []ResolvedFeast
	for _, f := range yc.feasts {
		if f.Date.Equal(date) {
			out = append(out, f)
		}
	}
	return out
}

// yearContexts builds one context per civil year touched by [start, start+days).
func yearContexts(ds *dataset.Master, start time.Time, days int, opts options) map[int]*yearContext {
	out := make(map[int]*yearContext)
	if days <= 0 {
		return out
	}
	for y := start.Year(); y <= AddDays(start, days-1).Year(); y++ {
		out[y] = newYearContext(ds, y, opts)
	}
	return out
}

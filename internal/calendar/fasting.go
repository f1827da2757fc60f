package calendar

import (
	"time"

	"github.com/zapponejosh/coptic-calendar-api/internal/dataset"
)

// Intensity tags.
const (
	IntensityStrict = "strict"
	IntensityNormal = "normal"
	IntensityNone   = "none"
)

// Source rules reported in FastingState. A matching fasting-period rule
// reports its own code instead.
const (
	SourceParamon    = "PARAMON"
	SourceMajorFeast = "MAJOR_FEAST_OVERRIDE"
	SourceFiftyDays  = "FIFTY_DAYS"
	SourceWedFri     = "WED_FRI"
	SourceNone       = "NONE"
)

// MajorFeastCodes are the Lordly feasts that cancel any fast on their day.
var MajorFeastCodes = map[string]bool{
	"ANNUNCIATION":    true,
	"NATIVITY":        true,
	"THEOPHANY":       true,
	"PASCHA":          true,
	"ASCENSION":       true,
	"PENTECOST":       true,
	"TRANSFIGURATION": true,
}

// paramonCodes are always treated as Paramon, whatever the dataset defines.
var paramonCodes = map[string]bool{
	"NATIVITY_PARAMON":  true,
	"THEOPHANY_PARAMON": true,
}

// FastingState is the fasting outcome for one date. Exactly one rule decides it.
type FastingState struct {
	IsFasting  bool   `json:"is_fasting"`
	Type       string `json:"type,omitempty"`
	Intensity  string `json:"intensity"`
	SourceRule string `json:"source_rule"`
}

func notFasting(source string) FastingState {
	return FastingState{IsFasting: false, Intensity: IntensityNone, SourceRule: source}
}

// fastingInput is what every rule in the chain sees.
type fastingInput struct {
	date  time.Time
	codes map[string]bool
	year  *yearContext
}

// fastingRule returns a state and true on a match, or false to pass.
type fastingRule func(in *fastingInput) (FastingState, bool)

// fastingPrecedence is the fixed evaluation order; the first match wins.
var fastingPrecedence = [...]fastingRule{
	paramonRule,
	majorFeastRule,
	fiftyDaysRule,
	periodRule,
	wedFriRule,
	noFastRule,
}

// EvaluateFasting decides the fasting state of date given the feast codes
// active on it.
//
// Each call resolves the whole year (Pascha, Paramon days, every period
// boundary). Callers evaluating many dates should use BuildRange, which
// shares one resolution per civil year.
func EvaluateFasting(date time.Time, ds *dataset.Master, feastCodes []string, opts ...Option) FastingState {
	date = Truncate(date)
	return newYearContext(ds, date.Year(), buildOptions(opts)).fasting(date, feastCodes)
}

func (yc *yearContext) fasting(date time.Time, feastCodes []string) FastingState {
	in := &fastingInput{
		date:  date,
		codes: make(map[string]bool, len(feastCodes)),
		year:  yc,
	}
	for _, c := range feastCodes {
		in.codes[c] = true
	}

	for _, rule := range fastingPrecedence {
		if st, ok := rule(in); ok {
			return st
		}
	}
	// noFastRule always matches.
	return notFasting(SourceNone)
}

func paramonRule(in *fastingInput) (FastingState, bool) {
	for code := range in.codes {
		if paramonCodes[code] || in.year.ds.IsParamonCode(code) {
			return FastingState{
				IsFasting:  true,
				Type:       SourceParamon,
				Intensity:  IntensityStrict,
				SourceRule: SourceParamon,
			}, true
		}
	}
	return FastingState{}, false
}

func majorFeastRule(in *fastingInput) (FastingState, bool) {
	for code := range in.codes {
		if MajorFeastCodes[code] {
			return notFasting(SourceMajorFeast), true
		}
	}
	return FastingState{}, false
}

func fiftyDaysRule(in *fastingInput) (FastingState, bool) {
	if in.year.inFiftyDays(in.date) {
		return notFasting(SourceFiftyDays), true
	}
	return FastingState{}, false
}

func periodRule(in *fastingInput) (FastingState, bool) {
	rule, ok := in.year.periodAt(in.date)
	if !ok {
		return FastingState{}, false
	}

	intensity := rule.Intensity
	if intensity == "" {
		intensity = IntensityNormal
	}
	return FastingState{
		IsFasting:  true,
		Type:       rule.Code,
		Intensity:  intensity,
		SourceRule: rule.Code,
	}, true
}

func wedFriRule(in *fastingInput) (FastingState, bool) {
	switch in.date.Weekday() {
	case time.Wednesday, time.Friday:
		return FastingState{
			IsFasting:  true,
			Type:       SourceWedFri,
			Intensity:  IntensityNormal,
			SourceRule: SourceWedFri,
		}, true
	}
	return FastingState{}, false
}

func noFastRule(*fastingInput) (FastingState, bool) {
	return notFasting(SourceNone), true
}

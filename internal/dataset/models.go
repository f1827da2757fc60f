// Package dataset holds the static master dataset: fixed and movable feasts,
// Paramon rules, fasting periods, saints and daily commemorations.
//
// A Master is loaded once per process and never mutated afterwards, so it can
// be shared freely between concurrent computations.
package dataset

import "github.com/zapponejosh/coptic-calendar-api/internal/locale"

// Text is a locale-tagged string: {"ar": "...", "fr": "..."}.
type Text map[string]string

// In returns the text for lang, or the base-locale text when the translation
// is missing.
func (t Text) In(lang string) string {
	if v := t[lang]; v != "" {
		return v
	}
	return t[locale.Base]
}

// BoundaryType tells how a fasting-period boundary is anchored.
type BoundaryType string

const (
	BoundaryRelativeToPascha BoundaryType = "relative_to_pascha"
	BoundaryFixedCoptic      BoundaryType = "fixed_coptic"
)

// Weekday codes used as Paramon mapping keys.
var WeekdayCodes = []string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}

// FixedFeast is celebrated on a constant Coptic day/month. Monthly feasts
// match on the Coptic day alone.
type FixedFeast struct {
	Code        string `json:"code" yaml:"code" validate:"required"`
	Rank        string `json:"rank,omitempty" yaml:"rank,omitempty"`
	CopticDay   int    `json:"coptic_day" yaml:"coptic_day" validate:"min=1,max=30"`
	CopticMonth int    `json:"coptic_month" yaml:"coptic_month" validate:"min=1,max=13"`
	Monthly     bool   `json:"monthly,omitempty" yaml:"monthly,omitempty"`
	Title       Text   `json:"title" yaml:"title" validate:"required"`
	Summary     Text   `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// MovableFeast is anchored on Pascha by a signed day offset.
type MovableFeast struct {
	Code       string `json:"code" yaml:"code" validate:"required"`
	Rank       string `json:"rank,omitempty" yaml:"rank,omitempty"`
	OffsetDays int    `json:"offset_days" yaml:"offset_days"`
	Title      Text   `json:"title" yaml:"title" validate:"required"`
	Summary    Text   `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// ParamonRule places the Paramon days of a major feast. Mapping keys are
// weekday codes (MON..SUN) of the feast; values are day offsets from it.
type ParamonRule struct {
	Code       string           `json:"code" yaml:"code" validate:"required"`
	FeastCode  string           `json:"feast_code" yaml:"feast_code" validate:"required"`
	FeastDay   int              `json:"feast_day" yaml:"feast_day" validate:"min=1,max=30"`
	FeastMonth int              `json:"feast_month" yaml:"feast_month" validate:"min=1,max=13"`
	Mapping    map[string][]int `json:"mapping" yaml:"mapping" validate:"dive,keys,oneof=MON TUE WED THU FRI SAT SUN,endkeys,min=1"`
}

// Boundary is one end of a fasting period.
type Boundary struct {
	Type   BoundaryType `json:"type" yaml:"type" validate:"oneof=relative_to_pascha fixed_coptic"`
	Offset int          `json:"offset,omitempty" yaml:"offset,omitempty"`
	Day    int          `json:"day,omitempty" yaml:"day,omitempty" validate:"min=0,max=30"`
	Month  int          `json:"month,omitempty" yaml:"month,omitempty" validate:"min=0,max=13"`
}

// FastingPeriod is a fast spanning [Start, End] inclusive.
type FastingPeriod struct {
	Code      string   `json:"code" yaml:"code" validate:"required"`
	Start     Boundary `json:"start" yaml:"start"`
	End       Boundary `json:"end" yaml:"end"`
	Intensity string   `json:"intensity,omitempty" yaml:"intensity,omitempty" validate:"omitempty,oneof=strict normal light"`
	Title     Text     `json:"title,omitempty" yaml:"title,omitempty"`
}

// Saint is a commemorated person or event.
type Saint struct {
	ID          string `json:"id" yaml:"id" validate:"required"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Name        Text   `json:"name" yaml:"name" validate:"required"`
	Summary     Text   `json:"summary,omitempty" yaml:"summary,omitempty"`
	CopticDay   int    `json:"coptic_day" yaml:"coptic_day" validate:"min=1,max=30"`
	CopticMonth int    `json:"coptic_month" yaml:"coptic_month" validate:"min=1,max=13"`
	Reliability string `json:"reliability,omitempty" yaml:"reliability,omitempty"`
}

// Commemoration lists the saints read on one Coptic day.
type Commemoration struct {
	CopticDay   int      `json:"coptic_day" yaml:"coptic_day" validate:"min=1,max=30"`
	CopticMonth int      `json:"coptic_month" yaml:"coptic_month" validate:"min=1,max=13"`
	Saints      []string `json:"saints" yaml:"saints"`
}

// DefaultReliability is reported for saints that carry none.
const DefaultReliability = "medium"

// Master is the whole reference dataset plus derived lookup indexes.
type Master struct {
	Version        string          `json:"version" yaml:"version"`
	FixedFeasts    []FixedFeast    `json:"feasts_fixed" yaml:"feasts_fixed" validate:"dive"`
	MovableFeasts  []MovableFeast  `json:"feasts_movable" yaml:"feasts_movable" validate:"dive"`
	ParamonRules   []ParamonRule   `json:"paramon_rules" yaml:"paramon_rules" validate:"dive"`
	FastingPeriods []FastingPeriod `json:"fasting_periods" yaml:"fasting_periods" validate:"dive"`
	Saints         []Saint         `json:"saints" yaml:"saints" validate:"dive"`
	Commemorations []Commemoration `json:"daily_commemorations" yaml:"daily_commemorations" validate:"dive"`

	idx *index
}

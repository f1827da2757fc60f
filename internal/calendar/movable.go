package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/zapponejosh/coptic-calendar-api/internal/dataset"
	"github.com/zapponejosh/coptic-calendar-api/internal/locale"
)

// RankParamon is the fixed rank carried by every generated Paramon day.
const RankParamon = "paramon"

// ResolvedFeast is a feast placed on a Gregorian date for one civil year.
type ResolvedFeast struct {
	Code       string       `json:"code"`
	Rank       string       `json:"rank,omitempty"`
	Date       time.Time    `json:"date"`
	Offset     int          `json:"offset"`
	AnchorCode string       `json:"anchor_code"`
	Title      dataset.Text `json:"title"`
	Summary    dataset.Text `json:"summary,omitempty"`
}

// MovableFeasts places every Pascha-relative feast of the dataset in the
// given civil year.
func MovableFeasts(ds *dataset.Master, year int) []ResolvedFeast {
	pascha := PaschaGregorian(year)

	out := make([]ResolvedFeast, 0, len(ds.MovableFeasts))
	for _, f := range ds.MovableFeasts {
		out = append(out, ResolvedFeast{
			Code:       f.Code,
			Rank:       f.Rank,
			Date:       AddDays(pascha, f.OffsetDays),
			Offset:     f.OffsetDays,
			AnchorCode: "PASCHA",
			Title:      f.Title,
			Summary:    f.Summary,
		})
	}
	return out
}

// ParamonDays resolves the Paramon days of the given civil year. The anchor
// feast is located near the year, and its weekday selects the offsets; a
// weekday missing from the mapping means the single day before the feast.
//
// Rules whose feast cannot be located are skipped and reported in the
// returned error alongside the days that did resolve.
func ParamonDays(ds *dataset.Master, year int) ([]ResolvedFeast, error) {
	var out []ResolvedFeast
	var errs []error

	for _, rule := range ds.ParamonRules {
		feastDate, err := LocateFixedCoptic(rule.FeastDay, rule.FeastMonth, year)
		if err != nil {
			errs = append(errs, fmt.Errorf("paramon %s: %w", rule.Code, err))
			continue
		}

		offsets, ok := rule.Mapping[WeekdayCode(feastDate)]
		if !ok {
			offsets = []int{-1}
		}

		title, summary := paramonText(ds, rule.FeastCode)
		for _, off := range offsets {
			out = append(out, ResolvedFeast{
				Code:       rule.Code,
				Rank:       RankParamon,
				Date:       AddDays(feastDate, off),
				Offset:     off,
				AnchorCode: rule.FeastCode,
				Title:      title,
				Summary:    summary,
			})
		}
	}

	return out, errors.Join(errs...)
}

// paramonText builds the per-locale Paramon title from the feast it precedes.
func paramonText(ds *dataset.Master, feastCode string) (dataset.Text, dataset.Text) {
	cat := locale.Default()
	feastTitle, _ := ds.FeastTitle(feastCode)

	title := make(dataset.Text)
	summary := make(dataset.Text)
	for _, lang := range locale.Codes() {
		name, ok := cat.Lookup(lang, "feast_"+feastCode, nil)
		if !ok {
			name = feastTitle.In(lang)
		}
		if name == "" {
			name = feastCode
		}

		if t, ok := cat.Lookup(lang, "paramon_title", map[string]any{"Feast": name}); ok {
			title[lang] = t
		}
		if s, ok := cat.Lookup(lang, "paramon_summary", nil); ok {
			summary[lang] = s
		}
	}
	return title, summary
}

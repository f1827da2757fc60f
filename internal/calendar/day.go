package calendar

import (
	"fmt"
	"time"

	"github.com/zapponejosh/coptic-calendar-api/internal/dataset"
	"github.com/zapponejosh/coptic-calendar-api/internal/locale"
)

// Liturgical period codes not backed by a fasting-period rule.
const (
	PeriodHolyFiftyDays = "HOLY_FIFTY_DAYS"
	PeriodOrdinary      = "ORDINARY"
)

// CopticView is a CopticDate rendered for display.
type CopticView struct {
	Day       int    `json:"day"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	Year      int    `json:"year"`
	LeapYear  bool   `json:"leap_year"`
}

// Period is the liturgical season a day belongs to.
type Period struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// FeastView is a feast in the requested language.
type FeastView struct {
	Code    string `json:"code"`
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
	Rank    string `json:"rank,omitempty"`
}

// CommemorationView is a commemorated saint in the requested language.
type CommemorationView struct {
	ID          string `json:"id"`
	Type        string `json:"type,omitempty"`
	Name        string `json:"name"`
	Summary     string `json:"summary,omitempty"`
	Reliability string `json:"reliability"`
}

// DayRecord is the full liturgical description of one Gregorian date.
type DayRecord struct {
	Date           time.Time           `json:"-"`
	GregorianDate  string              `json:"gregorian_date"`
	Weekday        string              `json:"weekday"`
	Coptic         CopticView          `json:"coptic_date"`
	Period         Period              `json:"liturgical_period"`
	Fasting        FastingState        `json:"fasting"`
	Feasts         []FeastView         `json:"feasts"`
	Commemorations []CommemorationView `json:"commemorations"`
}

// FeastCodes returns the codes of the day's feasts.
func (r DayRecord) FeastCodes() []string {
	codes := make([]string, 0, len(r.Feasts))
	for _, f := range r.Feasts {
		codes = append(codes, f.Code)
	}
	return codes
}

// BuildDay computes the day record for date, rendering text in lang. Unknown
// languages fall back to the base locale field by field.
func BuildDay(ds *dataset.Master, date time.Time, lang string, opts ...Option) (DayRecord, error) {
	date = Truncate(date)
	return newYearContext(ds, date.Year(), buildOptions(opts)).day(date, lang)
}

func (yc *yearContext) day(date time.Time, lang string) (DayRecord, error) {
	if yc.paramonErr != nil {
		return DayRecord{}, fmt.Errorf("resolve paramon days for %d: %w", yc.year, yc.paramonErr)
	}

	lang = locale.Resolve(lang)
	cat := locale.Default()
	cd := ToCoptic(date)

	fixed := yc.ds.FixedFeastsOn(cd.Day, cd.Month)
	movable := yc.feastsOn(date)

	feasts := make([]FeastView, 0, len(fixed)+len(movable))
	codes := make([]string, 0, len(fixed)+len(movable))
	for _, f := range fixed {
		feasts = append(feasts, FeastView{
			Code:    f.Code,
			Title:   f.Title.In(lang),
			Summary: f.Summary.In(lang),
			Rank:    f.Rank,
		})
		codes = append(codes, f.Code)
	}
	for _, f := range movable {
		feasts = append(feasts, FeastView{
			Code:    f.Code,
			Title:   f.Title.In(lang),
			Summary: f.Summary.In(lang),
			Rank:    f.Rank,
		})
		codes = append(codes, f.Code)
	}

	saints := yc.ds.SaintsOn(cd.Day, cd.Month)
	commemorations := make([]CommemorationView, 0, len(saints))
	for _, s := range saints {
		reliability := s.Reliability
		if reliability == "" {
			reliability = dataset.DefaultReliability
		}
		commemorations = append(commemorations, CommemorationView{
			ID:          s.ID,
			Type:        s.Type,
			Name:        s.Name.In(lang),
			Summary:     s.Summary.In(lang),
			Reliability: reliability,
		})
	}

	return DayRecord{
		Date:          date,
		GregorianDate: FormatDate(date),
		Weekday:       WeekdayCode(date),
		Coptic: CopticView{
			Day:       cd.Day,
			Month:     cd.Month,
			MonthName: cat.MonthName(lang, cd.Month),
			Year:      cd.Year,
			LeapYear:  cd.IsLeapYear(),
		},
		Period:         yc.period(date, lang),
		Fasting:        yc.fasting(date, codes),
		Feasts:         feasts,
		Commemorations: commemorations,
	}, nil
}

// period labels the liturgical season of date.
func (yc *yearContext) period(date time.Time, lang string) Period {
	cat := locale.Default()

	if yc.inFiftyDays(date) {
		return Period{Code: PeriodHolyFiftyDays, Label: cat.Message(lang, "period_"+PeriodHolyFiftyDays)}
	}

	if rule, ok := yc.periodAt(date); ok {
		label := rule.Title.In(lang)
		if label == "" {
			label = cat.Message(lang, "period_"+rule.Code)
		}
		return Period{Code: rule.Code, Label: label}
	}

	return Period{Code: PeriodOrdinary, Label: cat.Message(lang, "period_"+PeriodOrdinary)}
}

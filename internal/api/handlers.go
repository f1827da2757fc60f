package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/coptic-calendar-api/internal/calendar"
	"github.com/zapponejosh/coptic-calendar-api/internal/config"
	"github.com/zapponejosh/coptic-calendar-api/internal/database"
	"github.com/zapponejosh/coptic-calendar-api/internal/dataset"
	"github.com/zapponejosh/coptic-calendar-api/internal/locale"
	"github.com/zapponejosh/coptic-calendar-api/internal/logger"
	"github.com/zapponejosh/coptic-calendar-api/internal/metrics"
	"github.com/zapponejosh/coptic-calendar-api/internal/search"
)

// Years accepted by the API: the Gregorian calendar onwards, four digits.
const (
	MinYear = 1583
	MaxYear = 9999
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	ds      *dataset.Master
	index   *search.Index
	db      *database.DB // nil when the snapshot store is disabled
	metrics *metrics.Metrics
	cfg     *config.Config
	logger  *slog.Logger

	now func() time.Time
}

// NewHandlers creates a new Handlers instance. db and m may be nil.
func NewHandlers(ds *dataset.Master, db *database.DB, m *metrics.Metrics, cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{
		ds:      ds,
		index:   search.NewIndex(ds),
		db:      db,
		metrics: m,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := map[string]any{
		"status":          "healthy",
		"dataset_version": h.ds.Version,
		"snapshots":       h.db != nil,
	}

	if h.db != nil {
		if err := h.db.Health(ctx); err != nil {
			h.logger.Warn("health check failed", slog.Any("error", err))
			WriteServiceUnavailable(w, "Database unhealthy", "HEALTH_CHECK_FAILED")
			return
		}
		if h.metrics != nil {
			h.metrics.RecordDBPoolStats(h.db.Stats())
		}

		stats, err := h.db.GetStats(ctx)
		if err != nil {
			logger.Error(ctx, "failed to read store stats", err)
		} else {
			status["store"] = stats
		}
	}

	WriteSuccess(w, status)
}

// =============================================================================
// Day handlers
// =============================================================================

// GetDay handles GET /api/v1/day?date=YYYY-MM-DD
func (h *Handlers) GetDay(w http.ResponseWriter, r *http.Request) {
	lang, ok := h.lang(w, r)
	if !ok {
		return
	}

	date, ok := dateParam(w, r, "date")
	if !ok {
		return
	}

	h.writeDay(w, r, date, lang)
}

// GetToday handles GET /api/v1/day/today
func (h *Handlers) GetToday(w http.ResponseWriter, r *http.Request) {
	lang, ok := h.lang(w, r)
	if !ok {
		return
	}

	h.writeDay(w, r, calendar.Truncate(h.now()), lang)
}

func (h *Handlers) writeDay(w http.ResponseWriter, r *http.Request, date time.Time, lang string) {
	rec, err := calendar.BuildDay(h.ds, date, lang)
	h.observe(1, err)
	if err != nil {
		logger.Error(r.Context(), "failed to build day", err, slog.String("date", calendar.FormatDate(date)))
		WriteInternalError(w, "Failed to compute day")
		return
	}

	WriteSuccess(w, rec)
}

// rangeResponse is the payload of every multi-day endpoint.
type rangeResponse struct {
	Start string               `json:"start"`
	End   string               `json:"end"`
	Lang  string               `json:"lang"`
	Days  []calendar.DayRecord `json:"days"`
}

// GetWeek handles GET /api/v1/week?start=YYYY-MM-DD
func (h *Handlers) GetWeek(w http.ResponseWriter, r *http.Request) {
	lang, ok := h.lang(w, r)
	if !ok {
		return
	}

	start, ok := dateParam(w, r, "start")
	if !ok {
		return
	}

	h.writeRange(w, r, start, calendar.WeekLength, lang)
}

// GetRange handles GET /api/v1/range?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handlers) GetRange(w http.ResponseWriter, r *http.Request) {
	lang, ok := h.lang(w, r)
	if !ok {
		return
	}

	start, ok := dateParam(w, r, "start")
	if !ok {
		return
	}
	end, ok := dateParam(w, r, "end")
	if !ok {
		return
	}

	if start.After(end) {
		WriteBadRequest(w, "Start date must be before or equal to end date")
		return
	}

	days := calendar.DaysBetween(start, end) + 1
	if days > h.cfg.MaxRangeDays {
		WriteBadRequest(w, fmt.Sprintf("Date range cannot exceed %d days", h.cfg.MaxRangeDays))
		return
	}

	h.writeRange(w, r, start, days, lang)
}

func (h *Handlers) writeRange(w http.ResponseWriter, r *http.Request, start time.Time, days int, lang string) {
	records, err := calendar.BuildRange(h.ds, start, days, lang)
	h.observe(len(records), err)
	// Failed days are left out rather than failing the request.
	logger.WarnEach(r.Context(), "day left out of range", err)

	WriteSuccess(w, rangeResponse{
		Start: calendar.FormatDate(start),
		End:   calendar.FormatDate(calendar.AddDays(start, days-1)),
		Lang:  lang,
		Days:  records,
	})
}

// yearResponse carries either freshly computed records or a stored snapshot.
type yearResponse struct {
	Year           int    `json:"year"`
	Lang           string `json:"lang"`
	Source         string `json:"source"` // computed or snapshot
	DatasetVersion string `json:"dataset_version"`
	Days           any    `json:"days"`
}

// GetYear handles GET /api/v1/year?year=YYYY
//
// A stored snapshot for the loaded dataset version is served when present;
// otherwise the year is computed on the fly.
func (h *Handlers) GetYear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lang, ok := h.lang(w, r)
	if !ok {
		return
	}

	year, err := parseYear(r.URL.Query().Get("year"))
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	if snap, ok := h.snapshot(ctx, year, lang); ok {
		WriteSuccess(w, yearResponse{
			Year:           year,
			Lang:           lang,
			Source:         "snapshot",
			DatasetVersion: snap.DatasetVersion,
			Days:           snap.Days,
		})
		return
	}

	records, err := calendar.BuildYearCache(h.ds, year, lang)
	h.observe(len(records), err)
	logger.WarnEach(ctx, "day left out of year", err)

	WriteSuccess(w, yearResponse{
		Year:           year,
		Lang:           lang,
		Source:         "computed",
		DatasetVersion: h.ds.Version,
		Days:           records,
	})
}

// snapshot returns the stored snapshot for (year, lang) if it was built from
// the loaded dataset version.
func (h *Handlers) snapshot(ctx context.Context, year int, lang string) (*database.Snapshot, bool) {
	if h.db == nil {
		return nil, false
	}

	snap, err := h.db.GetSnapshot(ctx, year, lang)
	if err != nil && !database.IsNotFound(err) {
		logger.Error(ctx, "failed to read snapshot", err, slog.Int("year", year))
	}
	hit := err == nil && snap.DatasetVersion == h.ds.Version
	if h.metrics != nil {
		h.metrics.ObserveSnapshot(hit)
	}
	return snap, hit
}

// =============================================================================
// Calendar lookups
// =============================================================================

// copticResponse pairs a Gregorian date with its Coptic date.
type copticResponse struct {
	GregorianDate string              `json:"gregorian_date"`
	Weekday       string              `json:"weekday"`
	Coptic        calendar.CopticView `json:"coptic_date"`
}

// GetCoptic handles GET /api/v1/coptic
//
// With ?date=YYYY-MM-DD it converts to the Coptic calendar. With
// ?day=&month=&year= it locates the Coptic day/month near the given
// Gregorian year.
func (h *Handlers) GetCoptic(w http.ResponseWriter, r *http.Request) {
	lang, ok := h.lang(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()

	var date time.Time
	if q.Has("date") {
		date, ok = dateParam(w, r, "date")
		if !ok {
			return
		}
	} else {
		day, errDay := strconv.Atoi(q.Get("day"))
		month, errMonth := strconv.Atoi(q.Get("month"))
		year, errYear := parseYear(q.Get("year"))
		if errDay != nil || errMonth != nil || errYear != nil {
			WriteBadRequest(w, "Provide either date=YYYY-MM-DD or numeric day, month and year")
			return
		}
		if month < 1 || month > calendar.Nasi || day < 1 || day > 30 {
			WriteBadRequest(w, "Coptic day must be 1-30 and month 1-13")
			return
		}

		located, err := calendar.LocateFixedCoptic(day, month, year)
		if err != nil {
			if calendar.IsNotFound(err) {
				WriteNotFound(w, fmt.Sprintf("Coptic date %d/%d does not occur near %d", day, month, year))
				return
			}
			logger.Error(r.Context(), "failed to locate coptic date", err)
			WriteInternalError(w, "Failed to locate date")
			return
		}
		date = located
	}

	cd := calendar.ToCoptic(date)
	WriteSuccess(w, copticResponse{
		GregorianDate: calendar.FormatDate(date),
		Weekday:       calendar.WeekdayCode(date),
		Coptic: calendar.CopticView{
			Day:       cd.Day,
			Month:     cd.Month,
			MonthName: locale.Default().MonthName(lang, cd.Month),
			Year:      cd.Year,
			LeapYear:  cd.IsLeapYear(),
		},
	})
}

// feastDate is a resolved movable or Paramon day in one language.
type feastDate struct {
	Code   string `json:"code"`
	Title  string `json:"title"`
	Rank   string `json:"rank,omitempty"`
	Date   string `json:"date"`
	Offset int    `json:"offset"`
	Anchor string `json:"anchor_code"`
}

type paschaResponse struct {
	Year          int         `json:"year"`
	Pascha        string      `json:"pascha"`
	MovableFeasts []feastDate `json:"movable_feasts"`
	ParamonDays   []feastDate `json:"paramon_days"`
}

// GetPascha handles GET /api/v1/pascha/{year}
func (h *Handlers) GetPascha(w http.ResponseWriter, r *http.Request) {
	lang, ok := h.lang(w, r)
	if !ok {
		return
	}

	year, err := parseYear(chi.URLParam(r, "year"))
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	paramon, err := calendar.ParamonDays(h.ds, year)
	// Unlocatable rules are dropped; the rest still resolve.
	logger.WarnEach(r.Context(), "paramon rule skipped", err, slog.Int("year", year))

	WriteSuccess(w, paschaResponse{
		Year:          year,
		Pascha:        calendar.FormatDate(calendar.PaschaGregorian(year)),
		MovableFeasts: feastDates(calendar.MovableFeasts(h.ds, year), lang),
		ParamonDays:   feastDates(paramon, lang),
	})
}

func feastDates(feasts []calendar.ResolvedFeast, lang string) []feastDate {
	out := make([]feastDate, 0, len(feasts))
	for _, f := range feasts {
		out = append(out, feastDate{
			Code:   f.Code,
			Title:  f.Title.In(lang),
			Rank:   f.Rank,
			Date:   calendar.FormatDate(f.Date),
			Offset: f.Offset,
			Anchor: f.AnchorCode,
		})
	}
	return out
}

// Search handles GET /api/v1/search?q=&lang=&type=&limit=&offset=
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	lang, ok := h.lang(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	limit, err := intParam(q.Get("limit"), search.DefaultLimit)
	if err != nil {
		WriteBadRequest(w, "limit must be an integer")
		return
	}
	offset, err := intParam(q.Get("offset"), 0)
	if err != nil {
		WriteBadRequest(w, "offset must be an integer")
		return
	}

	page, err := h.index.Search(search.Query{
		Text:   q.Get("q"),
		Lang:   lang,
		Type:   q.Get("type"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		if errors.Is(err, search.ErrInvalidType) {
			WriteBadRequest(w, "type must be one of: all, saint, feast")
			return
		}
		logger.Error(r.Context(), "search failed", err)
		WriteInternalError(w, "Search failed")
		return
	}

	WriteSuccess(w, page)
}

// =============================================================================
// Helpers
// =============================================================================

// lang resolves the lang query parameter, defaulting to the configured
// language. It writes a 400 and returns false for unsupported languages.
func (h *Handlers) lang(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := r.URL.Query().Get("lang")
	if raw == "" {
		return h.cfg.DefaultLang, true
	}

	lang, err := locale.Parse(raw)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Unsupported language %q. Use one of %v", raw, locale.Codes()))
		return "", false
	}
	return lang, true
}

// dateParam parses a required YYYY-MM-DD query parameter, writing a 400 on
// failure.
func dateParam(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		WriteBadRequest(w, fmt.Sprintf("%s parameter is required", name))
		return time.Time{}, false
	}

	date, err := calendar.ParseDateString(raw)
	if err != nil || date.Year() < MinYear {
		WriteBadRequest(w, fmt.Sprintf("Invalid %s: %s. Use YYYY-MM-DD from %d on", name, raw, MinYear))
		return time.Time{}, false
	}
	return date, true
}

func parseYear(raw string) (int, error) {
	year, err := strconv.Atoi(raw)
	if err != nil || year < MinYear || year > MaxYear {
		return 0, fmt.Errorf("year must be an integer between %d and %d", MinYear, MaxYear)
	}
	return year, nil
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// observe feeds day counts into the metrics. err is the joined per-day
// failure error of a batch, or the error of a single day.
func (h *Handlers) observe(computed int, err error) {
	if h.metrics == nil {
		return
	}
	h.metrics.ObserveDays(computed, countErrors(err))
}

func countErrors(err error) int {
	if err == nil {
		return 0
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return len(joined.Unwrap())
	}
	return 1
}

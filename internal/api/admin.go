package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/coptic-calendar-api/internal/calendar"
	"github.com/zapponejosh/coptic-calendar-api/internal/database"
	"github.com/zapponejosh/coptic-calendar-api/internal/logger"
)

// requireStore writes a 503 when no snapshot store is configured.
func (h *Handlers) requireStore(w http.ResponseWriter) bool {
	if h.db == nil {
		WriteServiceUnavailable(w, "Snapshot store is disabled", "SNAPSHOTS_DISABLED")
		return false
	}
	return true
}

// ListSnapshots handles GET /api/v1/admin/snapshots
func (h *Handlers) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}

	snaps, err := h.db.ListSnapshots(r.Context())
	if err != nil {
		logger.Error(r.Context(), "failed to list snapshots", err)
		WriteInternalError(w, "Failed to list snapshots")
		return
	}

	WriteSuccess(w, map[string]any{
		"dataset_version": h.ds.Version,
		"snapshots":       snaps,
	})
}

// CreateSnapshot handles POST /api/v1/admin/snapshots/{year}?lang=
//
// It computes the year with the loaded dataset and stores it, replacing any
// earlier snapshot for the same year and language.
func (h *Handlers) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.requireStore(w) {
		return
	}

	lang, ok := h.lang(w, r)
	if !ok {
		return
	}

	year, err := parseYear(chi.URLParam(r, "year"))
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	records, err := calendar.BuildYearCache(h.ds, year, lang)
	h.observe(len(records), err)
	logger.WarnEach(ctx, "day left out of snapshot", err, slog.Int("year", year))

	days, err := json.Marshal(records)
	if err != nil {
		logger.Error(ctx, "failed to encode snapshot", err)
		WriteInternalError(w, "Failed to encode snapshot")
		return
	}

	snap := &database.Snapshot{
		Year:           year,
		Lang:           lang,
		DatasetVersion: h.ds.Version,
		DayCount:       len(records),
		Days:           days,
		CreatedAt:      h.now().UTC(),
	}
	if err := h.db.SaveSnapshot(ctx, snap); err != nil {
		logger.Error(ctx, "failed to save snapshot", err, slog.Int("year", year))
		WriteInternalError(w, "Failed to save snapshot")
		return
	}

	logger.Info(ctx, "snapshot stored",
		slog.Int("year", year),
		slog.String("lang", lang),
		slog.Int("days", len(records)),
	)

	WriteCreated(w, database.SnapshotInfo{
		Year:           snap.Year,
		Lang:           snap.Lang,
		DatasetVersion: snap.DatasetVersion,
		DayCount:       snap.DayCount,
		CreatedAt:      snap.CreatedAt,
	})
}

// ListImports handles GET /api/v1/admin/imports?limit=
func (h *Handlers) ListImports(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}

	limit, err := intParam(r.URL.Query().Get("limit"), 10)
	if err != nil || limit < 1 || limit > 100 {
		WriteBadRequest(w, "limit must be an integer between 1 and 100")
		return
	}

	imports, err := h.db.GetRecentImports(r.Context(), limit)
	if err != nil {
		logger.Error(r.Context(), "failed to list imports", err)
		WriteInternalError(w, "Failed to list imports")
		return
	}

	WriteSuccess(w, imports)
}

// DeleteSnapshot handles DELETE /api/v1/admin/snapshots/{year}?lang=
func (h *Handlers) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}

	lang, ok := h.lang(w, r)
	if !ok {
		return
	}

	year, err := parseYear(chi.URLParam(r, "year"))
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	if err := h.db.DeleteSnapshot(r.Context(), year, lang); err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, fmt.Sprintf("No snapshot for %d (%s)", year, lang))
			return
		}
		logger.Error(r.Context(), "failed to delete snapshot", err)
		WriteInternalError(w, "Failed to delete snapshot")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zapponejosh/coptic-calendar-api/internal/calendar"
	"github.com/zapponejosh/coptic-calendar-api/internal/database"
	"github.com/zapponejosh/coptic-calendar-api/internal/dataset"
	"github.com/zapponejosh/coptic-calendar-api/internal/locale"
	"github.com/zapponejosh/coptic-calendar-api/internal/logger"
)

// yearCache is the on-disk layout of a precomputed year.
type yearCache struct {
	Year           int                  `json:"year"`
	Lang           string               `json:"lang"`
	DatasetVersion string               `json:"dataset_version"`
	GeneratedAt    time.Time            `json:"generated_at"`
	Days           []calendar.DayRecord `json:"days"`
}

func cacheFileName(year int, lang string) string {
	return fmt.Sprintf("year_%d_%s.json", year, lang)
}

func newCacheCmd(opts *rootOptions) *cobra.Command {
	var (
		year   int
		langs  []string
		outDir string
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Precompute every day of a civil year",
		Long: "Writes year_<year>_<lang>.json per language into --out. With --db the\n" +
			"snapshots are also stored where the API server serves them from.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			codes := make([]string, 0, len(langs))
			for _, l := range langs {
				code, err := locale.Parse(l)
				if err != nil {
					return err
				}
				codes = append(codes, code)
			}

			ds, err := opts.load()
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			caches := make([]yearCache, len(codes))
			g := new(errgroup.Group)
			for i, lang := range codes {
				i, lang := i, lang
				g.Go(func() error {
					c, err := buildCache(ds, year, lang, opts.log)
					if err != nil {
						return err
					}
					caches[i] = c
					return writeCache(filepath.Join(outDir, cacheFileName(year, lang)), c)
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			for _, c := range caches {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d days)\n",
					filepath.Join(outDir, cacheFileName(c.Year, c.Lang)), len(c.Days))
			}

			if dbPath == "" {
				return nil
			}

			db, err := database.Open(database.DefaultConfig(dbPath), opts.log)
			if err != nil {
				return err
			}
			defer db.Close()

			if _, err := db.Migrate(ctx); err != nil {
				return err
			}
			for _, c := range caches {
				days, err := json.Marshal(c.Days)
				if err != nil {
					return fmt.Errorf("encode snapshot: %w", err)
				}
				if err := db.SaveSnapshot(ctx, &database.Snapshot{
					Year:           c.Year,
					Lang:           c.Lang,
					DatasetVersion: c.DatasetVersion,
					DayCount:       len(c.Days),
					Days:           days,
				}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "stored snapshot %d/%s in %s\n", c.Year, c.Lang, dbPath)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "civil year to compute (required)")
	cmd.Flags().StringSliceVar(&langs, "lang", []string{locale.Base}, "languages to render, comma separated")
	cmd.Flags().StringVar(&outDir, "out", "cache", "output directory")
	cmd.Flags().StringVar(&dbPath, "db", "", "also store the snapshots in this SQLite database")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

// buildCache computes a year. Days that cannot be computed are logged and
// left out.
func buildCache(ds *dataset.Master, year int, lang string, log *slog.Logger) (yearCache, error) {
	if year < 1583 || year > 9999 {
		return yearCache{}, fmt.Errorf("year %d out of range 1583-9999", year)
	}

	days, err := calendar.BuildYearCache(ds, year, lang)
	logger.WarnEach(context.Background(), "day left out of cache", err)

	log.Info("year computed",
		slog.Int("year", year),
		slog.String("lang", lang),
		slog.Int("days", len(days)),
	)

	return yearCache{
		Year:           year,
		Lang:           lang,
		DatasetVersion: ds.Version,
		GeneratedAt:    time.Now().UTC(),
		Days:           days,
	}, nil
}

func writeCache(path string, c yearCache) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

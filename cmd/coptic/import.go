package main

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/coptic-calendar-api/internal/database"
	"github.com/zapponejosh/coptic-calendar-api/internal/dataset"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load the master dataset into the SQLite store",
		Long: "Creates or migrates the database, then upserts feasts, saints,\n" +
			"commemorations, fasting periods and Paramon rules in one transaction.\n" +
			"Re-running it with the same data is harmless.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			ds, err := opts.load()
			if err != nil {
				return err
			}

			db, err := database.Open(database.DefaultConfig(dbPath), opts.log)
			if err != nil {
				return err
			}
			defer db.Close()

			if _, err := db.Migrate(ctx); err != nil {
				return err
			}

			stats, err := db.ImportMaster(ctx, ds)
			if err != nil {
				return err
			}

			if err := verifyCommemorations(ctx, db, ds, opts.log); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"imported %s: %d feasts, %d saints, %d commemorations, %d fasting periods, %d paramon rules\n",
				ds.Version, stats.Feasts, stats.Saints, stats.Commemorations,
				stats.FastingPeriods, stats.ParamonRules)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "data/coptic.db", "SQLite database path")
	return cmd
}

// verifyCommemorations reads every commemoration back and compares it with
// the dataset listing.
func verifyCommemorations(ctx context.Context, db *database.DB, ds *dataset.Master, log *slog.Logger) error {
	for _, c := range ds.Commemorations {
		ids, err := db.CommemorationIDs(ctx, c.CopticDay, c.CopticMonth)
		if err != nil {
			return err
		}
		if !slices.Equal(ids, c.Saints) {
			return fmt.Errorf("commemoration %d/%d: stored %v, want %v", c.CopticDay, c.CopticMonth, ids, c.Saints)
		}
	}

	log.Debug("commemorations verified", slog.Int("days", len(ds.Commemorations)))
	return nil
}

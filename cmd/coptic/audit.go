package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/coptic-calendar-api/internal/calendar"
	"github.com/zapponejosh/coptic-calendar-api/internal/dataset"
)

// errCritical makes the process exit non-zero after a failed audit.
var errCritical = errors.New("audit found critical problems")

func newAuditCmd(opts *rootOptions) *cobra.Command {
	var from, to int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check the master dataset for integrity problems",
		Long: "Reports duplicate ids and codes, dangling commemorations, schema\n" +
			"violations and Coptic dates that cannot be placed in the given years.\n" +
			"Exits non-zero when any critical problem is found.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if from > to {
				return fmt.Errorf("--from %d is after --to %d", from, to)
			}

			// Read without validation so every problem gets reported.
			raw, err := dataset.ReadRaw(opts.data)
			if err != nil {
				return err
			}

			report := auditDataset(dataset.New(raw), from, to)

			out := cmd.OutOrStdout()
			for _, c := range report.Critical {
				fmt.Fprintf(out, "CRITICAL %s\n", c)
			}
			for _, w := range report.Warnings {
				fmt.Fprintf(out, "WARNING  %s\n", w)
			}
			fmt.Fprintf(out, "%d critical, %d warnings\n", len(report.Critical), len(report.Warnings))

			opts.log.Info("audit finished",
				slog.String("path", opts.data),
				slog.Int("critical", len(report.Critical)),
				slog.Int("warnings", len(report.Warnings)),
			)

			if !report.OK() {
				return errCritical
			}
			return nil
		},
	}

	year := time.Now().Year()
	cmd.Flags().IntVar(&from, "from", year, "first civil year to check boundaries in")
	cmd.Flags().IntVar(&to, "to", year+10, "last civil year to check boundaries in")
	return cmd
}

// auditDataset runs the data checks plus the boundary checks for every year
// in [from, to].
func auditDataset(ds *dataset.Master, from, to int) *dataset.Report {
	report := dataset.Audit(ds)
	for y := from; y <= to; y++ {
		for _, err := range calendar.CheckBoundaries(ds, y) {
			report.Critical = append(report.Critical, fmt.Sprintf("%d: %v", y, err))
		}
	}
	return report
}

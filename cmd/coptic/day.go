package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/coptic-calendar-api/internal/calendar"
	"github.com/zapponejosh/coptic-calendar-api/internal/locale"
	"github.com/zapponejosh/coptic-calendar-api/internal/logger"
)

func newDayCmd(opts *rootOptions) *cobra.Command {
	var (
		date        string
		lang        string
		days        int
		wrapPeriods bool
	)

	cmd := &cobra.Command{
		Use:   "day",
		Short: "Print the liturgical record of a date as JSON",
		Example: "  coptic day --date 2025-01-07 --lang fr\n" +
			"  coptic day --date 2025-04-13 --days 8\n" +
			"  coptic day --date 2025-12-10 --wrap-periods",
		RunE: func(cmd *cobra.Command, _ []string) error {
			code, err := locale.Parse(lang)
			if err != nil {
				return err
			}

			start := calendar.Truncate(time.Now())
			if date != "" {
				if start, err = calendar.ParseDateString(date); err != nil {
					return err
				}
			}

			ds, err := opts.load()
			if err != nil {
				return err
			}

			var calOpts []calendar.Option
			if wrapPeriods {
				calOpts = append(calOpts, calendar.WithWrappedPeriods())
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			if days <= 1 {
				rec, err := calendar.BuildDay(ds, start, code, calOpts...)
				if err != nil {
					return err
				}
				return enc.Encode(rec)
			}

			recs, err := calendar.BuildRange(ds, start, days, code, calOpts...)
			logger.WarnEach(context.Background(), "day skipped", err)
			return enc.Encode(recs)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Gregorian date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&lang, "lang", locale.Base, "display language")
	cmd.Flags().IntVar(&days, "days", 1, "number of consecutive days to print")
	cmd.Flags().BoolVar(&wrapPeriods, "wrap-periods", false, "also match fasting periods that straddle the civil year")
	return cmd
}

// Command coptic is the operator CLI for the calendar: it audits and imports
// the master dataset, precomputes year snapshots and prints single days.
//
// Usage:
//
//	coptic audit --data data/master_data.json --from 2020 --to 2040
//	coptic import --db data/coptic.db
//	coptic cache --year 2025 --lang ar,fr --out cache
//	coptic day --date 2025-01-07 --lang en
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/coptic-calendar-api/internal/config"
	"github.com/zapponejosh/coptic-calendar-api/internal/dataset"
	"github.com/zapponejosh/coptic-calendar-api/internal/logger"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	data      string
	logLevel  string
	logFormat string

	log *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "coptic",
		Short:         "Operator tooling for the Coptic calendar dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// Logs go to stderr; stdout carries command output.
			opts.log = logger.SetupWriter(&config.Config{
				LogLevel:  opts.logLevel,
				LogFormat: opts.logFormat,
			}, cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.data, "data", "data/master_data.json", "master dataset (JSON or YAML)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "text", "text or json")

	root.AddCommand(
		newAuditCmd(opts),
		newImportCmd(opts),
		newCacheCmd(opts),
		newDayCmd(opts),
	)
	return root
}

// load reads and validates the master dataset.
func (o *rootOptions) load() (*dataset.Master, error) {
	ds, err := dataset.Load(o.data)
	if err != nil {
		return nil, err
	}
	o.log.Debug("master data loaded",
		slog.String("path", o.data),
		slog.String("version", ds.Version),
	)
	return ds, nil
}

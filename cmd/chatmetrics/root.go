package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/you/chatmetrics/internal/config"
)

type rootFlags struct {
	configFile string
	logLevel   string

	transcript string
	collection string
	database   string

	window         string
	from           string
	to             string
	excludeDeleted bool
}

var flags rootFlags

var cfg config.Config

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "chatmetrics",
		Short:         "Parse exported chat transcripts and compute activity statistics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(flags.logLevel)
			if err != nil {
				return err
			}
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).Level(level)

			cfg = config.Load()
			if flags.configFile != "" {
				if err := cfg.MergeFile(flags.configFile); err != nil {
					return err
				}
			}
			log.Debug().RawJSON("config", cfg.SummaryJSON()).Msg("configuration loaded")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "Path to YAML config file")
	pf.StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVarP(&flags.transcript, "file", "f", "", "Path to exported transcript text")
	pf.StringVar(&flags.collection, "collection", "", "Path to a saved JSON message collection")
	pf.StringVar(&flags.database, "db", "", "Path to a SQLite message store")
	pf.StringVar(&flags.window, "window", "total", "Time window (total, last_year, last_month, last_week, last_day)")
	pf.StringVar(&flags.from, "from", "", "Custom window start (RFC3339)")
	pf.StringVar(&flags.to, "to", "", "Custom window end (RFC3339)")
	pf.BoolVar(&flags.excludeDeleted, "exclude-deleted", false, "Exclude deleted messages from the window")

	root.AddCommand(
		newParseCmd(),
		newStatsCmd(),
		newRankingsCmd(),
		newActivityCmd(),
		newHeatmapCmd(),
		newTrendingCmd(),
		newCompareCmd(),
		newWatchCmd(),
		newVersionCmd(),
	)
	return root
}

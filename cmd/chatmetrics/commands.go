package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/you/chatmetrics/internal/report"
	"github.com/you/chatmetrics/internal/stats"
	"github.com/you/chatmetrics/internal/store"
	"github.com/you/chatmetrics/internal/version"
)

func newParseCmd() *cobra.Command {
	var (
		outJSON string
		outDB   string
	)
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a transcript and persist the message collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs, err := loadMessages()
			if err != nil {
				return err
			}
			log.Info().Int("messages", len(msgs)).Msg("parsed collection")

			if outJSON != "" {
				if err := store.SaveJSON(outJSON, msgs); err != nil {
					return err
				}
				log.Info().Str("path", outJSON).Msg("wrote JSON collection")
			}
			if outDB != "" {
				db, err := store.OpenSQLite(outDB)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := db.Replace(context.Background(), msgs); err != nil {
					return err
				}
				log.Info().Str("path", outDB).Msg("wrote SQLite collection")
			}
			if outJSON == "" && outDB == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "parsed %d messages\n", len(msgs))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outJSON, "out", "o", "", "Write the collection to a JSON file")
	cmd.Flags().StringVar(&outDB, "out-db", "", "Write the collection to a SQLite store")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [author]",
		Short: "Overall statistics for the window, or one author's statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs, err := loadMessages()
			if err != nil {
				return err
			}
			w, err := windowFromFlags()
			if err != nil {
				return err
			}
			engine := newEngine(msgs)

			if len(args) == 1 {
				us, err := engine.GetUserStats(args[0], w)
				if errors.Is(err, stats.ErrUserNotFound) {
					return errors.Errorf("no data for %q in this window", args[0])
				}
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), report.FormatUser(us))
				return nil
			}

			overall, err := engine.GetOverallStats(w)
			if errors.Is(err, stats.ErrEmptyWindow) {
				return errors.New("no data in this window")
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.FormatOverall(overall))
			return nil
		},
	}
}

func newRankingsCmd() *cobra.Command {
	var (
		by    string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "rankings",
		Short: "Rank authors by message count, points or activity score",
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs, err := loadMessages()
			if err != nil {
				return err
			}
			w, err := windowFromFlags()
			if err != nil {
				return err
			}
			rt, err := rankingTypeFrom(by)
			if err != nil {
				return err
			}
			entries := newEngine(msgs).GetRankings(stats.RankingConfig{Window: w, Type: rt, Limit: limit})
			fmt.Fprint(cmd.OutOrStdout(), report.FormatRankings(entries, rt))
			return nil
		},
	}
	cmd.Flags().StringVar(&by, "by", "message_count", "Ranking type (message_count, message_points, activity_score)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum entries (0 = all)")
	return cmd
}

func newActivityCmd() *cobra.Command {
	var by string
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Classify authors into activity categories over the last four weeks",
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs, err := loadMessages()
			if err != nil {
				return err
			}
			rt, err := rankingTypeFrom(by)
			if err != nil {
				return err
			}
			results := newEngine(msgs).CheckActivity(rt)
			opts := report.Options{
				ExcludeAuthors: cfg.Report.ExcludeAuthors,
				RenameAuthors:  cfg.Report.RenameAuthors,
			}
			fmt.Fprint(cmd.OutOrStdout(), report.FormatActivityReport(results, rt, opts))
			return nil
		},
	}
	cmd.Flags().StringVar(&by, "by", "message_count", "Ranking type (message_count, message_points, activity_score)")
	return cmd
}

func newHeatmapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "heatmap",
		Short: "Raw activity histograms for the window",
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs, err := loadMessages()
			if err != nil {
				return err
			}
			w, err := windowFromFlags()
			if err != nil {
				return err
			}
			hm := newEngine(msgs).GetActivityHeatmap(w)
			fmt.Fprint(cmd.OutOrStdout(), report.FormatHeatmap(hm))
			return nil
		},
	}
}

func newTrendingCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Most frequent words across text messages in the window",
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs, err := loadMessages()
			if err != nil {
				return err
			}
			w, err := windowFromFlags()
			if err != nil {
				return err
			}
			topics := newEngine(msgs).GetTrendingTopics(w, limit)
			fmt.Fprint(cmd.OutOrStdout(), report.FormatTrending(topics))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum words")
	return cmd
}

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <window-a> <window-b>",
		Short: "Compare overall stats between two named windows",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs, err := loadMessages()
			if err != nil {
				return err
			}
			a, err := namedWindow(args[0])
			if err != nil {
				return err
			}
			b, err := namedWindow(args[1])
			if err != nil {
				return err
			}
			cs, err := newEngine(msgs).GetComparativeStats(a, b)
			if errors.Is(err, stats.ErrEmptyWindow) {
				return errors.New("no data in one of the windows")
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.FormatComparative(cs))
			return nil
		},
	}
	return cmd
}

func namedWindow(name string) (stats.Window, error) {
	switch name {
	case "total", "last_year", "last_month", "last_week", "last_day":
		return stats.Window{Kind: stats.WindowKind(name), ExcludeDeleted: flags.excludeDeleted}, nil
	default:
		return stats.Window{}, errors.Errorf("unknown window %q", name)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "chatmetrics %s (commit %s, built %s)\n",
				version.Version, version.Commit, version.BuildTime)
		},
	}
}

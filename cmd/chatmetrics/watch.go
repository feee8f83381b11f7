package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/you/chatmetrics/internal/core"
	"github.com/you/chatmetrics/internal/metrics"
	"github.com/you/chatmetrics/internal/pipeline"
	"github.com/you/chatmetrics/internal/report"
	"github.com/you/chatmetrics/internal/stats"
)

func newWatchCmd() *cobra.Command {
	var (
		metricsAddr string
		minInterval time.Duration
		by          string
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-parse the transcript on change and print refreshed rankings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.transcript == "" {
				return errors.New("watch requires --file")
			}
			rt, err := rankingTypeFrom(by)
			if err != nil {
				return err
			}

			m := metrics.New()
			if metricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", m.Handler())
				srv := &http.Server{Addr: metricsAddr, Handler: mux}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error().Err(err).Msg("metrics listener failed")
					}
				}()
				defer srv.Shutdown(context.Background())
				log.Info().Str("addr", metricsAddr).Msg("serving metrics")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			popts := parseOptions()
			popts.Metrics = m
			wopts := pipeline.WatchOptions{Parse: popts, MinInterval: minInterval}

			onUpdate := func(msgs []core.Message) {
				engine := stats.New(msgs,
					stats.WithWeights(scoringWeights()),
					stats.WithObserver(m),
				)
				entries := engine.GetRankings(stats.RankingConfig{Type: rt, Limit: 10})
				fmt.Fprint(cmd.OutOrStdout(), report.FormatRankings(entries, rt))
			}

			return pipeline.Watch(ctx, flags.transcript, wopts, onUpdate)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Expose Prometheus metrics on this address")
	cmd.Flags().DurationVar(&minInterval, "min-interval", 2*time.Second, "Minimum delay between re-parses")
	cmd.Flags().StringVar(&by, "by", "message_count", "Ranking type for the refreshed report")
	return cmd
}

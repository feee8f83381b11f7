package main

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/you/chatmetrics/internal/core"
	"github.com/you/chatmetrics/internal/pipeline"
	"github.com/you/chatmetrics/internal/score"
	"github.com/you/chatmetrics/internal/stats"
	"github.com/you/chatmetrics/internal/store"
)

// loadMessages resolves the input source in precedence order: raw
// transcript, saved JSON collection, SQLite store.
func loadMessages() ([]core.Message, error) {
	switch {
	case flags.transcript != "":
		data, err := os.ReadFile(flags.transcript)
		if err != nil {
			return nil, errors.Wrap(err, "read transcript")
		}
		return pipeline.Parse(string(data), parseOptions()), nil
	case flags.collection != "":
		return store.LoadJSON(flags.collection)
	case flags.database != "":
		db, err := store.OpenSQLite(flags.database)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return db.Load(context.Background())
	default:
		return nil, errors.New("no input: pass --file, --collection or --db")
	}
}

func parseOptions() pipeline.Options {
	return pipeline.Options{
		SelfNames:       cfg.SelfNames,
		ExcludedAuthors: cfg.ExcludedAuthors,
	}
}

func scoringWeights() score.Weights {
	weights := score.DefaultWeights()
	weights.MinPoints = cfg.Scoring.MinPoints
	weights.MaxPoints = cfg.Scoring.MaxPoints
	return weights
}

func newEngine(msgs []core.Message) *stats.Engine {
	return stats.New(msgs, stats.WithWeights(scoringWeights()))
}

// windowFromFlags maps the --window/--from/--to flags onto a Window.
func windowFromFlags() (stats.Window, error) {
	if flags.from != "" || flags.to != "" {
		if flags.from == "" || flags.to == "" {
			return stats.Window{}, errors.New("--from and --to must be given together")
		}
		start, err := time.Parse(time.RFC3339, flags.from)
		if err != nil {
			return stats.Window{}, errors.Wrap(err, "parse --from")
		}
		end, err := time.Parse(time.RFC3339, flags.to)
		if err != nil {
			return stats.Window{}, errors.Wrap(err, "parse --to")
		}
		w := stats.Custom(start, end)
		w.ExcludeDeleted = flags.excludeDeleted
		return w, nil
	}

	switch flags.window {
	case "", "total":
		return stats.Window{Kind: stats.WindowTotal, ExcludeDeleted: flags.excludeDeleted}, nil
	case "last_year", "last_month", "last_week", "last_day":
		return stats.Window{Kind: stats.WindowKind(flags.window), ExcludeDeleted: flags.excludeDeleted}, nil
	default:
		return stats.Window{}, errors.Errorf("unknown window %q", flags.window)
	}
}

func rankingTypeFrom(raw string) (stats.RankingType, error) {
	switch raw {
	case "message_count", "count":
		return stats.RankByMessageCount, nil
	case "message_points", "points":
		return stats.RankByMessagePoints, nil
	case "activity_score", "activity":
		return stats.RankByActivityScore, nil
	default:
		return "", errors.Errorf("unknown ranking type %q", raw)
	}
}

package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/you/chatmetrics/internal/core"
)

// WatchOptions configures a watch loop. MinInterval bounds how often
// re-parses may run regardless of event frequency.
type WatchOptions struct {
	Parse       Options
	MinInterval time.Duration
}

// Watch re-parses path whenever it changes and hands each fresh
// collection to onUpdate. The initial parse runs before watching
// starts. Blocks until ctx is done.
func Watch(ctx context.Context, path string, opts WatchOptions, onUpdate func([]core.Message)) error {
	reparse := func() error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		onUpdate(Parse(string(data), opts.Parse))
		return nil
	}

	if err := reparse(); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(path); err != nil {
		return err
	}

	minInterval := opts.MinInterval
	if minInterval <= 0 {
		minInterval = time.Second
	}
	limiter := rate.NewLimiter(rate.Every(minInterval), 1)

	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			// Editors replace files on save; re-add so future writes
			// keep arriving.
			if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				if err := w.Add(ev.Name); err != nil {
					log.Error().Err(err).Str("path", ev.Name).Msg("watch re-add")
				}
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(250 * time.Millisecond)
			}
		case <-debounce.C:
			if !limiter.Allow() {
				debounce.Reset(minInterval)
				continue
			}
			opts.Parse.Metrics.IncReparses()
			if err := reparse(); err != nil {
				log.Error().Err(err).Str("path", path).Msg("re-parse failed")
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("watch error")
		}
	}
}

// Package stats aggregates classified messages into per-user and overall
// statistics, rankings, activity heatmaps and multi-week activity
// categories. Every query is a pure function of (collection, config) and
// is memoized; the cache resets wholesale when the collection changes.
//
// An Engine has one logical owner: concurrent mutating calls on the same
// instance are not supported.
package stats

import (
	"time"

	"github.com/pkg/errors"

	"github.com/you/chatmetrics/internal/core"
	"github.com/you/chatmetrics/internal/filter"
	"github.com/you/chatmetrics/internal/score"
)

// ErrUserNotFound reports a user-stats query for an author with no
// messages in the window. Distinct from zero activity: absent users must
// not rank.
var ErrUserNotFound = errors.New("stats: user not found in window")

// ErrEmptyWindow reports an overall-stats query over a window containing
// no messages. Callers present an explicit "no data" state instead of a
// zero-filled result.
var ErrEmptyWindow = errors.New("stats: no messages in window")

// CacheObserver receives cache hit/miss notifications, typically backed
// by Prometheus counters.
type CacheObserver interface {
	CacheHit()
	CacheMiss()
}

// Engine owns a message collection and a memoization cache over it.
type Engine struct {
	msgs       []core.Message
	weights    score.Weights
	activity   ActivityWeights
	thresholds map[RankingType]Thresholds
	now        func() time.Time
	observer   CacheObserver

	cache map[string]any
}

// Option customizes a new Engine.
type Option func(*Engine)

// WithWeights overrides the scoring table.
func WithWeights(w score.Weights) Option {
	return func(e *Engine) { e.weights = w }
}

// WithActivityWeights overrides the activity score blend.
func WithActivityWeights(w ActivityWeights) Option {
	return func(e *Engine) { e.activity = w }
}

// WithThresholds overrides the activity category cutoffs for one ranking type.
func WithThresholds(rt RankingType, t Thresholds) Option {
	return func(e *Engine) { e.thresholds[rt] = t }
}

// WithNow injects the clock used to resolve relative windows and streaks.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithObserver attaches a cache observer.
func WithObserver(obs CacheObserver) Option {
	return func(e *Engine) { e.observer = obs }
}

// New builds an Engine over the given collection.
func New(msgs []core.Message, opts ...Option) *Engine {
	e := &Engine{
		msgs:       msgs,
		weights:    score.DefaultWeights(),
		activity:   DefaultActivityWeights(),
		thresholds: DefaultThresholds(),
		now:        time.Now,
		cache:      make(map[string]any),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetMessages replaces the collection and invalidates the cache.
func (e *Engine) SetMessages(msgs []core.Message) {
	e.msgs = msgs
	e.InvalidateCache()
}

// Messages returns the underlying collection.
func (e *Engine) Messages() []core.Message { return e.msgs }

// InvalidateCache drops every memoized result. There is no partial
// invalidation; any change to the input invalidates everything.
func (e *Engine) InvalidateCache() {
	e.cache = make(map[string]any)
}

// CacheLen reports the number of memoized entries.
func (e *Engine) CacheLen() int { return len(e.cache) }

// cached runs compute under the memoization table.
func cached[T any](e *Engine, key string, compute func() T) T {
	if v, ok := e.cache[key]; ok {
		if e.observer != nil {
			e.observer.CacheHit()
		}
		return v.(T)
	}
	if e.observer != nil {
		e.observer.CacheMiss()
	}
	v := compute()
	e.cache[key] = v
	return v
}

// GetFilteredData resolves a window into concrete bounds and returns the
// matching messages in original order. The result is cached.
func (e *Engine) GetFilteredData(w Window) []core.Message {
	return cached(e, "filtered|"+w.key(), func() []core.Message {
		var pred filter.And
		if start, end, ok := w.bounds(e.now()); ok {
			pred = append(pred,
				filter.Field{Path: "timestamp", Op: filter.OpGte, Value: start},
				filter.Field{Path: "timestamp", Op: filter.OpLte, Value: end},
			)
		}
		if w.ExcludeDeleted {
			pred = append(pred, filter.Field{
				Path: "message.status", Op: filter.OpNe, Value: string(core.StatusDeleted),
			})
		}
		return filter.Evaluate(e.msgs, pred)
	})
}

// Score exposes the engine's scoring of one message.
func (e *Engine) Score(msg core.Message) float64 {
	return score.Score(msg, e.weights)
}

// allAuthors enumerates every author ever seen, unfiltered, in first
// appearance order.
func (e *Engine) allAuthors() []string {
	seen := make(map[string]struct{}, 16)
	var out []string
	for _, msg := range e.msgs {
		if _, ok := seen[msg.Author]; ok {
			continue
		}
		seen[msg.Author] = struct{}{}
		out = append(out, msg.Author)
	}
	return out
}

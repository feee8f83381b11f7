package stats

import (
	"fmt"
	"time"
)

// WindowKind names the supported time window variants.
type WindowKind string

const (
	WindowTotal     WindowKind = "total"
	WindowLastYear  WindowKind = "last_year"
	WindowLastMonth WindowKind = "last_month"
	WindowLastWeek  WindowKind = "last_week"
	WindowLastDay   WindowKind = "last_day"
	WindowCustom    WindowKind = "custom"
)

// Window scopes a query to a time range. Start/End are only consulted
// for WindowCustom. The zero value is the unbounded window including
// deleted messages.
type Window struct {
	Kind           WindowKind
	Start          time.Time
	End            time.Time
	ExcludeDeleted bool
}

// Total is the unbounded window.
func Total() Window { return Window{Kind: WindowTotal} }

// Custom bounds a window to [start, end].
func Custom(start, end time.Time) Window {
	return Window{Kind: WindowCustom, Start: start, End: end}
}

// key serializes the window deterministically for cache lookups.
func (w Window) key() string {
	kind := w.Kind
	if kind == "" {
		kind = WindowTotal
	}
	return fmt.Sprintf("kind=%s,start=%d,end=%d,nodel=%t",
		kind, w.Start.UnixNano(), w.End.UnixNano(), w.ExcludeDeleted)
}

// bounds resolves the window to concrete instants relative to now. The
// returned ok is false for the unbounded total window.
func (w Window) bounds(now time.Time) (start, end time.Time, ok bool) {
	switch w.Kind {
	case WindowLastYear:
		return now.AddDate(-1, 0, 0), now, true
	case WindowLastMonth:
		return now.AddDate(0, -1, 0), now, true
	case WindowLastWeek:
		return now.AddDate(0, 0, -7), now, true
	case WindowLastDay:
		return now.AddDate(0, 0, -1), now, true
	case WindowCustom:
		return w.Start, w.End, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// RankingType selects the value a ranking or activity check is built on.
type RankingType string

const (
	RankByMessageCount  RankingType = "message_count"
	RankByMessagePoints RankingType = "message_points"
	RankByActivityScore RankingType = "activity_score"
)

// ActivityWeights are the four blend weights plus the decay factor of
// the composite activity score.
type ActivityWeights struct {
	MessageWeight   float64
	PointWeight     float64
	RecencyWeight   float64
	DayBonus        float64
	TimeDecayFactor float64
}

// DefaultActivityWeights returns the stock 0.4/0.4/0.1/0.2 blend.
func DefaultActivityWeights() ActivityWeights {
	return ActivityWeights{
		MessageWeight:   0.4,
		PointWeight:     0.4,
		RecencyWeight:   0.1,
		DayBonus:        0.2,
		TimeDecayFactor: 0.05,
	}
}

// ActivityCategory is one of the five weighted-average tiers.
type ActivityCategory string

const (
	CategorySuperActive ActivityCategory = "Super Active"
	CategoryActive      ActivityCategory = "Active"
	CategoryModerate    ActivityCategory = "Moderate"
	CategoryNotActive   ActivityCategory = "Not Active"
	CategoryRedZone     ActivityCategory = "Red Zone"
)

// Thresholds are four descending value cutoffs mapping a weighted
// average to a category.
type Thresholds [4]float64

// DefaultThresholds returns the per-ranking-type cutoff table.
func DefaultThresholds() map[RankingType]Thresholds {
	return map[RankingType]Thresholds{
		RankByMessageCount:  {35, 20, 10, 3},
		RankByMessagePoints: {60, 35, 18, 6},
		RankByActivityScore: {50, 30, 15, 5},
	}
}

// Categorize maps a weighted average onto a category.
func (t Thresholds) Categorize(value float64) ActivityCategory {
	switch {
	case value >= t[0]:
		return CategorySuperActive
	case value >= t[1]:
		return CategoryActive
	case value >= t[2]:
		return CategoryModerate
	case value >= t[3]:
		return CategoryNotActive
	default:
		return CategoryRedZone
	}
}

// Package score assigns each classified message a bounded point value.
package score

import (
	"github.com/you/chatmetrics/internal/core"
)

// Weights holds every tunable of the scoring model. Kept table-driven so
// report layers can display or adjust the rates without touching the
// formula.
type Weights struct {
	MinPoints    float64
	MaxPoints    float64
	DeletedValue float64

	BaseWeight map[core.MessageType]float64

	// Text / generic content bonuses.
	PerCharRate    float64
	TextLengthCap  int
	OtherRate      float64
	OtherLengthCap int

	// Poll bonuses.
	PerOptionRate  float64
	QuestionCap    int
	// Call bonuses.
	PerMinuteRate      float64
	PerParticipantRate float64
	MissedPenalty      float64

	EditedMultiplier float64
}

// DefaultWeights returns the stock scoring table. Text scores lowest of
// the content types, contact cards lowest of all.
func DefaultWeights() Weights {
	return Weights{
		MinPoints:    0.5,
		MaxPoints:    10.0,
		DeletedValue: 0.5,
		BaseWeight: map[core.MessageType]float64{
			core.TypeText:      1.0,
			core.TypeImage:     2.0,
			core.TypeVideo:     3.0,
			core.TypeVideoNote: 2.5,
			core.TypeAudio:     2.0,
			core.TypeDocument:  2.0,
			core.TypeSticker:   1.5,
			core.TypeContact:   0.8,
			core.TypeGIF:       1.5,
			core.TypeCall:      2.5,
			core.TypePoll:      3.0,
		},
		PerCharRate:        0.005,
		TextLengthCap:      500,
		OtherRate:          0.002,
		OtherLengthCap:     200,
		PerOptionRate:      0.5,
		QuestionCap:        200,
		PerMinuteRate:      0.1,
		PerParticipantRate: 0.25,
		MissedPenalty:      1.0,
		EditedMultiplier:   1.1,
	}
}

// Score computes the point value of one message, clamped to
// [MinPoints, MaxPoints]. Deleted messages short-circuit to the fixed
// deleted value regardless of type.
func Score(msg core.Message, w Weights) float64 {
	info := msg.Message
	if info.Status == core.StatusDeleted {
		return w.DeletedValue
	}

	value := w.BaseWeight[info.Type] + bonus(info, w)
	if info.Status == core.StatusEdited {
		value *= w.EditedMultiplier
	}
	return clamp(value, w.MinPoints, w.MaxPoints)
}

func bonus(info core.ContentInfo, w Weights) float64 {
	switch info.Type {
	case core.TypeText:
		return float64(min(len(info.Text()), w.TextLengthCap)) * w.PerCharRate
	case core.TypePoll:
		if info.Poll == nil {
			return 0
		}
		b := float64(len(info.Poll.Options)) * w.PerOptionRate
		b += float64(min(len(info.Poll.Question), w.QuestionCap)) * w.PerCharRate
		return b
	case core.TypeCall:
		if info.Call == nil {
			return 0
		}
		var b float64
		if info.Call.DurationSecs != nil {
			b += float64(*info.Call.DurationSecs) / 60.0 * w.PerMinuteRate
		}
		if info.Call.Joined != nil {
			b += float64(*info.Call.Joined) * w.PerParticipantRate
		}
		if info.Call.Missed != nil && *info.Call.Missed {
			b -= w.MissedPenalty
		}
		return b
	default:
		return float64(min(len(info.Text()), w.OtherLengthCap)) * w.OtherRate
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

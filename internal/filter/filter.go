// Package filter evaluates declarative predicate trees over message
// collections. A node is either a field comparison or a logical
// combinator; evaluation is a stable filter that preserves the relative
// order of the input.
package filter

import (
	"strings"
	"time"

	"github.com/you/chatmetrics/internal/core"
)

// Op is a field comparison operator.
type Op string

const (
	OpEq       Op = "eq"
	OpNe       Op = "ne"
	OpIn       Op = "in"
	OpGt       Op = "gt"
	OpGte      Op = "gte"
	OpLt       Op = "lt"
	OpLte      Op = "lte"
	OpContains Op = "contains"
	OpPrefix   Op = "prefix"
	OpSuffix   Op = "suffix"
)

// Node is one predicate in the tree.
type Node interface {
	Matches(msg core.Message) bool
}

// Field compares one message field against a literal value. Paths:
// author, timestamp, message.type, message.content, message.status,
// message.mentions, message.call.{type,missed,duration,joined},
// message.poll.{question,options}. A path through a nil call/poll never
// matches.
type Field struct {
	Path  string
	Op    Op
	Value any
}

// And is true when every child is true. An empty And is true.
type And []Node

// Or is true when any child is true. An empty Or is false.
type Or []Node

// Not negates its child.
type Not struct {
	Node Node
}

// Evaluate returns the messages matching the predicate, in input order.
func Evaluate(msgs []core.Message, pred Node) []core.Message {
	if pred == nil {
		return msgs
	}
	out := make([]core.Message, 0, len(msgs))
	for _, msg := range msgs {
		if pred.Matches(msg) {
			out = append(out, msg)
		}
	}
	return out
}

func (a And) Matches(msg core.Message) bool {
	for _, n := range a {
		if !n.Matches(msg) {
			return false
		}
	}
	return true
}

func (o Or) Matches(msg core.Message) bool {
	for _, n := range o {
		if n.Matches(msg) {
			return true
		}
	}
	return false
}

func (n Not) Matches(msg core.Message) bool {
	return !n.Node.Matches(msg)
}

func (f Field) Matches(msg core.Message) bool {
	switch f.Path {
	case "author":
		return matchString(msg.Author, f.Op, f.Value)
	case "timestamp":
		return matchTime(msg.Timestamp, f.Op, f.Value)
	case "message.type":
		return matchString(string(msg.Message.Type), f.Op, f.Value)
	case "message.content":
		return matchString(msg.Message.Text(), f.Op, f.Value)
	case "message.status":
		return matchString(string(msg.Message.Status), f.Op, f.Value)
	case "message.mentions":
		return matchList(msg.Message.Mentions, f.Op, f.Value)
	case "message.call.type":
		if msg.Message.Call == nil {
			return false
		}
		return matchString(string(msg.Message.Call.Type), f.Op, f.Value)
	case "message.call.missed":
		if msg.Message.Call == nil || msg.Message.Call.Missed == nil {
			return false
		}
		return matchBool(*msg.Message.Call.Missed, f.Op, f.Value)
	case "message.call.duration":
		if msg.Message.Call == nil || msg.Message.Call.DurationSecs == nil {
			return false
		}
		return matchNumber(float64(*msg.Message.Call.DurationSecs), f.Op, f.Value)
	case "message.call.joined":
		if msg.Message.Call == nil || msg.Message.Call.Joined == nil {
			return false
		}
		return matchNumber(float64(*msg.Message.Call.Joined), f.Op, f.Value)
	case "message.poll.question":
		if msg.Message.Poll == nil {
			return false
		}
		return matchString(msg.Message.Poll.Question, f.Op, f.Value)
	case "message.poll.options":
		if msg.Message.Poll == nil {
			return false
		}
		return matchNumber(float64(len(msg.Message.Poll.Options)), f.Op, f.Value)
	default:
		return false
	}
}

func matchString(got string, op Op, want any) bool {
	switch op {
	case OpIn:
		values, ok := want.([]string)
		if !ok {
			return false
		}
		for _, v := range values {
			if got == v {
				return true
			}
		}
		return false
	}

	w, ok := want.(string)
	if !ok {
		return false
	}
	switch op {
	case OpEq:
		return got == w
	case OpNe:
		return got != w
	case OpContains:
		return strings.Contains(got, w)
	case OpPrefix:
		return strings.HasPrefix(got, w)
	case OpSuffix:
		return strings.HasSuffix(got, w)
	case OpGt:
		return got > w
	case OpGte:
		return got >= w
	case OpLt:
		return got < w
	case OpLte:
		return got <= w
	default:
		return false
	}
}

func matchList(got []string, op Op, want any) bool {
	switch op {
	case OpContains, OpEq:
		w, ok := want.(string)
		if !ok {
			return false
		}
		for _, v := range got {
			if v == w {
				return true
			}
		}
		return false
	case OpIn:
		values, ok := want.([]string)
		if !ok {
			return false
		}
		for _, v := range got {
			for _, w := range values {
				if v == w {
					return true
				}
			}
		}
		return false
	case OpNe:
		return !matchList(got, OpEq, want)
	default:
		return false
	}
}

func matchBool(got bool, op Op, want any) bool {
	w, ok := want.(bool)
	if !ok {
		return false
	}
	switch op {
	case OpEq:
		return got == w
	case OpNe:
		return got != w
	default:
		return false
	}
}

func matchNumber(got float64, op Op, want any) bool {
	w, ok := toFloat(want)
	if !ok {
		return false
	}
	switch op {
	case OpEq:
		return got == w
	case OpNe:
		return got != w
	case OpGt:
		return got > w
	case OpGte:
		return got >= w
	case OpLt:
		return got < w
	case OpLte:
		return got <= w
	default:
		return false
	}
}

func matchTime(got time.Time, op Op, want any) bool {
	w, ok := want.(time.Time)
	if !ok {
		return false
	}
	switch op {
	case OpEq:
		return got.Equal(w)
	case OpNe:
		return !got.Equal(w)
	case OpGt:
		return got.After(w)
	case OpGte:
		return !got.Before(w)
	case OpLt:
		return got.Before(w)
	case OpLte:
		return !got.After(w)
	default:
		return false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

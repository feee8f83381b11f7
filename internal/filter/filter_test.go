package filter

import (
	"testing"
	"time"

	"github.com/you/chatmetrics/internal/core"
)

func fixture() []core.Message {
	ts := func(day, hour int) time.Time {
		return time.Date(2023, 5, day, hour, 0, 0, 0, time.Local)
	}
	return []core.Message{
		{
			Author:    "Alice",
			Timestamp: ts(1, 9),
			Message: core.ContentInfo{
				Type:     core.TypeText,
				Status:   core.StatusActive,
				Content:  core.StringPtr("good morning @bob"),
				Mentions: []string{"bob"},
			},
		},
		{
			Author:    "Bob",
			Timestamp: ts(1, 10),
			Message: core.ContentInfo{
				Type:   core.TypeImage,
				Status: core.StatusActive,
			},
		},
		{
			Author:    "Alice",
			Timestamp: ts(2, 20),
			Message: core.ContentInfo{
				Type:   core.TypeCall,
				Status: core.StatusActive,
				Call: &core.CallInfo{
					Type:         core.CallVideo,
					Missed:       core.BoolPtr(false),
					DurationSecs: core.IntPtr(120),
					Joined:       core.IntPtr(3),
				},
			},
		},
		{
			Author:    "Carol",
			Timestamp: ts(3, 8),
			Message: core.ContentInfo{
				Type:   core.TypeText,
				Status: core.StatusDeleted,
			},
		},
		{
			Author:    "Bob",
			Timestamp: ts(3, 9),
			Message: core.ContentInfo{
				Type:   core.TypePoll,
				Status: core.StatusActive,
				Poll: &core.PollInfo{
					Question: "Lunch?",
					Options: []core.PollOption{
						{Option: "Yes", Votes: 2},
						{Option: "No", Votes: 1},
					},
				},
			},
		},
	}
}

func authors(msgs []core.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Author
	}
	return out
}

func eqStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEvaluate(t *testing.T) {
	msgs := fixture()

	cases := []struct {
		name string
		pred Node
		want []string
	}{
		{
			name: "nil predicate passes everything through",
			pred: nil,
			want: []string{"Alice", "Bob", "Alice", "Carol", "Bob"},
		},
		{
			name: "author eq",
			pred: Field{Path: "author", Op: OpEq, Value: "Alice"},
			want: []string{"Alice", "Alice"},
		},
		{
			name: "author in",
			pred: Field{Path: "author", Op: OpIn, Value: []string{"Bob", "Carol"}},
			want: []string{"Bob", "Carol", "Bob"},
		},
		{
			name: "type ne text",
			pred: Field{Path: "message.type", Op: OpNe, Value: "text"},
			want: []string{"Bob", "Alice", "Bob"},
		},
		{
			name: "content contains",
			pred: Field{Path: "message.content", Op: OpContains, Value: "morning"},
			want: []string{"Alice"},
		},
		{
			name: "mentions contains",
			pred: Field{Path: "message.mentions", Op: OpContains, Value: "bob"},
			want: []string{"Alice"},
		},
		{
			name: "timestamp gte",
			pred: Field{Path: "timestamp", Op: OpGte, Value: time.Date(2023, 5, 2, 0, 0, 0, 0, time.Local)},
			want: []string{"Alice", "Carol", "Bob"},
		},
		{
			name: "call duration gt",
			pred: Field{Path: "message.call.duration", Op: OpGt, Value: 60},
			want: []string{"Alice"},
		},
		{
			name: "call path on non-call never matches",
			pred: Field{Path: "message.call.missed", Op: OpEq, Value: true},
			want: nil,
		},
		{
			name: "poll option count",
			pred: Field{Path: "message.poll.options", Op: OpGte, Value: 2},
			want: []string{"Bob"},
		},
		{
			name: "and intersects",
			pred: And{
				Field{Path: "author", Op: OpEq, Value: "Alice"},
				Field{Path: "message.type", Op: OpEq, Value: "text"},
			},
			want: []string{"Alice"},
		},
		{
			name: "or unions",
			pred: Or{
				Field{Path: "message.type", Op: OpEq, Value: "poll"},
				Field{Path: "message.type", Op: OpEq, Value: "call"},
			},
			want: []string{"Alice", "Bob"},
		},
		{
			name: "not negates",
			pred: Not{Field{Path: "message.status", Op: OpEq, Value: "deleted"}},
			want: []string{"Alice", "Bob", "Alice", "Bob"},
		},
		{
			name: "nested",
			pred: And{
				Not{Field{Path: "message.status", Op: OpEq, Value: "deleted"}},
				Or{
					Field{Path: "author", Op: OpEq, Value: "Bob"},
					Field{Path: "message.type", Op: OpEq, Value: "call"},
				},
			},
			want: []string{"Bob", "Alice", "Bob"},
		},
		{
			name: "empty and is true",
			pred: And{},
			want: []string{"Alice", "Bob", "Alice", "Carol", "Bob"},
		},
		{
			name: "empty or is false",
			pred: Or{},
			want: nil,
		},
		{
			name: "unknown path never matches",
			pred: Field{Path: "message.reactions", Op: OpEq, Value: "x"},
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := authors(Evaluate(msgs, tc.pred))
			if !eqStrings(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEvaluatePreservesOrder(t *testing.T) {
	msgs := fixture()
	got := Evaluate(msgs, Field{Path: "author", Op: OpNe, Value: ""})
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.Before(got[i-1].Timestamp) {
			t.Fatalf("order not preserved at %d: %v before %v", i, got[i].Timestamp, got[i-1].Timestamp)
		}
	}
	if len(got) != len(msgs) {
		t.Fatalf("got %d messages, want %d", len(got), len(msgs))
	}
}

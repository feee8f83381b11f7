package classify

import (
	"reflect"
	"testing"

	"github.com/you/chatmetrics/internal/core"
)

func TestClassifySystemMessages(t *testing.T) {
	cases := []string{
		"Alice joined",
		"Alice joined using this group's invite link",
		"Alice joined using this group's invite link.",
		"Alice left the group",
		"Bob added Carol",
		"Bob removed Carol",
		"Alice created this group",
		"Alice changed the group description",
		"Messages and calls are end-to-end encrypted. No one outside of this chat can read them.",
		"Bob changed their phone number. Tap to message.",
		"You're now an admin",
		"Carol was added",
		"Dana pinned a message",
	}
	for _, raw := range cases {
		if got := Classify(raw); got != nil {
			t.Fatalf("Classify(%q) = %+v, want nil", raw, got)
		}
	}
}

func TestClassifyText(t *testing.T) {
	got := Classify("hello @bob how are you")
	if got == nil {
		t.Fatal("Classify returned nil for plain text")
	}
	if got.Type != core.TypeText || got.Status != core.StatusActive {
		t.Fatalf("got type=%s status=%s, want text/active", got.Type, got.Status)
	}
	if got.Content == nil || *got.Content != "hello @bob how are you" {
		t.Fatalf("content = %v, want original text", got.Content)
	}
	if !reflect.DeepEqual(got.Mentions, []string{"bob"}) {
		t.Fatalf("mentions = %v, want [bob]", got.Mentions)
	}
}

func TestClassifyMediaPlaceholders(t *testing.T) {
	cases := []struct {
		raw  string
		want core.MessageType
	}{
		{"image omitted", core.TypeImage},
		{"video omitted", core.TypeVideo},
		{"video note omitted", core.TypeVideoNote},
		{"audio omitted", core.TypeAudio},
		{"document omitted", core.TypeDocument},
		{"sticker omitted", core.TypeSticker},
		{"Contact card omitted", core.TypeContact},
		{"GIF omitted", core.TypeGIF},
	}
	for _, tc := range cases {
		got := Classify(tc.raw)
		if got == nil {
			t.Fatalf("Classify(%q) = nil", tc.raw)
		}
		if got.Type != tc.want {
			t.Fatalf("Classify(%q).Type = %s, want %s", tc.raw, got.Type, tc.want)
		}
		if got.Content != nil {
			t.Fatalf("Classify(%q).Content = %q, want nil", tc.raw, *got.Content)
		}
	}
}

func TestClassifyStatuses(t *testing.T) {
	t.Run("deleted by sender", func(t *testing.T) {
		got := Classify("This message was deleted.")
		if got.Status != core.StatusDeleted {
			t.Fatalf("status = %s, want deleted", got.Status)
		}
		if got.Content != nil {
			t.Fatalf("deleted message kept content %q", *got.Content)
		}
	})
	t.Run("deleted own message", func(t *testing.T) {
		got := Classify("You deleted this message.")
		if got.Status != core.StatusDeleted {
			t.Fatalf("status = %s, want deleted", got.Status)
		}
	})
	t.Run("deleted by admin", func(t *testing.T) {
		got := Classify("This message was deleted by an admin.")
		if got.Status != core.StatusDeleted {
			t.Fatalf("status = %s, want deleted", got.Status)
		}
	})
	t.Run("edited keeps content without marker", func(t *testing.T) {
		got := Classify("fixed typo <This message was edited>")
		if got.Status != core.StatusEdited {
			t.Fatalf("status = %s, want edited", got.Status)
		}
		if got.Content == nil || *got.Content != "fixed typo" {
			t.Fatalf("content = %v, want %q", got.Content, "fixed typo")
		}
	})
}

func TestClassifyCalls(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		callType core.CallType
		missed   *bool
		duration *int
		joined   *int
	}{
		{
			name:     "started voice call",
			raw:      "Alice started a voice call",
			callType: core.CallVoice,
		},
		{
			name:     "started video call",
			raw:      "Bob started a video call.",
			callType: core.CallVideo,
		},
		{
			name:     "completed call with detail",
			raw:      "Voice call. 33 sec • 2 joined",
			callType: core.CallVoice,
			missed:   core.BoolPtr(false),
			duration: core.IntPtr(33),
			joined:   core.IntPtr(2),
		},
		{
			name:     "missed video call with minutes",
			raw:      "Missed video call. 5 min • 3 joined",
			callType: core.CallVideo,
			missed:   core.BoolPtr(true),
			duration: core.IntPtr(300),
			joined:   core.IntPtr(3),
		},
		{
			name:     "hour unit",
			raw:      "video call. 1 hr • 4 joined",
			callType: core.CallVideo,
			missed:   core.BoolPtr(false),
			duration: core.IntPtr(3600),
			joined:   core.IntPtr(4),
		},
		{
			name:     "missed call without detail",
			raw:      "Missed voice call.",
			callType: core.CallVoice,
			missed:   core.BoolPtr(true),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.raw)
			if got == nil || got.Type != core.TypeCall || got.Call == nil {
				t.Fatalf("Classify(%q) = %+v, want call", tc.raw, got)
			}
			c := got.Call
			if c.Type != tc.callType {
				t.Fatalf("call type = %s, want %s", c.Type, tc.callType)
			}
			if !ptrEqBool(c.Missed, tc.missed) {
				t.Fatalf("missed = %v, want %v", fmtBool(c.Missed), fmtBool(tc.missed))
			}
			if !ptrEqInt(c.DurationSecs, tc.duration) {
				t.Fatalf("duration = %v, want %v", fmtInt(c.DurationSecs), fmtInt(tc.duration))
			}
			if !ptrEqInt(c.Joined, tc.joined) {
				t.Fatalf("joined = %v, want %v", fmtInt(c.Joined), fmtInt(tc.joined))
			}
		})
	}
}

func TestClassifyPoll(t *testing.T) {
	raw := "POLL:\nWhere do we eat?\nOPTION: Pizza (3 votes)\nOPTION: Sushi (1 vote)"
	got := Classify(raw)
	if got == nil || got.Type != core.TypePoll {
		t.Fatalf("Classify(%q) = %+v, want poll", raw, got)
	}
	if got.Poll == nil {
		t.Fatal("poll info missing")
	}
	if got.Poll.Question != "Where do we eat?" {
		t.Fatalf("question = %q", got.Poll.Question)
	}
	want := []core.PollOption{
		{Option: "Pizza", Votes: 3},
		{Option: "Sushi", Votes: 1},
	}
	if !reflect.DeepEqual(got.Poll.Options, want) {
		t.Fatalf("options = %+v, want %+v", got.Poll.Options, want)
	}
}

func TestClassifyPollWithoutOptions(t *testing.T) {
	got := Classify("POLL:\nOrphan question")
	if got == nil || got.Type != core.TypePoll {
		t.Fatalf("got %+v, want poll type", got)
	}
	if got.Poll != nil {
		t.Fatalf("poll = %+v, want nil without options", got.Poll)
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	raw := "Missed video call. 5 min • 3 joined"
	first := Classify(raw)
	second := Classify(raw)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated classification differs: %+v vs %+v", first, second)
	}
}

func ptrEqBool(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func ptrEqInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func fmtBool(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}

func fmtInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/you/chatmetrics/internal/core"
)

const sampleTranscript = `Messages and calls are end-to-end encrypted. No one outside of this chat can read them.
[01.02.23, 10:00:00] Alice: good morning
[01.02.23, 10:01:00] Bob: image omitted
[01.02.23, 10:02:00] you: running late
garbage line before any recovery point is impossible here
[01.02.23, 10:03:00] Alice: This message was deleted.
[01.02.23, 10:04:00] ChatBot: automated reminder
[01.02.23, 10:05:00] Bob: see you at noon
`

func TestParse(t *testing.T) {
	msgs := Parse(sampleTranscript, Options{
		SelfNames:       []string{"Dana"},
		ExcludedAuthors: []string{"chatbot"},
	})

	// Encryption notice dropped, ChatBot excluded (case-insensitive),
	// the garbage line merges into the preceding message.
	if len(msgs) != 5 {
		t.Fatalf("got %d messages, want 5", len(msgs))
	}

	if msgs[0].Author != "Alice" || msgs[0].Message.Type != core.TypeText {
		t.Fatalf("msgs[0] = %+v", msgs[0])
	}
	if msgs[1].Message.Type != core.TypeImage {
		t.Fatalf("msgs[1].Type = %s, want image", msgs[1].Message.Type)
	}
	if msgs[2].Author != "Dana" {
		t.Fatalf("msgs[2].Author = %q, want self-name substitution", msgs[2].Author)
	}
	if got := msgs[2].Message.Text(); got != "running late\ngarbage line before any recovery point is impossible here" {
		t.Fatalf("msgs[2] content = %q", got)
	}
	if msgs[3].Message.Status != core.StatusDeleted {
		t.Fatalf("msgs[3].Status = %s, want deleted", msgs[3].Message.Status)
	}
	for _, m := range msgs {
		if m.Author == "ChatBot" {
			t.Fatal("excluded author survived the parse")
		}
	}
}

func TestParseEmptyInput(t *testing.T) {
	if msgs := Parse("", Options{}); len(msgs) != 0 {
		t.Fatalf("got %d messages from empty input, want 0", len(msgs))
	}
}

func TestParseTimestampsAreOrderedFromFixture(t *testing.T) {
	msgs := Parse(sampleTranscript, Options{})
	for i := 1; i < len(msgs); i++ {
		if msgs[i].Timestamp.Before(msgs[i-1].Timestamp) {
			t.Fatalf("timestamps out of order at %d", i)
		}
	}
}

func TestWatchInitialParseAndUpdate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat.txt")
	if err := os.WriteFile(path, []byte("[01.02.23, 10:00:00] Alice: one\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	updates := make(chan int, 8)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, WatchOptions{MinInterval: 10 * time.Millisecond}, func(msgs []core.Message) {
			updates <- len(msgs)
		})
	}()

	select {
	case n := <-updates:
		if n != 1 {
			t.Fatalf("initial parse produced %d messages, want 1", n)
		}
	case <-ctx.Done():
		t.Fatal("no initial parse before timeout")
	}

	if err := os.WriteFile(path, []byte("[01.02.23, 10:00:00] Alice: one\n[01.02.23, 10:01:00] Bob: two\n"), 0o644); err != nil {
		t.Fatalf("rewrite fixture: %v", err)
	}

	deadline := time.After(4 * time.Second)
	for {
		select {
		case n := <-updates:
			if n == 2 {
				cancel()
				<-done
				return
			}
		case <-deadline:
			t.Fatal("no re-parse observed after file change")
		}
	}
}

func TestWatchMissingFile(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := Watch(ctx, filepath.Join(t.TempDir(), "absent.txt"), WatchOptions{}, func([]core.Message) {})
	if err == nil {
		t.Fatal("Watch on missing file: got nil error")
	}
}

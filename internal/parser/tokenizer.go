// Package parser turns raw exported transcript text into structured
// message records: the tokenizer splits text into one string per logical
// message, the extractor parses the fixed timestamp/author header.
package parser

import "strings"

// leftToRightMark is injected by some exporters around author names and
// must be stripped before the header pattern can match.
const leftToRightMark = "‎"

// Tokenize splits raw transcript text into one string per logical
// message. A line starting with the bracketed timestamp pattern
// "[DD.MM.YY, HH:MM:SS]" opens a new message; any other line is a
// continuation of the message being built and is appended with a
// newline. Whitespace-only accumulations are dropped.
//
// A body line that happens to match the timestamp prefix splits the
// message. That is an accepted limitation of line-prefix recovery.
func Tokenize(text string) []string {
	text = strings.ReplaceAll(text, leftToRightMark, "")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var (
		out     []string
		current strings.Builder
		open    bool
	)

	flush := func() {
		if !open {
			return
		}
		if msg := current.String(); strings.TrimSpace(msg) != "" {
			out = append(out, msg)
		}
		current.Reset()
		open = false
	}

	for _, line := range strings.Split(text, "\n") {
		if headerPattern.MatchString(line) {
			flush()
			current.WriteString(line)
			open = true
			continue
		}
		if !open {
			// Preamble before the first header has no message to
			// attach to; skip it.
			continue
		}
		current.WriteString("\n")
		current.WriteString(line)
	}
	flush()

	return out
}

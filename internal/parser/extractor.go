package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// headerPattern matches the fixed export header grammar:
// [DD.MM.YY, HH:MM:SS] <author>: <content>
var headerPattern = regexp.MustCompile(`^\[(\d{2})\.(\d{2})\.(\d{2}), (\d{2}):(\d{2}):(\d{2})\] `)

var bodyPattern = regexp.MustCompile(`(?s)^\[(\d{2})\.(\d{2})\.(\d{2}), (\d{2}):(\d{2}):(\d{2})\] ([^:]+): (.*)$`)

// ParseError reports a message block that does not match the header
// grammar. Blocks failing extraction are dropped by the pipeline; one
// malformed block never aborts the batch.
type ParseError struct {
	Block  string
	Reason string
}

func (e *ParseError) Error() string {
	snippet := e.Block
	if len(snippet) > 40 {
		snippet = snippet[:40] + "..."
	}
	return fmt.Sprintf("parse message %q: %s", snippet, e.Reason)
}

// Options configures extraction. SelfNames is the caller-supplied list
// of names standing in for the literal author "you"; the first entry is
// substituted when present.
type Options struct {
	SelfNames []string
}

func (o Options) selfName() string {
	if len(o.SelfNames) == 0 {
		return ""
	}
	return o.SelfNames[0]
}

// RawMessage is the extracted but not yet classified form of a message.
type RawMessage struct {
	Author    string
	Timestamp time.Time
	Content   string
}

// Extract parses one tokenized message block into author, timestamp and
// raw content. Two-digit years below 50 land in 2000+, the rest in 1900+.
func Extract(block string, opts Options) (RawMessage, error) {
	m := bodyPattern.FindStringSubmatch(block)
	if m == nil {
		return RawMessage{}, &ParseError{Block: block, Reason: "header grammar mismatch"}
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	second, _ := strconv.Atoi(m[6])

	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || second > 59 {
		return RawMessage{}, &ParseError{Block: block, Reason: "date/time component out of range"}
	}

	if year < 50 {
		year += 2000
	} else {
		year += 1900
	}

	author := strings.TrimSpace(m[7])
	if author == "" {
		return RawMessage{}, &ParseError{Block: block, Reason: "empty author"}
	}
	if self := opts.selfName(); self != "" && strings.EqualFold(author, "you") {
		author = self
	}

	return RawMessage{
		Author:    author,
		Timestamp: time.Date(year, time.Month(month), day, hour, minute, second, 0, time.Local),
		Content:   m[8],
	}, nil
}

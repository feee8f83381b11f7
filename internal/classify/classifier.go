// Package classify turns the raw content of an extracted message into a
// structured ContentInfo. Classification is a pure function of the input
// string: a fixed priority order resolves overlapping patterns (system
// filter, media placeholder, status suffix, call phrase, poll dump,
// mentions).
package classify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/you/chatmetrics/internal/core"
)

// Administrative notifications produced by the chat service itself.
// A match drops the message entirely.
var systemPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^.+ (joined|left)( the group)?( using this group's invite link)?\.?$`),
	regexp.MustCompile(`^.+ (added|removed) .+\.?$`),
	regexp.MustCompile(`^.+ (created|changed) (this group|the group .+|the subject .+|the group description)\.?$`),
	regexp.MustCompile(`^Messages and calls are end-to-end encrypted\..*$`),
	regexp.MustCompile(`^.+ changed their phone number\..*$`),
	regexp.MustCompile(`^You're now an admin$`),
	regexp.MustCompile(`^.+ was added$`),
	regexp.MustCompile(`^.+ pinned a message$`),
}

// Media placeholders replace binary payloads in exports. First match
// wins; the poll marker rides along here so poll dumps are flagged
// before status/call handling.
var mediaPatterns = []struct {
	re  *regexp.Regexp
	typ core.MessageType
}{
	{regexp.MustCompile(`(?s)^image omitted`), core.TypeImage},
	{regexp.MustCompile(`(?s)^video omitted`), core.TypeVideo},
	{regexp.MustCompile(`(?s)^video note omitted`), core.TypeVideoNote},
	{regexp.MustCompile(`(?s)^audio omitted`), core.TypeAudio},
	{regexp.MustCompile(`(?s)^document omitted`), core.TypeDocument},
	{regexp.MustCompile(`(?s)^sticker omitted`), core.TypeSticker},
	{regexp.MustCompile(`(?s)^Contact card omitted`), core.TypeContact},
	{regexp.MustCompile(`(?s)^GIF omitted`), core.TypeGIF},
	{regexp.MustCompile(`(?s)^POLL:`), core.TypePoll},
}

var (
	deletedBySenderPattern = regexp.MustCompile(`(?:You deleted this message\.?|This message was deleted\.?)$`)
	deletedAsAdminPattern  = regexp.MustCompile(`This message was deleted by an admin\.?$`)
	editedPattern          = regexp.MustCompile(`<This message was edited>\s*$`)
)

// Call phrases, checked in order. "Started" calls carry no detail
// suffix; missed/completed calls share a "<n> <unit> • <m> joined" tail.
var (
	startedCallPattern = regexp.MustCompile(`^(?:.+ started a )(voice|video) call\.?$`)
	detailCallPattern  = regexp.MustCompile(`^(Missed )?(?i:(voice|video)) call\.?\s*(?:(\d+)\s*(sec|min|hr)\s*•\s*(\d+) joined)?\s*$`)
)

var (
	pollOptionPattern   = regexp.MustCompile(`OPTION:\s*(.+?)\s*\((\d+) votes?\)`)
	pollQuestionPattern = regexp.MustCompile(`(?s)^POLL:\s*\n(.*)$`)
	mentionPattern      = regexp.MustCompile(`@([\w.\-]+)`)
)

// Classify maps raw message content to its ContentInfo. A nil result
// marks a system/administrative message the pipeline should discard.
func Classify(raw string) *core.ContentInfo {
	for _, p := range systemPatterns {
		if p.MatchString(raw) {
			return nil
		}
	}

	info := &core.ContentInfo{
		Type:   core.TypeText,
		Status: core.StatusActive,
	}

	work := raw
	hasText := true
	for _, mp := range mediaPatterns {
		if mp.re.MatchString(raw) {
			info.Type = mp.typ
			hasText = false
			break
		}
	}

	switch {
	case deletedBySenderPattern.MatchString(work), deletedAsAdminPattern.MatchString(work):
		info.Status = core.StatusDeleted
		hasText = false
	case editedPattern.MatchString(work):
		info.Status = core.StatusEdited
		work = strings.TrimSpace(editedPattern.ReplaceAllString(work, ""))
	}

	if info.Status != core.StatusDeleted {
		if call := parseCall(work); call != nil {
			info.Type = core.TypeCall
			info.Call = call
			hasText = false
		}
	}

	if info.Type == core.TypePoll && info.Status != core.StatusDeleted {
		info.Poll = parsePoll(raw)
		if info.Poll == nil {
			// A poll marker without parseable options keeps Type ==
			// poll with a nil Poll. Preserved source behavior.
			log.Debug().Str("content", truncate(raw, 60)).Msg("poll marker without options")
		}
	}

	if info.Status != core.StatusDeleted {
		for _, m := range mentionPattern.FindAllStringSubmatch(work, -1) {
			info.Mentions = append(info.Mentions, m[1])
		}
	}

	if hasText && info.Type == core.TypeText {
		info.Content = core.StringPtr(work)
	}

	return info
}

func parseCall(s string) *core.CallInfo {
	if m := startedCallPattern.FindStringSubmatch(s); m != nil {
		return &core.CallInfo{Type: core.CallType(m[1])}
	}

	m := detailCallPattern.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	call := &core.CallInfo{Type: core.CallType(strings.ToLower(m[2]))}
	missed := m[1] != ""
	call.Missed = core.BoolPtr(missed)
	if m[3] != "" {
		n, _ := strconv.Atoi(m[3])
		secs := n
		switch m[4] {
		case "min":
			secs = n * 60
		case "hr":
			secs = n * 3600
		}
		call.DurationSecs = core.IntPtr(secs)
	}
	if m[5] != "" {
		joined, _ := strconv.Atoi(m[5])
		call.Joined = core.IntPtr(joined)
	}
	return call
}

func parsePoll(raw string) *core.PollInfo {
	qm := pollQuestionPattern.FindStringSubmatch(raw)
	if qm == nil {
		return nil
	}

	var question string
	for _, line := range strings.Split(qm[1], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "OPTION:") {
			question = line
		}
		break
	}

	var options []core.PollOption
	for _, m := range pollOptionPattern.FindAllStringSubmatch(raw, -1) {
		votes, _ := strconv.Atoi(m[2])
		options = append(options, core.PollOption{Option: m[1], Votes: votes})
	}
	if len(options) == 0 {
		return nil
	}

	return &core.PollInfo{Question: question, Options: options}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

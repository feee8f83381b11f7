package core

import "time"

// MessageType identifies what kind of payload a message carries.
type MessageType string

const (
	TypeText      MessageType = "text"
	TypeImage     MessageType = "image"
	TypeVideo     MessageType = "video"
	TypeVideoNote MessageType = "video-note"
	TypeAudio     MessageType = "audio"
	TypeDocument  MessageType = "document"
	TypeSticker   MessageType = "sticker"
	TypeContact   MessageType = "contact"
	TypeGIF       MessageType = "gif"
	TypeCall      MessageType = "call"
	TypePoll      MessageType = "poll"
)

// MessageStatus tracks post-send mutations of a message.
type MessageStatus string

const (
	StatusActive  MessageStatus = "active"
	StatusEdited  MessageStatus = "edited"
	StatusDeleted MessageStatus = "deleted"
)

// CallType distinguishes voice from video calls.
type CallType string

const (
	CallVoice CallType = "voice"
	CallVideo CallType = "video"
)

// CallInfo carries the details parsed from a call notification line.
// Missed, Joined and DurationSecs are independently nil because the
// export only includes them for some call phrasings ("started a call"
// carries none of them).
type CallInfo struct {
	Type         CallType `json:"type"`
	Missed       *bool    `json:"missed,omitempty"`
	Joined       *int     `json:"joined,omitempty"`
	DurationSecs *int     `json:"duration_secs,omitempty"`
}

// PollOption is one answer line of a poll, in source order.
type PollOption struct {
	Option string `json:"option"`
	Votes  int    `json:"votes"`
}

// PollInfo carries the question and options parsed from a poll dump.
type PollInfo struct {
	Question string       `json:"question"`
	Options  []PollOption `json:"options"`
}

// ContentInfo is the classified shape of a message payload.
// Call is non-nil iff Type == TypeCall. Poll may be nil even when
// Type == TypePoll, when the poll dump yielded no parseable options.
// Content is nil for deleted messages, media placeholders and calls.
type ContentInfo struct {
	Type     MessageType   `json:"type"`
	Content  *string       `json:"content,omitempty"`
	Status   MessageStatus `json:"status"`
	Call     *CallInfo     `json:"call,omitempty"`
	Poll     *PollInfo     `json:"poll,omitempty"`
	Mentions []string      `json:"mentions,omitempty"`
}

// Message is one parsed transcript entry. Immutable after creation.
type Message struct {
	Author    string      `json:"author"`
	Timestamp time.Time   `json:"timestamp"`
	Message   ContentInfo `json:"message"`
}

// Text returns the free-text content, or "" when the message carries none.
func (c ContentInfo) Text() string {
	if c.Content == nil {
		return ""
	}
	return *c.Content
}

// StringPtr is a convenience for building ContentInfo literals.
func StringPtr(s string) *string { return &s }

// BoolPtr is a convenience for building CallInfo literals.
func BoolPtr(b bool) *bool { return &b }

// IntPtr is a convenience for building CallInfo literals.
func IntPtr(n int) *int { return &n }

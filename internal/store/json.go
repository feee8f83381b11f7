package store

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/you/chatmetrics/internal/core"
)

// jsonMessage is the portable on-disk shape: ISO-8601 timestamps,
// classified payload nested under "message".
type jsonMessage struct {
	Author    string           `json:"author"`
	Timestamp string           `json:"timestamp"`
	Message   core.ContentInfo `json:"message"`
}

// SaveJSON writes the collection as a JSON array.
func SaveJSON(path string, msgs []core.Message) error {
	out := make([]jsonMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, jsonMessage{
			Author:    m.Author,
			Timestamp: m.Timestamp.Format(time.RFC3339),
			Message:   m.Message,
		})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode collection")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "write collection")
}

// LoadJSON reads a collection written by SaveJSON, reconstituting
// timestamps into instants.
func LoadJSON(path string) ([]core.Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read collection")
	}
	var raw []jsonMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decode collection")
	}
	out := make([]core.Message, 0, len(raw))
	for _, jm := range raw {
		t, err := time.Parse(time.RFC3339, jm.Timestamp)
		if err != nil {
			return nil, errors.Wrapf(err, "parse timestamp %q", jm.Timestamp)
		}
		out = append(out, core.Message{
			Author:    jm.Author,
			Timestamp: t.Local(),
			Message:   jm.Message,
		})
	}
	return out, nil
}

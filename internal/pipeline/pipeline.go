// Package pipeline orchestrates the parse chain: tokenize the raw
// export, extract each block, classify its content, and drop excluded
// authors. Malformed blocks are skipped, never fatal.
package pipeline

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/you/chatmetrics/internal/classify"
	"github.com/you/chatmetrics/internal/core"
	"github.com/you/chatmetrics/internal/metrics"
	"github.com/you/chatmetrics/internal/parser"
)

// Options configures a parse run. Metrics may be nil.
type Options struct {
	SelfNames       []string
	ExcludedAuthors []string
	Metrics         *metrics.Metrics
}

func (o Options) excluded(author string) bool {
	for _, ex := range o.ExcludedAuthors {
		if strings.EqualFold(ex, author) {
			return true
		}
	}
	return false
}

// Parse turns raw transcript text into the classified message
// collection. One malformed block never aborts the batch; it is dropped
// and counted.
func Parse(text string, opts Options) []core.Message {
	start := time.Now()

	blocks := parser.Tokenize(text)
	msgs := make([]core.Message, 0, len(blocks))
	for _, block := range blocks {
		raw, err := parser.Extract(block, parser.Options{SelfNames: opts.SelfNames})
		if err != nil {
			opts.Metrics.IncBlocksMalformed()
			log.Debug().Err(err).Msg("dropping malformed block")
			continue
		}
		if opts.excluded(raw.Author) {
			opts.Metrics.IncAuthorsExcluded()
			continue
		}
		info := classify.Classify(raw.Content)
		if info == nil {
			opts.Metrics.IncSystemDropped()
			continue
		}
		msgs = append(msgs, core.Message{
			Author:    raw.Author,
			Timestamp: raw.Timestamp,
			Message:   *info,
		})
	}

	opts.Metrics.AddMessagesParsed(len(msgs))
	opts.Metrics.ObserveParse(time.Since(start))
	log.Debug().
		Int("blocks", len(blocks)).
		Int("messages", len(msgs)).
		Dur("took", time.Since(start)).
		Msg("parsed transcript")
	return msgs
}

package stats

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/you/chatmetrics/internal/core"
)

// TrendingTopic is one word with its frequency share among qualifying
// words in the window.
type TrendingTopic struct {
	Word       string
	Count      int
	Percentage float64
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}']+`)

// GetTrendingTopics tokenizes every non-deleted text message in the
// window (lowercased, punctuation stripped, words of two characters or
// fewer discarded) and returns the top limit words by count.
func (e *Engine) GetTrendingTopics(w Window, limit int) []TrendingTopic {
	return cached(e, fmt.Sprintf("trending|limit=%d|%s", limit, w.key()), func() []TrendingTopic {
		counts := make(map[string]int)
		var order []string
		total := 0
		for _, m := range e.GetFilteredData(w) {
			if m.Message.Type != core.TypeText || m.Message.Status == core.StatusDeleted || m.Message.Content == nil {
				continue
			}
			for _, word := range wordPattern.FindAllString(strings.ToLower(*m.Message.Content), -1) {
				word = strings.Trim(word, "'")
				if len(word) <= 2 {
					continue
				}
				if _, ok := counts[word]; !ok {
					order = append(order, word)
				}
				counts[word]++
				total++
			}
		}

		topics := make([]TrendingTopic, 0, len(order))
		for _, word := range order {
			topics = append(topics, TrendingTopic{Word: word, Count: counts[word]})
		}
		sort.SliceStable(topics, func(i, j int) bool {
			return topics[i].Count > topics[j].Count
		})
		if limit > 0 && len(topics) > limit {
			topics = topics[:limit]
		}
		for i := range topics {
			if total > 0 {
				topics[i].Percentage = float64(topics[i].Count) / float64(total) * 100
			}
		}
		return topics
	})
}

package stats

import (
	"fmt"
	"sort"
)

// RankingEntry is one row of a ranking: 1-based rank, the ranked value
// and its share of the total. Equal values receive strictly increasing
// ranks in sort order; ties are not merged.
type RankingEntry struct {
	Rank       int
	Author     string
	Value      float64
	Percentage float64
}

// RankingConfig parameterizes GetRankings. Limit 0 means unlimited.
type RankingConfig struct {
	Window Window
	Type   RankingType
	Limit  int
}

func (c RankingConfig) key() string {
	return fmt.Sprintf("type=%s,limit=%d,%s", c.Type, c.Limit, c.Window.key())
}

// GetRankings builds one entry per author present in the window, sorted
// descending by the chosen value.
func (e *Engine) GetRankings(cfg RankingConfig) []RankingEntry {
	return cached(e, "rankings|"+cfg.key(), func() []RankingEntry {
		msgs := e.GetFilteredData(cfg.Window)

		type agg struct {
			count  int
			points float64
		}
		perAuthor := make(map[string]*agg)
		var order []string
		for _, m := range msgs {
			a, ok := perAuthor[m.Author]
			if !ok {
				a = &agg{}
				perAuthor[m.Author] = a
				order = append(order, m.Author)
			}
			a.count++
			a.points += e.Score(m)
		}

		entries := make([]RankingEntry, 0, len(order))
		var total float64
		for _, author := range order {
			var value float64
			switch cfg.Type {
			case RankByMessagePoints:
				value = perAuthor[author].points
			case RankByActivityScore:
				st, err := e.GetUserStats(author, cfg.Window)
				if err != nil {
					continue
				}
				value = st.ActivityScore
			default:
				value = float64(perAuthor[author].count)
			}
			entries = append(entries, RankingEntry{Author: author, Value: value})
			total += value
		}

		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Value > entries[j].Value
		})

		for i := range entries {
			entries[i].Rank = i + 1
			if total > 0 {
				entries[i].Percentage = entries[i].Value / total * 100
			}
		}

		if cfg.Limit > 0 && len(entries) > cfg.Limit {
			entries = entries[:cfg.Limit]
		}
		return entries
	})
}

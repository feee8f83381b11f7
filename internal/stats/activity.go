package stats

import (
	"sort"
)

// weekCount is the number of trailing 7-day windows the activity check
// averages over.
const weekCount = 4

// ActivityResult is one author's weighted multi-week classification.
// WeekValues holds the per-week ranking values, oldest week first.
type ActivityResult struct {
	Author          string
	WeekValues      [weekCount]float64
	WeightedAverage float64
	Category        ActivityCategory
}

// CheckActivity classifies every author ever seen by a weighted average
// of their ranking value over the four most recent non-overlapping 7-day
// windows ending now. The most recent week carries the highest weight.
func (e *Engine) CheckActivity(rt RankingType) []ActivityResult {
	return cached(e, "activity|"+string(rt), func() []ActivityResult {
		now := e.now()
		thresholds, ok := e.thresholds[rt]
		if !ok {
			thresholds = DefaultThresholds()[rt]
		}

		// Oldest week first, weights 1..weekCount.
		type week struct {
			window Window
			weight float64
		}
		weeks := make([]week, 0, weekCount)
		for i := weekCount; i >= 1; i-- {
			end := now.AddDate(0, 0, -7*(i-1))
			start := end.AddDate(0, 0, -7)
			weeks = append(weeks, week{
				window: Custom(start, end),
				weight: float64(weekCount - i + 1),
			})
		}

		var results []ActivityResult
		for _, author := range e.allAuthors() {
			res := ActivityResult{Author: author}
			var weightedSum, activeWeight float64
			for i, wk := range weeks {
				value := 0.0
				for _, entry := range e.GetRankings(RankingConfig{Window: wk.window, Type: rt}) {
					if entry.Author == author {
						value = entry.Value
						break
					}
				}
				res.WeekValues[i] = value
				weightedSum += value * wk.weight
				if value > 0 {
					activeWeight += wk.weight
				}
			}
			if activeWeight > 0 {
				res.WeightedAverage = weightedSum / activeWeight
			}
			res.Category = thresholds.Categorize(res.WeightedAverage)
			results = append(results, res)
		}

		sort.SliceStable(results, func(i, j int) bool {
			return results[i].WeightedAverage > results[j].WeightedAverage
		})
		return results
	})
}

// ComparativeStats reports how a window compares against another.
// Deltas are percentages relative to window A. TopUserDelta is zero when
// rank 1 changed hands, since the comparison is only meaningful for the
// same person.
type ComparativeStats struct {
	MessageCountDelta float64
	UserCountDelta    float64
	PointsDelta       float64

	TopUserA       string
	TopUserB       string
	TopUserChanged bool
	TopUserDelta   float64
}

// GetComparativeStats computes overall stats for both windows and their
// percentage deltas. Either window being empty is surfaced unchanged.
func (e *Engine) GetComparativeStats(a, b Window) (ComparativeStats, error) {
	statsA, err := e.GetOverallStats(a)
	if err != nil {
		return ComparativeStats{}, err
	}
	statsB, err := e.GetOverallStats(b)
	if err != nil {
		return ComparativeStats{}, err
	}

	cs := ComparativeStats{
		MessageCountDelta: pctDelta(float64(statsA.TotalMessages), float64(statsB.TotalMessages)),
		UserCountDelta:    pctDelta(float64(statsA.TotalUsers), float64(statsB.TotalUsers)),
		PointsDelta:       pctDelta(statsA.TotalPoints, statsB.TotalPoints),
	}

	topA := e.GetRankings(RankingConfig{Window: a, Type: RankByMessageCount, Limit: 1})
	topB := e.GetRankings(RankingConfig{Window: b, Type: RankByMessageCount, Limit: 1})
	if len(topA) > 0 {
		cs.TopUserA = topA[0].Author
	}
	if len(topB) > 0 {
		cs.TopUserB = topB[0].Author
	}
	cs.TopUserChanged = cs.TopUserA != cs.TopUserB
	if !cs.TopUserChanged && len(topA) > 0 && len(topB) > 0 {
		cs.TopUserDelta = topB[0].Value - topA[0].Value
	}
	return cs, nil
}

func pctDelta(a, b float64) float64 {
	if a == 0 {
		if b == 0 {
			return 0
		}
		return 100
	}
	return (b - a) / a * 100
}

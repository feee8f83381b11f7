package stats

import (
	"fmt"
	"time"

	"github.com/you/chatmetrics/internal/core"
)

// Distribution is a count plus its share of the window total.
type Distribution struct {
	Count      int
	Percentage float64
}

// FunStats bundles the superlatives of a window. Tie-breaks follow map
// iteration order, like the per-user extremes.
type FunStats struct {
	BusiestHour     int
	QuietestHour    int
	BusiestWeekday  string
	QuietestWeekday string
	BusiestDate     string
	QuietestDate    string
	BusiestMonth    string
	QuietestMonth   string
	BusiestYear     int
	QuietestYear    int

	MostActiveUser     string
	MostActiveValue    float64
	MostValuableUser   string
	MostValuableValue  float64
	LongestTextAuthor  string
	LongestTextLength  int
	ShortestTextAuthor string
	ShortestTextLength int
	TopStreakUser      string
	TopStreak          int
	TopCallerUser      string
	TopCallCount       int
	TopPollsterUser    string
	TopPollCount       int
}

// OverallStats aggregates a window across all users.
type OverallStats struct {
	TotalMessages int
	TotalUsers    int
	TotalPoints   float64

	FirstMessage time.Time
	LastMessage  time.Time

	TypeDistribution   map[core.MessageType]Distribution
	StatusDistribution map[core.MessageStatus]Distribution

	HourHistogram    map[int]int
	WeekdayHistogram map[string]int
	DateHistogram    map[string]int
	MonthHistogram   map[string]int
	YearHistogram    map[int]int

	CallCount        int
	MissedCalls      int
	TotalCallSeconds int
	PollCount        int
	TotalPollVotes   int

	TextMessages int
	TotalChars   int
	AvgChars     float64

	Fun FunStats
}

// Heatmap is the raw activity histograms of a window, including the
// combined weekday-hour grid, without any formatting applied.
type Heatmap struct {
	Hours    map[int]int
	Weekdays map[string]int
	Dates    map[string]int
	Months   map[string]int
	Years    map[int]int
	// Combined is keyed "{weekday}-{hour}", e.g. "Monday-14".
	Combined map[string]int
}

// GetOverallStats aggregates the window across all users. Returns
// ErrEmptyWindow when the window holds no messages.
func (e *Engine) GetOverallStats(w Window) (OverallStats, error) {
	type result struct {
		stats OverallStats
		err   error
	}
	res := cached(e, "overall|"+w.key(), func() result {
		msgs := e.GetFilteredData(w)
		if len(msgs) == 0 {
			return result{err: ErrEmptyWindow}
		}
		return result{stats: e.computeOverall(msgs, w)}
	})
	return res.stats, res.err
}

func (e *Engine) computeOverall(msgs []core.Message, w Window) OverallStats {
	st := OverallStats{
		TypeDistribution:   make(map[core.MessageType]Distribution),
		StatusDistribution: make(map[core.MessageStatus]Distribution),
		HourHistogram:      make(map[int]int),
		WeekdayHistogram:   make(map[string]int),
		DateHistogram:      make(map[string]int),
		MonthHistogram:     make(map[string]int),
		YearHistogram:      make(map[int]int),
	}

	typeCounts := make(map[core.MessageType]int)
	statusCounts := make(map[core.MessageStatus]int)
	authors := make(map[string]struct{})

	for _, m := range msgs {
		st.TotalMessages++
		st.TotalPoints += e.Score(m)
		authors[m.Author] = struct{}{}
		typeCounts[m.Message.Type]++
		statusCounts[m.Message.Status]++

		if st.FirstMessage.IsZero() || m.Timestamp.Before(st.FirstMessage) {
			st.FirstMessage = m.Timestamp
		}
		if m.Timestamp.After(st.LastMessage) {
			st.LastMessage = m.Timestamp
		}

		st.HourHistogram[m.Timestamp.Hour()]++
		st.WeekdayHistogram[m.Timestamp.Weekday().String()]++
		st.DateHistogram[dateKey(m.Timestamp)]++
		st.MonthHistogram[m.Timestamp.Format("2006-01")]++
		st.YearHistogram[m.Timestamp.Year()]++

		if m.Message.Call != nil {
			st.CallCount++
			if m.Message.Call.Missed != nil && *m.Message.Call.Missed {
				st.MissedCalls++
			}
			if m.Message.Call.DurationSecs != nil {
				st.TotalCallSeconds += *m.Message.Call.DurationSecs
			}
		}
		if m.Message.Type == core.TypePoll {
			st.PollCount++
			if m.Message.Poll != nil {
				for _, opt := range m.Message.Poll.Options {
					st.TotalPollVotes += opt.Votes
				}
			}
		}
		if m.Message.Type == core.TypeText && m.Message.Content != nil {
			st.TextMessages++
			st.TotalChars += len(*m.Message.Content)
		}
	}

	st.TotalUsers = len(authors)
	if st.TextMessages > 0 {
		st.AvgChars = float64(st.TotalChars) / float64(st.TextMessages)
	}
	for t, n := range typeCounts {
		st.TypeDistribution[t] = Distribution{Count: n, Percentage: float64(n) / float64(st.TotalMessages) * 100}
	}
	for s, n := range statusCounts {
		st.StatusDistribution[s] = Distribution{Count: n, Percentage: float64(n) / float64(st.TotalMessages) * 100}
	}

	st.Fun = e.computeFunStats(msgs, st, w)
	return st
}

func (e *Engine) computeFunStats(msgs []core.Message, st OverallStats, w Window) FunStats {
	fun := FunStats{}
	fun.BusiestHour, fun.QuietestHour = extremesInt(st.HourHistogram)
	fun.BusiestWeekday, fun.QuietestWeekday = extremesString(st.WeekdayHistogram)
	fun.BusiestDate, fun.QuietestDate = extremesString(st.DateHistogram)
	fun.BusiestMonth, fun.QuietestMonth = extremesString(st.MonthHistogram)
	fun.BusiestYear, fun.QuietestYear = extremesInt(st.YearHistogram)

	if top := e.GetRankings(RankingConfig{Window: w, Type: RankByMessageCount, Limit: 1}); len(top) > 0 {
		fun.MostActiveUser = top[0].Author
		fun.MostActiveValue = top[0].Value
	}
	if top := e.GetRankings(RankingConfig{Window: w, Type: RankByMessagePoints, Limit: 1}); len(top) > 0 {
		fun.MostValuableUser = top[0].Author
		fun.MostValuableValue = top[0].Value
	}

	fun.ShortestTextLength = -1
	for _, m := range msgs {
		if m.Message.Type != core.TypeText || m.Message.Content == nil {
			continue
		}
		l := len(*m.Message.Content)
		if l > fun.LongestTextLength {
			fun.LongestTextLength = l
			fun.LongestTextAuthor = m.Author
		}
		if fun.ShortestTextLength < 0 || l < fun.ShortestTextLength {
			fun.ShortestTextLength = l
			fun.ShortestTextAuthor = m.Author
		}
	}
	if fun.ShortestTextLength < 0 {
		fun.ShortestTextLength = 0
	}

	// Linear scan over every present user's stats, reduced by max.
	seen := make(map[string]struct{})
	for _, m := range msgs {
		if _, ok := seen[m.Author]; ok {
			continue
		}
		seen[m.Author] = struct{}{}
		us, err := e.GetUserStats(m.Author, w)
		if err != nil {
			continue
		}
		if us.LongestStreak > fun.TopStreak {
			fun.TopStreak = us.LongestStreak
			fun.TopStreakUser = us.Author
		}
		if n := us.ByType[core.TypeCall]; n > fun.TopCallCount {
			fun.TopCallCount = n
			fun.TopCallerUser = us.Author
		}
		if n := us.ByType[core.TypePoll]; n > fun.TopPollCount {
			fun.TopPollCount = n
			fun.TopPollsterUser = us.Author
		}
	}

	return fun
}

// GetActivityHeatmap returns the five histograms plus the combined
// weekday-hour grid for the window.
func (e *Engine) GetActivityHeatmap(w Window) Heatmap {
	return cached(e, "heatmap|"+w.key(), func() Heatmap {
		hm := Heatmap{
			Hours:    make(map[int]int),
			Weekdays: make(map[string]int),
			Dates:    make(map[string]int),
			Months:   make(map[string]int),
			Years:    make(map[int]int),
			Combined: make(map[string]int),
		}
		for _, m := range e.GetFilteredData(w) {
			hm.Hours[m.Timestamp.Hour()]++
			hm.Weekdays[m.Timestamp.Weekday().String()]++
			hm.Dates[dateKey(m.Timestamp)]++
			hm.Months[m.Timestamp.Format("2006-01")]++
			hm.Years[m.Timestamp.Year()]++
			hm.Combined[fmt.Sprintf("%s-%d", m.Timestamp.Weekday(), m.Timestamp.Hour())]++
		}
		return hm
	})
}

package stats

import (
	"math"
	"sort"
	"time"

	"github.com/you/chatmetrics/internal/core"
)

// UserStats aggregates one author's messages inside a window.
type UserStats struct {
	Author        string
	MessageCount  int
	TotalPoints   float64
	ActivityScore float64

	ByType   map[core.MessageType]int
	ByStatus map[core.MessageStatus]int

	FirstMessage time.Time
	LastMessage  time.Time
	ActiveDays   int
	AvgPerDay    float64

	LongestStreak int
	CurrentStreak int

	// Busiest/quietest tie-breaks are first-encountered in map
	// iteration order, which is implementation-defined.
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

	TextMessages int
	TotalChars   int
	AvgChars     float64
}

// GetUserStats computes stats for one author over the window. Returns
// ErrUserNotFound when the author has no messages there.
func (e *Engine) GetUserStats(author string, w Window) (UserStats, error) {
	type result struct {
		stats UserStats
		err   error
	}
	res := cached(e, "user|"+author+"|"+w.key(), func() result {
		msgs := e.GetFilteredData(w)
		var own []core.Message
		for _, m := range msgs {
			if m.Author == author {
				own = append(own, m)
			}
		}
		if len(own) == 0 {
			return result{err: ErrUserNotFound}
		}
		return result{stats: e.computeUserStats(author, own)}
	})
	return res.stats, res.err
}

func (e *Engine) computeUserStats(author string, own []core.Message) UserStats {
	now := e.now()
	st := UserStats{
		Author:   author,
		ByType:   make(map[core.MessageType]int),
		ByStatus: make(map[core.MessageStatus]int),
	}

	hours := make(map[int]int)
	weekdays := make(map[string]int)
	dates := make(map[string]int)
	months := make(map[string]int)
	years := make(map[int]int)

	var recency float64
	for _, m := range own {
		st.MessageCount++
		st.TotalPoints += e.Score(m)
		st.ByType[m.Message.Type]++
		st.ByStatus[m.Message.Status]++

		if st.FirstMessage.IsZero() || m.Timestamp.Before(st.FirstMessage) {
			st.FirstMessage = m.Timestamp
		}
		if m.Timestamp.After(st.LastMessage) {
			st.LastMessage = m.Timestamp
		}

		hours[m.Timestamp.Hour()]++
		weekdays[m.Timestamp.Weekday().String()]++
		dates[dateKey(m.Timestamp)]++
		months[m.Timestamp.Format("2006-01")]++
		years[m.Timestamp.Year()]++

		daysAgo := now.Sub(m.Timestamp).Hours() / 24
		if daysAgo < 0 {
			daysAgo = 0
		}
		recency += math.Exp(-e.activity.TimeDecayFactor * daysAgo)

		if m.Message.Type == core.TypeText && m.Message.Content != nil {
			st.TextMessages++
			st.TotalChars += len(*m.Message.Content)
		}
	}

	st.ActiveDays = len(dates)
	span := int(st.LastMessage.Sub(st.FirstMessage).Hours()/24) + 1
	st.AvgPerDay = float64(st.MessageCount) / float64(span)
	if st.TextMessages > 0 {
		st.AvgChars = float64(st.TotalChars) / float64(st.TextMessages)
	}

	st.ActivityScore = e.activity.MessageWeight*float64(st.MessageCount) +
		e.activity.PointWeight*st.TotalPoints +
		e.activity.RecencyWeight*recency +
		e.activity.DayBonus*float64(st.ActiveDays)

	st.LongestStreak, st.CurrentStreak = streaks(dates, now)

	st.BusiestHour, st.QuietestHour = extremesInt(hours)
	st.BusiestWeekday, st.QuietestWeekday = extremesString(weekdays)
	st.BusiestDate, st.QuietestDate = extremesString(dates)
	st.BusiestMonth, st.QuietestMonth = extremesString(months)
	st.BusiestYear, st.QuietestYear = extremesInt(years)

	return st
}

func dateKey(t time.Time) string { return t.Format("2006-01-02") }

// streaks walks the author's distinct active calendar dates in ascending
// order. A gap of exactly one day extends a run; anything else closes
// it. The current streak counts only when the latest active date is
// today or yesterday relative to now.
func streaks(dates map[string]int, now time.Time) (longest, current int) {
	if len(dates) == 0 {
		return 0, 0
	}
	days := make([]time.Time, 0, len(dates))
	for d := range dates {
		t, err := time.ParseInLocation("2006-01-02", d, now.Location())
		if err != nil {
			continue
		}
		days = append(days, t)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest = 1
	run := 1
	for i := 1; i < len(days); i++ {
		// Compare by calendar day, not elapsed hours, so DST shifts
		// cannot break a run.
		if days[i-1].AddDate(0, 0, 1).Equal(days[i]) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	last := days[len(days)-1]
	if !last.Before(today.AddDate(0, 0, -1)) {
		current = run
	}
	return longest, current
}

// extremesInt returns the busiest and quietest keys of a histogram.
// Ties break on first-encountered iteration order.
func extremesInt(hist map[int]int) (busiest, quietest int) {
	first := true
	var maxN, minN int
	for k, n := range hist {
		if first {
			busiest, quietest, maxN, minN = k, k, n, n
			first = false
			continue
		}
		if n > maxN {
			busiest, maxN = k, n
		}
		if n < minN {
			quietest, minN = k, n
		}
	}
	return busiest, quietest
}

func extremesString(hist map[string]int) (busiest, quietest string) {
	first := true
	var maxN, minN int
	for k, n := range hist {
		if first {
			busiest, quietest, maxN, minN = k, k, n, n
			first = false
			continue
		}
		if n > maxN {
			busiest, maxN = k, n
		}
		if n < minN {
			quietest, minN = k, n
		}
	}
	return busiest, quietest
}

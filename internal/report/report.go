// Package report renders computed statistics into human-readable text
// blocks. Formatting is a pure function of the input structures; the
// underlying stats are never modified here.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/you/chatmetrics/internal/core"
	"github.com/you/chatmetrics/internal/stats"
)

const timeLayout = "2006-01-02 15:04:05"

// Options controls activity-report rendering. Exclusions and renames
// apply only at render time, never to the underlying stats.
type Options struct {
	ExcludeAuthors []string
	RenameAuthors  map[string]string
}

func (o Options) excluded(author string) bool {
	for _, ex := range o.ExcludeAuthors {
		if ex == author {
			return true
		}
	}
	return false
}

func (o Options) displayName(author string) string {
	if name, ok := o.RenameAuthors[author]; ok {
		return name
	}
	return author
}

// FormatOverall renders the all-users aggregate of a window.
func FormatOverall(st stats.OverallStats) string {
	var b strings.Builder
	b.WriteString("=== Overall Statistics ===\n")
	fmt.Fprintf(&b, "Messages: %d  Users: %d  Points: %.1f\n", st.TotalMessages, st.TotalUsers, st.TotalPoints)
	fmt.Fprintf(&b, "First message: %s\n", st.FirstMessage.Format(timeLayout))
	fmt.Fprintf(&b, "Last message:  %s\n", st.LastMessage.Format(timeLayout))

	b.WriteString("\nBy type:\n")
	for _, t := range sortedTypeKeys(st.TypeDistribution) {
		d := st.TypeDistribution[t]
		fmt.Fprintf(&b, "  %-10s %6d  (%.1f%%)\n", t, d.Count, d.Percentage)
	}
	b.WriteString("By status:\n")
	for _, s := range sortedStatusKeys(st.StatusDistribution) {
		d := st.StatusDistribution[s]
		fmt.Fprintf(&b, "  %-10s %6d  (%.1f%%)\n", s, d.Count, d.Percentage)
	}

	fmt.Fprintf(&b, "\nCalls: %d (missed %d, %d call-seconds)\n", st.CallCount, st.MissedCalls, st.TotalCallSeconds)
	fmt.Fprintf(&b, "Polls: %d (%d votes)\n", st.PollCount, st.TotalPollVotes)
	fmt.Fprintf(&b, "Text messages: %d, %d chars total, %.1f chars avg\n", st.TextMessages, st.TotalChars, st.AvgChars)

	b.WriteString("\n--- Fun stats ---\n")
	fun := st.Fun
	fmt.Fprintf(&b, "Busiest hour %02d:00, quietest hour %02d:00\n", fun.BusiestHour, fun.QuietestHour)
	fmt.Fprintf(&b, "Busiest weekday %s, quietest weekday %s\n", fun.BusiestWeekday, fun.QuietestWeekday)
	fmt.Fprintf(&b, "Busiest date %s, quietest date %s\n", fun.BusiestDate, fun.QuietestDate)
	fmt.Fprintf(&b, "Busiest month %s, quietest month %s\n", fun.BusiestMonth, fun.QuietestMonth)
	fmt.Fprintf(&b, "Busiest year %d, quietest year %d\n", fun.BusiestYear, fun.QuietestYear)
	fmt.Fprintf(&b, "Most active: %s (%.0f messages)\n", fun.MostActiveUser, fun.MostActiveValue)
	fmt.Fprintf(&b, "Most valuable: %s (%.1f points)\n", fun.MostValuableUser, fun.MostValuableValue)
	fmt.Fprintf(&b, "Longest text: %s (%d chars), shortest text: %s (%d chars)\n",
		fun.LongestTextAuthor, fun.LongestTextLength, fun.ShortestTextAuthor, fun.ShortestTextLength)
	fmt.Fprintf(&b, "Top streak: %s (%d days)\n", fun.TopStreakUser, fun.TopStreak)
	fmt.Fprintf(&b, "Top caller: %s (%d calls)\n", fun.TopCallerUser, fun.TopCallCount)
	fmt.Fprintf(&b, "Top pollster: %s (%d polls)\n", fun.TopPollsterUser, fun.TopPollCount)
	return b.String()
}

// FormatUser renders one author's statistics.
func FormatUser(st stats.UserStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== Statistics for %s ===\n", st.Author)
	fmt.Fprintf(&b, "Messages: %d  Points: %.1f  Activity score: %.2f\n", st.MessageCount, st.TotalPoints, st.ActivityScore)
	fmt.Fprintf(&b, "First message: %s\n", st.FirstMessage.Format(timeLayout))
	fmt.Fprintf(&b, "Last message:  %s\n", st.LastMessage.Format(timeLayout))
	fmt.Fprintf(&b, "Active days: %d  Avg messages/day: %.2f\n", st.ActiveDays, st.AvgPerDay)
	fmt.Fprintf(&b, "Longest streak: %d days  Current streak: %d days\n", st.LongestStreak, st.CurrentStreak)

	b.WriteString("By type:\n")
	for _, t := range sortedCountKeys(st.ByType) {
		fmt.Fprintf(&b, "  %-10s %6d\n", t, st.ByType[t])
	}
	b.WriteString("By status:\n")
	for _, s := range sortedStatusCountKeys(st.ByStatus) {
		fmt.Fprintf(&b, "  %-10s %6d\n", s, st.ByStatus[s])
	}

	fmt.Fprintf(&b, "Busiest hour %02d:00, quietest hour %02d:00\n", st.BusiestHour, st.QuietestHour)
	fmt.Fprintf(&b, "Busiest weekday %s, quietest weekday %s\n", st.BusiestWeekday, st.QuietestWeekday)
	fmt.Fprintf(&b, "Busiest date %s, quietest date %s\n", st.BusiestDate, st.QuietestDate)
	fmt.Fprintf(&b, "Busiest month %s, quietest month %s\n", st.BusiestMonth, st.QuietestMonth)
	fmt.Fprintf(&b, "Busiest year %d, quietest year %d\n", st.BusiestYear, st.QuietestYear)
	fmt.Fprintf(&b, "Text messages: %d, %d chars total, %.1f chars avg\n", st.TextMessages, st.TotalChars, st.AvgChars)
	return b.String()
}

// FormatRankings renders a ranking table.
func FormatRankings(entries []stats.RankingEntry, rt stats.RankingType) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== Ranking by %s ===\n", rt)
	if len(entries) == 0 {
		b.WriteString("no data\n")
		return b.String()
	}
	for _, e := range entries {
		fmt.Fprintf(&b, "%3d. %-24s %10.1f  (%.1f%%)\n", e.Rank, e.Author, e.Value, e.Percentage)
	}
	return b.String()
}

// FormatActivityReport renders the weighted four-week category report.
func FormatActivityReport(results []stats.ActivityResult, rt stats.RankingType, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== Activity report (%s) ===\n", rt)
	shown := 0
	for _, r := range results {
		if opts.excluded(r.Author) {
			continue
		}
		shown++
		fmt.Fprintf(&b, "%-24s %-12s avg %.1f  weeks %.1f/%.1f/%.1f/%.1f\n",
			opts.displayName(r.Author), r.Category, r.WeightedAverage,
			r.WeekValues[0], r.WeekValues[1], r.WeekValues[2], r.WeekValues[3])
	}
	if shown == 0 {
		b.WriteString("no data\n")
	}
	return b.String()
}

// FormatHeatmap renders the raw histograms.
func FormatHeatmap(hm stats.Heatmap) string {
	var b strings.Builder
	b.WriteString("=== Activity heatmap ===\n")

	b.WriteString("Hours:\n")
	hours := make([]int, 0, len(hm.Hours))
	for h := range hm.Hours {
		hours = append(hours, h)
	}
	sort.Ints(hours)
	for _, h := range hours {
		fmt.Fprintf(&b, "  %02d:00 %6d\n", h, hm.Hours[h])
	}

	b.WriteString("Weekdays:\n")
	for _, wd := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"} {
		if n, ok := hm.Weekdays[wd]; ok {
			fmt.Fprintf(&b, "  %-9s %6d\n", wd, n)
		}
	}

	b.WriteString("Dates:\n")
	dates := make([]string, 0, len(hm.Dates))
	for d := range hm.Dates {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, d := range dates {
		fmt.Fprintf(&b, "  %s %6d\n", d, hm.Dates[d])
	}

	b.WriteString("Months:\n")
	months := make([]string, 0, len(hm.Months))
	for m := range hm.Months {
		months = append(months, m)
	}
	sort.Strings(months)
	for _, m := range months {
		fmt.Fprintf(&b, "  %s %6d\n", m, hm.Months[m])
	}

	b.WriteString("Years:\n")
	years := make([]int, 0, len(hm.Years))
	for y := range hm.Years {
		years = append(years, y)
	}
	sort.Ints(years)
	for _, y := range years {
		fmt.Fprintf(&b, "  %d %6d\n", y, hm.Years[y])
	}

	b.WriteString("Weekday-hour grid:\n")
	cells := make([]string, 0, len(hm.Combined))
	for c := range hm.Combined {
		cells = append(cells, c)
	}
	sort.Strings(cells)
	for _, c := range cells {
		fmt.Fprintf(&b, "  %-13s %6d\n", c, hm.Combined[c])
	}
	return b.String()
}

// FormatTrending renders the word frequency table.
func FormatTrending(topics []stats.TrendingTopic) string {
	var b strings.Builder
	b.WriteString("=== Trending topics ===\n")
	if len(topics) == 0 {
		b.WriteString("no data\n")
		return b.String()
	}
	for i, t := range topics {
		fmt.Fprintf(&b, "%3d. %-20s %6d  (%.1f%%)\n", i+1, t.Word, t.Count, t.Percentage)
	}
	return b.String()
}

// FormatComparative renders window-over-window deltas.
func FormatComparative(cs stats.ComparativeStats) string {
	var b strings.Builder
	b.WriteString("=== Window comparison ===\n")
	fmt.Fprintf(&b, "Messages: %+.1f%%\n", cs.MessageCountDelta)
	fmt.Fprintf(&b, "Users:    %+.1f%%\n", cs.UserCountDelta)
	fmt.Fprintf(&b, "Points:   %+.1f%%\n", cs.PointsDelta)
	if cs.TopUserChanged {
		fmt.Fprintf(&b, "Top user changed: %s -> %s\n", cs.TopUserA, cs.TopUserB)
	} else {
		fmt.Fprintf(&b, "Top user %s unchanged (%+.1f messages)\n", cs.TopUserA, cs.TopUserDelta)
	}
	return b.String()
}

func sortedTypeKeys(m map[core.MessageType]stats.Distribution) []core.MessageType {
	keys := make([]core.MessageType, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func sortedStatusKeys(m map[core.MessageStatus]stats.Distribution) []core.MessageStatus {
	keys := make([]core.MessageStatus, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func sortedCountKeys(m map[core.MessageType]int) []core.MessageType {
	keys := make([]core.MessageType, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func sortedStatusCountKeys(m map[core.MessageStatus]int) []core.MessageStatus {
	keys := make([]core.MessageStatus, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

package report

import (
	"strings"
	"testing"
	"time"

	"github.com/you/chatmetrics/internal/core"
	"github.com/you/chatmetrics/internal/stats"
)

func TestFormatOverallContainsSections(t *testing.T) {
	st := stats.OverallStats{
		TotalMessages: 10,
		TotalUsers:    3,
		TotalPoints:   25.5,
		FirstMessage:  time.Date(2023, 1, 1, 9, 0, 0, 0, time.Local),
		LastMessage:   time.Date(2023, 6, 1, 18, 30, 0, 0, time.Local),
		TypeDistribution: map[core.MessageType]stats.Distribution{
			core.TypeText:  {Count: 8, Percentage: 80},
			core.TypeImage: {Count: 2, Percentage: 20},
		},
		StatusDistribution: map[core.MessageStatus]stats.Distribution{
			core.StatusActive: {Count: 10, Percentage: 100},
		},
		Fun: stats.FunStats{
			MostActiveUser: "Alice",
			BusiestWeekday: "Monday",
		},
	}
	out := FormatOverall(st)
	for _, want := range []string{
		"Messages: 10  Users: 3  Points: 25.5",
		"2023-01-01 09:00:00",
		"text",
		"image",
		"active",
		"Fun stats",
		"Most active: Alice",
		"Busiest weekday Monday",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatUserContainsFields(t *testing.T) {
	st := stats.UserStats{
		Author:        "Bob",
		MessageCount:  7,
		TotalPoints:   12.3,
		LongestStreak: 4,
		CurrentStreak: 2,
		ByType:        map[core.MessageType]int{core.TypeText: 7},
		ByStatus:      map[core.MessageStatus]int{core.StatusActive: 7},
	}
	out := FormatUser(st)
	for _, want := range []string{
		"Statistics for Bob",
		"Messages: 7",
		"Longest streak: 4 days  Current streak: 2 days",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatRankings(t *testing.T) {
	entries := []stats.RankingEntry{
		{Rank: 1, Author: "Alice", Value: 30, Percentage: 60},
		{Rank: 2, Author: "Bob", Value: 20, Percentage: 40},
	}
	out := FormatRankings(entries, stats.RankByMessageCount)
	if !strings.Contains(out, "message_count") {
		t.Fatalf("missing ranking type header:\n%s", out)
	}
	if !strings.Contains(out, "1. Alice") && !strings.Contains(out, "  1. Alice") {
		t.Fatalf("missing rank 1 row:\n%s", out)
	}
	if strings.Index(out, "Alice") > strings.Index(out, "Bob") {
		t.Fatalf("rows out of order:\n%s", out)
	}
}

func TestFormatRankingsEmpty(t *testing.T) {
	out := FormatRankings(nil, stats.RankByMessagePoints)
	if !strings.Contains(out, "no data") {
		t.Fatalf("empty ranking output = %q", out)
	}
}

func TestFormatActivityReportExcludeAndRename(t *testing.T) {
	results := []stats.ActivityResult{
		{Author: "Alice", WeightedAverage: 40, Category: stats.CategorySuperActive},
		{Author: "Bot", WeightedAverage: 100, Category: stats.CategorySuperActive},
		{Author: "Bob", WeightedAverage: 2, Category: stats.CategoryRedZone},
	}
	opts := Options{
		ExcludeAuthors: []string{"Bot"},
		RenameAuthors:  map[string]string{"Bob": "Robert"},
	}
	out := FormatActivityReport(results, stats.RankByMessageCount, opts)
	if strings.Contains(out, "Bot") {
		t.Fatalf("excluded author rendered:\n%s", out)
	}
	if !strings.Contains(out, "Robert") || strings.Contains(out, "Bob ") {
		t.Fatalf("rename not applied:\n%s", out)
	}
	if !strings.Contains(out, string(stats.CategorySuperActive)) {
		t.Fatalf("category missing:\n%s", out)
	}
}

func TestFormatHeatmap(t *testing.T) {
	hm := stats.Heatmap{
		Hours:    map[int]int{9: 3, 14: 5},
		Weekdays: map[string]int{"Monday": 4, "Friday": 4},
		Dates:    map[string]int{"2023-06-26": 8},
		Months:   map[string]int{"2023-06": 8},
		Years:    map[int]int{2023: 8},
		Combined: map[string]int{"Monday-14": 5, "Friday-9": 3},
	}
	out := FormatHeatmap(hm)
	for _, want := range []string{"09:00", "14:00", "Monday", "Friday", "2023-06-26", "2023-06", "Monday-14"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	// Weekdays render in calendar order, not count order.
	if strings.Index(out, "Monday") > strings.Index(out, "Friday") {
		t.Fatalf("weekdays out of calendar order:\n%s", out)
	}
}

func TestFormatTrendingAndComparative(t *testing.T) {
	trending := FormatTrending([]stats.TrendingTopic{{Word: "coffee", Count: 4, Percentage: 50}})
	if !strings.Contains(trending, "coffee") || !strings.Contains(trending, "50.0%") {
		t.Fatalf("trending output = %q", trending)
	}

	changed := FormatComparative(stats.ComparativeStats{
		MessageCountDelta: -33.3,
		TopUserA:          "Alice",
		TopUserB:          "Bob",
		TopUserChanged:    true,
	})
	if !strings.Contains(changed, "Alice -> Bob") {
		t.Fatalf("comparative output = %q", changed)
	}

	same := FormatComparative(stats.ComparativeStats{TopUserA: "Alice", TopUserB: "Alice", TopUserDelta: 5})
	if !strings.Contains(same, "unchanged") {
		t.Fatalf("comparative output = %q", same)
	}
}

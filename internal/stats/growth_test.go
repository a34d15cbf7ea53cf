package stats

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestGrowthSummary(t *testing.T) {
	tests := []struct {
		name     string
		current  []Snapshot
		previous []Snapshot
		expected Growth
	}{
		{
			name:     "no current snapshot",
			previous: []Snapshot{{Date: date("2026-03-01"), Followers: 100}},
			expected: Growth{},
		},
		{
			name:    "no baseline",
			current: []Snapshot{{Date: date("2026-03-10"), Followers: 100, EngagementRate: 2.5}},
			expected: Growth{
				Followers:      Change{Current: 100, Change: 100, Percent: 0},
				EngagementRate: Change{Current: 2.5, Change: 2.5, Percent: 0},
			},
		},
		{
			name: "newest of each window is compared",
			current: []Snapshot{
				{Date: date("2026-03-09"), Followers: 1100, AvgLikes: 10},
				{Date: date("2026-03-12"), Followers: 1234, AvgLikes: 40, AvgViews: 300},
			},
			previous: []Snapshot{
				{Date: date("2026-03-01"), Followers: 900},
				{Date: date("2026-03-04"), Followers: 1000, AvgLikes: 30, AvgViews: 400},
			},
			expected: Growth{
				Followers: Change{Current: 1234, Change: 234, Percent: 23.4},
				AvgLikes:  Change{Current: 40, Change: 10, Percent: 33.33},
				AvgViews:  Change{Current: 300, Change: -100, Percent: -25},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GrowthSummary(tt.current, tt.previous)
			if got != tt.expected {
				t.Errorf("GrowthSummary() = %+v, want %+v", got, tt.expected)
			}
			if again := GrowthSummary(tt.current, tt.previous); again != got {
				t.Errorf("GrowthSummary() is not idempotent: %+v vs %+v", again, got)
			}
		})
	}
}

func TestSplitGrowthWindows(t *testing.T) {
	now := date("2026-03-15")
	snapshots := []Snapshot{
		{Date: date("2026-03-14")},
		{Date: date("2026-03-08")},
		{Date: date("2026-03-05")},
		{Date: date("2026-03-01")},
		{Date: date("2026-02-20")},
	}

	current, previous := SplitGrowthWindows(snapshots, now)
	if len(current) != 2 {
		t.Errorf("expected 2 current snapshots, got %d", len(current))
	}
	if len(previous) != 2 {
		t.Errorf("expected 2 previous snapshots, got %d", len(previous))
	}
}

func TestWindowContains(t *testing.T) {
	w := Window{From: date("2026-03-01"), To: date("2026-03-08")}

	if !w.Contains(date("2026-03-01")) {
		t.Error("From should be inclusive")
	}
	if w.Contains(date("2026-03-08")) {
		t.Error("To should be exclusive")
	}
	if !(Window{From: date("2026-03-01")}).Contains(date("2030-01-01")) {
		t.Error("zero To should be unbounded")
	}
}

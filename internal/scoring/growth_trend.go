package scoring

import (
	"math"
	"sort"
)

const neutralGrowth = 50

var followerGrowthLadder = ladder{
	bands: []band{
		atLeast(20, 100),
		atLeast(10, 90),
		atLeast(5, 80),
		atLeast(2, 70),
		atLeast(0, 55),
		atLeast(-2, 40),
		atLeast(-5, 30),
	},
	otherwise: 15,
}

var engagementDeltaLadder = ladder{
	bands: []band{
		atLeast(10, 100),
		atLeast(5, 80),
		atLeast(0, 60),
		atLeast(-5, 40),
	},
	otherwise: 20,
}

// GrowthTrendScorer rates follower and engagement change across recent snapshots
type GrowthTrendScorer struct{}

// NewGrowthTrendScorer creates a growth trend scorer
func NewGrowthTrendScorer() *GrowthTrendScorer {
	return &GrowthTrendScorer{}
}

func (s *GrowthTrendScorer) Key() string     { return KeyGrowthTrend }
func (s *GrowthTrendScorer) Label() string   { return "Growth Trend" }
func (s *GrowthTrendScorer) Weight() float64 { return 0.10 }

// Score compares the oldest and newest snapshot inside GrowthWindow.
// Without an account or with fewer than two snapshots it is neutral.
func (s *GrowthTrendScorer) Score(in *Input) int {
	if in.AccountID == 0 {
		return neutralGrowth
	}

	history := recentSnapshots(in.Snapshots)
	if len(history) < 2 {
		return neutralGrowth
	}

	oldest, newest := history[0], history[len(history)-1]
	if oldest.Followers == 0 {
		if newest.Followers > 0 {
			return 80
		}
		return neutralGrowth
	}

	growth := float64(newest.Followers-oldest.Followers) / float64(oldest.Followers) * 100

	delta := 0.0
	if oldest.EngagementRate > 0 {
		delta = (newest.EngagementRate - oldest.EngagementRate) / oldest.EngagementRate * 100
	}

	followerScore := followerGrowthLadder.score(growth)
	engagementScore := engagementDeltaLadder.score(delta)

	return int(math.Round(float64(followerScore)*0.7 + float64(engagementScore)*0.3))
}

// recentSnapshots sorts oldest first and drops anything older than
// GrowthWindow before the newest snapshot.
func recentSnapshots(snapshots []SnapshotPoint) []SnapshotPoint {
	if len(snapshots) == 0 {
		return nil
	}
	sorted := make([]SnapshotPoint, len(snapshots))
	copy(sorted, snapshots)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	cutoff := sorted[len(sorted)-1].Date.Add(-GrowthWindow)
	start := 0
	for start < len(sorted) && sorted[start].Date.Before(cutoff) {
		start++
	}
	return sorted[start:]
}

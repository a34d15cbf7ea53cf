package stats

import (
	"math"
	"time"
)

// DateLayout is the calendar-date format used in rows and snapshot keys
const DateLayout = "2006-01-02"

// Snapshot is one account's metrics on one calendar date
type Snapshot struct {
	Date             time.Time `json:"date"`
	Followers        int64     `json:"followers"`
	Following        int64     `json:"following"`
	EngagementRate   float64   `json:"engagement_rate"`
	AvgLikes         int64     `json:"avg_likes"`
	AvgViews         int64     `json:"avg_views"`
	AvgComments      int64     `json:"avg_comments"`
	TotalPosts       int64     `json:"total_posts"`
	PostingFrequency float64   `json:"posting_frequency"`
}

// Day truncates t to midnight UTC of its calendar date
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// roundTo rounds half away from zero to the given number of decimals
func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func newest(snapshots []Snapshot) (Snapshot, bool) {
	if len(snapshots) == 0 {
		return Snapshot{}, false
	}
	best := snapshots[0]
	for _, s := range snapshots[1:] {
		if s.Date.After(best.Date) {
			best = s
		}
	}
	return best, true
}

package stats

import "time"

// Change compares a current value with the previous period's
type Change struct {
	Current float64 `json:"current"`
	Change  float64 `json:"change"`
	Percent float64 `json:"percent"`
}

// Growth is the week-over-week summary shown on the stats overview
type Growth struct {
	Followers      Change `json:"followers"`
	EngagementRate Change `json:"engagement_rate"`
	AvgLikes       Change `json:"avg_likes"`
	AvgViews       Change `json:"avg_views"`
}

// Window is a half-open [From, To) date range; a zero To is unbounded
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t time.Time) bool {
	if t.Before(w.From) {
		return false
	}
	return w.To.IsZero() || t.Before(w.To)
}

// GrowthWindows returns the last 7 days and the 7 days before that
func GrowthWindows(now time.Time) (current, previous Window) {
	weekAgo := now.AddDate(0, 0, -7)
	current = Window{From: weekAgo}
	previous = Window{From: now.AddDate(0, 0, -14), To: weekAgo}
	return current, previous
}

// SplitGrowthWindows partitions snapshots into the two growth windows
func SplitGrowthWindows(snapshots []Snapshot, now time.Time) (current, previous []Snapshot) {
	cw, pw := GrowthWindows(now)
	for _, s := range snapshots {
		switch {
		case cw.Contains(s.Date):
			current = append(current, s)
		case pw.Contains(s.Date):
			previous = append(previous, s)
		}
	}
	return current, previous
}

// GrowthSummary compares the newest snapshot of the current window with the
// newest of the previous one. Without a current snapshot everything is zero.
func GrowthSummary(current, previous []Snapshot) Growth {
	now, ok := newest(current)
	if !ok {
		return Growth{}
	}
	prev, _ := newest(previous)

	return Growth{
		Followers:      change(float64(now.Followers), float64(prev.Followers)),
		EngagementRate: change(now.EngagementRate, prev.EngagementRate),
		AvgLikes:       change(float64(now.AvgLikes), float64(prev.AvgLikes)),
		AvgViews:       change(float64(now.AvgViews), float64(prev.AvgViews)),
	}
}

func change(current, previous float64) Change {
	delta := current - previous
	percent := 0.0
	if previous > 0 {
		percent = roundTo(delta/previous*100, 2)
	}
	return Change{Current: current, Change: delta, Percent: percent}
}

package stats

import (
	"math"
	"strings"
	"time"
)

// Period selects how snapshots are bucketed for charts
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod accepts day, week or month and falls back to day
func ParsePeriod(s string) Period {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodWeek, PeriodMonth:
		return p
	default:
		return PeriodDay
	}
}

// Since returns the start of the range charted for the period
func (p Period) Since(now time.Time) time.Time {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7*12)
	case PeriodMonth:
		return now.AddDate(0, -12, 0)
	default:
		return now.AddDate(0, 0, -30)
	}
}

// Row is one chart point
type Row struct {
	Date             string  `json:"date"`
	Followers        int64   `json:"followers"`
	Following        int64   `json:"following"`
	EngagementRate   float64 `json:"engagement_rate"`
	AvgLikes         int64   `json:"avg_likes"`
	AvgViews         int64   `json:"avg_views"`
	AvgComments      int64   `json:"avg_comments"`
	TotalPosts       int64   `json:"total_posts"`
	PostingFrequency float64 `json:"posting_frequency"`
}

// Aggregate turns snapshots (newest first) into chart rows. Days are passed
// through; weeks and months average each field except total_posts, which is
// a cumulative counter and takes the bucket max. Buckets keep the order in
// which they are first seen.
func Aggregate(period Period, snapshots []Snapshot) []Row {
	switch period {
	case PeriodWeek:
		return bucket(snapshots, func(t time.Time) string { return WeekStart(t).Format(DateLayout) })
	case PeriodMonth:
		return bucket(snapshots, func(t time.Time) string { return Day(t).Format("2006-01") + "-01" })
	default:
		rows := make([]Row, 0, len(snapshots))
		for _, s := range snapshots {
			rows = append(rows, dayRow(s))
		}
		return rows
	}
}

// WeekStart returns the Monday starting t's ISO week
func WeekStart(t time.Time) time.Time {
	d := Day(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func dayRow(s Snapshot) Row {
	return Row{
		Date:             Day(s.Date).Format(DateLayout),
		Followers:        s.Followers,
		Following:        s.Following,
		EngagementRate:   s.EngagementRate,
		AvgLikes:         s.AvgLikes,
		AvgViews:         s.AvgViews,
		AvgComments:      s.AvgComments,
		TotalPosts:       s.TotalPosts,
		PostingFrequency: s.PostingFrequency,
	}
}

type accumulator struct {
	n                                            int
	followers, following, likes, views, comments float64
	engagement, frequency                        float64
	maxPosts                                     int64
}

func (a *accumulator) add(s Snapshot) {
	a.n++
	a.followers += float64(s.Followers)
	a.following += float64(s.Following)
	a.likes += float64(s.AvgLikes)
	a.views += float64(s.AvgViews)
	a.comments += float64(s.AvgComments)
	a.engagement += s.EngagementRate
	a.frequency += s.PostingFrequency
	if s.TotalPosts > a.maxPosts {
		a.maxPosts = s.TotalPosts
	}
}

func (a *accumulator) row(date string) Row {
	n := float64(a.n)
	avgInt := func(total float64) int64 { return int64(math.Round(total / n)) }
	return Row{
		Date:             date,
		Followers:        avgInt(a.followers),
		Following:        avgInt(a.following),
		EngagementRate:   roundTo(a.engagement/n, 4),
		AvgLikes:         avgInt(a.likes),
		AvgViews:         avgInt(a.views),
		AvgComments:      avgInt(a.comments),
		TotalPosts:       a.maxPosts,
		PostingFrequency: roundTo(a.frequency/n, 2),
	}
}

func bucket(snapshots []Snapshot, keyOf func(time.Time) string) []Row {
	order := make([]string, 0)
	groups := make(map[string]*accumulator)
	for _, s := range snapshots {
		key := keyOf(s.Date)
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{}
			groups[key] = acc
			order = append(order, key)
		}
		acc.add(s)
	}

	rows := make([]Row, 0, len(order))
	for _, key := range order {
		rows = append(rows, groups[key].row(key))
	}
	return rows
}

package scoring

import "time"

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time {
	return &t
}

// postsAt builds posts newest first at the given day offsets from baseTime
func postsAt(days ...float64) []Post {
	posts := make([]Post, 0, len(days))
	for i := len(days) - 1; i >= 0; i-- {
		at := baseTime.Add(time.Duration(days[i] * float64(24*time.Hour)))
		posts = append(posts, Post{PlatformPostID: at.Format(time.RFC3339), PostedAt: timePtr(at)})
	}
	return posts
}

func captioned(captions ...string) []Post {
	posts := make([]Post, 0, len(captions))
	for _, c := range captions {
		posts = append(posts, Post{Caption: c})
	}
	return posts
}

func snapshot(daysAgo int, followers int64, rate float64) SnapshotPoint {
	return SnapshotPoint{
		Date:           baseTime.AddDate(0, 0, -daysAgo),
		Followers:      followers,
		EngagementRate: rate,
	}
}

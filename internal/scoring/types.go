package scoring

import (
	"math"
	"strings"
	"time"
)

// PostType classifies a content item
type PostType string

const (
	PostTypePhoto   PostType = "photo"
	PostTypeVideo   PostType = "video"
	PostTypeReel    PostType = "reel"
	PostTypeUnknown PostType = "unknown"
)

// ParsePostType maps a connector-supplied type to a PostType, defaulting to unknown
func ParsePostType(s string) PostType {
	switch PostType(strings.ToLower(strings.TrimSpace(s))) {
	case PostTypePhoto:
		return PostTypePhoto
	case PostTypeVideo:
		return PostTypeVideo
	case PostTypeReel:
		return PostTypeReel
	default:
		return PostTypeUnknown
	}
}

// ProfileData describes a social profile at a point in time
type ProfileData struct {
	Name         string `json:"name"`
	Bio          string `json:"bio"`
	ProfileImage string `json:"profile_image"`
	Website      string `json:"website"`
	Verified     bool   `json:"verified"`
	Followers    int64  `json:"followers"`
	Following    int64  `json:"following"`
	PostCount    int64  `json:"post_count"`
}

// Metrics is the aggregate engagement and activity summary of an account
type Metrics struct {
	Followers        int64   `json:"followers"`
	Following        int64   `json:"following"`
	TotalPosts       int64   `json:"total_posts"`
	AvgLikes         float64 `json:"avg_likes"`
	AvgViews         float64 `json:"avg_views"`
	AvgComments      float64 `json:"avg_comments"`
	EngagementRate   float64 `json:"engagement_rate"`   // percent
	PostingFrequency float64 `json:"posting_frequency"` // posts per week
}

// Post is one content item, most recent first when fetched
type Post struct {
	PlatformPostID string     `json:"platform_post_id"`
	PostType       PostType   `json:"post_type"`
	Caption        string     `json:"caption"`
	Likes          int64      `json:"likes"`
	Views          int64      `json:"views"`
	Comments       int64      `json:"comments"`
	Shares         int64      `json:"shares"`
	Saves          int64      `json:"saves"`
	PostedAt       *time.Time `json:"posted_at,omitempty"`
}

// SnapshotPoint is the part of a daily snapshot the growth scorer reads
type SnapshotPoint struct {
	Date           time.Time `json:"date"`
	Followers      int64     `json:"followers"`
	EngagementRate float64   `json:"engagement_rate"`
}

// Input bundles everything a scorer may look at for one account.
// Scorers never retain it beyond a single call.
type Input struct {
	AccountID int64
	Profile   ProfileData
	Metrics   Metrics
	Posts     []Post
	Snapshots []SnapshotPoint
}

// Normalized returns a copy of the input with negative counts and
// negative or non-finite rates replaced by zero.
func (in Input) Normalized() Input {
	out := in

	out.Profile.Followers = nonNegative(in.Profile.Followers)
	out.Profile.Following = nonNegative(in.Profile.Following)
	out.Profile.PostCount = nonNegative(in.Profile.PostCount)

	out.Metrics.Followers = nonNegative(in.Metrics.Followers)
	out.Metrics.Following = nonNegative(in.Metrics.Following)
	out.Metrics.TotalPosts = nonNegative(in.Metrics.TotalPosts)
	out.Metrics.AvgLikes = finiteNonNegative(in.Metrics.AvgLikes)
	out.Metrics.AvgViews = finiteNonNegative(in.Metrics.AvgViews)
	out.Metrics.AvgComments = finiteNonNegative(in.Metrics.AvgComments)
	out.Metrics.EngagementRate = finiteNonNegative(in.Metrics.EngagementRate)
	out.Metrics.PostingFrequency = finiteNonNegative(in.Metrics.PostingFrequency)

	if in.Posts != nil {
		out.Posts = make([]Post, len(in.Posts))
		for i, p := range in.Posts {
			p.Likes = nonNegative(p.Likes)
			p.Views = nonNegative(p.Views)
			p.Comments = nonNegative(p.Comments)
			p.Shares = nonNegative(p.Shares)
			p.Saves = nonNegative(p.Saves)
			if p.PostType == "" {
				p.PostType = PostTypeUnknown
			}
			out.Posts[i] = p
		}
	}

	if in.Snapshots != nil {
		out.Snapshots = make([]SnapshotPoint, len(in.Snapshots))
		for i, s := range in.Snapshots {
			s.Followers = nonNegative(s.Followers)
			s.EngagementRate = finiteNonNegative(s.EngagementRate)
			out.Snapshots[i] = s
		}
	}

	return out
}

// followersOrMetrics prefers the profile follower count and falls back to metrics
func (in *Input) followersOrMetrics() int64 {
	if in.Profile.Followers > 0 {
		return in.Profile.Followers
	}
	return in.Metrics.Followers
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

func finiteNonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

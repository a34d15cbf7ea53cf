package models

import (
	"time"

	"github.com/socialhealth/healthscore/internal/scoring"
	"github.com/socialhealth/healthscore/internal/stats"
)

// ScoreSnapshot is one account's metrics on one calendar date
type ScoreSnapshot struct {
	ID               int64     `gorm:"primaryKey;autoIncrement;column:id"`
	SocialAccountID  int64     `gorm:"not null;uniqueIndex:score_snapshots_account_date_ux,priority:1;column:social_account_id"`
	Followers        int64     `gorm:"not null;default:0;column:followers"`
	Following        int64     `gorm:"not null;default:0;column:following"`
	EngagementRate   float64   `gorm:"type:decimal(8,4);not null;default:0;column:engagement_rate"`
	AvgLikes         int64     `gorm:"not null;default:0;column:avg_likes"`
	AvgViews         int64     `gorm:"not null;default:0;column:avg_views"`
	AvgComments      int64     `gorm:"not null;default:0;column:avg_comments"`
	TotalPosts       int64     `gorm:"not null;default:0;column:total_posts"`
	PostingFrequency float64   `gorm:"type:decimal(5,2);not null;default:0;column:posting_frequency"`
	SnapshotDate     time.Time `gorm:"type:date;not null;uniqueIndex:score_snapshots_account_date_ux,priority:2;index;column:snapshot_date"`
	CreatedAt        time.Time `gorm:"not null;column:created_at"`
	UpdatedAt        time.Time `gorm:"not null;column:updated_at"`
}

// TableName specifies the table name for ScoreSnapshot
func (ScoreSnapshot) TableName() string {
	return "score_snapshots"
}

// NewSnapshot builds the snapshot for accountID on the calendar date of at
func NewSnapshot(accountID int64, at time.Time, m scoring.Metrics) *ScoreSnapshot {
	return &ScoreSnapshot{
		SocialAccountID:  accountID,
		Followers:        m.Followers,
		Following:        m.Following,
		EngagementRate:   m.EngagementRate,
		AvgLikes:         int64(m.AvgLikes),
		AvgViews:         int64(m.AvgViews),
		AvgComments:      int64(m.AvgComments),
		TotalPosts:       m.TotalPosts,
		PostingFrequency: m.PostingFrequency,
		SnapshotDate:     stats.Day(at),
	}
}

// Stats converts to the reporting shape
func (s *ScoreSnapshot) Stats() stats.Snapshot {
	return stats.Snapshot{
		Date:             s.SnapshotDate,
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

// Point converts to what the growth scorer reads
func (s *ScoreSnapshot) Point() scoring.SnapshotPoint {
	return scoring.SnapshotPoint{
		Date:           s.SnapshotDate,
		Followers:      s.Followers,
		EngagementRate: s.EngagementRate,
	}
}

// Metrics rebuilds the metrics summary recorded on the snapshot
func (s *ScoreSnapshot) Metrics() scoring.Metrics {
	return scoring.Metrics{
		Followers:        s.Followers,
		Following:        s.Following,
		TotalPosts:       s.TotalPosts,
		AvgLikes:         float64(s.AvgLikes),
		AvgViews:         float64(s.AvgViews),
		AvgComments:      float64(s.AvgComments),
		EngagementRate:   s.EngagementRate,
		PostingFrequency: s.PostingFrequency,
	}
}

package models

import (
	"database/sql"
	"time"

	"github.com/socialhealth/healthscore/internal/scoring"
)

// Post is a fetched content item with its counters
type Post struct {
	ID              int64          `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	SocialAccountID int64          `gorm:"not null;uniqueIndex:posts_account_platform_post_ux,priority:1;column:social_account_id" json:"social_account_id"`
	PlatformPostID  string         `gorm:"type:varchar(255);not null;uniqueIndex:posts_account_platform_post_ux,priority:2;column:platform_post_id" json:"platform_post_id"`
	PostType        sql.NullString `gorm:"type:varchar(32);column:post_type" json:"-"`
	Caption         sql.NullString `gorm:"type:text;column:caption" json:"-"`
	ThumbnailURL    sql.NullString `gorm:"type:varchar(1024);column:thumbnail_url" json:"-"`
	PostURL         sql.NullString `gorm:"type:varchar(1024);column:post_url" json:"-"`
	Likes           int64          `gorm:"not null;default:0;column:likes" json:"likes"`
	Views           int64          `gorm:"not null;default:0;column:views" json:"views"`
	Comments        int64          `gorm:"not null;default:0;column:comments" json:"comments"`
	Shares          int64          `gorm:"not null;default:0;column:shares" json:"shares"`
	Saves           int64          `gorm:"not null;default:0;column:saves" json:"saves"`
	PostedAt        sql.NullTime   `gorm:"index;column:posted_at" json:"-"`
	FetchedAt       sql.NullTime   `gorm:"column:fetched_at" json:"-"`
	CreatedAt       time.Time      `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}

// ScoringPost converts to the scorer input shape
func (p *Post) ScoringPost() scoring.Post {
	out := scoring.Post{
		PlatformPostID: p.PlatformPostID,
		PostType:       scoring.ParsePostType(p.PostType.String),
		Caption:        p.Caption.String,
		Likes:          p.Likes,
		Views:          p.Views,
		Comments:       p.Comments,
		Shares:         p.Shares,
		Saves:          p.Saves,
	}
	if p.PostedAt.Valid {
		at := p.PostedAt.Time
		out.PostedAt = &at
	}
	return out
}

// PostView is the API shape of a stored post
type PostView struct {
	ID             int64            `json:"id"`
	PlatformPostID string           `json:"platform_post_id"`
	PostType       scoring.PostType `json:"post_type"`
	Caption        string           `json:"caption"`
	ThumbnailURL   string           `json:"thumbnail_url,omitempty"`
	PostURL        string           `json:"post_url,omitempty"`
	Likes          int64            `json:"likes"`
	Views          int64            `json:"views"`
	Comments       int64            `json:"comments"`
	Shares         int64            `json:"shares"`
	Saves          int64            `json:"saves"`
	PostedAt       *time.Time       `json:"posted_at,omitempty"`
}

// View converts to the API shape
func (p *Post) View() PostView {
	sp := p.ScoringPost()
	return PostView{
		ID:             p.ID,
		PlatformPostID: p.PlatformPostID,
		PostType:       sp.PostType,
		Caption:        sp.Caption,
		ThumbnailURL:   p.ThumbnailURL.String,
		PostURL:        p.PostURL.String,
		Likes:          p.Likes,
		Views:          p.Views,
		Comments:       p.Comments,
		Shares:         p.Shares,
		Saves:          p.Saves,
		PostedAt:       sp.PostedAt,
	}
}

// NullString wraps s, treating the empty string as NULL
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// NullTime wraps t, treating nil or zero as NULL
func NullTime(t *time.Time) sql.NullTime {
	if t == nil || t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

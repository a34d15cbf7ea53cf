package db

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/socialhealth/healthscore/internal/models"
	"github.com/socialhealth/healthscore/internal/scoring"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// postSort maps accepted sort keys to ORDER BY expressions
var postSort = map[string]string{
	"posted_at":  "posted_at DESC NULLS LAST",
	"likes":      "likes DESC",
	"views":      "views DESC",
	"comments":   "comments DESC",
	"engagement": "(likes + comments + shares + saves) DESC",
}

// PostQuery filters and pages a post listing
type PostQuery struct {
	Sort    string `json:"sort"`
	Type    string `json:"type"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
}

// Normalized fills defaults and clamps the paging values
func (q PostQuery) Normalized() PostQuery {
	if _, ok := postSort[q.Sort]; !ok {
		q.Sort = "posted_at"
	}
	if q.Type != "" {
		q.Type = string(scoring.ParsePostType(q.Type))
	}
	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.PerPage < 1:
		q.PerPage = DefaultPerPage
	case q.PerPage > MaxPerPage:
		q.PerPage = MaxPerPage
	}
	return q
}

// Offset is the row offset of the page
func (q PostQuery) Offset() int {
	return (q.Page - 1) * q.PerPage
}

// PostPage is one page of a post listing
type PostPage struct {
	Posts   []*models.Post
	Total   int64
	Page    int
	PerPage int
}

// PostRepository provides post operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// Upsert writes posts keyed by (account, platform post id), refreshing counters of known ones
func (r *PostRepository) Upsert(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "social_account_id"}, {Name: "platform_post_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"post_type", "caption", "thumbnail_url", "post_url",
				"likes", "views", "comments", "shares", "saves",
				"posted_at", "fetched_at", "updated_at",
			}),
		}).
		CreateInBatches(posts, 100).Error
}

// Recent lists the newest posts of an account
func (r *PostRepository) Recent(ctx context.Context, accountID int64, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Where("social_account_id = ?", accountID).
		Order("posted_at DESC NULLS LAST").
		Order("id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetByID retrieves one post of an account, nil when the account has no such post
func (r *PostRepository) GetByID(ctx context.Context, accountID, postID int64) (*models.Post, error) {
	var post models.Post
	found, err := r.first(r.db.WithContext(ctx).Where("id = ? AND social_account_id = ?", postID, accountID), &post)
	if err != nil || !found {
		return nil, err
	}
	return &post, nil
}

// ByAccount lists every post of an account
func (r *PostRepository) ByAccount(ctx context.Context, accountID int64) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.db.WithContext(ctx).Where("social_account_id = ?", accountID).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// List returns one page of an account's posts
func (r *PostRepository) List(ctx context.Context, accountID int64, q PostQuery) (*PostPage, error) {
	q = q.Normalized()

	scope := func() *gorm.DB {
		tx := r.db.WithContext(ctx).Model(&models.Post{}).Where("social_account_id = ?", accountID)
		if q.Type != "" {
			tx = tx.Where("post_type = ?", q.Type)
		}
		return tx
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, err
	}

	var posts []*models.Post
	err := scope().Order(postSort[q.Sort]).
		Order("id DESC").
		Offset(q.Offset()).
		Limit(q.PerPage).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	return &PostPage{Posts: posts, Total: total, Page: q.Page, PerPage: q.PerPage}, nil
}

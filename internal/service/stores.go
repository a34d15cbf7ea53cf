package service

import (
	"context"
	"errors"
	"time"

	"github.com/socialhealth/healthscore/internal/cache"
	"github.com/socialhealth/healthscore/internal/db"
	"github.com/socialhealth/healthscore/internal/models"
	"github.com/socialhealth/healthscore/internal/scoring"
)

type AccountStore interface {
	GetByID(ctx context.Context, id int64) (*models.SocialAccount, error)
	UpdateProfile(ctx context.Context, account *models.SocialAccount, syncedAt time.Time) error
}

type ScoreStore interface {
	Create(ctx context.Context, score *models.ProfileScore) error
	GetByID(ctx context.Context, id int64) (*models.ProfileScore, error)
	Latest(ctx context.Context, accountID int64) (*models.ProfileScore, error)
	History(ctx context.Context, accountID int64, since time.Time, limit int) ([]*models.ProfileScore, error)
	AppendTip(ctx context.Context, scoreID int64, tip scoring.Tip) (*models.ProfileScore, error)
}

type SnapshotStore interface {
	Upsert(ctx context.Context, snapshot *models.ScoreSnapshot) error
	Latest(ctx context.Context, accountID int64) (*models.ScoreSnapshot, error)
	Since(ctx context.Context, accountID int64, since time.Time) ([]*models.ScoreSnapshot, error)
}

type PostStore interface {
	Upsert(ctx context.Context, posts []*models.Post) error
	GetByID(ctx context.Context, accountID, postID int64) (*models.Post, error)
	Recent(ctx context.Context, accountID int64, limit int) ([]*models.Post, error)
	ByAccount(ctx context.Context, accountID int64) ([]*models.Post, error)
	List(ctx context.Context, accountID int64, q db.PostQuery) (*db.PostPage, error)
}

// Cache is the subset of the redis cache the services use
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	AcquireCooldown(ctx context.Context, key string, ttl time.Duration) (bool, time.Duration, error)
	ReleaseCooldown(ctx context.Context, key string) error
}

// Stores bundles the repositories behind the services
type Stores struct {
	Accounts  AccountStore
	Scores    ScoreStore
	Snapshots SnapshotStore
	Posts     PostStore
}

// NewStores builds the gorm-backed stores
func NewStores(repo *db.Repository) Stores {
	return Stores{
		Accounts:  db.NewAccountRepository(repo),
		Scores:    db.NewScoreRepository(repo),
		Snapshots: db.NewSnapshotRepository(repo),
		Posts:     db.NewPostRepository(repo),
	}
}

// cacheOff reports whether err only means the cache is not configured
func cacheOff(err error) bool {
	return errors.Is(err, cache.ErrCacheDisabled)
}

// loadAccount fetches an account, mapping a missing row to ErrAccountNotFound
func loadAccount(ctx context.Context, accounts AccountStore, id int64) (*models.SocialAccount, error) {
	account, err := accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/socialhealth/healthscore/internal/models"
	"github.com/socialhealth/healthscore/internal/scoring"
	"github.com/socialhealth/healthscore/internal/stats"
	"github.com/socialhealth/healthscore/pkg/logging"
)

// SyncPost is a post as delivered by a platform connector
type SyncPost struct {
	scoring.Post
	ThumbnailURL string `json:"thumbnail_url"`
	PostURL      string `json:"post_url"`
}

// SyncPayload is what a connector pushes after fetching an account
type SyncPayload struct {
	Profile scoring.ProfileData `json:"profile"`
	Metrics scoring.Metrics     `json:"metrics"`
	Posts   []SyncPost          `json:"posts"`
}

// SyncResult summarises an ingest
type SyncResult struct {
	AccountID    int64     `json:"social_account_id"`
	SyncedAt     time.Time `json:"synced_at"`
	SnapshotDate string    `json:"snapshot_date"`
	PostsStored  int       `json:"posts_stored"`
	PostsSkipped int       `json:"posts_skipped"`
}

// SyncService stores connector output
type SyncService struct {
	stores Stores
	now    func() time.Time
	logger *zap.Logger
}

// NewSyncService creates a sync service
func NewSyncService(stores Stores) *SyncService {
	return &SyncService{
		stores: stores,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logging.WithComponent("sync-service"),
	}
}

// Ingest records profile data, today's snapshot and, for premium
// accounts, the fetched posts
func (s *SyncService) Ingest(ctx context.Context, accountID int64, payload SyncPayload) (*SyncResult, error) {
	account, err := loadAccount(ctx, s.stores.Accounts, accountID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	clean := scoring.Input{Profile: payload.Profile, Metrics: payload.Metrics}.Normalized()

	if err := account.SetProfile(clean.Profile); err != nil {
		return nil, fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := s.stores.Accounts.UpdateProfile(ctx, account, now); err != nil {
		return nil, fmt.Errorf("failed to store profile: %w", err)
	}

	snapshot := models.NewSnapshot(accountID, now, clean.Metrics)
	if err := s.stores.Snapshots.Upsert(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}

	result := &SyncResult{
		AccountID:    accountID,
		SyncedAt:     now,
		SnapshotDate: snapshot.SnapshotDate.Format(stats.DateLayout),
	}

	if !account.Premium(now) {
		result.PostsSkipped = len(payload.Posts)
	} else {
		posts := make([]*models.Post, 0, len(payload.Posts))
		for _, p := range payload.Posts {
			if strings.TrimSpace(p.PlatformPostID) == "" {
				result.PostsSkipped++
				continue
			}
			posts = append(posts, newPost(accountID, p, now))
		}
		if err := s.stores.Posts.Upsert(ctx, posts); err != nil {
			return nil, fmt.Errorf("failed to store posts: %w", err)
		}
		result.PostsStored = len(posts)
	}

	logging.WithAccount(s.logger, accountID).Info("Sync ingested",
		zap.String("snapshot_date", result.SnapshotDate),
		zap.Int("posts_stored", result.PostsStored),
		zap.Int("posts_skipped", result.PostsSkipped),
	)

	return result, nil
}

func newPost(accountID int64, p SyncPost, fetchedAt time.Time) *models.Post {
	clean := scoring.Input{Posts: []scoring.Post{p.Post}}.Normalized().Posts[0]
	return &models.Post{
		SocialAccountID: accountID,
		PlatformPostID:  strings.TrimSpace(clean.PlatformPostID),
		PostType:        models.NullString(string(scoring.ParsePostType(string(clean.PostType)))),
		Caption:         models.NullString(clean.Caption),
		ThumbnailURL:    models.NullString(p.ThumbnailURL),
		PostURL:         models.NullString(p.PostURL),
		Likes:           clean.Likes,
		Views:           clean.Views,
		Comments:        clean.Comments,
		Shares:          clean.Shares,
		Saves:           clean.Saves,
		PostedAt:        models.NullTime(clean.PostedAt),
		FetchedAt:       models.NullTime(&fetchedAt),
	}
}

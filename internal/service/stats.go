package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/socialhealth/healthscore/internal/db"
	"github.com/socialhealth/healthscore/internal/models"
	"github.com/socialhealth/healthscore/internal/scoring"
	"github.com/socialhealth/healthscore/internal/stats"
	"github.com/socialhealth/healthscore/pkg/logging"
)

// Overview is the stats landing page of an account
type Overview struct {
	AccountID    int64           `json:"social_account_id"`
	Growth       stats.Growth    `json:"growth"`
	Latest       *stats.Snapshot `json:"latest,omitempty"`
	LastSyncedAt *time.Time      `json:"last_synced_at,omitempty"`
	IsPremium    bool            `json:"is_premium"`
}

// PostList is one page of post analytics
type PostList struct {
	Posts   []models.PostView `json:"posts"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
}

// StatsService serves growth and content analytics
type StatsService struct {
	stores Stores
	now    func() time.Time
	logger *zap.Logger
}

// NewStatsService creates a stats service
func NewStatsService(stores Stores) *StatsService {
	return &StatsService{
		stores: stores,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logging.WithComponent("stats-service"),
	}
}

func toStats(rows []*models.ScoreSnapshot) []stats.Snapshot {
	out := make([]stats.Snapshot, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Stats())
	}
	return out
}

// Overview summarises this week against last week
func (s *StatsService) Overview(ctx context.Context, accountID int64) (*Overview, error) {
	account, err := loadAccount(ctx, s.stores.Accounts, accountID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	_, previous := stats.GrowthWindows(now)
	rows, err := s.stores.Snapshots.Since(ctx, accountID, previous.From)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}
	snapshots := toStats(rows)
	current, prior := stats.SplitGrowthWindows(snapshots, now)

	overview := &Overview{
		AccountID: accountID,
		Growth:    stats.GrowthSummary(current, prior),
		IsPremium: account.Premium(now),
	}
	if len(snapshots) > 0 {
		latest := snapshots[0]
		overview.Latest = &latest
	}
	if account.LastSyncedAt.Valid {
		at := account.LastSyncedAt.Time
		overview.LastSyncedAt = &at
	}
	return overview, nil
}

// Snapshots charts an account's snapshots for the period
func (s *StatsService) Snapshots(ctx context.Context, accountID int64, period stats.Period) ([]stats.Row, error) {
	if _, err := loadAccount(ctx, s.stores.Accounts, accountID); err != nil {
		return nil, err
	}

	rows, err := s.stores.Snapshots.Since(ctx, accountID, stats.Day(period.Since(s.now())))
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}
	return stats.Aggregate(period, toStats(rows)), nil
}

func (s *StatsService) premiumAccount(ctx context.Context, accountID int64) (*models.SocialAccount, error) {
	account, err := loadAccount(ctx, s.stores.Accounts, accountID)
	if err != nil {
		return nil, err
	}
	if !account.Premium(s.now()) {
		return nil, ErrPremiumRequired
	}
	return account, nil
}

// Posts lists post analytics, premium accounts only
func (s *StatsService) Posts(ctx context.Context, accountID int64, q db.PostQuery) (*PostList, error) {
	if _, err := s.premiumAccount(ctx, accountID); err != nil {
		return nil, err
	}

	page, err := s.stores.Posts.List(ctx, accountID, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	list := &PostList{
		Posts:   make([]models.PostView, 0, len(page.Posts)),
		Total:   page.Total,
		Page:    page.Page,
		PerPage: page.PerPage,
	}
	for _, p := range page.Posts {
		list.Posts = append(list.Posts, p.View())
	}
	return list, nil
}

// Post returns the analytics of a single post, premium accounts only
func (s *StatsService) Post(ctx context.Context, accountID, postID int64) (*models.PostView, error) {
	if _, err := s.premiumAccount(ctx, accountID); err != nil {
		return nil, err
	}

	post, err := s.stores.Posts.GetByID(ctx, accountID, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	view := post.View()
	return &view, nil
}

// ContentBreakdown groups an account's posts by type, premium accounts only
func (s *StatsService) ContentBreakdown(ctx context.Context, accountID int64) ([]stats.TypeBreakdown, error) {
	if _, err := s.premiumAccount(ctx, accountID); err != nil {
		return nil, err
	}

	rows, err := s.stores.Posts.ByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}
	posts := make([]scoring.Post, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, r.ScoringPost())
	}
	return stats.ContentBreakdown(posts), nil
}

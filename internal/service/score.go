package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/socialhealth/healthscore/internal/models"
	"github.com/socialhealth/healthscore/internal/scoring"
	"github.com/socialhealth/healthscore/pkg/config"
	"github.com/socialhealth/healthscore/pkg/logging"
	"github.com/socialhealth/healthscore/pkg/telemetry"
)

// ScoreResult is a stored score as returned to callers
type ScoreResult struct {
	ID              int64                  `json:"id"`
	AccountID       int64                  `json:"social_account_id"`
	OverallScore    int                    `json:"overall_score"`
	Grade           string                 `json:"grade"`
	CategoryScores  scoring.CategoryScores `json:"category_scores"`
	Tips            []scoring.Tip          `json:"tips"`
	CalculatedAt    time.Time              `json:"calculated_at"`
	NextAvailableAt time.Time              `json:"next_available_at"`
}

// ShareCard is the public summary of an account's latest score
type ShareCard struct {
	Username       string                 `json:"username"`
	Platform       string                 `json:"platform"`
	OverallScore   int                    `json:"overall_score"`
	Grade          string                 `json:"grade"`
	CategoryScores scoring.CategoryScores `json:"category_scores"`
	CalculatedAt   time.Time              `json:"calculated_at"`
}

// ScoreService calculates and serves profile health scores
type ScoreService struct {
	stores Stores
	cache  Cache
	calc   *scoring.Calculator
	cfg    config.ScoringConfig
	now    func() time.Time
	logger *zap.Logger
}

// NewScoreService creates a score service. c may be nil when redis is disabled.
func NewScoreService(stores Stores, c Cache, calc *scoring.Calculator, cfg config.ScoringConfig) *ScoreService {
	return &ScoreService{
		stores: stores,
		cache:  c,
		calc:   calc,
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logging.WithComponent("score-service"),
	}
}

// reviewCategory tags tips added by a reviewer rather than a scorer
const reviewCategory = "review"

// cooldownKey names the lock guarding the recalculation that follows the
// stored score afterID. Zero means the account has no stored score yet.
func cooldownKey(accountID, afterID int64) string {
	return "cooldown:" + strconv.FormatInt(accountID, 10) + ":" + strconv.FormatInt(afterID, 10)
}

func latestKey(accountID int64) string {
	return "score:latest:" + strconv.FormatInt(accountID, 10)
}

// Calculate scores an account unless it was scored within its cooldown
func (s *ScoreService) Calculate(ctx context.Context, accountID int64) (*ScoreResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "score.calculate")
	defer span.End()

	log := logging.WithAccount(s.logger, accountID)
	if traceID := telemetry.TraceID(ctx); traceID != "" {
		log = logging.WithTraceID(log, traceID)
	}

	account, err := loadAccount(ctx, s.stores.Accounts, accountID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	cooldown := s.cfg.CooldownFor(account.Premium(now))

	latest, err := s.stores.Scores.Latest(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest score: %w", err)
	}
	var afterID int64
	if latest != nil {
		if next := latest.CreatedAt.Add(cooldown); now.Before(next) {
			telemetry.RecordThrottled(ctx, account.Platform)
			return nil, &CooldownError{AccountID: accountID, NextAvailableAt: next}
		}
		afterID = latest.ID
	}

	// The lock is scoped to the stored score it follows, so a lock left by an
	// earlier calculation never outlives the cooldown of the current tier.
	key := cooldownKey(accountID, afterID)
	claimed := false
	if s.cache != nil {
		ok, remaining, err := s.cache.AcquireCooldown(ctx, key, cooldown)
		switch {
		case err != nil && !cacheOff(err):
			log.Warn("Cooldown lock unavailable, relying on stored scores", zap.Error(err))
		case err == nil && !ok:
			telemetry.RecordThrottled(ctx, account.Platform)
			return nil, &CooldownError{AccountID: accountID, NextAvailableAt: now.Add(remaining)}
		case err == nil:
			claimed = true
		}
	}

	in, err := s.input(ctx, account, now)
	if err != nil {
		s.release(ctx, key, claimed)
		return nil, err
	}

	score := s.calc.Calculate(in, now)
	row, err := models.NewProfileScore(account, score)
	if err != nil {
		s.release(ctx, key, claimed)
		return nil, err
	}
	if err := s.stores.Scores.Create(ctx, row); err != nil {
		s.release(ctx, key, claimed)
		return nil, fmt.Errorf("failed to store score: %w", err)
	}

	result := newScoreResult(row.ID, accountID, score, cooldown)
	s.cacheLatest(ctx, log, result)
	telemetry.RecordScore(ctx, account.Platform, score.OverallScore)

	log.Info("Score calculated",
		zap.Int64("score_id", row.ID),
		zap.Int("overall_score", score.OverallScore),
		zap.Int("tips", len(score.Tips)),
	)

	return result, nil
}

// input assembles profile, latest metrics, recent posts and growth history
func (s *ScoreService) input(ctx context.Context, account *models.SocialAccount, now time.Time) (scoring.Input, error) {
	in := scoring.Input{AccountID: account.ID}

	profile, err := account.Profile()
	if err != nil {
		return in, err
	}
	in.Profile = profile

	snapshot, err := s.stores.Snapshots.Latest(ctx, account.ID)
	if err != nil {
		return in, fmt.Errorf("failed to load latest snapshot: %w", err)
	}
	if snapshot != nil {
		in.Metrics = snapshot.Metrics()
	}

	posts, err := s.stores.Posts.Recent(ctx, account.ID, s.cfg.RecentPosts)
	if err != nil {
		return in, fmt.Errorf("failed to load recent posts: %w", err)
	}
	in.Posts = make([]scoring.Post, 0, len(posts))
	for _, p := range posts {
		in.Posts = append(in.Posts, p.ScoringPost())
	}

	history, err := s.stores.Snapshots.Since(ctx, account.ID, now.Add(-scoring.GrowthWindow))
	if err != nil {
		return in, fmt.Errorf("failed to load snapshot history: %w", err)
	}
	in.Snapshots = make([]scoring.SnapshotPoint, 0, len(history))
	for _, h := range history {
		in.Snapshots = append(in.Snapshots, h.Point())
	}

	return in, nil
}

func (s *ScoreService) release(ctx context.Context, key string, claimed bool) {
	if !claimed {
		return
	}
	if err := s.cache.ReleaseCooldown(ctx, key); err != nil {
		s.logger.Warn("Failed to release cooldown", zap.String("key", key), zap.Error(err))
	}
}

func (s *ScoreService) cacheLatest(ctx context.Context, log *zap.Logger, result *ScoreResult) {
	if s.cache == nil || s.cfg.LatestScoreTTL <= 0 {
		return
	}
	if err := s.cache.SetJSON(ctx, latestKey(result.AccountID), result, s.cfg.LatestScoreTTL); err != nil && !cacheOff(err) {
		log.Warn("Failed to cache latest score", zap.Error(err))
	}
}

// Latest returns the newest stored score of an account
func (s *ScoreService) Latest(ctx context.Context, accountID int64) (*ScoreResult, error) {
	if s.cache != nil {
		var cached ScoreResult
		if err := s.cache.GetJSON(ctx, latestKey(accountID), &cached); err == nil {
			return &cached, nil
		}
	}

	account, err := loadAccount(ctx, s.stores.Accounts, accountID)
	if err != nil {
		return nil, err
	}
	row, err := s.stores.Scores.Latest(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest score: %w", err)
	}
	if row == nil {
		return nil, ErrScoreNotFound
	}

	result, err := s.toResult(row, account)
	if err != nil {
		return nil, err
	}
	s.cacheLatest(ctx, s.logger, result)
	return result, nil
}

// Share builds the public score card of an account from its latest score
func (s *ScoreService) Share(ctx context.Context, accountID int64) (*ShareCard, error) {
	account, err := loadAccount(ctx, s.stores.Accounts, accountID)
	if err != nil {
		return nil, err
	}
	row, err := s.stores.Scores.Latest(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest score: %w", err)
	}
	if row == nil {
		return nil, ErrScoreNotFound
	}

	score, err := row.Score()
	if err != nil {
		return nil, err
	}
	return &ShareCard{
		Username:       account.Username,
		Platform:       account.Platform,
		OverallScore:   score.OverallScore,
		Grade:          score.Grade(),
		CategoryScores: score.CategoryScores,
		CalculatedAt:   score.CalculatedAt,
	}, nil
}

// History lists an account's scores newest first. Free accounts only see
// the configured number of days.
func (s *ScoreService) History(ctx context.Context, accountID int64) ([]*ScoreResult, error) {
	account, err := loadAccount(ctx, s.stores.Accounts, accountID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var since time.Time
	if !account.Premium(now) {
		since = now.AddDate(0, 0, -s.cfg.HistoryDays)
	}

	rows, err := s.stores.Scores.History(ctx, accountID, since, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load score history: %w", err)
	}

	results := make([]*ScoreResult, 0, len(rows))
	for _, row := range rows {
		result, err := s.toResult(row, account)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// AddReviewTip attaches a tip to a stored score without recalculating it
func (s *ScoreService) AddReviewTip(ctx context.Context, scoreID int64, tip scoring.Tip) (*ScoreResult, error) {
	tip.Category = strings.TrimSpace(tip.Category)
	tip.Tip = strings.TrimSpace(tip.Tip)
	if tip.Tip == "" {
		return nil, invalidInput("tip text is required")
	}
	switch tip.Category {
	case "", reviewCategory:
		tip.Category = reviewCategory
	default:
		if _, err := s.calc.Category(tip.Category); err != nil {
			return nil, err
		}
	}
	if tip.Priority == "" {
		tip.Priority = scoring.PriorityMedium
	}
	if tip.Priority.Rank() > scoring.PriorityLow.Rank() {
		return nil, invalidInput("unknown priority %q", tip.Priority)
	}

	row, err := s.stores.Scores.AppendTip(ctx, scoreID, tip)
	if err != nil {
		return nil, fmt.Errorf("failed to append tip: %w", err)
	}
	if row == nil {
		return nil, ErrScoreNotFound
	}

	account, err := loadAccount(ctx, s.stores.Accounts, row.SocialAccountID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, latestKey(row.SocialAccountID)); err != nil && !cacheOff(err) {
			s.logger.Warn("Failed to invalidate latest score", zap.Int64("account_id", row.SocialAccountID), zap.Error(err))
		}
	}

	return s.toResult(row, account)
}

// Categories lists the scored categories with their labels and weights
func (s *ScoreService) Categories() []scoring.Category {
	return s.calc.Categories()
}

func (s *ScoreService) toResult(row *models.ProfileScore, account *models.SocialAccount) (*ScoreResult, error) {
	score, err := row.Score()
	if err != nil {
		return nil, err
	}
	cooldown := s.cfg.CooldownFor(account.Premium(s.now()))
	return newScoreResult(row.ID, row.SocialAccountID, score, cooldown), nil
}

func newScoreResult(id, accountID int64, score scoring.Score, cooldown time.Duration) *ScoreResult {
	tips := score.Tips
	if tips == nil {
		tips = []scoring.Tip{}
	}
	return &ScoreResult{
		ID:              id,
		AccountID:       accountID,
		OverallScore:    score.OverallScore,
		Grade:           score.Grade(),
		CategoryScores:  score.CategoryScores,
		Tips:            tips,
		CalculatedAt:    score.CalculatedAt,
		NextAvailableAt: score.CalculatedAt.Add(cooldown),
	}
}

// IsCooldown extracts the cooldown details from err
func IsCooldown(err error) (*CooldownError, bool) {
	var ce *CooldownError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

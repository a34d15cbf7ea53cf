package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/socialhealth/healthscore/internal/models"
	"github.com/socialhealth/healthscore/internal/scoring"
)

// ScoreRepository provides profile score operations
type ScoreRepository struct {
	*Repository
}

// NewScoreRepository creates a new score repository
func NewScoreRepository(repo *Repository) *ScoreRepository {
	return &ScoreRepository{Repository: repo}
}

// Create stores a calculation result
func (r *ScoreRepository) Create(ctx context.Context, score *models.ProfileScore) error {
	return r.db.WithContext(ctx).Create(score).Error
}

// GetByID retrieves a score by ID, nil when it does not exist
func (r *ScoreRepository) GetByID(ctx context.Context, id int64) (*models.ProfileScore, error) {
	var score models.ProfileScore
	found, err := r.first(r.db.WithContext(ctx).Where("id = ?", id), &score)
	if err != nil || !found {
		return nil, err
	}
	return &score, nil
}

// Latest retrieves the newest score of an account, nil when it has none
func (r *ScoreRepository) Latest(ctx context.Context, accountID int64) (*models.ProfileScore, error) {
	var score models.ProfileScore
	tx := r.db.WithContext(ctx).
		Where("social_account_id = ?", accountID).
		Order("created_at DESC").
		Order("id DESC")
	found, err := r.first(tx, &score)
	if err != nil || !found {
		return nil, err
	}
	return &score, nil
}

// History lists scores newest first. A zero since returns the full history.
func (r *ScoreRepository) History(ctx context.Context, accountID int64, since time.Time, limit int) ([]*models.ProfileScore, error) {
	tx := r.db.WithContext(ctx).
		Where("social_account_id = ?", accountID).
		Order("created_at DESC").
		Order("id DESC")
	if !since.IsZero() {
		tx = tx.Where("created_at >= ?", since)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var scores []*models.ProfileScore
	if err := tx.Find(&scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}

// AppendTip adds a tip to a stored score under a row lock, nil when the score does not exist
func (r *ScoreRepository) AppendTip(ctx context.Context, scoreID int64, tip scoring.Tip) (*models.ProfileScore, error) {
	var updated *models.ProfileScore
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.ProfileScore
		found, err := r.first(tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", scoreID), &row)
		if err != nil || !found {
			return err
		}

		score, err := row.Score()
		if err != nil {
			return err
		}
		score.AppendTip(tip)
		if err := row.SetTips(score.Tips); err != nil {
			return fmt.Errorf("failed to encode tips: %w", err)
		}
		if err := tx.Model(&row).Update("tips", row.Tips).Error; err != nil {
			return err
		}
		updated = &row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

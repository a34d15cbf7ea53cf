package db

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/socialhealth/healthscore/internal/models"
)

// SnapshotRepository provides daily snapshot operations
type SnapshotRepository struct {
	*Repository
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(repo *Repository) *SnapshotRepository {
	return &SnapshotRepository{Repository: repo}
}

// Upsert writes the snapshot for its (account, date), replacing the metrics of an existing one
func (r *SnapshotRepository) Upsert(ctx context.Context, snapshot *models.ScoreSnapshot) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "social_account_id"}, {Name: "snapshot_date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"followers", "following", "engagement_rate",
				"avg_likes", "avg_views", "avg_comments",
				"total_posts", "posting_frequency", "updated_at",
			}),
		}).
		Create(snapshot).Error
}

// Latest retrieves the newest snapshot of an account, nil when it has none
func (r *SnapshotRepository) Latest(ctx context.Context, accountID int64) (*models.ScoreSnapshot, error) {
	var snapshot models.ScoreSnapshot
	tx := r.db.WithContext(ctx).
		Where("social_account_id = ?", accountID).
		Order("snapshot_date DESC")
	found, err := r.first(tx, &snapshot)
	if err != nil || !found {
		return nil, err
	}
	return &snapshot, nil
}

// Since lists the snapshots dated on or after since, newest first
func (r *SnapshotRepository) Since(ctx context.Context, accountID int64, since time.Time) ([]*models.ScoreSnapshot, error) {
	var snapshots []*models.ScoreSnapshot
	err := r.db.WithContext(ctx).
		Where("social_account_id = ? AND snapshot_date >= ?", accountID, since).
		Order("snapshot_date DESC").
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

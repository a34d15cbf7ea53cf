package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/socialhealth/healthscore/internal/models"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// first loads one row into dest, reporting false when there is none
func (r *Repository) first(tx *gorm.DB, dest interface{}) (bool, error) {
	if err := tx.First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AccountRepository provides social account operations
type AccountRepository struct {
	*Repository
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(repo *Repository) *AccountRepository {
	return &AccountRepository{Repository: repo}
}

// GetByID retrieves an account by ID, nil when it does not exist
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.SocialAccount, error) {
	var account models.SocialAccount
	found, err := r.first(r.db.WithContext(ctx).Where("id = ?", id), &account)
	if err != nil || !found {
		return nil, err
	}
	return &account, nil
}

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, account *models.SocialAccount) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// UpdateProfile stores freshly synced profile data
func (r *AccountRepository) UpdateProfile(ctx context.Context, account *models.SocialAccount, syncedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.SocialAccount{}).
		Where("id = ?", account.ID).
		Updates(map[string]interface{}{
			"profile_data":   account.ProfileData,
			"last_synced_at": syncedAt,
		}).Error
}

// IDsAfter pages through account IDs in ascending order
func (r *AccountRepository) IDsAfter(ctx context.Context, afterID int64, limit int) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&models.SocialAccount{}).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

package models

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/socialhealth/healthscore/internal/scoring"
)

// SocialAccount is a connected profile on one platform
type SocialAccount struct {
	ID               int64          `gorm:"primaryKey;autoIncrement;column:id"`
	UserID           int64          `gorm:"not null;uniqueIndex:social_accounts_user_platform_ux;column:user_id"`
	Platform         string         `gorm:"type:varchar(32);not null;uniqueIndex:social_accounts_user_platform_ux;index;column:platform"`
	PlatformUserID   string         `gorm:"type:varchar(255);not null;column:platform_user_id"`
	Username         string         `gorm:"type:varchar(255);not null;column:username"`
	ProfileData      datatypes.JSON `gorm:"type:jsonb;column:profile_data"`
	IsPremium        bool           `gorm:"not null;default:false;column:is_premium"`
	PremiumExpiresAt sql.NullTime   `gorm:"column:premium_expires_at"`
	LastSyncedAt     sql.NullTime   `gorm:"column:last_synced_at"`
	CreatedAt        time.Time      `gorm:"not null;column:created_at"`
	UpdatedAt        time.Time      `gorm:"not null;column:updated_at"`
}

// TableName specifies the table name for SocialAccount
func (SocialAccount) TableName() string {
	return "social_accounts"
}

// Premium reports whether the owner has an active premium plan at now
func (a *SocialAccount) Premium(now time.Time) bool {
	if !a.IsPremium {
		return false
	}
	return !a.PremiumExpiresAt.Valid || a.PremiumExpiresAt.Time.After(now)
}

// Profile decodes the last synced profile data; an unsynced account yields a zero profile
func (a *SocialAccount) Profile() (scoring.ProfileData, error) {
	var p scoring.ProfileData
	if len(a.ProfileData) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(a.ProfileData, &p); err != nil {
		return p, fmt.Errorf("failed to decode profile data for account %d: %w", a.ID, err)
	}
	return p, nil
}

// SetProfile stores profile data as JSON
func (a *SocialAccount) SetProfile(p scoring.ProfileData) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	a.ProfileData = datatypes.JSON(raw)
	return nil
}

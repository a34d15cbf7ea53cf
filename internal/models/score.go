package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/socialhealth/healthscore/internal/scoring"
)

// ProfileScore is a persisted calculation result
type ProfileScore struct {
	ID              int64          `gorm:"primaryKey;autoIncrement;column:id"`
	UserID          int64          `gorm:"not null;column:user_id"`
	SocialAccountID int64          `gorm:"not null;index:profile_scores_account_created_ix,priority:1;column:social_account_id"`
	OverallScore    int16          `gorm:"type:smallint;not null;column:overall_score"`
	CategoryScores  datatypes.JSON `gorm:"type:jsonb;not null;column:category_scores"`
	Tips            datatypes.JSON `gorm:"type:jsonb;not null;column:tips"`
	CreatedAt       time.Time      `gorm:"not null;index:profile_scores_account_created_ix,priority:2;column:created_at"`
	UpdatedAt       time.Time      `gorm:"not null;column:updated_at"`

	SocialAccount *SocialAccount `gorm:"foreignKey:SocialAccountID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for ProfileScore
func (ProfileScore) TableName() string {
	return "profile_scores"
}

// NewProfileScore prepares a calculation result for storage
func NewProfileScore(account *SocialAccount, s scoring.Score) (*ProfileScore, error) {
	categories, err := json.Marshal(s.CategoryScores)
	if err != nil {
		return nil, fmt.Errorf("failed to encode category scores: %w", err)
	}
	tips := s.Tips
	if tips == nil {
		tips = []scoring.Tip{}
	}
	encodedTips, err := json.Marshal(tips)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tips: %w", err)
	}

	return &ProfileScore{
		UserID:          account.UserID,
		SocialAccountID: account.ID,
		OverallScore:    int16(s.OverallScore),
		CategoryScores:  datatypes.JSON(categories),
		Tips:            datatypes.JSON(encodedTips),
		CreatedAt:       s.CalculatedAt,
		UpdatedAt:       s.CalculatedAt,
	}, nil
}

// Score decodes the stored result
func (p *ProfileScore) Score() (scoring.Score, error) {
	s := scoring.Score{
		OverallScore: int(p.OverallScore),
		CalculatedAt: p.CreatedAt,
	}
	if err := json.Unmarshal(p.CategoryScores, &s.CategoryScores); err != nil {
		return s, fmt.Errorf("failed to decode category scores of score %d: %w", p.ID, err)
	}
	if len(p.Tips) > 0 {
		if err := json.Unmarshal(p.Tips, &s.Tips); err != nil {
			return s, fmt.Errorf("failed to decode tips of score %d: %w", p.ID, err)
		}
	}
	return s, nil
}

// SetTips replaces the stored tips
func (p *ProfileScore) SetTips(tips []scoring.Tip) error {
	raw, err := json.Marshal(tips)
	if err != nil {
		return err
	}
	p.Tips = datatypes.JSON(raw)
	return nil
}

package score

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/socialhealth/healthscore/internal/api/params"
	"github.com/socialhealth/healthscore/internal/scoring"
	"github.com/socialhealth/healthscore/internal/service"
	"github.com/socialhealth/healthscore/pkg/logging"
)

// Service is what the score methods need from the score service
type Service interface {
	Calculate(ctx context.Context, accountID int64) (*service.ScoreResult, error)
	Latest(ctx context.Context, accountID int64) (*service.ScoreResult, error)
	History(ctx context.Context, accountID int64) ([]*service.ScoreResult, error)
	Share(ctx context.Context, accountID int64) (*service.ShareCard, error)
	AddReviewTip(ctx context.Context, scoreID int64, tip scoring.Tip) (*service.ScoreResult, error)
	Categories() []scoring.Category
}

// API provides the score.* methods
type API struct {
	svc    Service
	logger *zap.Logger
}

// NewAPI creates a new score API
func NewAPI(svc Service) *API {
	return &API{
		svc:    svc,
		logger: logging.WithComponent("score-api"),
	}
}

// Calculate handles score.calculate
func (a *API) Calculate(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	accountID, err := params.AccountID(raw)
	if err != nil {
		return nil, err
	}
	return a.svc.Calculate(c.Request.Context(), accountID)
}

// Get handles score.get
func (a *API) Get(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	accountID, err := params.AccountID(raw)
	if err != nil {
		return nil, err
	}
	return a.svc.Latest(c.Request.Context(), accountID)
}

// History handles score.history
func (a *API) History(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	accountID, err := params.AccountID(raw)
	if err != nil {
		return nil, err
	}
	scores, err := a.svc.History(c.Request.Context(), accountID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"social_account_id": accountID,
		"scores":            scores,
		"count":             len(scores),
	}, nil
}

// Categories handles score.categories
func (a *API) Categories(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	return a.svc.Categories(), nil
}

// Share handles score.share
func (a *API) Share(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	accountID, err := params.AccountID(raw)
	if err != nil {
		return nil, err
	}
	return a.svc.Share(c.Request.Context(), accountID)
}

type addTipParams struct {
	ScoreID  int64            `json:"score_id"`
	Category string           `json:"category"`
	Tip      string           `json:"tip"`
	Priority scoring.Priority `json:"priority"`
}

// AddTip handles score.add_tip
func (a *API) AddTip(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p addTipParams
	if err := params.Decode(raw, &p); err != nil {
		return nil, err
	}
	if p.ScoreID <= 0 {
		return nil, params.Invalid("score_id must be a positive integer")
	}

	result, err := a.svc.AddReviewTip(c.Request.Context(), p.ScoreID, scoring.Tip{
		Category: p.Category,
		Tip:      p.Tip,
		Priority: p.Priority,
	})
	if err != nil {
		return nil, err
	}
	a.logger.Info("Review tip added", zap.Int64("score_id", p.ScoreID), zap.Int("tips", len(result.Tips)))
	return result, nil
}

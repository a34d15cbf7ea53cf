package analytics

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/socialhealth/healthscore/internal/api/params"
	"github.com/socialhealth/healthscore/internal/db"
	"github.com/socialhealth/healthscore/internal/models"
	"github.com/socialhealth/healthscore/internal/service"
	"github.com/socialhealth/healthscore/internal/stats"
)

// Service is what the stats methods need from the stats service
type Service interface {
	Overview(ctx context.Context, accountID int64) (*service.Overview, error)
	Snapshots(ctx context.Context, accountID int64, period stats.Period) ([]stats.Row, error)
	Posts(ctx context.Context, accountID int64, q db.PostQuery) (*service.PostList, error)
	Post(ctx context.Context, accountID, postID int64) (*models.PostView, error)
	ContentBreakdown(ctx context.Context, accountID int64) ([]stats.TypeBreakdown, error)
}

// API provides the stats.* methods
type API struct {
	svc Service
}

// NewAPI creates a new stats API
func NewAPI(svc Service) *API {
	return &API{svc: svc}
}

// Overview handles stats.overview
func (a *API) Overview(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	accountID, err := params.AccountID(raw)
	if err != nil {
		return nil, err
	}
	return a.svc.Overview(c.Request.Context(), accountID)
}

type snapshotParams struct {
	params.Account
	Period string `json:"period"`
}

// Snapshots handles stats.snapshots
func (a *API) Snapshots(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p snapshotParams
	if err := params.Decode(raw, &p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	period := stats.ParsePeriod(p.Period)
	rows, err := a.svc.Snapshots(c.Request.Context(), p.AccountID, period)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"period":    period,
		"snapshots": rows,
	}, nil
}

type postParams struct {
	params.Account
	db.PostQuery
}

// Posts handles stats.posts
func (a *API) Posts(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p postParams
	if err := params.Decode(raw, &p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return a.svc.Posts(c.Request.Context(), p.AccountID, p.PostQuery)
}

type postDetailParams struct {
	params.Account
	PostID int64 `json:"post_id"`
}

// Post handles stats.post
func (a *API) Post(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p postDetailParams
	if err := params.Decode(raw, &p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.PostID <= 0 {
		return nil, params.Invalid("post_id must be a positive integer")
	}
	return a.svc.Post(c.Request.Context(), p.AccountID, p.PostID)
}

// ContentBreakdown handles stats.content_breakdown
func (a *API) ContentBreakdown(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	accountID, err := params.AccountID(raw)
	if err != nil {
		return nil, err
	}
	breakdown, err := a.svc.ContentBreakdown(c.Request.Context(), accountID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"social_account_id": accountID,
		"breakdown":         breakdown,
	}, nil
}

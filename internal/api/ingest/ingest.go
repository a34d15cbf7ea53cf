package ingest

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/socialhealth/healthscore/internal/api/params"
	"github.com/socialhealth/healthscore/internal/service"
)

// Service is what sync.ingest needs from the sync service
type Service interface {
	Ingest(ctx context.Context, accountID int64, payload service.SyncPayload) (*service.SyncResult, error)
}

// API provides the sync.* methods
type API struct {
	svc Service
}

// NewAPI creates a new sync API
func NewAPI(svc Service) *API {
	return &API{svc: svc}
}

type ingestParams struct {
	params.Account
	service.SyncPayload
}

// Ingest handles sync.ingest
func (a *API) Ingest(c *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p ingestParams
	if err := params.Decode(raw, &p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return a.svc.Ingest(c.Request.Context(), p.AccountID, p.SyncPayload)
}

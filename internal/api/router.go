package api

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/socialhealth/healthscore/internal/api/analytics"
	"github.com/socialhealth/healthscore/internal/api/ingest"
	"github.com/socialhealth/healthscore/internal/api/score"
	"github.com/socialhealth/healthscore/internal/cache"
	"github.com/socialhealth/healthscore/pkg/logging"
)

// Services are the domain services exposed over JSON-RPC
type Services struct {
	Score score.Service
	Stats analytics.Service
	Sync  ingest.Service
}

// HealthChecker is a dependency probed by /health
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Router sets up API routes
type Router struct {
	handler  *JSONRPCHandler
	services Services
	checks   map[string]HealthChecker
	logger   *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(services Services, checks map[string]HealthChecker) *Router {
	router := &Router{
		handler:  NewJSONRPCHandler(),
		services: services,
		checks:   checks,
		logger:   logging.WithComponent("api-router"),
	}

	router.registerMethods()

	return router
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	engine.GET("/share/:accountId", r.shareHandler)

	engine.POST("/", r.handler.Handle)
	engine.POST("/rpc", r.handler.Handle)
}

// registerMethods registers all API methods
func (r *Router) registerMethods() {
	scores := score.NewAPI(r.services.Score)
	r.handler.RegisterMethod("score.calculate", scores.Calculate)
	r.handler.RegisterMethod("score.get", scores.Get)
	r.handler.RegisterMethod("score.history", scores.History)
	r.handler.RegisterMethod("score.categories", scores.Categories)
	r.handler.RegisterMethod("score.add_tip", scores.AddTip)
	r.handler.RegisterMethod("score.share", scores.Share)

	stats := analytics.NewAPI(r.services.Stats)
	r.handler.RegisterMethod("stats.overview", stats.Overview)
	r.handler.RegisterMethod("stats.snapshots", stats.Snapshots)
	r.handler.RegisterMethod("stats.posts", stats.Posts)
	r.handler.RegisterMethod("stats.post", stats.Post)
	r.handler.RegisterMethod("stats.content_breakdown", stats.ContentBreakdown)

	sync := ingest.NewAPI(r.services.Sync)
	r.handler.RegisterMethod("sync.ingest", sync.Ingest)

	methods := r.handler.Methods()
	sort.Strings(methods)
	r.logger.Debug("JSON-RPC methods registered", zap.Strings("methods", methods))
}

// healthHandler reports the state of every dependency
func (r *Router) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(r.checks))
	for name, check := range r.checks {
		err := check.Health(ctx)
		switch {
		case err == nil:
			checks[name] = "ok"
		case errors.Is(err, cache.ErrCacheDisabled):
			checks[name] = "disabled"
		default:
			checks[name] = "error: " + err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	overall := "OK"
	if status != http.StatusOK {
		overall = "DEGRADED"
	}
	c.JSON(status, gin.H{
		"status":  overall,
		"service": "healthscore-api",
		"checks":  checks,
	})
}

// shareHandler serves the public score card of an account
func (r *Router) shareHandler(c *gin.Context) {
	accountID, err := strconv.ParseInt(c.Param("accountId"), 10, 64)
	if err != nil || accountID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "account id must be a positive integer"})
		return
	}

	card, err := r.services.Score.Share(c.Request.Context(), accountID)
	if err != nil {
		status := http.StatusInternalServerError
		switch toRPCError(err).Code {
		case ErrNotFound:
			status = http.StatusNotFound
		case ErrInvalidParams:
			status = http.StatusBadRequest
		default:
			r.logger.Error("Failed to build share card", zap.Int64("account_id", accountID), zap.Error(err))
		}
		c.JSON(status, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, card)
}

package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/socialhealth/healthscore/internal/service"
	"github.com/socialhealth/healthscore/pkg/config"
	"github.com/socialhealth/healthscore/pkg/logging"
)

// AccountLister pages through every connected account
type AccountLister interface {
	IDsAfter(ctx context.Context, afterID int64, limit int) ([]int64, error)
}

// Calculator scores one account
type Calculator interface {
	Calculate(ctx context.Context, accountID int64) (*service.ScoreResult, error)
}

// SweepStats counts the outcome of one pass over all accounts
type SweepStats struct {
	Accounts  int
	Scored    int
	Throttled int
	Failed    int
}

// Rescorer periodically recalculates every account whose cooldown has passed
type Rescorer struct {
	accounts AccountLister
	scores   Calculator
	cfg      config.WorkerConfig
	logger   *zap.Logger
}

// NewRescorer creates a rescoring worker
func NewRescorer(accounts AccountLister, scores Calculator, cfg config.WorkerConfig) *Rescorer {
	return &Rescorer{
		accounts: accounts,
		scores:   scores,
		cfg:      cfg,
		logger:   logging.WithComponent("rescorer"),
	}
}

// Run sweeps immediately and then once per interval until ctx is done
func (r *Rescorer) Run(ctx context.Context) error {
	r.logger.Info("Starting rescoring worker",
		zap.Duration("interval", r.cfg.Interval),
		zap.Int("batch_size", r.cfg.BatchSize))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			started := time.Now()
			stats, err := r.Sweep(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				r.logger.Error("Rescoring sweep failed", zap.Error(err))
			} else {
				r.logger.Info("Rescoring sweep finished",
					zap.Int("accounts", stats.Accounts),
					zap.Int("scored", stats.Scored),
					zap.Int("throttled", stats.Throttled),
					zap.Int("failed", stats.Failed),
					zap.Duration("took", time.Since(started)))
			}

			r.wait(ctx, r.cfg.Interval)
		}
	}
}

// Sweep walks all accounts in batches and scores each one that is due
func (r *Rescorer) Sweep(ctx context.Context) (SweepStats, error) {
	var stats SweepStats
	batchSize := r.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}

	var after int64
	for {
		ids, err := r.accounts.IDsAfter(ctx, after, batchSize)
		if err != nil {
			return stats, fmt.Errorf("failed to list accounts after %d: %w", after, err)
		}
		if len(ids) == 0 {
			return stats, nil
		}

		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			stats.Accounts++

			_, err := r.scores.Calculate(ctx, id)
			switch {
			case err == nil:
				stats.Scored++
			case errors.Is(err, service.ErrCooldown):
				stats.Throttled++
			default:
				stats.Failed++
				r.logger.Warn("Failed to rescore account", zap.Int64("account_id", id), zap.Error(err))
			}
		}

		after = ids[len(ids)-1]
		r.logger.Debug("Rescored account batch", zap.Int64("last_account_id", after), zap.Int("size", len(ids)))
	}
}

// wait waits for the duration or until ctx is cancelled
func (r *Rescorer) wait(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

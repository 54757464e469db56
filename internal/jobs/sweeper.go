package jobs

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/a2p-backend/internal/platform/logger"
	"github.com/yungbote/a2p-backend/internal/services"
)

// Sweeper periodically expires pending proposals whose review window has
// passed. It is safe to run alongside other instances: the sweep is
// idempotent, so overlapping runs converge on the same state.
type Sweeper struct {
	log       *logger.Logger
	proposals services.ProposalService
	interval  time.Duration
	batchSize int
}

func NewSweeper(baseLog *logger.Logger, proposals services.ProposalService, interval time.Duration, batchSize int) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if batchSize <= 0 {
		batchSize = 200
	}
	return &Sweeper{
		log:       baseLog.With("component", "ProposalSweeper"),
		proposals: proposals,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Start runs the sweep loop until the context is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	s.log.Info("starting proposal sweeper", "interval", s.interval.String(), "batch", s.batchSize)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.log.Info("proposal sweeper stopped")
				return ctx.Err()
			case <-ticker.C:
				swept, err := s.proposals.SweepExpired(ctx, s.batchSize)
				if err != nil {
					s.log.Warn("sweep failed", "error", err)
					continue
				}
				if swept > 0 {
					s.log.Info("sweep complete", "expired", swept)
				}
			}
		}
	})
	return g.Wait()
}

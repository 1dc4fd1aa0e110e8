package entitystore

import (
	"context"
	"time"

	"github.com/dezh-tech/immortal/pkg/logger"

	"github.com/frecklefacelabs/golembase-images/internal/domain/repository/annotation"
	"github.com/frecklefacelabs/golembase-images/internal/domain/repository/payload"
)

// Sweeper deletes the payloads of expired entities, then their records.
// The record outlives a failed payload removal so the next pass retries it.
type Sweeper struct {
	records  annotation.Remover
	payloads payload.Remover
	batch    int64
}

func NewSweeper(records annotation.Remover, payloads payload.Remover, batch int64) *Sweeper {
	if batch <= 0 {
		batch = 100
	}

	return &Sweeper{
		records:  records,
		payloads: payloads,
		batch:    batch,
	}
}

// Sweep runs one pass and reports how many entities were removed.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	expired, err := s.records.FindExpired(ctx, s.batch)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, r := range expired {
		if err := s.payloads.Remove(ctx, r.Payload); err != nil {
			logger.Error("keeping expired record until its payload is removed", "key", r.Key, "err", err)

			continue
		}
		if err := s.records.RemoveByKey(ctx, r.Key); err != nil {
			continue
		}
		removed++
	}

	return removed, nil
}

// Run sweeps every interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Sweep(ctx)
			if err != nil {
				logger.Error("expired entity sweep failed", "err", err)

				continue
			}
			if n > 0 {
				logger.Info("removed expired entities", "count", n)
			}
		}
	}
}

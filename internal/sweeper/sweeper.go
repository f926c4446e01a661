// Package sweeper frees slots whose tenancy has ended. Acceptance
// occupies a slot; nothing in the request path ever frees one, so a
// background scan reconciles occupancy with tenancy end dates.
package sweeper

import (
	"context"
	"time"

	"go.uber.org/zap"

	"mallmap-api-go/internal/api/middleware"
	"mallmap-api-go/internal/domain"
	"mallmap-api-go/internal/redisclient"
)

// Store is the persistence surface the sweeper needs
type Store interface {
	FreeExpiredSlots(ctx context.Context, at time.Time) ([]domain.Slot, error)
}

// Sweeper periodically frees expired-tenancy slots
type Sweeper struct {
	store    Store
	redis    *redisclient.Client
	interval time.Duration
	logger   *zap.Logger
}

// New creates a new sweeper. redis may be nil.
func New(store Store, redis *redisclient.Client, interval time.Duration, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		store:    store,
		redis:    redis,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps on the configured interval until ctx is cancelled
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("sweeper started", zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep performs one pass: frees every occupied slot whose tenancy has
// a passed end date and invalidates the affected floor caches.
func (s *Sweeper) Sweep(ctx context.Context) {
	middleware.SweepsTotal.Inc()

	freed, err := s.store.FreeExpiredSlots(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("sweep failed", zap.Error(err))
		return
	}
	if len(freed) == 0 {
		return
	}

	middleware.SlotsFreedTotal.Add(float64(len(freed)))

	floors := make(map[string]bool)
	for _, slot := range freed {
		floors[slot.EtageID] = true
		s.logger.Info("slot freed after tenancy end",
			zap.String("emplacement_id", slot.ID),
			zap.String("etage_id", slot.EtageID),
			zap.String("numero", slot.Numero),
		)
	}

	if s.redis == nil {
		return
	}
	for etageID := range floors {
		if err := s.redis.GetRedis().Del(ctx, redisclient.FloorSlotsKey(etageID)).Err(); err != nil {
			s.logger.Warn("failed to invalidate floor slot cache",
				zap.Error(err),
				zap.String("etage_id", etageID),
			)
		}
	}
}

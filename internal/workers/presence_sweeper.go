package workers

import (
	"context"
	"time"

	"log/slog"

	"github.com/philsmcc/groupdeedov2/internal/presence"
)

// PresenceSweeper periodically evicts participants that stopped sending
// location updates. It goes through the registry's synchronized entry
// point, the same one live writers use.
type PresenceSweeper struct {
	registry *presence.Registry
	logger   *slog.Logger
	interval time.Duration
	ttl      time.Duration
}

func NewPresenceSweeper(registry *presence.Registry, logger *slog.Logger, interval, ttl time.Duration) *PresenceSweeper {
	return &PresenceSweeper{
		registry: registry,
		logger:   logger,
		interval: interval,
		ttl:      ttl,
	}
}

func (s *PresenceSweeper) Run(ctx context.Context) {
	s.logger.Info("presenceSweeper STARTED",
		slog.Duration("interval", s.interval),
		slog.Duration("ttl", s.ttl),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("presenceSweeper STOPPED", slog.String("reason", ctx.Err().Error()))
			return
		case now := <-ticker.C:
			removed := s.registry.EvictStale(now, s.ttl)
			if removed > 0 {
				s.logger.Info("evicted stale participants",
					slog.Int("removed", removed),
					slog.Int("remaining", s.registry.Len()),
				)
			}
		}
	}
}

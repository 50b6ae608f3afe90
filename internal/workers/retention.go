package workers

import (
	"context"
	"time"

	"log/slog"
)

type MessagePurger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionSweeper deletes messages older than the retention window on a
// fixed schedule, never on the write path.
type RetentionSweeper struct {
	messages MessagePurger
	logger   *slog.Logger
	interval time.Duration
	window   time.Duration
}

func NewRetentionSweeper(messages MessagePurger, logger *slog.Logger, interval, window time.Duration) *RetentionSweeper {
	return &RetentionSweeper{
		messages: messages,
		logger:   logger,
		interval: interval,
		window:   window,
	}
}

func (s *RetentionSweeper) Run(ctx context.Context) {
	s.logger.Info("retentionSweeper STARTED",
		slog.Duration("interval", s.interval),
		slog.Duration("window", s.window),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("retentionSweeper STOPPED", slog.String("reason", ctx.Err().Error()))
			return
		case now := <-ticker.C:
			cutoff := now.UTC().Add(-s.window)
			removed, err := s.messages.PurgeOlderThan(ctx, cutoff)
			if err != nil {
				s.logger.Error("purge failed", slog.Any("error", err))
				continue
			}
			if removed > 0 {
				s.logger.Info("purged old messages",
					slog.Int64("removed", removed),
					slog.Time("cutoff", cutoff),
				)
			}
		}
	}
}

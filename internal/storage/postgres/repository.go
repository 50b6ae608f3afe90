package postgres

import (
	"context"
	"time"

	"github.com/philsmcc/groupdeedov2/internal/domain"
)

// The repo types promise these surfaces; consumers declare their own
// narrower interfaces against them.
type MessageRepository interface {
	Append(ctx context.Context, msg *domain.Message) error
	Recent(ctx context.Context, channel string, limit int) ([]domain.Message, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type PreferenceRepository interface {
	Save(ctx context.Context, pref *domain.Preference) error
	Load(ctx context.Context, sessionID string) (*domain.Preference, error)
}

var (
	_ MessageRepository    = (*MessageRepo)(nil)
	_ PreferenceRepository = (*PreferenceRepo)(nil)
)

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/philsmcc/groupdeedov2/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

// PreferenceCache keeps hot session settings out of Postgres. A miss
// returns (nil, nil); the caller falls through to the repository.
type PreferenceCache struct {
	client *goredis.Client
	prefix string
}

func NewPreferenceCache(r *Redis) *PreferenceCache {
	return &PreferenceCache{
		client: r.Client,
		prefix: "prefs:session:",
	}
}

func (c *PreferenceCache) Get(ctx context.Context, sessionID string) (*domain.Preference, error) {
	data, err := c.client.Get(ctx, c.prefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var pref domain.Preference
	if err := json.Unmarshal(data, &pref); err != nil {
		return nil, err
	}

	return &pref, nil
}

func (c *PreferenceCache) Set(ctx context.Context, pref *domain.Preference, ttl time.Duration) error {
	b, err := json.Marshal(pref)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.prefix+pref.SessionID, b, ttl).Err()
}

func (c *PreferenceCache) Invalidate(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, c.prefix+sessionID).Err()
}

// Package presence holds the in-memory table of live connections and their
// last declared location, radius, and channel. Presence is advisory: it
// drives fan-out only, is never persisted, and a crash simply drops it.
package presence

import (
	"fmt"
	"sync"
	"time"

	"github.com/philsmcc/groupdeedov2/internal/domain"
	"github.com/philsmcc/groupdeedov2/pkg/e"
)

// Sender pushes a message to one live connection without blocking.
type Sender interface {
	TrySend(msg domain.Message) error
}

// Participant is a point-in-time copy of one registered connection.
// The Coordinate/RadiusMiles/Channel triple always comes from a single
// Upsert call; the registry never hands out partially updated state.
type Participant struct {
	ConnID       string
	Coordinate   domain.Coordinate
	RadiusMiles  float64
	Channel      string
	LastActivity time.Time
	Sender       Sender
}

// Registry is safe for concurrent use. Mutations and the eviction sweep go
// through the same lock; Snapshot returns copies so no caller ever reads
// the table while it changes.
type Registry struct {
	mu           sync.RWMutex
	participants map[string]Participant
	now          func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		participants: make(map[string]Participant),
		now:          time.Now,
	}
}

// NewRegistryWithClock is used by tests to control last-activity stamps.
func NewRegistryWithClock(now func() time.Time) *Registry {
	r := NewRegistry()
	r.now = now
	return r
}

// Upsert replaces (or creates) the participant for connID wholesale and
// stamps last-activity. Radius and coordinate are validated here; defaults
// belong to the caller.
func (r *Registry) Upsert(connID string, sender Sender, coord domain.Coordinate, radiusMiles float64, channel string) error {
	const op = "presence.Registry.Upsert"

	if !coord.Valid() {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidCoordinates)
	}
	if radiusMiles <= 0 {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidRadius)
	}
	if channel == "" {
		channel = domain.DefaultChannel
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.participants[connID] = Participant{
		ConnID:       connID,
		Coordinate:   coord,
		RadiusMiles:  radiusMiles,
		Channel:      channel,
		LastActivity: r.now(),
		Sender:       sender,
	}
	return nil
}

// Remove deletes the participant if present. Removing an unknown
// connection is a no-op.
func (r *Registry) Remove(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.participants, connID)
}

// Snapshot returns copies of every participant currently registered under
// channel. Ordering is unspecified; recipients are a set.
func (r *Registry) Snapshot(channel string) []Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Participant, 0, len(r.participants))
	for _, p := range r.participants {
		if p.Channel == channel {
			out = append(out, p)
		}
	}
	return out
}

// EvictStale removes every participant whose last activity is older than
// now-ttl and returns the count removed.
func (r *Registry) EvictStale(now time.Time, ttl time.Duration) int {
	cutoff := now.Add(-ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, p := range r.participants {
		if p.LastActivity.Before(cutoff) {
			delete(r.participants, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live participants across all channels.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants)
}

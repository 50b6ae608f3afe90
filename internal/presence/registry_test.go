package presence

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/philsmcc/groupdeedov2/internal/domain"
	"github.com/philsmcc/groupdeedov2/pkg/e"
)

type nopSender struct{}

func (nopSender) TrySend(domain.Message) error { return nil }

func TestRegistry_UpsertReplacesWholesale(t *testing.T) {
	t.Parallel()

	r := NewRegistry()

	locA := domain.Coordinate{Lat: 10, Lng: 10}
	locB := domain.Coordinate{Lat: 20, Lng: 20}

	if err := r.Upsert("c1", nopSender{}, locA, 5, "chA"); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := r.Upsert("c1", nopSender{}, locB, 12, "chB"); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if got := r.Snapshot("chA"); len(got) != 0 {
		t.Fatalf("expected c1 gone from chA, got %d participants", len(got))
	}

	got := r.Snapshot("chB")
	if len(got) != 1 {
		t.Fatalf("expected 1 participant on chB, got %d", len(got))
	}
	p := got[0]
	if p.ConnID != "c1" || p.Coordinate != locB || p.RadiusMiles != 12 {
		t.Fatalf("participant not fully replaced: %+v", p)
	}
}

func TestRegistry_UpsertValidation(t *testing.T) {
	t.Parallel()

	r := NewRegistry()

	err := r.Upsert("c1", nopSender{}, domain.Coordinate{Lat: 91, Lng: 0}, 5, "general")
	if !errors.Is(err, e.ErrInvalidCoordinates) {
		t.Fatalf("expected ErrInvalidCoordinates, got %v", err)
	}

	err = r.Upsert("c1", nopSender{}, domain.Coordinate{Lat: 0, Lng: 0}, 0, "general")
	if !errors.Is(err, e.ErrInvalidRadius) {
		t.Fatalf("expected ErrInvalidRadius, got %v", err)
	}

	if r.Len() != 0 {
		t.Fatalf("rejected upserts must not register participants, len=%d", r.Len())
	}
}

func TestRegistry_UpsertDefaultsChannel(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if err := r.Upsert("c1", nopSender{}, domain.Coordinate{}, 5, ""); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if got := r.Snapshot(domain.DefaultChannel); len(got) != 1 {
		t.Fatalf("expected empty channel to default to %q", domain.DefaultChannel)
	}
}

func TestRegistry_RemoveIdempotent(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if err := r.Upsert("c1", nopSender{}, domain.Coordinate{}, 5, "general"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	r.Remove("c1")
	r.Remove("c1") // second remove is a no-op
	r.Remove("never-registered")

	if r.Len() != 0 {
		t.Fatalf("expected empty registry, len=%d", r.Len())
	}
}

func TestRegistry_EvictStale(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := now
	r := NewRegistryWithClock(func() time.Time { return clock })

	if err := r.Upsert("old", nopSender{}, domain.Coordinate{}, 5, "general"); err != nil {
		t.Fatalf("upsert old: %v", err)
	}

	clock = now.Add(6 * time.Minute)
	if err := r.Upsert("fresh", nopSender{}, domain.Coordinate{}, 5, "general"); err != nil {
		t.Fatalf("upsert fresh: %v", err)
	}

	if got := r.Snapshot("general"); len(got) != 2 {
		t.Fatalf("expected both present before sweep, got %d", len(got))
	}

	removed := r.EvictStale(clock, 5*time.Minute)
	if removed != 1 {
		t.Fatalf("expected 1 eviction, got %d", removed)
	}

	got := r.Snapshot("general")
	if len(got) != 1 || got[0].ConnID != "fresh" {
		t.Fatalf("expected only fresh participant after sweep, got %+v", got)
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("c%d", n)
			for j := 0; j < 200; j++ {
				_ = r.Upsert(id, nopSender{}, domain.Coordinate{Lat: float64(j % 90)}, 5, "general")
				_ = r.Snapshot("general")
				if j%50 == 0 {
					r.EvictStale(time.Now(), time.Minute)
				}
			}
			r.Remove(id)
		}(i)
	}
	wg.Wait()

	if r.Len() != 0 {
		t.Fatalf("expected empty registry after all removes, len=%d", r.Len())
	}
}

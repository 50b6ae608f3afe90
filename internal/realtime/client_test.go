package realtime

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"log/slog"

	"github.com/philsmcc/groupdeedov2/internal/domain"
	"github.com/philsmcc/groupdeedov2/internal/presence"
)

type fakeConn struct {
	inbound chan domain.PresenceUpdate
	written []domain.Message
}

func newFakeConn() *fakeConn {
	return &fakeConn{inbound: make(chan domain.PresenceUpdate, 8)}
}

func (f *fakeConn) ReadJSON(v interface{}) error {
	update, ok := <-f.inbound
	if !ok {
		return io.EOF
	}
	*(v.(*domain.PresenceUpdate)) = update
	return nil
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.written = append(f.written, v.(domain.Message))
	return nil
}

func (f *fakeConn) Close() error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestClient_ReadPumpRegistersAndCleansUp(t *testing.T) {
	t.Parallel()

	registry := presence.NewRegistry()
	conn := newFakeConn()
	client := NewClient("c1", conn, registry, testLogger(), 16, 5, "general")

	conn.inbound <- domain.PresenceUpdate{Lat: 10, Lng: 20, RadiusMiles: 3, Channel: "hiking"}

	done := make(chan struct{})
	go func() {
		client.ReadPump()
		close(done)
	}()

	// Wait until the update lands, then drop the connection.
	deadline := time.Now().Add(2 * time.Second)
	for registry.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for registration")
		}
		time.Sleep(time.Millisecond)
	}
	got := registry.Snapshot("hiking")
	if len(got) != 1 {
		t.Fatalf("expected registration on hiking, got %d", len(got))
	}
	p := got[0]
	if p.Coordinate.Lat != 10 || p.Coordinate.Lng != 20 || p.RadiusMiles != 3 {
		t.Fatalf("unexpected participant state: %+v", p)
	}

	close(conn.inbound)
	<-done

	if registry.Len() != 0 {
		t.Fatalf("expected participant removed on disconnect, len=%d", registry.Len())
	}
}

func TestClient_ApplyUpdateDefaults(t *testing.T) {
	t.Parallel()

	registry := presence.NewRegistry()
	client := NewClient("c1", newFakeConn(), registry, testLogger(), 16, 7, "lobby")

	client.applyUpdate(domain.PresenceUpdate{Lat: 1, Lng: 2})

	got := registry.Snapshot("lobby")
	if len(got) != 1 {
		t.Fatalf("expected registration on default channel, got %d", len(got))
	}
	if got[0].RadiusMiles != 7 {
		t.Fatalf("expected default radius 7, got %v", got[0].RadiusMiles)
	}
}

func TestClient_ApplyUpdateRejectsBadCoordinates(t *testing.T) {
	t.Parallel()

	registry := presence.NewRegistry()
	client := NewClient("c1", newFakeConn(), registry, testLogger(), 16, 5, "general")

	client.applyUpdate(domain.PresenceUpdate{Lat: 95, Lng: 0})

	if registry.Len() != 0 {
		t.Fatalf("invalid update must not register, len=%d", registry.Len())
	}
}

func TestClient_TrySendFullBuffer(t *testing.T) {
	t.Parallel()

	client := NewClient("c1", newFakeConn(), presence.NewRegistry(), testLogger(), 1, 5, "general")

	if err := client.TrySend(domain.Message{ID: 1}); err != nil {
		t.Fatalf("first send should fit the buffer: %v", err)
	}
	err := client.TrySend(domain.Message{ID: 2})
	if !errors.Is(err, ErrSendBufferFull) {
		t.Fatalf("expected ErrSendBufferFull, got %v", err)
	}
}

func TestClient_TrySendAfterClose(t *testing.T) {
	t.Parallel()

	client := NewClient("c1", newFakeConn(), presence.NewRegistry(), testLogger(), 4, 5, "general")
	client.Close()

	err := client.TrySend(domain.Message{ID: 1})
	if !errors.Is(err, ErrConnClosed) {
		t.Fatalf("expected ErrConnClosed, got %v", err)
	}
	// Close is idempotent and TrySend stays safe afterwards.
	client.Close()
	if err := client.TrySend(domain.Message{ID: 2}); !errors.Is(err, ErrConnClosed) {
		t.Fatalf("expected ErrConnClosed after second close, got %v", err)
	}
}

func TestClient_TrySendDuringClose(t *testing.T) {
	t.Parallel()

	// Senders holding a registry snapshot may race the disconnect; none of
	// them may panic, whichever side wins.
	for i := 0; i < 50; i++ {
		client := NewClient("c1", newFakeConn(), presence.NewRegistry(), testLogger(), 2, 5, "general")

		var wg sync.WaitGroup
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for n := 0; n < 20; n++ {
					_ = client.TrySend(domain.Message{ID: int64(n)})
				}
			}()
		}
		client.Close()
		wg.Wait()
	}
}

func TestClient_WritePumpDrainsBuffer(t *testing.T) {
	t.Parallel()

	conn := newFakeConn()
	client := NewClient("c1", conn, presence.NewRegistry(), testLogger(), 4, 5, "general")

	_ = client.TrySend(domain.Message{ID: 1, Body: "a"})
	_ = client.TrySend(domain.Message{ID: 2, Body: "b"})
	client.Close()

	client.WritePump()

	if len(conn.written) != 2 {
		t.Fatalf("expected 2 frames written, got %d", len(conn.written))
	}
	if conn.written[0].ID != 1 || conn.written[1].ID != 2 {
		t.Fatalf("frames out of order: %+v", conn.written)
	}
}

package service_test

import (
	"context"
	"errors"
	"testing"

	"bytes"
	"log/slog"

	"github.com/golang/mock/gomock"

	"github.com/philsmcc/groupdeedov2/internal/domain"
	"github.com/philsmcc/groupdeedov2/internal/presence"
	"github.com/philsmcc/groupdeedov2/internal/service"
	mock_service "github.com/philsmcc/groupdeedov2/internal/service/mocks"
	"github.com/philsmcc/groupdeedov2/pkg/e"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

type captureSender struct {
	received []domain.Message
	fail     bool
}

func (s *captureSender) TrySend(msg domain.Message) error {
	if s.fail {
		return errors.New("send buffer full")
	}
	s.received = append(s.received, msg)
	return nil
}

// participantAt builds a registered listener n degrees of latitude north of
// the equator origin. One degree of latitude is ~69.05 miles.
func participantAt(connID string, latDeg, radiusMiles float64, channel string, sender presence.Sender) presence.Participant {
	return presence.Participant{
		ConnID:      connID,
		Coordinate:  domain.Coordinate{Lat: latDeg, Lng: 0},
		RadiusMiles: radiusMiles,
		Channel:     channel,
		Sender:      sender,
	}
}

func TestChatService_PostMessage_FanOutByRecipientRadius(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	messages := mock_service.NewMockMessageRepository(ctrl)
	presenceReg := mock_service.NewMockPresenceSnapshots(ctrl)

	// ~5 miles from the origin with radius 10: eligible. ~15 miles away
	// with radius 10: not eligible. The filter is each recipient's own
	// radius against the message origin.
	near := &captureSender{}
	far := &captureSender{}

	snapshot := []presence.Participant{
		participantAt("near", 5.0/69.05, 10, "general", near),
		participantAt("far", 15.0/69.05, 10, "general", far),
	}

	messages.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg *domain.Message) error {
			msg.ID = 42
			return nil
		}).
		Times(1)

	presenceReg.EXPECT().
		Snapshot("general").
		Return(snapshot).
		Times(1)

	svc := service.NewChatService(messages, presenceReg, newTestLogger(), 5, 100)

	got, err := svc.PostMessage(context.Background(), domain.PostMessageRequest{
		Author:  "alice",
		Body:    "anyone around?",
		Lat:     0,
		Lng:     0,
		Channel: "general",
	})
	if err != nil {
		t.Fatalf("PostMessage: %v", err)
	}
	if got.ID != 42 {
		t.Fatalf("expected persisted id 42, got %d", got.ID)
	}

	if len(near.received) != 1 {
		t.Fatalf("expected delivery to near participant, got %d", len(near.received))
	}
	if near.received[0].ID != 42 {
		t.Fatalf("delivered message missing assigned id: %+v", near.received[0])
	}
	if len(far.received) != 0 {
		t.Fatalf("participant outside own radius must not receive, got %d", len(far.received))
	}
}

func TestChatService_PostMessage_ChannelScoped(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	messages := mock_service.NewMockMessageRepository(ctrl)
	presenceReg := mock_service.NewMockPresenceSnapshots(ctrl)

	messages.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		Return(nil).
		Times(1)

	// Snapshot is asked for the message's channel only; a listener on
	// another channel is never a candidate regardless of distance.
	presenceReg.EXPECT().
		Snapshot("other").
		Return(nil).
		Times(1)

	svc := service.NewChatService(messages, presenceReg, newTestLogger(), 5, 100)

	_, err := svc.PostMessage(context.Background(), domain.PostMessageRequest{
		Author:  "alice",
		Body:    "hi",
		Channel: "other",
	})
	if err != nil {
		t.Fatalf("PostMessage: %v", err)
	}
}

func TestChatService_PostMessage_PersistsWithZeroParticipants(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	messages := mock_service.NewMockMessageRepository(ctrl)
	presenceReg := mock_service.NewMockPresenceSnapshots(ctrl)

	messages.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg *domain.Message) error {
			msg.ID = 7
			return nil
		}).
		Times(1)

	presenceReg.EXPECT().
		Snapshot("general").
		Return([]presence.Participant{}).
		Times(1)

	svc := service.NewChatService(messages, presenceReg, newTestLogger(), 5, 100)

	got, err := svc.PostMessage(context.Background(), domain.PostMessageRequest{
		Author: "alice",
		Body:   "into the void",
	})
	if err != nil {
		t.Fatalf("PostMessage with empty channel presence must succeed: %v", err)
	}
	if got.ID != 7 {
		t.Fatalf("expected assigned id, got %d", got.ID)
	}
}

func TestChatService_PostMessage_DeliveryFailureDoesNotFailCall(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	messages := mock_service.NewMockMessageRepository(ctrl)
	presenceReg := mock_service.NewMockPresenceSnapshots(ctrl)

	broken := &captureSender{fail: true}
	healthy := &captureSender{}

	snapshot := []presence.Participant{
		participantAt("broken", 0, 10, "general", broken),
		participantAt("healthy", 0.01, 10, "general", healthy),
	}

	messages.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	presenceReg.EXPECT().Snapshot("general").Return(snapshot).Times(1)

	svc := service.NewChatService(messages, presenceReg, newTestLogger(), 5, 100)

	_, err := svc.PostMessage(context.Background(), domain.PostMessageRequest{
		Author: "alice",
		Body:   "hello",
	})
	if err != nil {
		t.Fatalf("one failed delivery must not fail the post: %v", err)
	}
	if len(healthy.received) != 1 {
		t.Fatalf("failure on one connection must not abort the rest, healthy got %d", len(healthy.received))
	}
}

func TestChatService_PostMessage_Validation(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	messages := mock_service.NewMockMessageRepository(ctrl)
	presenceReg := mock_service.NewMockPresenceSnapshots(ctrl)

	svc := service.NewChatService(messages, presenceReg, newTestLogger(), 5, 100)

	cases := []struct {
		name string
		req  domain.PostMessageRequest
	}{
		{"empty author", domain.PostMessageRequest{Body: "x"}},
		{"empty body", domain.PostMessageRequest{Author: "a"}},
		{"whitespace body", domain.PostMessageRequest{Author: "a", Body: "   "}},
		{"bad lat", domain.PostMessageRequest{Author: "a", Body: "x", Lat: 91}},
		{"bad lng", domain.PostMessageRequest{Author: "a", Body: "x", Lng: -181}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.PostMessage(context.Background(), tc.req)
			if !errors.Is(err, e.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestChatService_PostMessage_AppendErrorPropagated(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	messages := mock_service.NewMockMessageRepository(ctrl)
	presenceReg := mock_service.NewMockPresenceSnapshots(ctrl)

	wantErr := e.ErrNotReady
	messages.EXPECT().Append(gomock.Any(), gomock.Any()).Return(wantErr).Times(1)

	svc := service.NewChatService(messages, presenceReg, newTestLogger(), 5, 100)

	_, err := svc.PostMessage(context.Background(), domain.PostMessageRequest{
		Author: "alice",
		Body:   "hello",
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
}

func TestChatService_FetchNearby_FiltersAndOrdersChronologically(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	messages := mock_service.NewMockMessageRepository(ctrl)
	presenceReg := mock_service.NewMockPresenceSnapshots(ctrl)

	// Storage returns newest first; message 3 is out of radius.
	recent := []domain.Message{
		{ID: 4, Author: "a", Body: "newest", Origin: domain.Coordinate{Lat: 0.01, Lng: 0}, Channel: "general"},
		{ID: 3, Author: "a", Body: "too far", Origin: domain.Coordinate{Lat: 3, Lng: 0}, Channel: "general"},
		{ID: 2, Author: "a", Body: "oldest", Origin: domain.Coordinate{Lat: 0, Lng: 0.01}, Channel: "general"},
	}

	messages.EXPECT().
		Recent(gomock.Any(), "general", 100).
		Return(recent, nil).
		Times(1)

	svc := service.NewChatService(messages, presenceReg, newTestLogger(), 5, 100)

	got, err := svc.FetchNearby(context.Background(), domain.FetchNearbyRequest{
		Lat:         0,
		Lng:         0,
		RadiusMiles: 10,
		Channel:     "general",
	})
	if err != nil {
		t.Fatalf("FetchNearby: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 messages in radius, got %d", len(got))
	}
	if got[0].ID != 2 || got[1].ID != 4 {
		t.Fatalf("expected chronological order [2 4], got [%d %d]", got[0].ID, got[1].ID)
	}
}

func TestChatService_FetchNearby_AppliesDefaults(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	messages := mock_service.NewMockMessageRepository(ctrl)
	presenceReg := mock_service.NewMockPresenceSnapshots(ctrl)

	messages.EXPECT().
		Recent(gomock.Any(), domain.DefaultChannel, 100).
		Return(nil, nil).
		Times(1)

	svc := service.NewChatService(messages, presenceReg, newTestLogger(), 5, 100)

	got, err := svc.FetchNearby(context.Background(), domain.FetchNearbyRequest{Lat: 0, Lng: 0})
	if err != nil {
		t.Fatalf("FetchNearby: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

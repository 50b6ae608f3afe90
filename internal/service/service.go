package service

import (
	"context"
	"time"

	"github.com/philsmcc/groupdeedov2/internal/domain"
	"github.com/philsmcc/groupdeedov2/internal/presence"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go

// ChatService posts messages (persist, then fan out to eligible live
// connections) and serves radius-filtered history reads.
type ChatService interface {
	PostMessage(ctx context.Context, req domain.PostMessageRequest) (domain.Message, error)
	FetchNearby(ctx context.Context, req domain.FetchNearbyRequest) ([]domain.Message, error)
}

// PreferenceService ties an opaque session id to its durable settings.
// Load returns (nil, nil) for a session that has never saved settings.
type PreferenceService interface {
	Save(ctx context.Context, sessionID string, req domain.SavePreferencesRequest) (domain.Preference, error)
	Load(ctx context.Context, sessionID string) (*domain.Preference, error)
}

type MessageRepository interface {
	Append(ctx context.Context, msg *domain.Message) error
	Recent(ctx context.Context, channel string, limit int) ([]domain.Message, error)
}

type PreferenceRepository interface {
	Save(ctx context.Context, pref *domain.Preference) error
	Load(ctx context.Context, sessionID string) (*domain.Preference, error)
}

type PreferenceCache interface {
	Get(ctx context.Context, sessionID string) (*domain.Preference, error)
	Set(ctx context.Context, pref *domain.Preference, ttl time.Duration) error
}

// PresenceSnapshots is the read side of the presence registry: a
// point-in-time copy of everyone currently on a channel.
type PresenceSnapshots interface {
	Snapshot(channel string) []presence.Participant
}

type Service struct {
	Chat        ChatService
	Preferences PreferenceService
}

func NewService(chat ChatService, preferences PreferenceService) *Service {
	return &Service{
		Chat:        chat,
		Preferences: preferences,
	}
}

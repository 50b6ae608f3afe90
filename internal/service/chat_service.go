package service

import (
	"context"
	"fmt"
	"strings"

	"log/slog"

	"github.com/philsmcc/groupdeedov2/internal/domain"
	"github.com/philsmcc/groupdeedov2/internal/geo"
	"github.com/philsmcc/groupdeedov2/pkg/e"
	"github.com/philsmcc/groupdeedov2/pkg/validator"
)

type chatService struct {
	messages           MessageRepository
	presence           PresenceSnapshots
	logger             *slog.Logger
	defaultRadiusMiles float64
	fetchLimit         int
}

func NewChatService(
	messages MessageRepository,
	presenceReg PresenceSnapshots,
	logger *slog.Logger,
	defaultRadiusMiles float64,
	fetchLimit int,
) ChatService {
	if defaultRadiusMiles <= 0 {
		defaultRadiusMiles = domain.DefaultRadiusMiles
	}
	if fetchLimit <= 0 {
		fetchLimit = 100
	}
	return &chatService{
		messages:           messages,
		presence:           presenceReg,
		logger:             logger,
		defaultRadiusMiles: defaultRadiusMiles,
		fetchLimit:         fetchLimit,
	}
}

// PostMessage persists the message, then pushes it to every live
// participant of the same channel whose own radius covers the origin.
// Fan-out is best effort: the message is durable before the first push,
// and one dead connection never blocks the rest or fails the call.
func (s *chatService) PostMessage(ctx context.Context, req domain.PostMessageRequest) (domain.Message, error) {
	const op = "service.Chat.PostMessage"

	req.Author = strings.TrimSpace(req.Author)
	req.Body = strings.TrimSpace(req.Body)

	if err := validator.ValidateStruct(req); err != nil {
		s.logger.Warn("post message rejected",
			slog.String("op", op),
			slog.Any("error", err),
		)
		return domain.Message{}, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	if req.Channel == "" {
		req.Channel = domain.DefaultChannel
	}

	msg := domain.Message{
		Author:  req.Author,
		Body:    req.Body,
		Origin:  domain.Coordinate{Lat: req.Lat, Lng: req.Lng},
		Channel: req.Channel,
	}

	if err := s.messages.Append(ctx, &msg); err != nil {
		s.logger.Error("append failed", slog.String("op", op), slog.Any("error", err))
		return domain.Message{}, err
	}

	s.fanOut(msg)

	return msg, nil
}

// fanOut runs after the registry lock is released: the snapshot is a copy,
// and each delivery attempt is independent and non-blocking.
func (s *chatService) fanOut(msg domain.Message) {
	snapshot := s.presence.Snapshot(msg.Channel)

	delivered, failed := 0, 0
	for _, p := range snapshot {
		dist, err := geo.Distance(p.Coordinate, msg.Origin)
		if err != nil {
			failed++
			continue
		}
		// Eligibility is the recipient's own radius, not the sender's.
		if dist > p.RadiusMiles {
			continue
		}
		if p.Sender == nil {
			continue
		}
		if err := p.Sender.TrySend(msg); err != nil {
			// Leave cleanup to the staleness sweep or explicit disconnect;
			// a single failed push is not evidence of a dead connection.
			s.logger.Debug("delivery failed",
				slog.String("conn_id", p.ConnID),
				slog.Any("error", err),
			)
			failed++
			continue
		}
		delivered++
	}

	s.logger.Info("message fan-out",
		slog.Int64("message_id", msg.ID),
		slog.String("channel", msg.Channel),
		slog.Int("candidates", len(snapshot)),
		slog.Int("delivered", delivered),
		slog.Int("failed", failed),
	)
}

// FetchNearby reads recent channel history and keeps only messages within
// the query radius, returned oldest first for display.
func (s *chatService) FetchNearby(ctx context.Context, req domain.FetchNearbyRequest) ([]domain.Message, error) {
	const op = "service.Chat.FetchNearby"

	if err := validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	if req.RadiusMiles <= 0 {
		req.RadiusMiles = s.defaultRadiusMiles
	}
	if req.Channel == "" {
		req.Channel = domain.DefaultChannel
	}
	if req.Limit <= 0 {
		req.Limit = s.fetchLimit
	}

	recent, err := s.messages.Recent(ctx, req.Channel, req.Limit)
	if err != nil {
		s.logger.Error("recent failed", slog.String("op", op), slog.Any("error", err))
		return nil, err
	}

	origin := domain.Coordinate{Lat: req.Lat, Lng: req.Lng}

	nearby := make([]domain.Message, 0, len(recent))
	// recent is newest-first; walk it backwards for chronological order.
	for i := len(recent) - 1; i >= 0; i-- {
		dist, err := geo.Distance(origin, recent[i].Origin)
		if err != nil {
			continue
		}
		if dist <= req.RadiusMiles {
			nearby = append(nearby, recent[i])
		}
	}

	return nearby, nil
}

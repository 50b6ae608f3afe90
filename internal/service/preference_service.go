package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/philsmcc/groupdeedov2/internal/domain"
	"github.com/philsmcc/groupdeedov2/pkg/e"
	"github.com/philsmcc/groupdeedov2/pkg/validator"
)

type preferenceService struct {
	repo     PreferenceRepository
	cache    PreferenceCache
	logger   *slog.Logger
	cacheTTL time.Duration
}

func NewPreferenceService(
	repo PreferenceRepository,
	cache PreferenceCache,
	logger *slog.Logger,
	cacheTTL time.Duration,
) PreferenceService {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &preferenceService{
		repo:     repo,
		cache:    cache,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// Save overwrites the whole preference record and refreshes the cache.
// Cache errors are logged, never surfaced: Postgres is the authority.
func (s *preferenceService) Save(ctx context.Context, sessionID string, req domain.SavePreferencesRequest) (domain.Preference, error) {
	const op = "service.Preference.Save"

	if sessionID == "" {
		return domain.Preference{}, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	if err := validator.ValidateStruct(req); err != nil {
		return domain.Preference{}, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	pref := domain.Preference{
		SessionID:   sessionID,
		DisplayName: req.DisplayName,
		RadiusMiles: req.RadiusMiles,
		Channel:     req.Channel,
	}
	if pref.RadiusMiles <= 0 {
		pref.RadiusMiles = domain.DefaultRadiusMiles
	}
	if pref.Channel == "" {
		pref.Channel = domain.DefaultChannel
	}

	if err := s.repo.Save(ctx, &pref); err != nil {
		s.logger.Error("preference save failed",
			slog.String("op", op),
			slog.Any("error", err),
			slog.String("session_id", sessionID),
		)
		return domain.Preference{}, err
	}

	if err := s.cache.Set(ctx, &pref, s.cacheTTL); err != nil {
		s.logger.Warn("preference cache set failed",
			slog.String("op", op),
			slog.Any("error", err),
		)
	}

	return pref, nil
}

// Load returns the stored preferences for sessionID, (nil, nil) when the
// session has never saved any.
func (s *preferenceService) Load(ctx context.Context, sessionID string) (*domain.Preference, error) {
	const op = "service.Preference.Load"

	if sessionID == "" {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	cached, err := s.cache.Get(ctx, sessionID)
	if err != nil {
		s.logger.Warn("preference cache get failed",
			slog.String("op", op),
			slog.Any("error", err),
		)
	}
	if cached != nil {
		return cached, nil
	}

	pref, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, nil
		}
		s.logger.Error("preference load failed",
			slog.String("op", op),
			slog.Any("error", err),
			slog.String("session_id", sessionID),
		)
		return nil, err
	}

	if err := s.cache.Set(ctx, pref, s.cacheTTL); err != nil {
		s.logger.Warn("preference cache set failed",
			slog.String("op", op),
			slog.Any("error", err),
		)
	}

	return pref, nil
}

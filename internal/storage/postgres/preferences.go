package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/philsmcc/groupdeedov2/internal/domain"
	"github.com/philsmcc/groupdeedov2/pkg/e"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PreferenceRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPreferenceRepo(pool *pgxpool.Pool, logger *slog.Logger) *PreferenceRepo {
	return &PreferenceRepo{pool: pool, logger: logger}
}

// Save upserts the whole preference record for its session id and stamps
// last-active. There is no partial update path.
func (p *PreferenceRepo) Save(ctx context.Context, pref *domain.Preference) error {
	const op = "postgres.Preference.Save"

	if pref == nil || pref.SessionID == "" {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	if pref.RadiusMiles <= 0 {
		pref.RadiusMiles = domain.DefaultRadiusMiles
	}
	if pref.Channel == "" {
		pref.Channel = domain.DefaultChannel
	}
	pref.LastActive = time.Now().UTC()

	const query = `
		INSERT INTO user_sessions (session_id, display_name, radius_miles, channel, last_active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
			radius_miles = EXCLUDED.radius_miles,
			channel      = EXCLUDED.channel,
			last_active  = EXCLUDED.last_active
	`

	_, err := p.pool.Exec(ctx, query,
		pref.SessionID,
		pref.DisplayName,
		pref.RadiusMiles,
		pref.Channel,
		pref.LastActive,
	)
	if err != nil {
		p.logger.Error("db exec failed",
			slog.String("op", op),
			slog.Any("error", err),
			slog.String("session_id", pref.SessionID),
		)
		return e.WrapError(ctx, op, err)
	}

	return nil
}

// Load returns the preference record for sessionID, or e.ErrNotFound when
// the session has never saved settings.
func (p *PreferenceRepo) Load(ctx context.Context, sessionID string) (*domain.Preference, error) {
	const op = "postgres.Preference.Load"

	if sessionID == "" {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	const query = `
		SELECT session_id, display_name, radius_miles, channel, last_active
		FROM user_sessions
		WHERE session_id = $1
	`

	var pref domain.Preference
	err := p.pool.QueryRow(ctx, query, sessionID).Scan(
		&pref.SessionID,
		&pref.DisplayName,
		&pref.RadiusMiles,
		&pref.Channel,
		&pref.LastActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed",
			slog.String("op", op),
			slog.Any("error", err),
			slog.String("session_id", sessionID),
		)
		return nil, e.WrapError(ctx, op, err)
	}

	return &pref, nil
}

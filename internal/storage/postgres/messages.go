package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/philsmcc/groupdeedov2/internal/domain"
	"github.com/philsmcc/groupdeedov2/pkg/e"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewMessageRepo(pool *pgxpool.Pool, logger *slog.Logger) *MessageRepo {
	return &MessageRepo{pool: pool, logger: logger}
}

// Append durably stores msg, assigns its channel-ordered id, and stamps the
// creation time if the caller left it zero. The stored row is never updated.
func (p *MessageRepo) Append(ctx context.Context, msg *domain.Message) error {
	const op = "postgres.Message.Append"

	if msg == nil || msg.Author == "" || msg.Body == "" {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	if !msg.Origin.Valid() {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidCoordinates)
	}
	if msg.Channel == "" {
		msg.Channel = domain.DefaultChannel
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO messages (author, body, geo_point, channel, created_at)
		VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326), $5, $6)
		RETURNING id
	`

	err := p.pool.QueryRow(ctx, query,
		msg.Author,
		msg.Body,
		msg.Origin.Lng,
		msg.Origin.Lat,
		msg.Channel,
		msg.CreatedAt,
	).Scan(&msg.ID)
	if err != nil {
		p.logger.Error("db queryrow scan failed",
			slog.String("op", op),
			slog.Any("error", err),
			slog.String("channel", msg.Channel),
		)
		return e.WrapError(ctx, op, err)
	}

	return nil
}

// Recent returns up to limit messages for channel, newest first.
func (p *MessageRepo) Recent(ctx context.Context, channel string, limit int) ([]domain.Message, error) {
	const op = "postgres.Message.Recent"

	if channel == "" {
		channel = domain.DefaultChannel
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	const query = `
		SELECT id,
			   author,
			   body,
			   ST_Y(geo_point::geometry) AS lat,
			   ST_X(geo_point::geometry) AS lng,
			   channel,
			   created_at
		FROM messages
		WHERE channel = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := p.pool.Query(ctx, query, channel, limit)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(
			&m.ID,
			&m.Author,
			&m.Body,
			&m.Origin.Lat,
			&m.Origin.Lng,
			&m.Channel,
			&m.CreatedAt,
		); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return messages, nil
}

// PurgeOlderThan deletes every message created before cutoff, across all
// channels, and returns the number of rows removed. Runs on the retention
// schedule, not on the write path.
func (p *MessageRepo) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const op = "postgres.Message.PurgeOlderThan"

	const query = `DELETE FROM messages WHERE created_at < $1`

	cmd, err := p.pool.Exec(ctx, query, cutoff)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return 0, e.WrapError(ctx, op, err)
	}

	return cmd.RowsAffected(), nil
}

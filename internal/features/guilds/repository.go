// Package guilds stores per-server settings, currently just the command
// prefix.
package guilds

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists guild settings.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Prefix returns the guild's command prefix, or fallback when the guild has
// never customised it.
func (r *Repository) Prefix(ctx context.Context, guildID, fallback string) (string, error) {
	var prefix string
	err := r.pool.QueryRow(ctx,
		`SELECT prefix FROM guild_settings WHERE guild_id = $1`,
		guildID).Scan(&prefix)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fallback, nil
		}
		return "", fmt.Errorf("get prefix: %w", err)
	}
	return prefix, nil
}

// SetPrefix upserts the guild's command prefix.
func (r *Repository) SetPrefix(ctx context.Context, guildID, prefix string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO guild_settings (guild_id, prefix) VALUES ($1, $2)
		ON CONFLICT (guild_id) DO UPDATE SET prefix = EXCLUDED.prefix`,
		guildID, prefix)
	if err != nil {
		return fmt.Errorf("set prefix: %w", err)
	}
	return nil
}

package forage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haruware/mars-bot/internal/features/economy"
)

// Repository persists forage trips.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveTrip claims the forage stamp and persists the finds in one
// transaction: the stamp, every stack and every ledger row land together or
// not at all. The conditional update on last_forage is the gate; zero rows
// touched means another invocation claimed it first, reported as false with
// nothing written.
func (r *Repository) SaveTrip(ctx context.Context, userID, guildID string, now time.Time, finds []Find) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE users SET last_forage = $3
		WHERE id = $1 AND guild_id = $2
			AND (last_forage IS NULL OR last_forage <= $3 - INTERVAL '4 hours')`,
		userID, guildID, now)
	if err != nil {
		return false, fmt.Errorf("claim forage stamp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	for _, f := range finds {
		_, err = tx.Exec(ctx, `
			INSERT INTO inventory (user_id, guild_id, item_name, amount)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, guild_id, item_name)
			DO UPDATE SET amount = inventory.amount + EXCLUDED.amount`,
			userID, guildID, f.Name, f.Qty)
		if err != nil {
			return false, fmt.Errorf("grant %s: %w", f.Name, err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO transactions (user_id, guild_id, type, amount, item_name, description)
			VALUES ($1, $2, $3, 0, $4, $5)`,
			userID, guildID, economy.TxForage, f.Name,
			fmt.Sprintf("foraged %d x %s", f.Qty, f.Name))
		if err != nil {
			return false, fmt.Errorf("log find: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

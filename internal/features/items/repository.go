package items

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haruware/mars-bot/internal/common"
)

// Repository persists the catalog and inventories.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ItemInfo resolves a catalog item case-insensitively, returning its
// canonical form.
func (r *Repository) ItemInfo(ctx context.Context, name string) (*Item, error) {
	var item Item
	err := r.pool.QueryRow(ctx, `
		SELECT name, description, emoji, rarity, category, sell_value
		FROM items_catalog WHERE LOWER(name) = LOWER($1)`,
		name).Scan(&item.Name, &item.Description, &item.Emoji,
		&item.Rarity, &item.Category, &item.SellValue)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrUnknownItem
		}
		return nil, fmt.Errorf("item info: %w", err)
	}
	return &item, nil
}

// Inventory returns the user's stacks, rarest and largest first.
func (r *Repository) Inventory(ctx context.Context, userID, guildID string) ([]InventoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.name, c.description, c.emoji, c.rarity, c.category, c.sell_value, i.amount
		FROM inventory i
		JOIN items_catalog c ON c.name = i.item_name
		WHERE i.user_id = $1 AND i.guild_id = $2 AND i.amount > 0
		ORDER BY c.sell_value DESC, c.name`,
		userID, guildID)
	if err != nil {
		return nil, fmt.Errorf("inventory: %w", err)
	}
	defer rows.Close()

	var entries []InventoryEntry
	for rows.Next() {
		var e InventoryEntry
		if err := rows.Scan(&e.Item.Name, &e.Item.Description, &e.Item.Emoji,
			&e.Item.Rarity, &e.Item.Category, &e.Item.SellValue, &e.Amount); err != nil {
			return nil, fmt.Errorf("scan inventory row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Amount returns how many of one item the user holds.
func (r *Repository) Amount(ctx context.Context, userID, guildID, itemName string) (int64, error) {
	var amount int64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM inventory
		WHERE user_id = $1 AND guild_id = $2 AND item_name = $3`,
		userID, guildID, itemName).Scan(&amount)
	if err != nil {
		return 0, fmt.Errorf("item amount: %w", err)
	}
	return amount, nil
}

// Grant adds qty of an item to the user's stack, creating it if needed.
// itemName must be canonical.
func (r *Repository) Grant(ctx context.Context, userID, guildID, itemName string, qty int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO inventory (user_id, guild_id, item_name, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, guild_id, item_name)
		DO UPDATE SET amount = inventory.amount + EXCLUDED.amount`,
		userID, guildID, itemName, qty)
	if err != nil {
		return fmt.Errorf("grant item: %w", err)
	}
	return nil
}

// Remove takes qty of an item from the user's stack only if they hold enough.
func (r *Repository) Remove(ctx context.Context, userID, guildID, itemName string, qty int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE inventory SET amount = amount - $4
		WHERE user_id = $1 AND guild_id = $2 AND item_name = $3 AND amount >= $4`,
		userID, guildID, itemName, qty)
	if err != nil {
		return fmt.Errorf("remove item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrInsufficientItems
	}
	return nil
}

// Transfer moves qty of an item between users atomically and records a gift
// on each side of the ledger.
func (r *Repository) Transfer(ctx context.Context, fromID, toID, guildID, itemName string, qty int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE inventory SET amount = amount - $4
		WHERE user_id = $1 AND guild_id = $2 AND item_name = $3 AND amount >= $4`,
		fromID, guildID, itemName, qty)
	if err != nil {
		return fmt.Errorf("debit sender: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrInsufficientItems
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO inventory (user_id, guild_id, item_name, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, guild_id, item_name)
		DO UPDATE SET amount = inventory.amount + EXCLUDED.amount`,
		toID, guildID, itemName, qty)
	if err != nil {
		return fmt.Errorf("credit recipient: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO transactions (user_id, guild_id, type, amount, item_name, description)
		VALUES ($1, $2, 'gift_sent', 0, $3, $4),
		       ($5, $2, 'gift_received', 0, $3, $6)`,
		fromID, guildID, itemName,
		fmt.Sprintf("%d x %s to %s", qty, itemName, toID),
		toID,
		fmt.Sprintf("%d x %s from %s", qty, itemName, fromID))
	if err != nil {
		return fmt.Errorf("log item gift: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

package shop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haruware/mars-bot/internal/common"
)

// Repository persists shop listings and settles purchases and sales.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureListings derives the stock from the catalog: every consumable and
// decorative item is listed at twice its sell value with unlimited stock.
// Already-listed items keep their current price and stock, so seasonal
// adjustments survive restarts.
func (r *Repository) EnsureListings(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO shop_items (item_name, price, stock)
		SELECT name, sell_value * 2, -1
		FROM items_catalog
		WHERE category IN ('consumable', 'decorative') AND sell_value > 0
		ON CONFLICT (item_name) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("ensure listings: %w", err)
	}
	return nil
}

// Listings returns everything currently purchasable, cheapest first.
func (r *Repository) Listings(ctx context.Context) ([]Listing, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.item_name, c.description, c.emoji, s.price, s.stock, s.available_until
		FROM shop_items s
		JOIN items_catalog c ON c.name = s.item_name
		WHERE s.stock <> 0 AND (s.available_until IS NULL OR s.available_until > now())
		ORDER BY s.price, s.item_name`)
	if err != nil {
		return nil, fmt.Errorf("listings: %w", err)
	}
	defer rows.Close()

	var listings []Listing
	for rows.Next() {
		var l Listing
		if err := rows.Scan(&l.ItemName, &l.Description, &l.Emoji,
			&l.Price, &l.Stock, &l.AvailableUntil); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// Purchase settles a buy in one transaction: the listing row is locked, the
// debit is conditional on the balance, the stock decrement is conditional on
// availability, and the item lands in the inventory with a ledger row. Any
// failed condition rolls the whole thing back.
func (r *Repository) Purchase(ctx context.Context, userID, guildID, itemName string, qty int64) (*PurchaseResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var l Listing
	err = tx.QueryRow(ctx, `
		SELECT s.item_name, c.emoji, s.price, s.stock
		FROM shop_items s
		JOIN items_catalog c ON c.name = s.item_name
		WHERE LOWER(s.item_name) = LOWER($1)
			AND (s.available_until IS NULL OR s.available_until > now())
		FOR UPDATE OF s`,
		itemName).Scan(&l.ItemName, &l.Emoji, &l.Price, &l.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrUnknownItem
		}
		return nil, fmt.Errorf("lock listing: %w", err)
	}

	if l.Stock >= 0 && int64(l.Stock) < qty {
		return nil, common.ErrOutOfStock
	}

	total := l.Price * qty
	var balance int64
	err = tx.QueryRow(ctx, `
		UPDATE users SET dream_dust = dream_dust - $3
		WHERE id = $1 AND guild_id = $2 AND dream_dust >= $3
		RETURNING dream_dust`,
		userID, guildID, total).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrInsufficientBalance
		}
		return nil, fmt.Errorf("debit buyer: %w", err)
	}

	if l.Stock >= 0 {
		if _, err := tx.Exec(ctx, `
			UPDATE shop_items SET stock = stock - $2 WHERE item_name = $1`,
			l.ItemName, qty); err != nil {
			return nil, fmt.Errorf("decrement stock: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO inventory (user_id, guild_id, item_name, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, guild_id, item_name)
		DO UPDATE SET amount = inventory.amount + EXCLUDED.amount`,
		userID, guildID, l.ItemName, qty); err != nil {
		return nil, fmt.Errorf("grant purchase: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO transactions (user_id, guild_id, type, amount, item_name, description)
		VALUES ($1, $2, 'purchase', $3, $4, $5)`,
		userID, guildID, -total, l.ItemName,
		fmt.Sprintf("bought %d x %s", qty, l.ItemName)); err != nil {
		return nil, fmt.Errorf("log purchase: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &PurchaseResult{
		ItemName: l.ItemName, Emoji: l.Emoji,
		Qty: qty, TotalCost: total, Balance: balance,
	}, nil
}

// Sell buys items back from the user at their catalog sell value, also in one
// transaction.
func (r *Repository) Sell(ctx context.Context, userID, guildID, itemName string, qty int64) (*SellResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var name, emoji string
	var sellValue int64
	err = tx.QueryRow(ctx, `
		SELECT name, emoji, sell_value FROM items_catalog
		WHERE LOWER(name) = LOWER($1)`,
		itemName).Scan(&name, &emoji, &sellValue)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrUnknownItem
		}
		return nil, fmt.Errorf("resolve item: %w", err)
	}
	if sellValue <= 0 {
		return nil, common.ErrNotSellable
	}

	tag, err := tx.Exec(ctx, `
		UPDATE inventory SET amount = amount - $4
		WHERE user_id = $1 AND guild_id = $2 AND item_name = $3 AND amount >= $4`,
		userID, guildID, name, qty)
	if err != nil {
		return nil, fmt.Errorf("remove sold items: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, common.ErrInsufficientItems
	}

	earned := sellValue * qty
	var balance int64
	err = tx.QueryRow(ctx, `
		UPDATE users SET dream_dust = dream_dust + $3
		WHERE id = $1 AND guild_id = $2
		RETURNING dream_dust`,
		userID, guildID, earned).Scan(&balance)
	if err != nil {
		return nil, fmt.Errorf("credit seller: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO transactions (user_id, guild_id, type, amount, item_name, description)
		VALUES ($1, $2, 'sale', $3, $4, $5)`,
		userID, guildID, earned, name,
		fmt.Sprintf("sold %d x %s", qty, name)); err != nil {
		return nil, fmt.Errorf("log sale: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &SellResult{ItemName: name, Emoji: emoji, Qty: qty, Earned: earned, Balance: balance}, nil
}

// ExpireListings drops listings whose availability window has passed and
// returns how many were removed. The hourly job calls this.
func (r *Repository) ExpireListings(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM shop_items
		WHERE available_until IS NOT NULL AND available_until <= $1`,
		now)
	if err != nil {
		return 0, fmt.Errorf("expire listings: %w", err)
	}
	return tag.RowsAffected(), nil
}

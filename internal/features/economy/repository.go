package economy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haruware/mars-bot/internal/common"
)

// Repository persists accounts and the transaction ledger.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureAccount creates the account row if it does not exist yet. Every
// command touches this first so a user's first interaction just works.
func (r *Repository) EnsureAccount(ctx context.Context, userID, guildID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, guild_id) VALUES ($1, $2)
		ON CONFLICT (id, guild_id) DO NOTHING`,
		userID, guildID)
	if err != nil {
		return fmt.Errorf("ensure account: %w", err)
	}
	return nil
}

// GetAccount returns the account, creating it on first touch.
func (r *Repository) GetAccount(ctx context.Context, userID, guildID string) (*Account, error) {
	if err := r.EnsureAccount(ctx, userID, guildID); err != nil {
		return nil, err
	}

	var acc Account
	err := r.pool.QueryRow(ctx, `
		SELECT id, guild_id, dream_dust, daily_streak, last_daily, last_forage, created_at
		FROM users WHERE id = $1 AND guild_id = $2`,
		userID, guildID).Scan(
		&acc.UserID, &acc.GuildID, &acc.DreamDust, &acc.DailyStreak,
		&acc.LastDaily, &acc.LastForage, &acc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &acc, nil
}

// AddDust credits dust and writes the ledger row in one transaction.
func (r *Repository) AddDust(ctx context.Context, userID, guildID string, amount int64, txType, description string) (int64, error) {
	if err := r.EnsureAccount(ctx, userID, guildID); err != nil {
		return 0, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var balance int64
	err = tx.QueryRow(ctx, `
		UPDATE users SET dream_dust = dream_dust + $3
		WHERE id = $1 AND guild_id = $2
		RETURNING dream_dust`,
		userID, guildID, amount).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("add dust: %w", err)
	}

	if err := logTx(ctx, tx, userID, guildID, txType, amount, nil, description); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return balance, nil
}

// SpendDust debits dust only if the balance covers it. The conditional UPDATE
// is the whole check: zero rows touched means the balance was short, and
// nothing happened.
func (r *Repository) SpendDust(ctx context.Context, userID, guildID string, amount int64, txType, description string) (int64, error) {
	if err := r.EnsureAccount(ctx, userID, guildID); err != nil {
		return 0, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var balance int64
	err = tx.QueryRow(ctx, `
		UPDATE users SET dream_dust = dream_dust - $3
		WHERE id = $1 AND guild_id = $2 AND dream_dust >= $3
		RETURNING dream_dust`,
		userID, guildID, amount).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, common.ErrInsufficientBalance
		}
		return 0, fmt.Errorf("spend dust: %w", err)
	}

	if err := logTx(ctx, tx, userID, guildID, txType, -amount, nil, description); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return balance, nil
}

// TransferDust moves dust between two accounts atomically and writes a ledger
// row on each side.
func (r *Repository) TransferDust(ctx context.Context, fromID, toID, guildID string, amount int64) (*GiftResult, error) {
	if err := r.EnsureAccount(ctx, fromID, guildID); err != nil {
		return nil, err
	}
	if err := r.EnsureAccount(ctx, toID, guildID); err != nil {
		return nil, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var senderBalance int64
	err = tx.QueryRow(ctx, `
		UPDATE users SET dream_dust = dream_dust - $3
		WHERE id = $1 AND guild_id = $2 AND dream_dust >= $3
		RETURNING dream_dust`,
		fromID, guildID, amount).Scan(&senderBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrInsufficientBalance
		}
		return nil, fmt.Errorf("debit sender: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE users SET dream_dust = dream_dust + $3
		WHERE id = $1 AND guild_id = $2`,
		toID, guildID, amount)
	if err != nil {
		return nil, fmt.Errorf("credit recipient: %w", err)
	}

	sent := fmt.Sprintf("gift to %s", toID)
	received := fmt.Sprintf("gift from %s", fromID)
	if err := logTx(ctx, tx, fromID, guildID, TxGiftSent, -amount, nil, sent); err != nil {
		return nil, err
	}
	if err := logTx(ctx, tx, toID, guildID, TxGiftReceived, amount, nil, received); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &GiftResult{Amount: amount, SenderBalance: senderBalance}, nil
}

// DailyClaim is the result of a successful daily reward.
type DailyClaim struct {
	Streak  int
	Reward  int64
	Balance int64
}

// ErrDailyOnCooldown is returned by ClaimDaily when the 24-hour gate is
// still closed; Remaining reports the wait.
type ErrDailyOnCooldown struct {
	Remaining time.Duration
}

func (e *ErrDailyOnCooldown) Error() string {
	return fmt.Sprintf("daily on cooldown for %s", e.Remaining)
}

// ClaimDaily performs the whole claim in one statement: the WHERE clause is
// the 24-hour gate, the streak grows by one per successful claim with no
// cap, and the reward is 100 plus 10 per day of the streak as it stood
// before the claim, capped at +200. Both SET expressions read the
// pre-update row, so the credit uses the old streak while the new one is
// stored. Two concurrent claims cannot both pass the gate.
func (r *Repository) ClaimDaily(ctx context.Context, userID, guildID string, now time.Time) (*DailyClaim, error) {
	if err := r.EnsureAccount(ctx, userID, guildID); err != nil {
		return nil, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var claim DailyClaim
	err = tx.QueryRow(ctx, `
		UPDATE users SET
			dream_dust = dream_dust + 100 + LEAST(10 * daily_streak, 200),
			daily_streak = daily_streak + 1,
			last_daily = $3
		WHERE id = $1 AND guild_id = $2
			AND (last_daily IS NULL OR last_daily <= $3 - INTERVAL '24 hours')
		RETURNING daily_streak, dream_dust`,
		userID, guildID, now).Scan(&claim.Streak, &claim.Balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.dailyCooldown(ctx, userID, guildID, now)
		}
		return nil, fmt.Errorf("claim daily: %w", err)
	}

	claim.Reward = dailyReward(claim.Streak - 1)
	desc := fmt.Sprintf("daily reward, streak %d", claim.Streak)
	if err := logTx(ctx, tx, userID, guildID, TxDaily, claim.Reward, nil, desc); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &claim, nil
}

func (r *Repository) dailyCooldown(ctx context.Context, userID, guildID string, now time.Time) error {
	var last *time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT last_daily FROM users WHERE id = $1 AND guild_id = $2`,
		userID, guildID).Scan(&last)
	if err != nil || last == nil {
		return fmt.Errorf("daily gate closed but no timestamp: %w", err)
	}
	return &ErrDailyOnCooldown{Remaining: last.Add(24 * time.Hour).Sub(now)}
}

// Leaderboard returns the guild's top balances. Empty accounts are left out.
func (r *Repository) Leaderboard(ctx context.Context, guildID string, limit int) ([]LeaderboardEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, dream_dust FROM users
		WHERE guild_id = $1 AND dream_dust > 0
		ORDER BY dream_dust DESC, id
		LIMIT $2`,
		guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		e := LeaderboardEntry{Rank: len(entries) + 1}
		if err := rows.Scan(&e.UserID, &e.DreamDust); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Rank places one user in their guild's ranking.
func (r *Repository) Rank(ctx context.Context, userID, guildID string) (*RankInfo, error) {
	if err := r.EnsureAccount(ctx, userID, guildID); err != nil {
		return nil, err
	}

	var info RankInfo
	err := r.pool.QueryRow(ctx, `
		SELECT ranked.pos, ranked.total, ranked.dream_dust FROM (
			SELECT id, dream_dust,
				ROW_NUMBER() OVER (ORDER BY dream_dust DESC, id) AS pos,
				COUNT(*) OVER () AS total
			FROM users WHERE guild_id = $2
		) ranked WHERE ranked.id = $1`,
		userID, guildID).Scan(&info.Rank, &info.Total, &info.DreamDust)
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}
	return &info, nil
}

// Stats counts the user's ledger activity by type.
func (r *Repository) Stats(ctx context.Context, userID, guildID string) (*ActivityStats, error) {
	var s ActivityStats
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE type = $3),
			COUNT(*) FILTER (WHERE type = $4),
			COUNT(*) FILTER (WHERE type = $5),
			COUNT(*) FILTER (WHERE type = $6),
			COUNT(*) FILTER (WHERE type = $7),
			COUNT(*) FILTER (WHERE type = $8),
			COUNT(*) FILTER (WHERE type = $9),
			COUNT(*) FILTER (WHERE type = $10)
		FROM transactions WHERE user_id = $1 AND guild_id = $2`,
		userID, guildID,
		TxDaily, TxForage, TxBrew, TxGiftSent, TxGiftReceived,
		TxPurchase, TxSale, TxCoinflip).Scan(
		&s.Dailies, &s.Forages, &s.Brews, &s.GiftsSent, &s.GiftsReceived,
		&s.Purchases, &s.Sales, &s.Coinflips)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return &s, nil
}

// CleanupTransactions deletes ledger rows older than the cutoff and returns
// how many were removed.
func (r *Repository) CleanupTransactions(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM transactions WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup transactions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// LogEvent appends one ledger row outside any transaction, for features that
// record item movements with no dust delta.
func (r *Repository) LogEvent(ctx context.Context, userID, guildID, txType string, amount int64, itemName *string, description string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO transactions (user_id, guild_id, type, amount, item_name, description)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		userID, guildID, txType, amount, itemName, description)
	if err != nil {
		return fmt.Errorf("log event: %w", err)
	}
	return nil
}

// logTx appends one ledger row inside the caller's transaction.
func logTx(ctx context.Context, tx pgx.Tx, userID, guildID, txType string, amount int64, itemName *string, description string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO transactions (user_id, guild_id, type, amount, item_name, description)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		userID, guildID, txType, amount, itemName, description)
	if err != nil {
		return fmt.Errorf("log transaction: %w", err)
	}
	return nil
}

// dailyReward mirrors the crediting expression in ClaimDaily: base 100 plus
// 10 per day of the streak before this claim, capped at +200.
func dailyReward(prevStreak int) int64 {
	return 100 + min64(int64(prevStreak)*10, 200)
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

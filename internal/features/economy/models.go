// Package economy owns dream dust: accounts, the transaction ledger, gifts,
// coinflips, leaderboards and profiles.
package economy

import "time"

// Account is one user's balance in one guild. Balances are scoped per guild,
// never shared across servers.
type Account struct {
	UserID      string
	GuildID     string
	DreamDust   int64
	DailyStreak int
	LastDaily   *time.Time
	LastForage  *time.Time
	CreatedAt   time.Time
}

// Transaction types recorded in the ledger.
const (
	TxDaily        = "daily"
	TxForage       = "forage"
	TxGiftSent     = "gift_sent"
	TxGiftReceived = "gift_received"
	TxPurchase     = "purchase"
	TxSale         = "sale"
	TxBrew         = "brew"
	TxCoinflip     = "coinflip"
)

// Transaction is one ledger row. Amount is the signed dust delta; ItemName is
// set for item movements.
type Transaction struct {
	ID          int64
	UserID      string
	GuildID     string
	Type        string
	Amount      int64
	ItemName    *string
	Description string
	CreatedAt   time.Time
}

// LeaderboardEntry is one row of a guild's dust ranking.
type LeaderboardEntry struct {
	Rank      int
	UserID    string
	DreamDust int64
}

// RankInfo places one user within their guild's ranking.
type RankInfo struct {
	Rank      int
	Total     int
	DreamDust int64
}

// ActivityStats counts a user's ledger activity by type, for profiles.
type ActivityStats struct {
	Dailies       int
	Forages       int
	Brews         int
	GiftsSent     int
	GiftsReceived int
	Purchases     int
	Sales         int
	Coinflips     int
}

// CoinflipResult is the outcome of one wager.
type CoinflipResult struct {
	Won     bool
	Landed  string // the side the coin landed on
	Stake   int64
	Payout  int64 // stake doubled on a win, zero on a loss
	Balance int64 // balance after settlement
}

// GiftResult reports a completed dust transfer.
type GiftResult struct {
	Amount        int64
	SenderBalance int64
}

package economy

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/haruware/mars-bot/internal/common"
	"github.com/haruware/mars-bot/internal/random"
)

// store is the persistence surface the service needs; *Repository satisfies it.
type store interface {
	GetAccount(ctx context.Context, userID, guildID string) (*Account, error)
	AddDust(ctx context.Context, userID, guildID string, amount int64, txType, description string) (int64, error)
	SpendDust(ctx context.Context, userID, guildID string, amount int64, txType, description string) (int64, error)
	TransferDust(ctx context.Context, fromID, toID, guildID string, amount int64) (*GiftResult, error)
	Leaderboard(ctx context.Context, guildID string, limit int) ([]LeaderboardEntry, error)
	Rank(ctx context.Context, userID, guildID string) (*RankInfo, error)
	Stats(ctx context.Context, userID, guildID string) (*ActivityStats, error)
}

// Service applies the economy rules on top of the repository.
type Service struct {
	store  store
	roller random.Roller
	log    *logrus.Logger
}

func NewService(store store, roller random.Roller, log *logrus.Logger) *Service {
	return &Service{store: store, roller: roller, log: log}
}

// Balance returns the caller's account, creating it on first touch.
func (s *Service) Balance(ctx context.Context, userID, guildID string) (*Account, error) {
	return s.store.GetAccount(ctx, userID, guildID)
}

// Gift transfers dust to another member. Gifting yourself or a non-positive
// amount is rejected before anything is touched.
func (s *Service) Gift(ctx context.Context, fromID, toID, guildID string, amount int64) (*GiftResult, error) {
	if amount <= 0 {
		return nil, common.ErrInvalidAmount
	}
	if fromID == toID {
		return nil, common.ErrSelfGift
	}

	res, err := s.store.TransferDust(ctx, fromID, toID, guildID, amount)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"from":   fromID,
		"to":     toID,
		"guild":  guildID,
		"amount": amount,
	}).Info("dust gifted")
	return res, nil
}

// Coin sides a flip can be called on.
const (
	Heads = "heads"
	Tails = "tails"
)

// Coinflip wagers the stake on the called side of a fair flip. The balance
// is checked up front so a losing user never goes negative; the debit itself
// is conditional, so a concurrent spend between check and settle turns into
// ErrInsufficientBalance rather than a negative balance.
func (s *Service) Coinflip(ctx context.Context, userID, guildID, side string, stake int64) (*CoinflipResult, error) {
	if side != Heads && side != Tails {
		return nil, common.ErrInvalidSide
	}
	if stake <= 0 {
		return nil, common.ErrInvalidAmount
	}

	acc, err := s.store.GetAccount(ctx, userID, guildID)
	if err != nil {
		return nil, err
	}
	if acc.DreamDust < stake {
		return nil, common.ErrInsufficientBalance
	}

	landed := Heads
	if s.roller.Intn(2) == 1 {
		landed = Tails
	}
	won := landed == side

	var balance int64
	if won {
		balance, err = s.store.AddDust(ctx, userID, guildID, stake, TxCoinflip, "coinflip win")
	} else {
		balance, err = s.store.SpendDust(ctx, userID, guildID, stake, TxCoinflip, "coinflip loss")
	}
	if err != nil {
		return nil, err
	}

	res := &CoinflipResult{Won: won, Landed: landed, Stake: stake, Balance: balance}
	if won {
		res.Payout = stake * 2
	}
	return res, nil
}

// Leaderboard returns the guild's top balances.
func (s *Service) Leaderboard(ctx context.Context, guildID string, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 25 {
		limit = 10
	}
	return s.store.Leaderboard(ctx, guildID, limit)
}

// Rank places the user in the guild ranking.
func (s *Service) Rank(ctx context.Context, userID, guildID string) (*RankInfo, error) {
	return s.store.Rank(ctx, userID, guildID)
}

// Profile bundles the account with its activity counts.
func (s *Service) Profile(ctx context.Context, userID, guildID string) (*Account, *ActivityStats, error) {
	acc, err := s.store.GetAccount(ctx, userID, guildID)
	if err != nil {
		return nil, nil, err
	}
	stats, err := s.store.Stats(ctx, userID, guildID)
	if err != nil {
		return nil, nil, err
	}
	return acc, stats, nil
}

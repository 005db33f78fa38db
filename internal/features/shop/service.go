package shop

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/haruware/mars-bot/internal/common"
)

// Purchases are capped per command so a typo can't drain a balance.
const (
	MinBuyQty = 1
	MaxBuyQty = 99
)

// store is the persistence surface the service needs; *Repository satisfies it.
type store interface {
	Listings(ctx context.Context) ([]Listing, error)
	Purchase(ctx context.Context, userID, guildID, itemName string, qty int64) (*PurchaseResult, error)
	Sell(ctx context.Context, userID, guildID, itemName string, qty int64) (*SellResult, error)
	ExpireListings(ctx context.Context, now time.Time) (int64, error)
}

// accounts creates account rows before money moves; *economy.Repository
// satisfies it.
type accounts interface {
	EnsureAccount(ctx context.Context, userID, guildID string) error
}

// Service applies shop rules on top of the repository.
type Service struct {
	store    store
	accounts accounts
	log      *logrus.Logger
}

func NewService(store store, accounts accounts, log *logrus.Logger) *Service {
	return &Service{store: store, accounts: accounts, log: log}
}

// Browse lists everything currently for sale.
func (s *Service) Browse(ctx context.Context) ([]Listing, error) {
	return s.store.Listings(ctx)
}

// Buy purchases qty of an item. Quantity is clamped to 1..99 by validation,
// not silently.
func (s *Service) Buy(ctx context.Context, userID, guildID, itemName string, qty int64) (*PurchaseResult, error) {
	if qty < MinBuyQty || qty > MaxBuyQty {
		return nil, common.ErrInvalidAmount
	}
	if err := s.accounts.EnsureAccount(ctx, userID, guildID); err != nil {
		return nil, err
	}

	res, err := s.store.Purchase(ctx, userID, guildID, itemName, qty)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user":  userID,
		"guild": guildID,
		"item":  res.ItemName,
		"qty":   qty,
		"cost":  res.TotalCost,
	}).Info("shop purchase")
	return res, nil
}

// Sell buys qty of an item back from the user.
func (s *Service) Sell(ctx context.Context, userID, guildID, itemName string, qty int64) (*SellResult, error) {
	if qty <= 0 {
		return nil, common.ErrInvalidAmount
	}
	if err := s.accounts.EnsureAccount(ctx, userID, guildID); err != nil {
		return nil, err
	}

	res, err := s.store.Sell(ctx, userID, guildID, itemName, qty)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user":   userID,
		"guild":  guildID,
		"item":   res.ItemName,
		"qty":    qty,
		"earned": res.Earned,
	}).Info("shop sale")
	return res, nil
}

// ExpireListings removes lapsed seasonal listings.
func (s *Service) ExpireListings(ctx context.Context, now time.Time) (int64, error) {
	return s.store.ExpireListings(ctx, now)
}

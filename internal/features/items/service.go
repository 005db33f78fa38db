package items

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/haruware/mars-bot/internal/common"
)

// store is the persistence surface the service needs; *Repository satisfies it.
type store interface {
	ItemInfo(ctx context.Context, name string) (*Item, error)
	Inventory(ctx context.Context, userID, guildID string) ([]InventoryEntry, error)
	Transfer(ctx context.Context, fromID, toID, guildID, itemName string, qty int64) error
}

// Service applies inventory rules on top of the repository.
type Service struct {
	store store
	log   *logrus.Logger
}

func NewService(store store, log *logrus.Logger) *Service {
	return &Service{store: store, log: log}
}

// Inventory lists the user's stacks.
func (s *Service) Inventory(ctx context.Context, userID, guildID string) ([]InventoryEntry, error) {
	return s.store.Inventory(ctx, userID, guildID)
}

// Inspect resolves one catalog item for display.
func (s *Service) Inspect(ctx context.Context, name string) (*Item, error) {
	return s.store.ItemInfo(ctx, name)
}

// GiftItem hands qty of an item to another member. The name is resolved to
// its canonical form first so "moonstone" and "Moonstone" are the same stack.
func (s *Service) GiftItem(ctx context.Context, fromID, toID, guildID, name string, qty int64) (*Item, error) {
	if qty <= 0 {
		return nil, common.ErrInvalidAmount
	}
	if fromID == toID {
		return nil, common.ErrSelfGift
	}

	item, err := s.store.ItemInfo(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := s.store.Transfer(ctx, fromID, toID, guildID, item.Name, qty); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"from":  fromID,
		"to":    toID,
		"guild": guildID,
		"item":  item.Name,
		"qty":   qty,
	}).Info("item gifted")
	return item, nil
}

package shop

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haruware/mars-bot/internal/common"
)

type fakeShopStore struct {
	listings map[string]*Listing // keyed by lower-cased name
	balance  int64
	owned    map[string]int64
}

func newFakeShopStore(balance int64) *fakeShopStore {
	return &fakeShopStore{
		listings: make(map[string]*Listing),
		balance:  balance,
		owned:    make(map[string]int64),
	}
}

func (f *fakeShopStore) list(l Listing) {
	f.listings[strings.ToLower(l.ItemName)] = &l
}

func (f *fakeShopStore) Listings(ctx context.Context) ([]Listing, error) {
	var out []Listing
	for _, l := range f.listings {
		out = append(out, *l)
	}
	return out, nil
}

func (f *fakeShopStore) Purchase(ctx context.Context, userID, guildID, itemName string, qty int64) (*PurchaseResult, error) {
	l, ok := f.listings[strings.ToLower(itemName)]
	if !ok {
		return nil, common.ErrUnknownItem
	}
	if l.Stock >= 0 && int64(l.Stock) < qty {
		return nil, common.ErrOutOfStock
	}
	total := l.Price * qty
	if f.balance < total {
		return nil, common.ErrInsufficientBalance
	}
	f.balance -= total
	if l.Stock >= 0 {
		l.Stock -= int(qty)
	}
	f.owned[l.ItemName] += qty
	return &PurchaseResult{ItemName: l.ItemName, Qty: qty, TotalCost: total, Balance: f.balance}, nil
}

func (f *fakeShopStore) Sell(ctx context.Context, userID, guildID, itemName string, qty int64) (*SellResult, error) {
	l, ok := f.listings[strings.ToLower(itemName)]
	if !ok {
		return nil, common.ErrUnknownItem
	}
	if f.owned[l.ItemName] < qty {
		return nil, common.ErrInsufficientItems
	}
	earned := l.Price / 2 * qty
	f.owned[l.ItemName] -= qty
	f.balance += earned
	return &SellResult{ItemName: l.ItemName, Qty: qty, Earned: earned, Balance: f.balance}, nil
}

func (f *fakeShopStore) ExpireListings(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for key, l := range f.listings {
		if l.AvailableUntil != nil && !l.AvailableUntil.After(now) {
			delete(f.listings, key)
			n++
		}
	}
	return n, nil
}

type fakeAccounts struct{ ensured int }

func (f *fakeAccounts) EnsureAccount(ctx context.Context, userID, guildID string) error {
	f.ensured++
	return nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestBuy(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path debits and grants", func(t *testing.T) {
		store := newFakeShopStore(500)
		store.list(Listing{ItemName: "Dream Catcher", Price: 200, Stock: -1})
		svc := NewService(store, &fakeAccounts{}, testLogger())

		res, err := svc.Buy(ctx, "u1", "g1", "dream catcher", 1)
		require.NoError(t, err)
		assert.Equal(t, "Dream Catcher", res.ItemName)
		assert.Equal(t, int64(200), res.TotalCost)
		assert.Equal(t, int64(300), res.Balance)
		assert.Equal(t, int64(1), store.owned["Dream Catcher"])
	})

	t.Run("quantity outside 1..99 is rejected", func(t *testing.T) {
		store := newFakeShopStore(1_000_000)
		store.list(Listing{ItemName: "Mug of Cocoa", Price: 50, Stock: -1})
		svc := NewService(store, &fakeAccounts{}, testLogger())

		for _, qty := range []int64{0, -1, 100} {
			_, err := svc.Buy(ctx, "u1", "g1", "Mug of Cocoa", qty)
			assert.ErrorIs(t, err, common.ErrInvalidAmount, "qty %d", qty)
		}
	})

	t.Run("insufficient balance leaves everything untouched", func(t *testing.T) {
		store := newFakeShopStore(100)
		store.list(Listing{ItemName: "Dream Catcher", Price: 200, Stock: -1})
		svc := NewService(store, &fakeAccounts{}, testLogger())

		_, err := svc.Buy(ctx, "u1", "g1", "Dream Catcher", 1)
		assert.ErrorIs(t, err, common.ErrInsufficientBalance)
		assert.Equal(t, int64(100), store.balance)
		assert.Empty(t, store.owned)
	})

	t.Run("finite stock runs out", func(t *testing.T) {
		store := newFakeShopStore(10_000)
		store.list(Listing{ItemName: "Plush Comet", Price: 500, Stock: 2})
		svc := NewService(store, &fakeAccounts{}, testLogger())

		_, err := svc.Buy(ctx, "u1", "g1", "Plush Comet", 3)
		assert.ErrorIs(t, err, common.ErrOutOfStock)

		_, err = svc.Buy(ctx, "u1", "g1", "Plush Comet", 2)
		require.NoError(t, err)

		_, err = svc.Buy(ctx, "u1", "g1", "Plush Comet", 1)
		assert.ErrorIs(t, err, common.ErrOutOfStock)
	})

	t.Run("unknown item", func(t *testing.T) {
		svc := NewService(newFakeShopStore(500), &fakeAccounts{}, testLogger())

		_, err := svc.Buy(ctx, "u1", "g1", "Nonsense", 1)
		assert.ErrorIs(t, err, common.ErrUnknownItem)
	})
}

func TestSell(t *testing.T) {
	ctx := context.Background()

	t.Run("credits the sell value", func(t *testing.T) {
		store := newFakeShopStore(0)
		store.list(Listing{ItemName: "Moonstone", Price: 80, Stock: -1})
		store.owned["Moonstone"] = 3
		svc := NewService(store, &fakeAccounts{}, testLogger())

		res, err := svc.Sell(ctx, "u1", "g1", "moonstone", 2)
		require.NoError(t, err)
		assert.Equal(t, int64(80), res.Earned)
		assert.Equal(t, int64(1), store.owned["Moonstone"])
	})

	t.Run("selling more than owned fails", func(t *testing.T) {
		store := newFakeShopStore(0)
		store.list(Listing{ItemName: "Moonstone", Price: 80, Stock: -1})
		store.owned["Moonstone"] = 1
		svc := NewService(store, &fakeAccounts{}, testLogger())

		_, err := svc.Sell(ctx, "u1", "g1", "Moonstone", 5)
		assert.ErrorIs(t, err, common.ErrInsufficientItems)
		assert.Equal(t, int64(1), store.owned["Moonstone"])
	})

	t.Run("non-positive quantity is rejected", func(t *testing.T) {
		svc := NewService(newFakeShopStore(0), &fakeAccounts{}, testLogger())

		_, err := svc.Sell(ctx, "u1", "g1", "Moonstone", 0)
		assert.ErrorIs(t, err, common.ErrInvalidAmount)
	})
}

func TestExpireListings(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	store := newFakeShopStore(0)
	store.list(Listing{ItemName: "Seasonal", Price: 10, AvailableUntil: &past})
	store.list(Listing{ItemName: "Current", Price: 10, AvailableUntil: &future})
	store.list(Listing{ItemName: "Evergreen", Price: 10})
	svc := NewService(store, &fakeAccounts{}, testLogger())

	n, err := svc.ExpireListings(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Len(t, store.listings, 2)
}

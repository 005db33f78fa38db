package economy

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haruware/mars-bot/internal/common"
	"github.com/haruware/mars-bot/internal/random"
)

type fakeStore struct {
	accounts  map[string]*Account
	transfers []int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{accounts: make(map[string]*Account)}
}

func (f *fakeStore) key(userID, guildID string) string { return userID + ":" + guildID }

func (f *fakeStore) GetAccount(ctx context.Context, userID, guildID string) (*Account, error) {
	k := f.key(userID, guildID)
	if _, ok := f.accounts[k]; !ok {
		f.accounts[k] = &Account{UserID: userID, GuildID: guildID}
	}
	return f.accounts[k], nil
}

func (f *fakeStore) AddDust(ctx context.Context, userID, guildID string, amount int64, txType, description string) (int64, error) {
	acc, _ := f.GetAccount(ctx, userID, guildID)
	acc.DreamDust += amount
	return acc.DreamDust, nil
}

func (f *fakeStore) SpendDust(ctx context.Context, userID, guildID string, amount int64, txType, description string) (int64, error) {
	acc, _ := f.GetAccount(ctx, userID, guildID)
	if acc.DreamDust < amount {
		return 0, common.ErrInsufficientBalance
	}
	acc.DreamDust -= amount
	return acc.DreamDust, nil
}

func (f *fakeStore) TransferDust(ctx context.Context, fromID, toID, guildID string, amount int64) (*GiftResult, error) {
	balance, err := f.SpendDust(ctx, fromID, guildID, amount, TxGiftSent, "")
	if err != nil {
		return nil, err
	}
	f.AddDust(ctx, toID, guildID, amount, TxGiftReceived, "")
	f.transfers = append(f.transfers, amount)
	return &GiftResult{Amount: amount, SenderBalance: balance}, nil
}

func (f *fakeStore) Leaderboard(ctx context.Context, guildID string, limit int) ([]LeaderboardEntry, error) {
	return nil, nil
}

func (f *fakeStore) Rank(ctx context.Context, userID, guildID string) (*RankInfo, error) {
	return &RankInfo{Rank: 1, Total: 1}, nil
}

func (f *fakeStore) Stats(ctx context.Context, userID, guildID string) (*ActivityStats, error) {
	return &ActivityStats{}, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestGift(t *testing.T) {
	ctx := context.Background()

	t.Run("moves dust between members", func(t *testing.T) {
		store := newFakeStore()
		store.accounts["alice:g1"] = &Account{UserID: "alice", GuildID: "g1", DreamDust: 500}
		svc := NewService(store, random.NewSeededRoller(1), testLogger())

		res, err := svc.Gift(ctx, "alice", "bob", "g1", 200)
		require.NoError(t, err)
		assert.Equal(t, int64(300), res.SenderBalance)

		bob, _ := store.GetAccount(ctx, "bob", "g1")
		assert.Equal(t, int64(200), bob.DreamDust)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		svc := NewService(newFakeStore(), random.NewSeededRoller(1), testLogger())

		for _, amount := range []int64{0, -5} {
			_, err := svc.Gift(ctx, "alice", "bob", "g1", amount)
			assert.ErrorIs(t, err, common.ErrInvalidAmount)
		}
	})

	t.Run("rejects self gifts", func(t *testing.T) {
		svc := NewService(newFakeStore(), random.NewSeededRoller(1), testLogger())

		_, err := svc.Gift(ctx, "alice", "alice", "g1", 50)
		assert.ErrorIs(t, err, common.ErrSelfGift)
	})

	t.Run("insufficient balance touches nothing", func(t *testing.T) {
		store := newFakeStore()
		store.accounts["alice:g1"] = &Account{UserID: "alice", GuildID: "g1", DreamDust: 100}
		svc := NewService(store, random.NewSeededRoller(1), testLogger())

		_, err := svc.Gift(ctx, "alice", "bob", "g1", 500)
		assert.ErrorIs(t, err, common.ErrInsufficientBalance)
		assert.Empty(t, store.transfers)

		alice, _ := store.GetAccount(ctx, "alice", "g1")
		assert.Equal(t, int64(100), alice.DreamDust)
	})
}

func TestCoinflip(t *testing.T) {
	ctx := context.Background()

	// headsSeed's first Intn(2) draw is 0, so the coin lands heads.
	headsSeed := int64(0)
	for random.NewSeededRoller(headsSeed).Intn(2) != 0 {
		headsSeed++
	}
	tailsSeed := int64(0)
	for random.NewSeededRoller(tailsSeed).Intn(2) != 1 {
		tailsSeed++
	}

	t.Run("rejects anything but heads or tails", func(t *testing.T) {
		svc := NewService(newFakeStore(), random.NewSeededRoller(1), testLogger())

		for _, side := range []string{"", "edge", "HEADS"} {
			_, err := svc.Coinflip(ctx, "alice", "g1", side, 10)
			assert.ErrorIs(t, err, common.ErrInvalidSide, "side %q", side)
		}
	})

	t.Run("rejects stakes above balance", func(t *testing.T) {
		store := newFakeStore()
		store.accounts["alice:g1"] = &Account{UserID: "alice", GuildID: "g1", DreamDust: 50}
		svc := NewService(store, random.NewSeededRoller(1), testLogger())

		_, err := svc.Coinflip(ctx, "alice", "g1", Heads, 100)
		assert.ErrorIs(t, err, common.ErrInsufficientBalance)
	})

	t.Run("rejects non-positive stakes", func(t *testing.T) {
		svc := NewService(newFakeStore(), random.NewSeededRoller(1), testLogger())

		_, err := svc.Coinflip(ctx, "alice", "g1", Heads, 0)
		assert.ErrorIs(t, err, common.ErrInvalidAmount)
	})

	t.Run("a matching call credits the stake and doubles the payout", func(t *testing.T) {
		store := newFakeStore()
		store.accounts["alice:g1"] = &Account{UserID: "alice", GuildID: "g1", DreamDust: 100}
		svc := NewService(store, random.NewSeededRoller(headsSeed), testLogger())

		res, err := svc.Coinflip(ctx, "alice", "g1", Heads, 40)
		require.NoError(t, err)
		assert.True(t, res.Won)
		assert.Equal(t, Heads, res.Landed)
		assert.Equal(t, int64(80), res.Payout)
		assert.Equal(t, int64(140), res.Balance)
	})

	t.Run("the same draw on the other call debits the stake", func(t *testing.T) {
		store := newFakeStore()
		store.accounts["alice:g1"] = &Account{UserID: "alice", GuildID: "g1", DreamDust: 100}
		svc := NewService(store, random.NewSeededRoller(headsSeed), testLogger())

		res, err := svc.Coinflip(ctx, "alice", "g1", Tails, 40)
		require.NoError(t, err)
		assert.False(t, res.Won)
		assert.Equal(t, Heads, res.Landed)
		assert.Zero(t, res.Payout)
		assert.Equal(t, int64(60), res.Balance)
	})

	t.Run("tails wins when the coin lands tails", func(t *testing.T) {
		store := newFakeStore()
		store.accounts["alice:g1"] = &Account{UserID: "alice", GuildID: "g1", DreamDust: 100}
		svc := NewService(store, random.NewSeededRoller(tailsSeed), testLogger())

		res, err := svc.Coinflip(ctx, "alice", "g1", Tails, 40)
		require.NoError(t, err)
		assert.True(t, res.Won)
		assert.Equal(t, Tails, res.Landed)
	})

	t.Run("outcomes are roughly even over many flips", func(t *testing.T) {
		store := newFakeStore()
		store.accounts["alice:g1"] = &Account{UserID: "alice", GuildID: "g1", DreamDust: 1_000_000}
		svc := NewService(store, random.NewSeededRoller(7), testLogger())

		wins := 0
		const flips = 10_000
		for i := 0; i < flips; i++ {
			res, err := svc.Coinflip(ctx, "alice", "g1", Heads, 1)
			require.NoError(t, err)
			if res.Won {
				wins++
			}
		}
		assert.InDelta(t, flips/2, wins, flips/20)
	})
}

func TestNormalizeSide(t *testing.T) {
	assert.Equal(t, Heads, normalizeSide("HEADS"))
	assert.Equal(t, Heads, normalizeSide(" h "))
	assert.Equal(t, Tails, normalizeSide("tail"))
	assert.Equal(t, "", normalizeSide("edge"))
	assert.Equal(t, "", normalizeSide(""))
}

func TestDailyReward(t *testing.T) {
	// A claim made at streak 6 moves the streak to 7 and pays the bonus for
	// the six days already banked: 100 + 6*10 = 160.
	assert.Equal(t, int64(160), dailyReward(6))

	t.Run("first claim pays the base only", func(t *testing.T) {
		assert.Equal(t, int64(100), dailyReward(0))
	})

	t.Run("bonus caps at 200", func(t *testing.T) {
		assert.Equal(t, int64(290), dailyReward(19))
		assert.Equal(t, int64(300), dailyReward(20))
		assert.Equal(t, int64(300), dailyReward(45))
	})
}

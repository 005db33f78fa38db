package daily

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haruware/mars-bot/internal/features/economy"
	"github.com/haruware/mars-bot/internal/random"
)

type fakeAccounts struct {
	claim    *economy.DailyClaim
	claimErr error
	events   int
}

func (f *fakeAccounts) ClaimDaily(ctx context.Context, userID, guildID string, now time.Time) (*economy.DailyClaim, error) {
	if f.claimErr != nil {
		return nil, f.claimErr
	}
	return f.claim, nil
}

func (f *fakeAccounts) LogEvent(ctx context.Context, userID, guildID, txType string, amount int64, itemName *string, description string) error {
	f.events++
	return nil
}

type fakeGranter struct {
	grants map[string]int64
}

func (f *fakeGranter) Grant(ctx context.Context, userID, guildID, itemName string, qty int64) error {
	if f.grants == nil {
		f.grants = make(map[string]int64)
	}
	f.grants[itemName] += qty
	return nil
}

// neverBonus always rolls above the bonus threshold.
type neverBonus struct{}

func (neverBonus) Intn(n int) int   { return 0 }
func (neverBonus) Float64() float64 { return 0.99 }

// alwaysBonus always rolls under the bonus threshold, then picks index 0.
type alwaysBonus struct{}

func (alwaysBonus) Intn(n int) int   { return 0 }
func (alwaysBonus) Float64() float64 { return 0.01 }

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestClaim(t *testing.T) {
	ctx := context.Background()

	t.Run("passes through the settled claim", func(t *testing.T) {
		// A claim made at streak 6: the streak moves to 7 and pays 160.
		accounts := &fakeAccounts{claim: &economy.DailyClaim{Streak: 7, Reward: 160, Balance: 1000}}
		svc := NewService(accounts, &fakeGranter{}, neverBonus{}, testLogger())

		res, err := svc.Claim(ctx, "u1", "g1")
		require.NoError(t, err)
		assert.Equal(t, int64(160), res.Reward)
		assert.Equal(t, 7, res.Streak)
		assert.True(t, res.Milestone)
		assert.Empty(t, res.BonusItem)
	})

	t.Run("cooldown error surfaces unchanged", func(t *testing.T) {
		accounts := &fakeAccounts{claimErr: &economy.ErrDailyOnCooldown{Remaining: 2 * time.Hour}}
		svc := NewService(accounts, &fakeGranter{}, neverBonus{}, testLogger())

		_, err := svc.Claim(ctx, "u1", "g1")
		var cd *economy.ErrDailyOnCooldown
		require.ErrorAs(t, err, &cd)
		assert.Equal(t, 2*time.Hour, cd.Remaining)
	})

	t.Run("bonus item is granted and logged", func(t *testing.T) {
		accounts := &fakeAccounts{claim: &economy.DailyClaim{Streak: 1, Reward: 100, Balance: 100}}
		granter := &fakeGranter{}
		svc := NewService(accounts, granter, alwaysBonus{}, testLogger())

		res, err := svc.Claim(ctx, "u1", "g1")
		require.NoError(t, err)
		assert.Equal(t, "💧 Dewdrop", res.BonusItem)
		assert.Equal(t, int64(1), granter.grants["Dewdrop"])
		assert.Equal(t, 1, accounts.events)
	})

	t.Run("every seventh day is a milestone", func(t *testing.T) {
		for streak, want := range map[int]bool{6: false, 7: true, 13: false, 14: true} {
			accounts := &fakeAccounts{claim: &economy.DailyClaim{Streak: streak, Reward: 100}}
			svc := NewService(accounts, &fakeGranter{}, neverBonus{}, testLogger())

			res, err := svc.Claim(ctx, "u1", "g1")
			require.NoError(t, err)
			assert.Equal(t, want, res.Milestone, "streak %d", streak)
		}
	})

	t.Run("bonus rate is roughly ten percent", func(t *testing.T) {
		roller := random.NewSeededRoller(5)
		const claims = 10_000
		bonuses := 0
		for i := 0; i < claims; i++ {
			accounts := &fakeAccounts{claim: &economy.DailyClaim{Streak: 1, Reward: 100}}
			svc := NewService(accounts, &fakeGranter{}, roller, testLogger())
			res, err := svc.Claim(context.Background(), "u1", "g1")
			require.NoError(t, err)
			if res.BonusItem != "" {
				bonuses++
			}
		}
		assert.InDelta(t, claims/10, bonuses, claims/50)
	})
}

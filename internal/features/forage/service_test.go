package forage

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

// fakeAccounts replays one LastForage value per GetAccount call, so tests
// can model the stamp moving between the pre-check and the transaction.
type fakeAccounts struct {
	lastForages []*time.Time
	calls       int
}

func (f *fakeAccounts) GetAccount(ctx context.Context, userID, guildID string) (*economy.Account, error) {
	var last *time.Time
	if f.calls < len(f.lastForages) {
		last = f.lastForages[f.calls]
	} else if len(f.lastForages) > 0 {
		last = f.lastForages[len(f.lastForages)-1]
	}
	f.calls++
	return &economy.Account{UserID: userID, GuildID: guildID, LastForage: last}, nil
}

type fakeTrips struct {
	ok    bool
	saved [][]Find
}

func (f *fakeTrips) SaveTrip(ctx context.Context, userID, guildID string, now time.Time, finds []Find) (bool, error) {
	if !f.ok {
		return false, nil
	}
	f.saved = append(f.saved, finds)
	return true, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestForage(t *testing.T) {
	ctx := context.Background()

	t.Run("persists one to three stacks of one or two each", func(t *testing.T) {
		trips := &fakeTrips{ok: true}
		svc := NewService(&fakeAccounts{}, trips, random.NewSeededRoller(3), testLogger())

		finds, err := svc.Forage(ctx, "u1", "g1")
		require.NoError(t, err)
		require.NotEmpty(t, finds)
		assert.LessOrEqual(t, len(finds), 3)

		var total int64
		for _, f := range finds {
			assert.GreaterOrEqual(t, f.Qty, int64(1))
			total += f.Qty
		}
		assert.LessOrEqual(t, total, int64(6))

		require.Len(t, trips.saved, 1, "the whole trip goes in one save")
		assert.Equal(t, finds, trips.saved[0])
	})

	t.Run("inside the window is denied with the remaining time", func(t *testing.T) {
		last := time.Now().Add(-1 * time.Hour)
		trips := &fakeTrips{ok: true}
		svc := NewService(&fakeAccounts{lastForages: []*time.Time{&last}}, trips, random.NewSeededRoller(3), testLogger())

		_, err := svc.Forage(ctx, "u1", "g1")
		var cd *ErrOnCooldown
		require.ErrorAs(t, err, &cd)
		assert.InDelta(t, (3 * time.Hour).Seconds(), cd.Remaining.Seconds(), 2)
		assert.Empty(t, trips.saved, "denied trip must not persist")
	})

	t.Run("after the window a new trip runs", func(t *testing.T) {
		last := time.Now().Add(-5 * time.Hour)
		svc := NewService(&fakeAccounts{lastForages: []*time.Time{&last}}, &fakeTrips{ok: true}, random.NewSeededRoller(3), testLogger())

		_, err := svc.Forage(ctx, "u1", "g1")
		require.NoError(t, err)
	})

	t.Run("a lost stamp race reports the time actually left", func(t *testing.T) {
		// The pre-check sees an open gate, the transaction loses the race,
		// and the re-read finds a stamp one minute old.
		open := time.Now().Add(-5 * time.Hour)
		claimed := time.Now().Add(-1 * time.Minute)
		accounts := &fakeAccounts{lastForages: []*time.Time{&open, &claimed}}
		trips := &fakeTrips{ok: false}
		svc := NewService(accounts, trips, random.NewSeededRoller(3), testLogger())

		_, err := svc.Forage(ctx, "u1", "g1")
		var cd *ErrOnCooldown
		require.ErrorAs(t, err, &cd)
		assert.InDelta(t, (4*time.Hour - time.Minute).Seconds(), cd.Remaining.Seconds(), 2)
		assert.Empty(t, trips.saved)
	})
}

func TestLootTableDistribution(t *testing.T) {
	weights := map[string]float64{
		"Pebble":         30,
		"Wildflower":     25,
		"Dewdrop":        20,
		"Mushroom":       15,
		"Butterfly Wing": 8,
		"Honey":          7,
		"Moonstone":      5,
		"Crystal Shard":  3,
		"Fairy Wing":     2,
		"Star Fragment":  0.5,
	}
	var total float64
	for _, w := range weights {
		total += w
	}

	r := random.NewSeededRoller(42)
	counts := make(map[string]int)
	const draws = 200_000
	for i := 0; i < draws; i++ {
		counts[lootTable.Draw(r).Name]++
	}

	for name, w := range weights {
		assert.InDelta(t, w/total, float64(counts[name])/draws, 0.02,
			"frequency of %s", name)
	}
}

func TestRollMergesDuplicates(t *testing.T) {
	r := random.NewSeededRoller(7)

	for i := 0; i < 1000; i++ {
		finds := roll(r)
		seen := make(map[string]bool)
		for _, f := range finds {
			assert.False(t, seen[f.Name], "duplicate stack for %s", f.Name)
			seen[f.Name] = true
		}
	}
}

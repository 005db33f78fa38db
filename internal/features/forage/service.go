package forage

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/haruware/mars-bot/internal/cooldown"
	"github.com/haruware/mars-bot/internal/features/economy"
	"github.com/haruware/mars-bot/internal/random"
)

// ErrOnCooldown is returned while the four-hour forage gate is closed.
type ErrOnCooldown struct {
	Remaining time.Duration
}

func (e *ErrOnCooldown) Error() string {
	return fmt.Sprintf("forage on cooldown for %s", e.Remaining)
}

// accounts is the slice of the economy repository foraging needs.
type accounts interface {
	GetAccount(ctx context.Context, userID, guildID string) (*economy.Account, error)
}

// trips persists one rolled trip atomically; *Repository satisfies it.
type trips interface {
	SaveTrip(ctx context.Context, userID, guildID string, now time.Time, finds []Find) (bool, error)
}

// Service runs forage trips.
type Service struct {
	accounts accounts
	trips    trips
	roller   random.Roller
	log      *logrus.Logger
	now      func() time.Time
}

func NewService(accounts accounts, trips trips, roller random.Roller, log *logrus.Logger) *Service {
	return &Service{
		accounts: accounts,
		trips:    trips,
		roller:   roller,
		log:      log,
		now:      time.Now,
	}
}

// Forage runs one trip. The loot is rolled first (rolling costs nothing),
// then the stamp, the stacks and the ledger rows are written in one
// transaction, so a failed trip leaves the cooldown untouched and a lost
// race grants nothing.
func (s *Service) Forage(ctx context.Context, userID, guildID string) ([]Find, error) {
	now := s.now()

	acc, err := s.accounts.GetAccount(ctx, userID, guildID)
	if err != nil {
		return nil, err
	}
	if res := cooldown.Check(acc.LastForage, cooldown.ForageInterval, now); !res.Allowed {
		return nil, &ErrOnCooldown{Remaining: res.Remaining}
	}

	finds := roll(s.roller)
	ok, err := s.trips.SaveTrip(ctx, userID, guildID, now, finds)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Someone else's invocation claimed the stamp between the read and
		// the transaction.
		return nil, s.cooldownRemaining(ctx, userID, guildID, now)
	}

	s.log.WithFields(logrus.Fields{
		"user":  userID,
		"guild": guildID,
		"finds": len(finds),
	}).Info("forage trip")
	return finds, nil
}

// cooldownRemaining re-reads the account so a lost race reports the time
// actually left rather than the full interval.
func (s *Service) cooldownRemaining(ctx context.Context, userID, guildID string, now time.Time) error {
	if acc, err := s.accounts.GetAccount(ctx, userID, guildID); err == nil {
		if res := cooldown.Check(acc.LastForage, cooldown.ForageInterval, now); !res.Allowed {
			return &ErrOnCooldown{Remaining: res.Remaining}
		}
	}
	return &ErrOnCooldown{Remaining: cooldown.ForageInterval}
}

// Package daily hands out the daily dream dust reward and keeps streaks.
package daily

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/haruware/mars-bot/internal/features/economy"
	"github.com/haruware/mars-bot/internal/random"
)

// bonusChance is the odds of a small item riding along with the dust.
const bonusChance = 0.10

// bonusPool are the items the daily bonus can draw from.
var bonusPool = []struct {
	Name  string
	Emoji string
}{
	{"Dewdrop", "💧"},
	{"Wildflower", "🌼"},
	{"Pebble", "🪨"},
}

// Result is one claimed daily reward.
type Result struct {
	Reward    int64
	Streak    int
	Balance   int64
	BonusItem string // "💧 Dewdrop" or empty
	Milestone bool   // streak hit a multiple of seven
}

// accounts is the slice of the economy repository the daily needs.
type accounts interface {
	ClaimDaily(ctx context.Context, userID, guildID string, now time.Time) (*economy.DailyClaim, error)
	LogEvent(ctx context.Context, userID, guildID, txType string, amount int64, itemName *string, description string) error
}

// granter puts bonus items into the inventory; *items.Repository satisfies it.
type granter interface {
	Grant(ctx context.Context, userID, guildID, itemName string, qty int64) error
}

// Service claims daily rewards.
type Service struct {
	accounts accounts
	granter  granter
	roller   random.Roller
	log      *logrus.Logger
	now      func() time.Time
}

func NewService(accounts accounts, granter granter, roller random.Roller, log *logrus.Logger) *Service {
	return &Service{
		accounts: accounts,
		granter:  granter,
		roller:   roller,
		log:      log,
		now:      time.Now,
	}
}

// Claim runs one daily claim. The 24-hour gate and streak arithmetic are
// settled atomically in the repository; this layer rolls the bonus item and
// flags streak milestones.
func (s *Service) Claim(ctx context.Context, userID, guildID string) (*Result, error) {
	claim, err := s.accounts.ClaimDaily(ctx, userID, guildID, s.now())
	if err != nil {
		return nil, err
	}

	res := &Result{
		Reward:    claim.Reward,
		Streak:    claim.Streak,
		Balance:   claim.Balance,
		Milestone: claim.Streak > 0 && claim.Streak%7 == 0,
	}

	if s.roller.Float64() < bonusChance {
		pick := bonusPool[s.roller.Intn(len(bonusPool))]
		if err := s.granter.Grant(ctx, userID, guildID, pick.Name, 1); err != nil {
			return nil, err
		}
		name := pick.Name
		desc := fmt.Sprintf("daily bonus: %s", pick.Name)
		if err := s.accounts.LogEvent(ctx, userID, guildID, economy.TxDaily, 0, &name, desc); err != nil {
			return nil, err
		}
		res.BonusItem = fmt.Sprintf("%s %s", pick.Emoji, pick.Name)
	}

	s.log.WithFields(logrus.Fields{
		"user":   userID,
		"guild":  guildID,
		"reward": res.Reward,
		"streak": res.Streak,
	}).Info("daily claimed")
	return res, nil
}

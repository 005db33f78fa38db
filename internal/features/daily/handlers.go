package daily

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/haruware/mars-bot/internal/commands"
	"github.com/haruware/mars-bot/internal/common"
	"github.com/haruware/mars-bot/internal/features/economy"
)

// Handler exposes the daily command.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Commands() []*commands.Command {
	return []*commands.Command{
		{
			Name:        "daily",
			Description: "Claim your daily dream dust",
			GuildOnly:   true,
			Personable:  true,
			Run:         h.daily,
		},
	}
}

func (h *Handler) daily(ctx context.Context, inv *commands.Invocation) (*commands.Reply, error) {
	res, err := h.svc.Claim(ctx, inv.UserID, inv.GuildID)

	var cooldownErr *economy.ErrDailyOnCooldown
	if errors.As(err, &cooldownErr) {
		return commands.Text(fmt.Sprintf("🌙 You've already claimed today. Come back in %s.",
			common.FormatDuration(cooldownErr.Remaining))), nil
	}
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "☀️ You received %s!", common.FormatDust(res.Reward))
	fmt.Fprintf(&b, " Streak: %d %s.", res.Streak, common.Plural(res.Streak, "day", "days"))
	if res.BonusItem != "" {
		fmt.Fprintf(&b, "\nA little something extra fell out: %s!", res.BonusItem)
	}
	if res.Milestone {
		fmt.Fprintf(&b, "\n🎉 %d days in a row — Mars is quietly impressed.", res.Streak)
	}
	return commands.Text(b.String()), nil
}

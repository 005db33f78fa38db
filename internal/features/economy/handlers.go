package economy

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/haruware/mars-bot/internal/commands"
	"github.com/haruware/mars-bot/internal/common"
)

const embedColor = 0xB5A7E0

// Handler exposes the economy commands.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Commands returns every economy command for registration.
func (h *Handler) Commands() []*commands.Command {
	return []*commands.Command{
		{
			Name:        "balance",
			Description: "Check how much dream dust you have",
			GuildOnly:   true,
			Personable:  true,
			Run:         h.balance,
		},
		{
			Name:        "gift",
			Description: "Gift some of your dream dust to another member",
			GuildOnly:   true,
			Personable:  true,
			Params: []commands.Param{
				{Name: "user", Description: "Who to gift to", Type: commands.ParamUser, Required: true},
				{Name: "amount", Description: "How much dust to send", Type: commands.ParamInteger, Required: true},
			},
			Run: h.gift,
		},
		{
			Name:        "coinflip",
			Description: "Call heads or tails and wager dream dust on the flip",
			GuildOnly:   true,
			Personable:  true,
			Throttle:    5 * time.Second,
			Params: []commands.Param{
				{Name: "side", Description: "heads or tails", Type: commands.ParamString, Required: true},
				{Name: "amount", Description: "How much dust to wager", Type: commands.ParamInteger, Required: true},
			},
			Run: h.coinflip,
		},
		{
			Name:        "leaderboard",
			Description: "See who holds the most dream dust here",
			GuildOnly:   true,
			Personable:  true,
			Run:         h.leaderboard,
		},
		{
			Name:        "rank",
			Description: "See where you stand in this server",
			GuildOnly:   true,
			Personable:  true,
			Run:         h.rank,
		},
		{
			Name:        "profile",
			Description: "Your balance, streak and activity in one card",
			GuildOnly:   true,
			Personable:  true,
			Params: []commands.Param{
				{Name: "user", Description: "Whose profile to view", Type: commands.ParamUser},
			},
			Run: h.profile,
		},
	}
}

func (h *Handler) balance(ctx context.Context, inv *commands.Invocation) (*commands.Reply, error) {
	acc, err := h.svc.Balance(ctx, inv.UserID, inv.GuildID)
	if err != nil {
		return nil, err
	}
	return commands.Text(fmt.Sprintf("✨ You have %s.", common.FormatDust(acc.DreamDust))), nil
}

func (h *Handler) gift(ctx context.Context, inv *commands.Invocation) (*commands.Reply, error) {
	amount, err := parseAmount(inv.Arg("amount"))
	if err != nil {
		return commands.Text("That amount doesn't look right. Try a positive number."), nil
	}
	toID := inv.Arg("user")
	if toID == "" {
		return commands.Text("Tell me who to gift to."), nil
	}

	res, err := h.svc.Gift(ctx, inv.UserID, toID, inv.GuildID, amount)
	switch {
	case errors.Is(err, common.ErrSelfGift):
		return commands.Text("Gifting yourself would be a very short journey."), nil
	case errors.Is(err, common.ErrInvalidAmount):
		return commands.Text("That amount doesn't look right. Try a positive number."), nil
	case errors.Is(err, common.ErrInsufficientBalance):
		return commands.Text("You don't have that much dream dust to give."), nil
	case err != nil:
		return nil, err
	}

	return commands.Text(fmt.Sprintf("🎁 You gifted %s to <@%s>. You have %s left.",
		common.FormatDust(res.Amount), toID, common.FormatDust(res.SenderBalance))), nil
}

func (h *Handler) coinflip(ctx context.Context, inv *commands.Invocation) (*commands.Reply, error) {
	side := normalizeSide(inv.Arg("side"))
	stake, err := parseAmount(inv.Arg("amount"))
	if err != nil {
		return commands.Text("That wager doesn't look right. Try a positive number."), nil
	}

	res, err := h.svc.Coinflip(ctx, inv.UserID, inv.GuildID, side, stake)
	switch {
	case errors.Is(err, common.ErrInvalidSide):
		return commands.Text("Call heads or tails first."), nil
	case errors.Is(err, common.ErrInvalidAmount):
		return commands.Text("That wager doesn't look right. Try a positive number."), nil
	case errors.Is(err, common.ErrInsufficientBalance):
		return commands.Text("You can't wager more dust than you have."), nil
	case err != nil:
		return nil, err
	}

	if res.Won {
		return commands.Text(fmt.Sprintf("🪙 It's %s! You called it and won %s. Balance: %s.",
			res.Landed, common.FormatDust(res.Payout), common.FormatDust(res.Balance))), nil
	}
	return commands.Text(fmt.Sprintf("🪙 It's %s... not your call. You lost %s. Balance: %s.",
		res.Landed, common.FormatDust(res.Stake), common.FormatDust(res.Balance))), nil
}

// normalizeSide maps accepted spellings onto the canonical side names;
// anything else comes back empty and fails validation in the service.
func normalizeSide(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "heads", "head", "h":
		return Heads
	case "tails", "tail", "t":
		return Tails
	}
	return ""
}

func (h *Handler) leaderboard(ctx context.Context, inv *commands.Invocation) (*commands.Reply, error) {
	entries, err := h.svc.Leaderboard(ctx, inv.GuildID, 10)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return commands.Text("Nobody has collected any dream dust here yet."), nil
	}

	var b strings.Builder
	for _, e := range entries {
		medal := fmt.Sprintf("`#%d`", e.Rank)
		switch e.Rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}
		fmt.Fprintf(&b, "%s <@%s> — %s\n", medal, e.UserID, common.FormatDust(e.DreamDust))
	}

	return &commands.Reply{Embeds: []commands.Embed{{
		Title:       "✨ Dream Dust Leaderboard",
		Description: b.String(),
		Color:       embedColor,
	}}}, nil
}

func (h *Handler) rank(ctx context.Context, inv *commands.Invocation) (*commands.Reply, error) {
	info, err := h.svc.Rank(ctx, inv.UserID, inv.GuildID)
	if err != nil {
		return nil, err
	}
	return commands.Text(fmt.Sprintf("You're #%d of %d collectors here, with %s.",
		info.Rank, info.Total, common.FormatDust(info.DreamDust))), nil
}

func (h *Handler) profile(ctx context.Context, inv *commands.Invocation) (*commands.Reply, error) {
	targetID := inv.Arg("user")
	if targetID == "" {
		targetID = inv.UserID
	}

	acc, stats, err := h.svc.Profile(ctx, targetID, inv.GuildID)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("🌙 %s", inv.Username)
	var description string
	if targetID != inv.UserID {
		title = "🌙 Profile"
		description = fmt.Sprintf("<@%s>", targetID)
	}

	activity := fmt.Sprintf(
		"dailies %d · forages %d · brews %d\ngifts sent %d · received %d\npurchases %d · sales %d · coinflips %d",
		stats.Dailies, stats.Forages, stats.Brews,
		stats.GiftsSent, stats.GiftsReceived,
		stats.Purchases, stats.Sales, stats.Coinflips)

	return &commands.Reply{Embeds: []commands.Embed{{
		Title:       title,
		Description: description,
		Color:       embedColor,
		Fields: []commands.EmbedField{
			{Name: "Dream Dust", Value: common.FormatDust(acc.DreamDust), Inline: true},
			{Name: "Daily Streak", Value: fmt.Sprintf("%d %s", acc.DailyStreak, common.Plural(acc.DailyStreak, "day", "days")), Inline: true},
			{Name: "Activity", Value: activity},
		},
		Footer: fmt.Sprintf("Collecting since %s", acc.CreatedAt.Format("Jan 2, 2006")),
	}}}, nil
}

// parseAmount parses a positive integer argument.
func parseAmount(raw string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n <= 0 {
		return 0, common.ErrInvalidAmount
	}
	return n, nil
}

package shop

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/haruware/mars-bot/internal/commands"
	"github.com/haruware/mars-bot/internal/common"
)

const embedColor = 0xF2C879

// Handler exposes the shop commands.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Commands() []*commands.Command {
	return []*commands.Command{
		{
			Name:        "shop",
			Description: "Browse what's for sale",
			Personable:  true,
			Run:         h.browse,
		},
		{
			Name:        "buy",
			Description: "Buy an item with your dream dust",
			GuildOnly:   true,
			Personable:  true,
			Params: []commands.Param{
				{Name: "name", Description: "Item name", Type: commands.ParamString, Required: true},
				{Name: "amount", Description: "How many (1-99)", Type: commands.ParamInteger, Required: false},
			},
			Run: h.buy,
		},
		{
			Name:        "sell",
			Description: "Sell items back for dream dust",
			GuildOnly:   true,
			Personable:  true,
			Params: []commands.Param{
				{Name: "name", Description: "Item name", Type: commands.ParamString, Required: true},
				{Name: "amount", Description: "How many", Type: commands.ParamInteger, Required: false},
			},
			Run: h.sell,
		},
	}
}

func (h *Handler) browse(ctx context.Context, inv *commands.Invocation) (*commands.Reply, error) {
	listings, err := h.svc.Browse(ctx)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return commands.Text("The shop shelves are bare right now. Check back soon."), nil
	}

	var b strings.Builder
	for _, l := range listings {
		fmt.Fprintf(&b, "%s **%s** — %s", l.Emoji, l.ItemName, common.FormatDust(l.Price))
		if l.Stock >= 0 {
			fmt.Fprintf(&b, " (%d left)", l.Stock)
		}
		b.WriteString("\n")
		if l.Description != "" {
			fmt.Fprintf(&b, "-# %s\n", l.Description)
		}
	}

	return &commands.Reply{Embeds: []commands.Embed{{
		Title:       "🏪 Mars's Little Shop",
		Description: b.String(),
		Color:       embedColor,
		Footer:      "Use buy <name> to take something home",
	}}}, nil
}

func (h *Handler) buy(ctx context.Context, inv *commands.Invocation) (*commands.Reply, error) {
	qty, ok := parseQty(inv.Arg("amount"))
	if !ok {
		return commands.Text(fmt.Sprintf("You can buy between %d and %d at a time.", MinBuyQty, MaxBuyQty)), nil
	}

	res, err := h.svc.Buy(ctx, inv.UserID, inv.GuildID, inv.Arg("name"), qty)
	switch {
	case errors.Is(err, common.ErrInvalidAmount):
		return commands.Text(fmt.Sprintf("You can buy between %d and %d at a time.", MinBuyQty, MaxBuyQty)), nil
	case errors.Is(err, common.ErrUnknownItem):
		return commands.Text("The shop doesn't carry that."), nil
	case errors.Is(err, common.ErrOutOfStock):
		return commands.Text("That one's sold out, sorry."), nil
	case errors.Is(err, common.ErrInsufficientBalance):
		return commands.Text("You don't have enough dream dust for that."), nil
	case err != nil:
		return nil, err
	}

	return commands.Text(fmt.Sprintf("🛍️ You bought %d × %s %s for %s. You have %s left.",
		res.Qty, res.Emoji, res.ItemName,
		common.FormatDust(res.TotalCost), common.FormatDust(res.Balance))), nil
}

func (h *Handler) sell(ctx context.Context, inv *commands.Invocation) (*commands.Reply, error) {
	qty, ok := parseQty(inv.Arg("amount"))
	if !ok {
		return commands.Text("That amount doesn't look right. Try a positive number."), nil
	}

	res, err := h.svc.Sell(ctx, inv.UserID, inv.GuildID, inv.Arg("name"), qty)
	switch {
	case errors.Is(err, common.ErrInvalidAmount):
		return commands.Text("That amount doesn't look right. Try a positive number."), nil
	case errors.Is(err, common.ErrUnknownItem):
		return commands.Text("I've never seen an item like that."), nil
	case errors.Is(err, common.ErrNotSellable):
		return commands.Text("The shop won't buy that back."), nil
	case errors.Is(err, common.ErrInsufficientItems):
		return commands.Text("You don't have that many to sell."), nil
	case err != nil:
		return nil, err
	}

	return commands.Text(fmt.Sprintf("💰 You sold %d × %s %s for %s. Balance: %s.",
		res.Qty, res.Emoji, res.ItemName,
		common.FormatDust(res.Earned), common.FormatDust(res.Balance))), nil
}

// parseQty parses an optional quantity argument, defaulting to 1.
func parseQty(raw string) (int64, bool) {
	if strings.TrimSpace(raw) == "" {
		return 1, true
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

package items

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/haruware/mars-bot/internal/commands"
	"github.com/haruware/mars-bot/internal/common"
)

const embedColor = 0x9AD1AA

// Handler exposes the inventory commands.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Commands() []*commands.Command {
	return []*commands.Command{
		{
			Name:        "inventory",
			Description: "See everything you've collected",
			GuildOnly:   true,
			Personable:  true,
			Run:         h.inventory,
		},
		{
			Name:        "item",
			Description: "Look up what an item is",
			Personable:  true,
			Params: []commands.Param{
				{Name: "name", Description: "Item name", Type: commands.ParamString, Required: true},
			},
			Run: h.item,
		},
		{
			Name:        "giftitem",
			Description: "Give items from your inventory to another member",
			GuildOnly:   true,
			Personable:  true,
			Params: []commands.Param{
				{Name: "user", Description: "Who to give to", Type: commands.ParamUser, Required: true},
				{Name: "name", Description: "Item name", Type: commands.ParamString, Required: true},
				{Name: "amount", Description: "How many", Type: commands.ParamInteger, Required: false},
			},
			Run: h.giftItem,
		},
	}
}

func (h *Handler) inventory(ctx context.Context, inv *commands.Invocation) (*commands.Reply, error) {
	entries, err := h.svc.Inventory(ctx, inv.UserID, inv.GuildID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return commands.Text("Your satchel is empty. Try `forage` or visit the `shop`."), nil
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s **%s** × %d — worth %s each\n",
			e.Item.Emoji, e.Item.Name, e.Amount, common.FormatDust(e.Item.SellValue))
	}

	return &commands.Reply{Embeds: []commands.Embed{{
		Title:       fmt.Sprintf("🎒 %s's Satchel", inv.Username),
		Description: b.String(),
		Color:       embedColor,
	}}}, nil
}

func (h *Handler) item(ctx context.Context, inv *commands.Invocation) (*commands.Reply, error) {
	item, err := h.svc.Inspect(ctx, inv.Arg("name"))
	if errors.Is(err, common.ErrUnknownItem) {
		return commands.Text("I've never seen an item like that."), nil
	}
	if err != nil {
		return nil, err
	}

	return &commands.Reply{Embeds: []commands.Embed{{
		Title:       fmt.Sprintf("%s %s", item.Emoji, item.Name),
		Description: item.Description,
		Color:       embedColor,
		Fields: []commands.EmbedField{
			{Name: "Rarity", Value: item.Rarity, Inline: true},
			{Name: "Sells for", Value: common.FormatDust(item.SellValue), Inline: true},
		},
	}}}, nil
}

func (h *Handler) giftItem(ctx context.Context, inv *commands.Invocation) (*commands.Reply, error) {
	qty := int64(1)
	if raw := inv.Arg("amount"); raw != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || n <= 0 {
			return commands.Text("That amount doesn't look right. Try a positive number."), nil
		}
		qty = n
	}

	toID := inv.Arg("user")
	if toID == "" {
		return commands.Text("Tell me who to give it to."), nil
	}

	item, err := h.svc.GiftItem(ctx, inv.UserID, toID, inv.GuildID, inv.Arg("name"), qty)
	switch {
	case errors.Is(err, common.ErrSelfGift):
		return commands.Text("You already own those."), nil
	case errors.Is(err, common.ErrUnknownItem):
		return commands.Text("I've never seen an item like that."), nil
	case errors.Is(err, common.ErrInsufficientItems):
		return commands.Text("You don't have enough of those to give away."), nil
	case err != nil:
		return nil, err
	}

	return commands.Text(fmt.Sprintf("🎁 You gave %d × %s %s to <@%s>.",
		qty, item.Emoji, item.Name, toID)), nil
}

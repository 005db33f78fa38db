package brew

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/haruware/mars-bot/internal/commands"
	"github.com/haruware/mars-bot/internal/common"
)

const embedColor = 0xC98FD6

// BrewThrottle spaces out brews per user.
const BrewThrottle = 30 * time.Minute

// Handler exposes the brew commands.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Commands() []*commands.Command {
	return []*commands.Command{
		{
			Name:        "brew",
			Description: "Brew a recipe from your ingredients, or list recipes",
			GuildOnly:   true,
			Personable:  true,
			Throttle:    BrewThrottle,
			Params: []commands.Param{
				{Name: "recipe", Description: "Recipe name; leave empty to list recipes", Type: commands.ParamString, Required: false},
			},
			Run: h.brew,
		},
	}
}

func (h *Handler) brew(ctx context.Context, inv *commands.Invocation) (*commands.Reply, error) {
	name := strings.TrimSpace(inv.Arg("recipe"))
	if name == "" {
		return h.listRecipes(ctx)
	}

	res, err := h.svc.Brew(ctx, inv.UserID, inv.GuildID, name)

	var shortfall *ShortfallError
	switch {
	case errors.Is(err, common.ErrUnknownRecipe):
		return commands.Text("That's not a recipe I know. Try `brew` to see the list."), nil
	case errors.As(err, &shortfall):
		var b strings.Builder
		fmt.Fprintf(&b, "🫧 The cauldron stays quiet. You're missing:\n")
		for _, m := range shortfall.Missing {
			fmt.Fprintf(&b, "• %d × %s\n", m.Qty, m.ItemName)
		}
		return commands.Text(b.String()), nil
	case err != nil:
		return nil, err
	}

	return commands.Text(fmt.Sprintf("🔮 The cauldron bubbles... you brewed %d × **%s**!",
		res.OutputQty, res.OutputItem)), nil
}

func (h *Handler) listRecipes(ctx context.Context) (*commands.Reply, error) {
	recipes, err := h.svc.Recipes(ctx)
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return commands.Text("The recipe book is empty."), nil
	}

	var b strings.Builder
	for _, r := range recipes {
		parts := make([]string, len(r.Ingredients))
		for i, ing := range r.Ingredients {
			parts[i] = fmt.Sprintf("%d × %s", ing.Qty, ing.ItemName)
		}
		fmt.Fprintf(&b, "**%s** — %s\n-# %s\n", r.Name, strings.Join(parts, ", "), r.Description)
	}

	return &commands.Reply{Embeds: []commands.Embed{{
		Title:       "🔮 Recipe Book",
		Description: b.String(),
		Color:       embedColor,
		Footer:      "Use brew <recipe> when you have the ingredients",
	}}}, nil
}

package forage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/haruware/mars-bot/internal/commands"
	"github.com/haruware/mars-bot/internal/common"
)

const embedColor = 0x8FBF8F

// Handler exposes the forage command.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Commands() []*commands.Command {
	return []*commands.Command{
		{
			Name:        "forage",
			Description: "Wander off and see what you find",
			GuildOnly:   true,
			Personable:  true,
			Run:         h.forage,
		},
	}
}

func (h *Handler) forage(ctx context.Context, inv *commands.Invocation) (*commands.Reply, error) {
	finds, err := h.svc.Forage(ctx, inv.UserID, inv.GuildID)

	var cooldownErr *ErrOnCooldown
	if errors.As(err, &cooldownErr) {
		return commands.Text(fmt.Sprintf("🌿 You're still tired from your last trip. Try again in %s.",
			common.FormatDuration(cooldownErr.Remaining))), nil
	}
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	for _, f := range finds {
		fmt.Fprintf(&b, "%s **%s** × %d\n", f.Emoji, f.Name, f.Qty)
	}

	return &commands.Reply{Embeds: []commands.Embed{{
		Title:       "🌿 You wandered into the woods...",
		Description: fmt.Sprintf("...and came back with:\n\n%s", b.String()),
		Color:       embedColor,
	}}}, nil
}

package guilds

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/haruware/mars-bot/internal/commands"
)

// Handler exposes the guild settings commands.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Commands() []*commands.Command {
	return []*commands.Command{
		{
			Name:          "setprefix",
			Description:   "Change the command prefix for this server",
			GuildOnly:     true,
			RequiredPerms: discordgo.PermissionManageServer,
			Params: []commands.Param{
				{Name: "prefix", Description: "New prefix, up to 5 characters", Type: commands.ParamString, Required: true},
			},
			Run: h.setPrefix,
		},
	}
}

func (h *Handler) setPrefix(ctx context.Context, inv *commands.Invocation) (*commands.Reply, error) {
	prefix := strings.TrimSpace(inv.Arg("prefix"))

	err := h.svc.SetPrefix(ctx, inv.GuildID, prefix)
	if errors.Is(err, ErrBadPrefix) {
		return commands.Text(fmt.Sprintf("Prefixes need to be 1 to %d characters.", MaxPrefixLen)), nil
	}
	if err != nil {
		return nil, err
	}

	return commands.Text(fmt.Sprintf("Done! Commands here now start with `%s`.", prefix)), nil
}

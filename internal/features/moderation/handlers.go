package moderation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/haruware/mars-bot/internal/commands"
	"github.com/haruware/mars-bot/internal/common"
)

// Handler exposes the moderation commands.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Commands() []*commands.Command {
	return []*commands.Command{
		{
			Name:          "purge",
			Description:   "Delete a number of recent messages in this channel",
			GuildOnly:     true,
			RequiredPerms: discordgo.PermissionManageMessages,
			Params: []commands.Param{
				{Name: "amount", Description: fmt.Sprintf("How many messages (1-%d)", MaxPurge), Type: commands.ParamInteger, Required: true},
			},
			Run: h.purge,
		},
	}
}

func (h *Handler) purge(ctx context.Context, inv *commands.Invocation) (*commands.Reply, error) {
	count, err := strconv.Atoi(strings.TrimSpace(inv.Arg("amount")))
	if err != nil {
		return commands.Text(fmt.Sprintf("Tell me how many messages to clear, between 1 and %d.", MaxPurge)), nil
	}

	deleted, err := h.svc.Purge(ctx, inv.ChannelID, count)
	if errors.Is(err, ErrBadCount) {
		return commands.Text(fmt.Sprintf("I can clear between 1 and %d messages at a time.", MaxPurge)), nil
	}
	if err != nil {
		return nil, err
	}

	return &commands.Reply{
		Content:   fmt.Sprintf("🧹 Cleared %d %s.", deleted, common.Plural(deleted, "message", "messages")),
		Ephemeral: true,
	}, nil
}

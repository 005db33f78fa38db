package roleplay

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/haruware/mars-bot/internal/commands"
)

// Handler exposes one command per expressive action.
type Handler struct {
	client GIFClient
	botID  func() string
	log    *logrus.Logger
}

// NewHandler builds the handler. botID is resolved lazily because the bot's
// own user ID is only known after the gateway connects.
func NewHandler(client GIFClient, botID func() string, log *logrus.Logger) *Handler {
	return &Handler{client: client, botID: botID, log: log}
}

func (h *Handler) Commands() []*commands.Command {
	cmds := make([]*commands.Command, 0, len(actions))
	for _, a := range actions {
		a := a
		cmds = append(cmds, &commands.Command{
			Name:        a.Name,
			Description: a.Description,
			GuildOnly:   true,
			Personable:  true,
			Throttle:    3 * time.Second,
			Params: []commands.Param{
				{Name: "user", Description: "Who it's aimed at", Type: commands.ParamUser, Required: true},
			},
			Run: func(ctx context.Context, inv *commands.Invocation) (*commands.Reply, error) {
				return h.run(ctx, a, inv)
			},
		})
	}
	return cmds
}

func (h *Handler) run(ctx context.Context, a action, inv *commands.Invocation) (*commands.Reply, error) {
	target := inv.Arg("user")
	switch target {
	case "":
		return &commands.Reply{Content: "Tell me who it's for!", Ephemeral: true}, nil
	case inv.UserID:
		return &commands.Reply{Content: a.Self, Ephemeral: true}, nil
	case h.botID():
		return &commands.Reply{Content: a.Bot, Ephemeral: true}, nil
	}

	line := fmt.Sprintf(a.Line, inv.Username, "<@"+target+">")

	gifURL, err := h.client.FetchGIF(ctx, a.Endpoint)
	if err != nil {
		h.log.WithError(err).WithField("action", a.Name).Warn("gif fetch failed")
		return &commands.Reply{Content: a.Error, Ephemeral: true}, nil
	}

	return &commands.Reply{Embeds: []commands.Embed{{
		Description: line,
		Color:       a.Color,
		ImageURL:    gifURL,
	}}}, nil
}

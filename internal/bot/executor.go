package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/haruware/mars-bot/internal/commands"
	"github.com/haruware/mars-bot/internal/common"
	"github.com/haruware/mars-bot/internal/cooldown"
)

// genericErrorReply is what users see when a command fails unexpectedly.
const genericErrorReply = "Something went wrong on my end. Try again in a moment?"

// Executor runs commands behind the shared gates: panic recovery, guild-only,
// permissions and the per-user throttle. Every entry point (prefix, slash,
// persona) goes through here so the rules cannot drift apart.
type Executor struct {
	throttle *cooldown.Store
	log      *logrus.Logger
}

func NewExecutor(throttle *cooldown.Store, log *logrus.Logger) *Executor {
	return &Executor{throttle: throttle, log: log}
}

// Execute runs one command invocation and always returns something
// presentable; internal errors are logged under a request id and flattened
// into a generic reply.
func (e *Executor) Execute(ctx context.Context, cmd *commands.Command, inv *commands.Invocation) (reply *commands.Reply, err error) {
	requestID := uuid.NewString()
	entry := e.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"command":    cmd.Name,
		"user":       inv.UserID,
		"guild":      inv.GuildID,
	})

	defer func() {
		if r := recover(); r != nil {
			entry.WithField("panic", r).Error("command panicked")
			reply = commands.Text(genericErrorReply)
			err = nil
		}
	}()

	if cmd.GuildOnly && inv.GuildID == "" {
		return commands.Text("That one only works inside a server."), nil
	}

	if cmd.RequiredPerms != 0 && inv.Perms&cmd.RequiredPerms != cmd.RequiredPerms {
		return &commands.Reply{
			Content:   "You don't have permission to do that here.",
			Ephemeral: true,
		}, nil
	}

	if allowed, remaining := e.throttle.Hit(inv.UserID, cmd.Name, cmd.Throttle); !allowed {
		return commands.Text(fmt.Sprintf("Easy there — try `%s` again in %s.",
			cmd.Name, common.FormatDuration(remaining))), nil
	}

	start := time.Now()
	reply, err = cmd.Run(ctx, inv)
	if err != nil {
		// The throttle window should not punish a failed attempt.
		e.throttle.Reset(inv.UserID, cmd.Name)
		entry.WithError(err).WithField("took", time.Since(start)).Error("command failed")
		return commands.Text(genericErrorReply), nil
	}

	entry.WithField("took", time.Since(start)).Debug("command handled")
	return reply, nil
}

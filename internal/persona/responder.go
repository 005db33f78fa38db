package persona

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/haruware/mars-bot/internal/commands"
)

// fallbackReply is used when the model returns nothing usable.
const fallbackReply = "um... sorry, I lost my train of thought. Could you say that again?"

// Message is one mention addressed to Mars, with the display names the
// prompt needs.
type Message struct {
	UserID      string
	Username    string
	GuildID     string
	GuildName   string
	ChannelID   string
	ChannelName string
	Content     string
}

// Runner executes a resolved command. The bot layer provides it so persona
// invocations pass through the same throttle and permission checks as typed
// ones.
type Runner interface {
	Execute(ctx context.Context, cmd *commands.Command, inv *commands.Invocation) (*commands.Reply, error)
}

// generator is satisfied by *GeminiClient; tests swap in a canned one.
type generator interface {
	generate(ctx context.Context, req *genRequest) (*genResponse, error)
}

// Responder turns mentions into chat replies or command invocations.
type Responder struct {
	gen      generator
	registry *commands.Registry
	runner   Runner
	log      *logrus.Logger
}

func NewResponder(client *GeminiClient, registry *commands.Registry, runner Runner, log *logrus.Logger) *Responder {
	return &Responder{gen: client, registry: registry, runner: runner, log: log}
}

// Respond produces Mars's reply to one mention. A function call from the
// model routes through the shared command registry; plain text comes back
// as-is.
func (r *Responder) Respond(ctx context.Context, msg *Message) (*commands.Reply, error) {
	req := &genRequest{
		SystemInstruction: &genContent{
			Parts: []genPart{{Text: buildPrompt(msg.GuildName, msg.ChannelName)}},
		},
		Contents: []genContent{{
			Role:  "user",
			Parts: []genPart{{Text: fmt.Sprintf("%s says: %s", msg.Username, msg.Content)}},
		}},
	}
	if decls := declsFromRegistry(r.registry); len(decls) > 0 {
		req.Tools = []genTool{{FunctionDeclarations: decls}}
	}

	resp, err := r.gen.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	part := resp.firstPart()
	if part == nil {
		return commands.Text(fallbackReply), nil
	}

	if part.FunctionCall != nil {
		return r.runCall(ctx, msg, part.FunctionCall)
	}
	if part.Text != "" {
		return commands.Text(part.Text), nil
	}
	return commands.Text(fallbackReply), nil
}

func (r *Responder) runCall(ctx context.Context, msg *Message, call *genFunctionCall) (*commands.Reply, error) {
	cmd, ok := r.registry.Get(call.Name)
	if !ok || !cmd.Personable {
		r.log.WithField("function", call.Name).Warn("model called an unknown function")
		return commands.Text(fallbackReply), nil
	}

	inv := &commands.Invocation{
		UserID:    msg.UserID,
		Username:  msg.Username,
		GuildID:   msg.GuildID,
		ChannelID: msg.ChannelID,
		Args:      stringifyArgs(call.Args),
	}

	r.log.WithFields(logrus.Fields{
		"command": cmd.Name,
		"user":    msg.UserID,
		"guild":   msg.GuildID,
	}).Info("persona command invocation")
	return r.runner.Execute(ctx, cmd, inv)
}

// stringifyArgs flattens the model's JSON argument values into the string
// form the command handlers parse.
func stringifyArgs(args map[string]interface{}) map[string]string {
	out := make(map[string]string, len(args))
	for name, v := range args {
		switch val := v.(type) {
		case string:
			out[name] = val
		case float64:
			out[name] = strconv.FormatInt(int64(val), 10)
		case bool:
			out[name] = strconv.FormatBool(val)
		default:
			out[name] = fmt.Sprintf("%v", val)
		}
	}
	return out
}

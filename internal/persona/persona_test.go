package persona

import (
	"context"
	"io"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haruware/mars-bot/internal/commands"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestShouldRespond(t *testing.T) {
	mention := func(authorBot bool, guildID string, mentions ...string) *discordgo.MessageCreate {
		m := &discordgo.MessageCreate{Message: &discordgo.Message{
			Author:  &discordgo.User{ID: "author", Bot: authorBot},
			GuildID: guildID,
		}}
		for _, id := range mentions {
			m.Mentions = append(m.Mentions, &discordgo.User{ID: id})
		}
		return m
	}

	assert.True(t, ShouldRespond(mention(false, "g1", "bot"), "bot"))
	assert.False(t, ShouldRespond(mention(true, "g1", "bot"), "bot"), "bot authors are ignored")
	assert.False(t, ShouldRespond(mention(false, "", "bot"), "bot"), "DMs are ignored")
	assert.False(t, ShouldRespond(mention(false, "g1"), "bot"), "no mention")
	assert.False(t, ShouldRespond(mention(false, "g1", "other"), "bot"), "mention of someone else")
}

func TestCleanContent(t *testing.T) {
	assert.Equal(t, "how much dust do I have", CleanContent("<@bot> how much dust do I have", "bot"))
	assert.Equal(t, "hi", CleanContent("<@!bot> hi", "bot"))
	assert.Equal(t, "plain text", CleanContent("plain text", "bot"))
}

func TestDeclsFromRegistry(t *testing.T) {
	reg := commands.NewRegistry()
	noop := func(ctx context.Context, inv *commands.Invocation) (*commands.Reply, error) {
		return commands.Text("ok"), nil
	}
	reg.Register(&commands.Command{Name: "balance", Description: "check dust", Personable: true, Run: noop})
	reg.Register(&commands.Command{
		Name: "gift", Description: "send dust", Personable: true, Run: noop,
		Params: []commands.Param{
			{Name: "user", Type: commands.ParamUser, Required: true},
			{Name: "amount", Type: commands.ParamInteger, Required: true},
		},
	})
	reg.Register(&commands.Command{Name: "purge", Description: "mod only", Run: noop})

	decls := declsFromRegistry(reg)
	require.Len(t, decls, 2, "non-personable commands stay hidden")

	assert.Equal(t, "balance", decls[0].Name)
	assert.Nil(t, decls[0].Parameters)

	gift := decls[1]
	require.NotNil(t, gift.Parameters)
	assert.Equal(t, "OBJECT", gift.Parameters.Type)
	assert.Equal(t, "STRING", gift.Parameters.Properties["user"].Type)
	assert.Equal(t, "INTEGER", gift.Parameters.Properties["amount"].Type)
	assert.ElementsMatch(t, []string{"user", "amount"}, gift.Parameters.Required)
}

type cannedGen struct {
	resp *genResponse
	last *genRequest
}

func (c *cannedGen) generate(ctx context.Context, req *genRequest) (*genResponse, error) {
	c.last = req
	return c.resp, nil
}

type recordingRunner struct {
	cmd *commands.Command
	inv *commands.Invocation
}

func (r *recordingRunner) Execute(ctx context.Context, cmd *commands.Command, inv *commands.Invocation) (*commands.Reply, error) {
	r.cmd = cmd
	r.inv = inv
	return commands.Text("ran " + cmd.Name), nil
}

func textResponse(text string) *genResponse {
	var r genResponse
	r.Candidates = append(r.Candidates, struct {
		Content genContent `json:"content"`
	}{Content: genContent{Parts: []genPart{{Text: text}}}})
	return &r
}

func callResponse(name string, args map[string]interface{}) *genResponse {
	var r genResponse
	r.Candidates = append(r.Candidates, struct {
		Content genContent `json:"content"`
	}{Content: genContent{Parts: []genPart{{FunctionCall: &genFunctionCall{Name: name, Args: args}}}}})
	return &r
}

func testMessage() *Message {
	return &Message{
		UserID: "u1", Username: "alice",
		GuildID: "g1", GuildName: "Dreamland",
		ChannelID: "c1", ChannelName: "general",
		Content: "hey mars",
	}
}

func TestRespond(t *testing.T) {
	ctx := context.Background()
	noop := func(ctx context.Context, inv *commands.Invocation) (*commands.Reply, error) {
		return commands.Text("ok"), nil
	}

	reg := commands.NewRegistry()
	reg.Register(&commands.Command{
		Name: "gift", Personable: true, Run: noop,
		Params: []commands.Param{
			{Name: "user", Type: commands.ParamUser, Required: true},
			{Name: "amount", Type: commands.ParamInteger, Required: true},
		},
	})
	reg.Register(&commands.Command{Name: "purge", Run: noop})

	t.Run("plain text comes back as chat", func(t *testing.T) {
		gen := &cannedGen{resp: textResponse("oh, um, hello")}
		r := &Responder{gen: gen, registry: reg, runner: &recordingRunner{}, log: testLogger()}

		reply, err := r.Respond(ctx, testMessage())
		require.NoError(t, err)
		assert.Equal(t, "oh, um, hello", reply.Content)
		require.NotNil(t, gen.last.SystemInstruction)
		assert.Contains(t, gen.last.SystemInstruction.Parts[0].Text, "Dreamland")
		assert.Contains(t, gen.last.SystemInstruction.Parts[0].Text, "#general")
	})

	t.Run("function call routes through the runner", func(t *testing.T) {
		gen := &cannedGen{resp: callResponse("gift", map[string]interface{}{
			"user": "200", "amount": float64(50),
		})}
		runner := &recordingRunner{}
		r := &Responder{gen: gen, registry: reg, runner: runner, log: testLogger()}

		reply, err := r.Respond(ctx, testMessage())
		require.NoError(t, err)
		assert.Equal(t, "ran gift", reply.Content)
		require.NotNil(t, runner.inv)
		assert.Equal(t, "u1", runner.inv.UserID)
		assert.Equal(t, "200", runner.inv.Arg("user"))
		assert.Equal(t, "50", runner.inv.Arg("amount"), "numeric args become integer strings")
	})

	t.Run("calls to hidden commands fall back to text", func(t *testing.T) {
		gen := &cannedGen{resp: callResponse("purge", nil)}
		runner := &recordingRunner{}
		r := &Responder{gen: gen, registry: reg, runner: runner, log: testLogger()}

		reply, err := r.Respond(ctx, testMessage())
		require.NoError(t, err)
		assert.Equal(t, fallbackReply, reply.Content)
		assert.Nil(t, runner.cmd, "runner must not fire")
	})

	t.Run("empty candidates fall back to text", func(t *testing.T) {
		gen := &cannedGen{resp: &genResponse{}}
		r := &Responder{gen: gen, registry: reg, runner: &recordingRunner{}, log: testLogger()}

		reply, err := r.Respond(ctx, testMessage())
		require.NoError(t, err)
		assert.Equal(t, fallbackReply, reply.Content)
	})
}

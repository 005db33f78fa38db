package bot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/haruware/mars-bot/internal/commands"
	"github.com/haruware/mars-bot/internal/features/guilds"
	"github.com/haruware/mars-bot/internal/persona"
)

// maxInflight bounds concurrently handled messages; past it, messages are
// dropped with a log line rather than queued without limit.
const maxInflight = 64

// commandTimeout bounds one command execution end to end.
const commandTimeout = 30 * time.Second

// Bot routes gateway events into the command registry.
type Bot struct {
	session   *discordgo.Session
	registry  *commands.Registry
	executor  *Executor
	prefixes  *guilds.Service
	responder *persona.Responder // nil when the persona layer is disabled
	log       *logrus.Logger

	inflight     chan struct{}
	stopPresence chan struct{}
}

// New wires an already-created session. The session is not opened here;
// call Start.
func New(session *discordgo.Session, registry *commands.Registry, executor *Executor,
	prefixes *guilds.Service, responder *persona.Responder, log *logrus.Logger) *Bot {

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	return &Bot{
		session:      session,
		registry:     registry,
		executor:     executor,
		prefixes:     prefixes,
		responder:    responder,
		log:          log,
		inflight:     make(chan struct{}, maxInflight),
		stopPresence: make(chan struct{}),
	}
}

// Start opens the gateway, registers the slash commands and begins the
// presence rotation.
func (b *Bot) Start(ctx context.Context) error {
	b.session.AddHandler(b.handleMessage)
	b.session.AddHandler(b.handleInteraction)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}

	if err := b.registerSlashCommands(ctx); err != nil {
		b.session.Close()
		return err
	}

	go b.rotatePresence(b.stopPresence)

	b.log.WithField("user", b.session.State.User.Username).Info("gateway connected")
	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop() error {
	close(b.stopPresence)
	return b.session.Close()
}

// BotID returns the bot's own user ID; empty before the gateway connects.
func (b *Bot) BotID() string {
	if b.session.State.User == nil {
		return ""
	}
	return b.session.State.User.ID
}

func (b *Bot) registerSlashCommands(ctx context.Context) error {
	var appCmds []*discordgo.ApplicationCommand
	for _, cmd := range b.registry.All() {
		appCmds = append(appCmds, toApplicationCommand(cmd))
	}

	_, err := b.session.ApplicationCommandBulkOverwrite(
		b.session.State.User.ID, "", appCmds, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("register slash commands: %w", err)
	}

	b.log.WithField("count", len(appCmds)).Info("slash commands registered")
	return nil
}

func toApplicationCommand(cmd *commands.Command) *discordgo.ApplicationCommand {
	app := &discordgo.ApplicationCommand{
		Name:        cmd.Name,
		Description: cmd.Description,
	}
	for _, p := range cmd.Params {
		var kind discordgo.ApplicationCommandOptionType
		switch p.Type {
		case commands.ParamInteger:
			kind = discordgo.ApplicationCommandOptionInteger
		case commands.ParamUser:
			kind = discordgo.ApplicationCommandOptionUser
		default:
			kind = discordgo.ApplicationCommandOptionString
		}
		app.Options = append(app.Options, &discordgo.ApplicationCommandOption{
			Type:        kind,
			Name:        p.Name,
			Description: p.Description,
			Required:    p.Required,
		})
	}
	return app
}

// acquire claims an inflight slot; false means the bot is saturated.
func (b *Bot) acquire() bool {
	select {
	case b.inflight <- struct{}{}:
		return true
	default:
		return false
	}
}

func (b *Bot) release() {
	<-b.inflight
}

func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !b.acquire() {
		b.log.Warn("message dropped, too many inflight")
		return
	}
	defer b.release()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	prefix := b.prefixes.Prefix(ctx, m.GuildID)
	if name, tokens, ok := parseMessage(m.Content, prefix); ok {
		b.runPrefixCommand(ctx, s, m, name, tokens)
		return
	}

	if b.responder != nil && persona.ShouldRespond(m, b.BotID()) {
		b.runPersona(ctx, s, m)
	}
}

func (b *Bot) runPrefixCommand(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, name string, tokens []string) {
	cmd, ok := b.registry.Get(name)
	if !ok {
		// Unknown names are ignored; the prefix may be shared with other
		// bots.
		return
	}

	perms, err := s.State.MessagePermissions(m.Message)
	if err != nil {
		perms = 0
	}

	inv := &commands.Invocation{
		UserID:    m.Author.ID,
		Username:  m.Author.Username,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		Perms:     perms,
		Args:      bindArgs(cmd, tokens),
	}

	reply, err := b.executor.Execute(ctx, cmd, inv)
	if err != nil || reply == nil {
		return
	}
	b.sendReply(s, m, reply)
}

func (b *Bot) runPersona(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	msg := &persona.Message{
		UserID:    m.Author.ID,
		Username:  m.Author.Username,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		Content:   persona.CleanContent(m.Content, b.BotID()),
	}
	if guild, err := s.State.Guild(m.GuildID); err == nil {
		msg.GuildName = guild.Name
	}
	if channel, err := s.State.Channel(m.ChannelID); err == nil {
		msg.ChannelName = channel.Name
	}

	reply, err := b.responder.Respond(ctx, msg)
	if err != nil {
		b.log.WithError(err).Warn("persona reply failed")
		return
	}
	b.sendReply(s, m, reply)
}

func (b *Bot) sendReply(s *discordgo.Session, m *discordgo.MessageCreate, reply *commands.Reply) {
	send := &discordgo.MessageSend{
		Content:   reply.Content,
		Embeds:    toDiscordEmbeds(reply.Embeds),
		Reference: m.Reference(),
	}
	if _, err := s.ChannelMessageSendComplex(m.ChannelID, send); err != nil {
		b.log.WithError(err).WithField("channel", m.ChannelID).Warn("reply send failed")
	}
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if !b.acquire() {
		b.log.Warn("interaction dropped, too many inflight")
		return
	}
	defer b.release()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	data := i.ApplicationCommandData()
	cmd, ok := b.registry.Get(data.Name)
	if !ok {
		return
	}

	inv := invocationFromInteraction(i, data.Options)
	reply, err := b.executor.Execute(ctx, cmd, inv)
	if err != nil || reply == nil {
		return
	}

	resp := &discordgo.InteractionResponseData{
		Content: reply.Content,
		Embeds:  toDiscordEmbeds(reply.Embeds),
	}
	if reply.Ephemeral {
		resp.Flags = discordgo.MessageFlagsEphemeral
	}
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: resp,
	})
	if err != nil {
		b.log.WithError(err).Warn("interaction respond failed")
	}
}

func invocationFromInteraction(i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) *commands.Invocation {
	inv := &commands.Invocation{
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		Args:      make(map[string]string),
	}
	if i.Member != nil && i.Member.User != nil {
		inv.UserID = i.Member.User.ID
		inv.Username = i.Member.User.Username
		inv.Perms = i.Member.Permissions
	} else if i.User != nil {
		inv.UserID = i.User.ID
		inv.Username = i.User.Username
	}

	for _, opt := range options {
		switch opt.Type {
		case discordgo.ApplicationCommandOptionInteger:
			inv.Args[opt.Name] = strconv.FormatInt(opt.IntValue(), 10)
		case discordgo.ApplicationCommandOptionUser:
			if id, ok := opt.Value.(string); ok {
				inv.Args[opt.Name] = id
			}
		default:
			inv.Args[opt.Name] = opt.StringValue()
		}
	}
	return inv
}

func toDiscordEmbeds(embeds []commands.Embed) []*discordgo.MessageEmbed {
	if len(embeds) == 0 {
		return nil
	}
	out := make([]*discordgo.MessageEmbed, len(embeds))
	for i, e := range embeds {
		embed := &discordgo.MessageEmbed{
			Title:       e.Title,
			Description: e.Description,
			Color:       e.Color,
		}
		for _, f := range e.Fields {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name: f.Name, Value: f.Value, Inline: f.Inline,
			})
		}
		if e.Footer != "" {
			embed.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
		}
		if e.ImageURL != "" {
			embed.Image = &discordgo.MessageEmbedImage{URL: e.ImageURL}
		}
		out[i] = embed
	}
	return out
}

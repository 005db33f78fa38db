package bot

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/haruware/mars-bot/internal/features/moderation"
)

// discordChannel adapts a discordgo session to the moderation.Channel
// interface.
type discordChannel struct {
	session *discordgo.Session
}

// NewModerationChannel returns the live Discord implementation of
// moderation.Channel.
func NewModerationChannel(session *discordgo.Session) moderation.Channel {
	return &discordChannel{session: session}
}

func (c *discordChannel) RecentMessages(ctx context.Context, channelID, beforeID string, limit int) ([]moderation.Message, error) {
	msgs, err := c.session.ChannelMessages(channelID, limit, beforeID, "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	out := make([]moderation.Message, len(msgs))
	for i, m := range msgs {
		out[i] = moderation.Message{ID: m.ID, Timestamp: m.Timestamp}
	}
	return out, nil
}

func (c *discordChannel) BulkDelete(ctx context.Context, channelID string, messageIDs []string) error {
	return c.session.ChannelMessagesBulkDelete(channelID, messageIDs, discordgo.WithContext(ctx))
}

func (c *discordChannel) Delete(ctx context.Context, channelID, messageID string) error {
	return c.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
}

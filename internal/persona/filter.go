// Package persona is the conversational layer: mention the bot in a guild
// and Mars answers, either with words or by quietly running one of the
// regular commands on your behalf.
package persona

import "github.com/bwmarrin/discordgo"

// ShouldRespond decides whether a message is for Mars: written by a human,
// inside a guild, and mentioning the bot. Everything else stays untouched so
// the prefix router and other bots keep working.
func ShouldRespond(m *discordgo.MessageCreate, botID string) bool {
	if m.Author == nil || m.Author.Bot {
		return false
	}
	if m.GuildID == "" {
		return false
	}
	for _, u := range m.Mentions {
		if u.ID == botID {
			return true
		}
	}
	return false
}

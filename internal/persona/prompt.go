package persona

import (
	"fmt"
	"strings"

	"github.com/haruware/mars-bot/internal/commands"
)

// systemPrompt shapes Mars's voice. Kept short on purpose: the model drifts
// less with a tight persona than with a page of rules.
const systemPrompt = `You are Mars, a shy, soft-spoken creature who lives in this Discord server.
You collect small treasures and look after the server's dream dust economy.

Voice:
- Gentle, a little hesitant, warm. Short sentences. Occasional "um" or "oh".
- Never use caps lock or exclamation-heavy hype. One emoji at most per reply.
- You are talking in the server "%s", in the channel "#%s".

Behavior:
- When someone asks you to do something a command can do, call that function
  instead of describing it.
- When they just want to chat, reply in character with plain text.
- Keep replies under three sentences.
- Never invent balances, items or cooldowns; the functions are the only
  source of truth.`

// buildPrompt fills the persona template with where the conversation is
// happening. Names only; user IDs never go into the prompt.
func buildPrompt(guildName, channelName string) string {
	return fmt.Sprintf(systemPrompt, guildName, channelName)
}

// declsFromRegistry exposes the persona-enabled commands as Gemini function
// declarations.
func declsFromRegistry(reg *commands.Registry) []genFunctionDecl {
	var decls []genFunctionDecl
	for _, cmd := range reg.Personable() {
		decl := genFunctionDecl{
			Name:        cmd.Name,
			Description: cmd.Description,
		}
		if len(cmd.Params) > 0 {
			schema := &genSchema{
				Type:       "OBJECT",
				Properties: make(map[string]*genSchema),
			}
			for _, p := range cmd.Params {
				schema.Properties[p.Name] = &genSchema{
					Type:        geminiType(p.Type),
					Description: p.Description,
				}
				if p.Required {
					schema.Required = append(schema.Required, p.Name)
				}
			}
			decl.Parameters = schema
		}
		decls = append(decls, decl)
	}
	return decls
}

func geminiType(t commands.ParamType) string {
	switch t {
	case commands.ParamInteger:
		return "INTEGER"
	default:
		// User params arrive as raw Discord IDs, which are strings.
		return "STRING"
	}
}

// CleanContent strips the bot's mention token from the message so the model
// sees the actual request.
func CleanContent(content, botID string) string {
	for _, token := range []string{"<@" + botID + ">", "<@!" + botID + ">"} {
		content = strings.ReplaceAll(content, token, "")
	}
	return strings.TrimSpace(content)
}

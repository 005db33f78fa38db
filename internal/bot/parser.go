// Package bot connects the command registry to the Discord gateway: prefix
// messages, slash interactions and the persona layer all end up in the same
// executor.
package bot

import (
	"strings"

	"github.com/haruware/mars-bot/internal/commands"
)

// parseMessage splits a prefixed message into a command name and argument
// tokens. ok is false when the message does not start with the prefix or has
// nothing after it.
func parseMessage(content, prefix string) (name string, tokens []string, ok bool) {
	if !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}
	fields := strings.Fields(content[len(prefix):])
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

// bindArgs maps positional tokens onto the command's declared params.
//
// User tokens accept raw IDs and mention syntax. A string param swallows the
// rest of the line so multi-word item names work, except that when an integer
// param follows and the final token is numeric, that token is held back for
// it ("buy mug of cocoa 2").
func bindArgs(cmd *commands.Command, tokens []string) map[string]string {
	args := make(map[string]string)

	for i, p := range cmd.Params {
		if len(tokens) == 0 {
			break
		}
		switch p.Type {
		case commands.ParamUser:
			args[p.Name] = stripMention(tokens[0])
			tokens = tokens[1:]
		case commands.ParamInteger:
			args[p.Name] = tokens[0]
			tokens = tokens[1:]
		case commands.ParamString:
			take := len(tokens)
			if intParamFollows(cmd.Params[i+1:]) && take > 1 && isNumeric(tokens[take-1]) {
				take--
			}
			args[p.Name] = strings.Join(tokens[:take], " ")
			tokens = tokens[take:]
		}
	}
	return args
}

func intParamFollows(rest []commands.Param) bool {
	for _, p := range rest {
		if p.Type == commands.ParamInteger {
			return true
		}
	}
	return false
}

// stripMention turns "<@123>" or "<@!123>" into "123"; plain IDs pass
// through.
func stripMention(token string) string {
	token = strings.TrimPrefix(token, "<@")
	token = strings.TrimPrefix(token, "!")
	return strings.TrimSuffix(token, ">")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

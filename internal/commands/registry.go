// Package commands defines the command registry every entry point shares.
// Prefix messages, slash interactions and the persona layer all resolve to
// the same Command values, so gameplay behaves identically no matter how it
// was invoked.
package commands

import (
	"context"
	"sort"
	"strings"
	"time"
)

// ParamType enumerates the argument kinds a command accepts.
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamInteger ParamType = "integer"
	ParamUser    ParamType = "user"
)

// Param describes one command argument.
type Param struct {
	Name        string
	Description string
	Type        ParamType
	Required    bool
}

// Invocation carries everything a command needs about who asked and where.
// Args is keyed by Param name; user params hold the raw Discord user ID.
// Perms holds the invoker's resolved permission bits in the channel.
type Invocation struct {
	UserID    string
	Username  string
	GuildID   string
	ChannelID string
	Perms     int64
	Args      map[string]string
}

// Arg returns the named argument or "" when absent.
func (inv *Invocation) Arg(name string) string {
	if inv.Args == nil {
		return ""
	}
	return inv.Args[name]
}

// Embed is a transport-agnostic rich reply. The bot layer converts it to a
// discordgo embed at the edge.
type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
	Footer      string
	ImageURL    string
}

// EmbedField is one name/value pair in an Embed.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Reply is what a command returns for delivery back to the channel.
type Reply struct {
	Content   string
	Embeds    []Embed
	Ephemeral bool
}

// Text builds a plain-content reply.
func Text(format string) *Reply {
	return &Reply{Content: format}
}

// HandlerFunc runs a command.
type HandlerFunc func(ctx context.Context, inv *Invocation) (*Reply, error)

// Command is one registered command.
type Command struct {
	Name        string
	Description string
	Params      []Param

	// GuildOnly commands refuse to run in DMs.
	GuildOnly bool
	// Throttle is the in-memory per-user window; zero means no throttle.
	// Persistent cooldowns (daily, forage) are enforced in the services.
	Throttle time.Duration
	// RequiredPerms is a discordgo permission bitmask the invoker must hold.
	RequiredPerms int64
	// Personable commands are exposed to the persona layer as callable tools.
	Personable bool

	Run HandlerFunc
}

// Registry holds all commands keyed by lower-cased name.
type Registry struct {
	byName map[string]*Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Command)}
}

// Register adds a command. Re-registering a name replaces the previous entry.
func (r *Registry) Register(cmd *Command) {
	r.byName[strings.ToLower(cmd.Name)] = cmd
}

// Get resolves a command by name, case-insensitively.
func (r *Registry) Get(name string) (*Command, bool) {
	cmd, ok := r.byName[strings.ToLower(name)]
	return cmd, ok
}

// All returns every command sorted by name.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.byName))
	for _, cmd := range r.byName {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// Personable returns the commands exposed to the persona layer, sorted by name.
func (r *Registry) Personable() []*Command {
	var cmds []*Command
	for _, cmd := range r.All() {
		if cmd.Personable {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

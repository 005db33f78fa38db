package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haruware/mars-bot/internal/commands"
)

func TestParseMessage(t *testing.T) {
	t.Run("splits name and tokens", func(t *testing.T) {
		name, tokens, ok := parseMessage(",gift @alice 100", ",")
		require.True(t, ok)
		assert.Equal(t, "gift", name)
		assert.Equal(t, []string{"@alice", "100"}, tokens)
	})

	t.Run("name is lower-cased", func(t *testing.T) {
		name, _, ok := parseMessage(",Balance", ",")
		require.True(t, ok)
		assert.Equal(t, "balance", name)
	})

	t.Run("wrong prefix is ignored", func(t *testing.T) {
		_, _, ok := parseMessage("!balance", ",")
		assert.False(t, ok)
	})

	t.Run("bare prefix is ignored", func(t *testing.T) {
		_, _, ok := parseMessage(",", ",")
		assert.False(t, ok)

		_, _, ok = parseMessage(",   ", ",")
		assert.False(t, ok)
	})

	t.Run("multi-character prefixes work", func(t *testing.T) {
		name, _, ok := parseMessage("?!daily", "?!")
		require.True(t, ok)
		assert.Equal(t, "daily", name)
	})
}

func TestBindArgs(t *testing.T) {
	t.Run("user then integer", func(t *testing.T) {
		cmd := &commands.Command{Params: []commands.Param{
			{Name: "user", Type: commands.ParamUser},
			{Name: "amount", Type: commands.ParamInteger},
		}}

		args := bindArgs(cmd, []string{"<@123>", "100"})
		assert.Equal(t, "123", args["user"])
		assert.Equal(t, "100", args["amount"])
	})

	t.Run("nickname mentions are stripped too", func(t *testing.T) {
		cmd := &commands.Command{Params: []commands.Param{
			{Name: "user", Type: commands.ParamUser},
		}}

		args := bindArgs(cmd, []string{"<@!123>"})
		assert.Equal(t, "123", args["user"])
	})

	t.Run("string swallows multiple words", func(t *testing.T) {
		cmd := &commands.Command{Params: []commands.Param{
			{Name: "name", Type: commands.ParamString},
		}}

		args := bindArgs(cmd, []string{"mug", "of", "cocoa"})
		assert.Equal(t, "mug of cocoa", args["name"])
	})

	t.Run("trailing number is held back for an integer param", func(t *testing.T) {
		cmd := &commands.Command{Params: []commands.Param{
			{Name: "name", Type: commands.ParamString},
			{Name: "amount", Type: commands.ParamInteger},
		}}

		args := bindArgs(cmd, []string{"mug", "of", "cocoa", "2"})
		assert.Equal(t, "mug of cocoa", args["name"])
		assert.Equal(t, "2", args["amount"])
	})

	t.Run("string keeps a lone numeric token when nothing follows it", func(t *testing.T) {
		cmd := &commands.Command{Params: []commands.Param{
			{Name: "name", Type: commands.ParamString},
			{Name: "amount", Type: commands.ParamInteger},
		}}

		args := bindArgs(cmd, []string{"42"})
		assert.Equal(t, "42", args["name"])
		assert.Empty(t, args["amount"])
	})

	t.Run("missing tokens leave params unset", func(t *testing.T) {
		cmd := &commands.Command{Params: []commands.Param{
			{Name: "user", Type: commands.ParamUser},
			{Name: "amount", Type: commands.ParamInteger},
		}}

		args := bindArgs(cmd, []string{"<@123>"})
		assert.Equal(t, "123", args["user"])
		_, present := args["amount"]
		assert.False(t, present)
	})
}

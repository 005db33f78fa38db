package guilds

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	prefixes map[string]string
	reads    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{prefixes: make(map[string]string)}
}

func (f *fakeStore) Prefix(ctx context.Context, guildID, fallback string) (string, error) {
	f.reads++
	if p, ok := f.prefixes[guildID]; ok {
		return p, nil
	}
	return fallback, nil
}

func (f *fakeStore) SetPrefix(ctx context.Context, guildID, prefix string) error {
	f.prefixes[guildID] = prefix
	return nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestPrefix(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults when unset", func(t *testing.T) {
		svc := NewService(newFakeStore(), ",", testLogger())
		assert.Equal(t, ",", svc.Prefix(ctx, "g1"))
	})

	t.Run("dm uses the default without a lookup", func(t *testing.T) {
		store := newFakeStore()
		svc := NewService(store, ",", testLogger())
		assert.Equal(t, ",", svc.Prefix(ctx, ""))
		assert.Zero(t, store.reads)
	})

	t.Run("every lookup hits the store", func(t *testing.T) {
		store := newFakeStore()
		store.prefixes["g1"] = "!"
		svc := NewService(store, ",", testLogger())

		assert.Equal(t, "!", svc.Prefix(ctx, "g1"))
		assert.Equal(t, "!", svc.Prefix(ctx, "g1"))
		assert.Equal(t, 2, store.reads, "no cache in front of the store")
	})

	t.Run("a changed prefix is visible on the next lookup", func(t *testing.T) {
		store := newFakeStore()
		svc := NewService(store, ",", testLogger())

		assert.Equal(t, ",", svc.Prefix(ctx, "g1"))
		require.NoError(t, svc.SetPrefix(ctx, "g1", "!"))
		assert.Equal(t, "!", svc.Prefix(ctx, "g1"))
	})
}

func TestSetPrefix(t *testing.T) {
	ctx := context.Background()

	t.Run("persists the new prefix", func(t *testing.T) {
		store := newFakeStore()
		svc := NewService(store, ",", testLogger())

		require.NoError(t, svc.SetPrefix(ctx, "g1", "?!"))
		assert.Equal(t, "?!", store.prefixes["g1"])
		assert.Equal(t, "?!", svc.Prefix(ctx, "g1"))
	})

	t.Run("rejects empty and over-long prefixes", func(t *testing.T) {
		svc := NewService(newFakeStore(), ",", testLogger())

		assert.ErrorIs(t, svc.SetPrefix(ctx, "g1", ""), ErrBadPrefix)
		assert.ErrorIs(t, svc.SetPrefix(ctx, "g1", "toolong"), ErrBadPrefix)
	})

	t.Run("multi-byte prefixes count runes not bytes", func(t *testing.T) {
		svc := NewService(newFakeStore(), ",", testLogger())
		assert.NoError(t, svc.SetPrefix(ctx, "g1", "✨✨✨"))
	})
}

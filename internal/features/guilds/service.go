package guilds

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// MaxPrefixLen bounds custom prefixes so messages stay parseable.
const MaxPrefixLen = 5

// ErrBadPrefix rejects empty or over-long prefixes.
var ErrBadPrefix = fmt.Errorf("prefix must be 1 to %d characters", MaxPrefixLen)

// store is the persistence surface the service needs; *Repository satisfies it.
type store interface {
	Prefix(ctx context.Context, guildID, fallback string) (string, error)
	SetPrefix(ctx context.Context, guildID, prefix string) error
}

// Service validates prefixes and answers lookups. Every lookup hits the
// store, so a prefix change is visible to all instances on the next message.
type Service struct {
	store    store
	fallback string
	log      *logrus.Logger
}

func NewService(store store, fallback string, log *logrus.Logger) *Service {
	return &Service{store: store, fallback: fallback, log: log}
}

// Prefix returns the guild's prefix. DMs (empty guildID) use the default;
// a failed lookup falls back to it too, so messages keep parsing.
func (s *Service) Prefix(ctx context.Context, guildID string) string {
	if guildID == "" {
		return s.fallback
	}

	prefix, err := s.store.Prefix(ctx, guildID, s.fallback)
	if err != nil {
		s.log.WithError(err).WithField("guild", guildID).Warn("prefix lookup failed")
		return s.fallback
	}
	return prefix
}

// SetPrefix validates and persists a new prefix for the guild.
func (s *Service) SetPrefix(ctx context.Context, guildID, prefix string) error {
	if n := utf8.RuneCountInString(prefix); n == 0 || n > MaxPrefixLen {
		return ErrBadPrefix
	}

	if err := s.store.SetPrefix(ctx, guildID, prefix); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"guild":  guildID,
		"prefix": prefix,
	}).Info("prefix changed")
	return nil
}

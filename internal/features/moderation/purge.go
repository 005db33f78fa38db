// Package moderation implements channel cleanup.
package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// MaxPurge bounds one purge command.
	MaxPurge = 1000
	// fetchBatch is the largest page the Discord message history API
	// returns, and also the bulk-delete size limit.
	fetchBatch = 100
	// maxFetchAttempts caps history pages per purge so a busy channel
	// cannot wedge the bot.
	maxFetchAttempts = 20
	// maxSingleDeletes caps individual deletes of messages too old for
	// bulk deletion.
	maxSingleDeletes = 20
	// bulkWindow is Discord's age limit for bulk deletion; older messages
	// have to go one at a time.
	bulkWindow = 14 * 24 * time.Hour
	// singleDeleteDelay spaces out individual deletes.
	singleDeleteDelay = 350 * time.Millisecond
)

// ErrBadCount rejects purge sizes outside 1..MaxPurge.
var ErrBadCount = fmt.Errorf("purge count must be 1 to %d", MaxPurge)

// Message is the slice of a channel message purging needs.
type Message struct {
	ID        string
	Timestamp time.Time
}

// Channel abstracts the Discord channel operations purging uses, so the
// logic is testable without a gateway. RecentMessages pages backwards:
// an empty beforeID starts at the newest message, and each subsequent
// call passes the oldest ID seen so far.
type Channel interface {
	RecentMessages(ctx context.Context, channelID, beforeID string, limit int) ([]Message, error)
	BulkDelete(ctx context.Context, channelID string, messageIDs []string) error
	Delete(ctx context.Context, channelID, messageID string) error
}

// Service deletes recent messages.
type Service struct {
	channel Channel
	log     *logrus.Logger
	now     func() time.Time
	sleep   func(time.Duration)
}

func NewService(channel Channel, log *logrus.Logger) *Service {
	return &Service{
		channel: channel,
		log:     log,
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

// Purge deletes up to count recent messages from the channel, paging
// through history in batches of at most fetchBatch. Messages young enough
// for bulk deletion go in bulk calls; anything older than fourteen days is
// deleted individually, capped at maxSingleDeletes. Returns how many
// messages were actually deleted.
func (s *Service) Purge(ctx context.Context, channelID string, count int) (int, error) {
	if count < 1 || count > MaxPurge {
		return 0, ErrBadCount
	}

	msgs, err := s.collect(ctx, channelID, count)
	if err != nil {
		return 0, err
	}
	if len(msgs) == 0 {
		return 0, nil
	}

	cutoff := s.now().Add(-bulkWindow)
	var young, old []string
	for _, m := range msgs {
		if m.Timestamp.After(cutoff) {
			young = append(young, m.ID)
		} else {
			old = append(old, m.ID)
		}
	}

	deleted, err := s.deleteYoung(ctx, channelID, young)
	if err != nil {
		return deleted, err
	}

	for i, id := range old {
		if i >= maxSingleDeletes {
			break
		}
		if err := s.channel.Delete(ctx, channelID, id); err != nil {
			return deleted, fmt.Errorf("delete old message: %w", err)
		}
		deleted++
		s.sleep(singleDeleteDelay)
	}

	s.log.WithFields(logrus.Fields{
		"channel": channelID,
		"deleted": deleted,
	}).Info("channel purged")
	return deleted, nil
}

// collect pages backwards through channel history until count messages are
// gathered, the channel runs dry, or the attempt cap is hit.
func (s *Service) collect(ctx context.Context, channelID string, count int) ([]Message, error) {
	var msgs []Message
	beforeID := ""
	for attempts := 0; attempts < maxFetchAttempts && len(msgs) < count; attempts++ {
		limit := count - len(msgs)
		if limit > fetchBatch {
			limit = fetchBatch
		}
		batch, err := s.channel.RecentMessages(ctx, channelID, beforeID, limit)
		if err != nil {
			return nil, fmt.Errorf("fetch messages: %w", err)
		}
		if len(batch) == 0 {
			break
		}
		msgs = append(msgs, batch...)
		beforeID = batch[len(batch)-1].ID
	}
	return msgs, nil
}

// deleteYoung removes bulk-eligible messages in batches of at most
// fetchBatch, deleting a lone message directly.
func (s *Service) deleteYoung(ctx context.Context, channelID string, ids []string) (int, error) {
	deleted := 0
	for len(ids) > 0 {
		batch := ids
		if len(batch) > fetchBatch {
			batch = batch[:fetchBatch]
		}
		ids = ids[len(batch):]

		if len(batch) == 1 {
			if err := s.channel.Delete(ctx, channelID, batch[0]); err != nil {
				return deleted, fmt.Errorf("delete message: %w", err)
			}
			deleted++
			continue
		}
		if err := s.channel.BulkDelete(ctx, channelID, batch); err != nil {
			return deleted, fmt.Errorf("bulk delete: %w", err)
		}
		deleted += len(batch)
	}
	return deleted, nil
}

// Package jobs runs the background maintenance schedule.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// jobTimeout bounds one maintenance run.
const jobTimeout = 5 * time.Minute

// ledgerCleaner trims old transaction rows; *economy.Repository satisfies it.
type ledgerCleaner interface {
	CleanupTransactions(ctx context.Context, cutoff time.Time) (int64, error)
}

// listingExpirer drops lapsed shop listings; *shop.Service satisfies it.
type listingExpirer interface {
	ExpireListings(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler owns the cron loop.
type Scheduler struct {
	cron      *cron.Cron
	ledger    ledgerCleaner
	shop      listingExpirer
	retention time.Duration
	log       *logrus.Logger
}

func NewScheduler(ledger ledgerCleaner, shop listingExpirer, retention time.Duration, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		ledger:    ledger,
		shop:      shop,
		retention: retention,
		log:       log,
	}
}

// Start registers the jobs and begins the loop: ledger cleanup nightly at
// 03:00, shop expiry at the top of every hour.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 3 * * *", s.cleanupLedger); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 * * * *", s.expireListings); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("maintenance schedule started")
	return nil
}

// Stop halts the loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) cleanupLedger() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	cutoff := time.Now().Add(-s.retention)
	removed, err := s.ledger.CleanupTransactions(ctx, cutoff)
	if err != nil {
		s.log.WithError(err).Error("ledger cleanup failed")
		return
	}
	s.log.WithFields(logrus.Fields{
		"removed": removed,
		"cutoff":  cutoff.Format(time.RFC3339),
	}).Info("ledger cleanup finished")
}

func (s *Scheduler) expireListings() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	removed, err := s.shop.ExpireListings(ctx, time.Now())
	if err != nil {
		s.log.WithError(err).Error("shop expiry failed")
		return
	}
	if removed > 0 {
		s.log.WithField("removed", removed).Info("seasonal listings expired")
	}
}

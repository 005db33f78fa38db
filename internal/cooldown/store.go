package cooldown

import (
	"sync"
	"time"
)

// Store is a keyed-expiry map of (user, command) → expiry instant, used to
// throttle commands with short windows (brew, forage) in front of the
// persistent per-account timestamps.
//
// The store is local to one running instance and resets on restart; the
// durable daily/forage stamps live in the database, so a restart only drops
// the short throttles. A background goroutine evicts expired keys.
type Store struct {
	mu      sync.Mutex
	expires map[string]time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewStore creates a store and starts its cleanup goroutine.
func NewStore() *Store {
	s := &Store{
		expires: make(map[string]time.Time),
		stopCh:  make(chan struct{}),
	}
	go s.cleanup()
	return s
}

// Close stops the background cleanup goroutine. Call on shutdown.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// Hit records an invocation of command by userID with the given window and
// reports whether it was allowed. When denied, remaining holds the time left
// on the active window. A window of zero always allows.
func (s *Store) Hit(userID, command string, window time.Duration) (allowed bool, remaining time.Duration) {
	if window <= 0 {
		return true, 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := userID + ":" + command
	now := time.Now()
	if expiry, ok := s.expires[key]; ok && now.Before(expiry) {
		return false, expiry.Sub(now)
	}
	s.expires[key] = now.Add(window)
	return true, 0
}

// Reset clears the window for (userID, command), used when a command fails
// before doing anything so the user is not locked out of retrying.
func (s *Store) Reset(userID, command string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.expires, userID+":"+command)
}

func (s *Store) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.mu.Lock()
			now := time.Now()
			for key, expiry := range s.expires {
				if now.After(expiry) {
					delete(s.expires, key)
				}
			}
			s.mu.Unlock()
		}
	}
}

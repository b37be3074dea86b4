// Package cache is the process-wide read-through cache that sits in front of
// the JSON files served by the dashboard.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTTL is the freshness window used when a call site does not pick one.
const DefaultTTL = time.Hour

// Key identifies a cache entry. Keys are compared by value, so two call
// sites only share an entry when every field matches.
type Key struct {
	Kind     string
	Category string
	Type     string
	Cluster  string
	Page     int
	Limit    int
	ID       string
}

// Entry is a cached payload and the time it was stored.
type Entry struct {
	Data      any
	Timestamp time.Time
}

// Store maps keys to entries. Entries are replaced wholesale on Set and are
// never merged; stale entries stay until they are overwritten or swept.
type Store struct {
	mu      sync.RWMutex
	entries map[Key]Entry
	now     func() time.Time
	stats   Stats
	log     logrus.FieldLogger
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		entries: make(map[Key]Entry),
		now:     time.Now,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("component", "cache")
	return s
}

// Get returns the entry stored under key, fresh or not.
func (s *Store) Get(key Key) (Entry, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	return e, ok
}

// Set stores data under key with the current time as its timestamp.
func (s *Store) Set(key Key, data any) {
	e := Entry{Data: data, Timestamp: s.now()}
	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}

// IsValid reports whether e is younger than ttl according to the store clock.
func (s *Store) IsValid(e Entry, ttl time.Duration) bool {
	return IsValid(e, ttl, s.now())
}

// IsValid reports whether e is younger than ttl at now. An entry without a
// timestamp is never valid.
func IsValid(e Entry, ttl time.Duration, now time.Time) bool {
	if e.Timestamp.IsZero() {
		return false
	}
	return now.Sub(e.Timestamp) < ttl
}

// Lookup returns the data under key if it is still fresh and records a hit
// or a miss.
func (s *Store) Lookup(key Key, ttl time.Duration) (any, bool) {
	e, ok := s.Get(key)
	fresh := ok && s.IsValid(e, ttl)

	s.mu.Lock()
	if fresh {
		s.stats.Hits++
	} else {
		s.stats.Misses++
	}
	s.mu.Unlock()

	if !fresh {
		return nil, false
	}
	return e.Data, true
}

// Len returns the number of stored entries, stale ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stats returns a snapshot of the counters.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.stats
	st.Entries = len(s.entries)
	return st
}

// Sweep drops every entry whose age is at least maxAge and returns how many
// were removed. The map is rebuilt so that its buckets are released.
func (s *Store) Sweep(maxAge time.Duration) int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := make(map[Key]Entry, len(s.entries))
	for k, e := range s.entries {
		if IsValid(e, maxAge, now) {
			fresh[k] = e
		}
	}
	removed := len(s.entries) - len(fresh)
	s.entries = fresh
	s.stats.Sweeps++
	s.stats.Swept += uint64(removed)
	return removed
}

// RunJanitor sweeps entries older than maxAge every interval until ctx is
// done. It blocks, so callers run it in its own goroutine.
func (s *Store) RunJanitor(ctx context.Context, interval, maxAge time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.Sweep(maxAge); n > 0 {
				s.log.WithFields(logrus.Fields{
					"removed": n,
					"entries": s.Len(),
				}).Info("Swept stale cache entries")
			}
		case <-ctx.Done():
			s.log.Debug("Cache janitor stopped")
			return
		}
	}
}

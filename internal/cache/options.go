package cache

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Option configures a Store in New.
type Option func(*Store)

// WithClock replaces time.Now. Tests use it to move time by hand.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used by the janitor.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// Stats are cumulative counters for a Store.
type Stats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Sweeps  uint64 `json:"sweeps"`
	Swept   uint64 `json:"swept"`
	Entries int    `json:"entries"`
}

// HitRatio is Hits / (Hits + Misses), or 0 before the first lookup.
func (st Stats) HitRatio() float64 {
	total := st.Hits + st.Misses
	if total == 0 {
		return 0
	}
	return float64(st.Hits) / float64(total)
}

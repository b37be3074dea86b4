package cache

import (
	"context"
	"time"
)

// Fetch returns the value cached under key when it is fresh and of type T.
// Otherwise it calls load, stores the result and returns it. Failed loads
// are not cached.
//
// Concurrent misses on the same key each call load; the last Set wins.
func Fetch[T any](ctx context.Context, s *Store, key Key, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if v, ok := s.Lookup(key, ttl); ok {
		if typed, ok := v.(T); ok {
			s.log.WithField("kind", key.Kind).Debug("Serving from cache")
			return typed, nil
		}
		s.log.WithField("kind", key.Kind).Warn("Cached value has unexpected type, reloading")
	}

	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	s.Set(key, v)
	return v, nil
}

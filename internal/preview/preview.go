// Package preview serves cached link previews for the sites the dashboard
// icons point to.
package preview

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"bkds/internal/cache"
	"bkds/internal/domain"
	"bkds/internal/scraper"
)

// DefaultTTL is how long a preview stays fresh.
const DefaultTTL = 24 * time.Hour

var (
	// ErrInvalidURL is returned for URLs that are not absolute http(s) URLs.
	ErrInvalidURL = errors.New("preview: invalid url")
	// ErrHostNotAllowed is returned for hosts no icon links to.
	ErrHostNotAllowed = errors.New("preview: host not allowed")
)

// HostSource reports the hosts previews may be fetched from.
type HostSource interface {
	Hosts(ctx context.Context) (map[string]struct{}, error)
}

// Service wraps a scraper with a host allow-list and the content cache.
type Service struct {
	scraper scraper.Scraper
	hosts   HostSource
	cache   *cache.Store
	ttl     time.Duration
	log     logrus.FieldLogger
}

// NewService creates a preview service. A non-positive ttl selects DefaultTTL.
func NewService(s scraper.Scraper, hosts HostSource, store *cache.Store, ttl time.Duration, logger logrus.FieldLogger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		scraper: s,
		hosts:   hosts,
		cache:   store,
		ttl:     ttl,
		log:     logger.WithField("component", "preview"),
	}
}

// Preview returns the title and description of rawURL.
func (s *Service) Preview(ctx context.Context, rawURL string) (domain.LinkPreview, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.LinkPreview{}, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	allowed, err := s.hosts.Hosts(ctx)
	if err != nil {
		return domain.LinkPreview{}, fmt.Errorf("loading allowed hosts: %w", err)
	}
	if _, ok := allowed[strings.ToLower(u.Hostname())]; !ok {
		s.log.WithField("host", u.Hostname()).Warn("Rejected link preview for unknown host")
		return domain.LinkPreview{}, fmt.Errorf("%w: %s", ErrHostNotAllowed, u.Hostname())
	}

	target := u.String()
	key := cache.Key{Kind: "link_preview", ID: target}
	return cache.Fetch(ctx, s.cache, key, s.ttl, func(ctx context.Context) (domain.LinkPreview, error) {
		return s.scraper.Preview(ctx, target)
	})
}

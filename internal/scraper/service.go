package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"

	"bkds/internal/domain"
)

// DefaultTimeout bounds a single page load.
const DefaultTimeout = 30 * time.Second

// descSelectors are tried in order until one yields a non-empty description.
var descSelectors = []string{
	`meta[name="description"]`,
	`meta[property="og:description"]`,
	`meta[name="twitter:description"]`,
}

// RodScraper implements Scraper with a headless browser launched per preview.
type RodScraper struct {
	timeout time.Duration
	now     func() time.Time
	log     logrus.FieldLogger
}

// NewRodScraper creates a new scraper. A non-positive timeout selects DefaultTimeout.
func NewRodScraper(timeout time.Duration, logger logrus.FieldLogger) *RodScraper {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RodScraper{
		timeout: timeout,
		now:     time.Now,
		log:     logger.WithField("component", "scraper"),
	}
}

// Preview fetches the title and description using rod.
func (s *RodScraper) Preview(ctx context.Context, url string) (preview domain.LinkPreview, err error) {
	log := s.log.WithField("url", url)
	log.Info("Attempting to scrape link preview")

	path, exists := launcher.LookPath()
	if !exists {
		log.Error("Cannot find browser executable for rod")
		return domain.LinkPreview{}, errors.New("rod browser dependency not found")
	}
	l := launcher.New().Bin(path)
	controlURL, err := l.Launch()
	if err != nil {
		log.WithError(err).Error("Failed to launch rod browser")
		return domain.LinkPreview{}, fmt.Errorf("failed to launch browser: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL)
	if err = browser.Connect(); err != nil {
		log.WithError(err).Error("Failed to connect to rod browser")
		return domain.LinkPreview{}, fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer func() {
		if closeErr := browser.Close(); closeErr != nil {
			log.WithError(closeErr).Error("Error closing rod browser instance")
			if err == nil {
				err = fmt.Errorf("error closing browser: %w", closeErr)
			}
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		log.WithError(err).Error("Failed to create rod page")
		return domain.LinkPreview{}, fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()

	pageCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	page = page.Context(pageCtx)

	if err = page.WaitLoad(); err != nil {
		if errors.Is(pageCtx.Err(), context.DeadlineExceeded) {
			log.WithError(pageCtx.Err()).Warn("Scraping timed out")
			return domain.LinkPreview{}, fmt.Errorf("scraping timed out for %s: %w", url, pageCtx.Err())
		}
		log.WithError(err).Error("Failed to wait for page load")
		return domain.LinkPreview{}, fmt.Errorf("failed waiting for page load: %w", err)
	}

	preview = domain.LinkPreview{URL: url, FetchedAt: s.now().UTC()}

	if ok, el, hasErr := page.Has("title"); hasErr == nil && ok {
		if text, textErr := el.Text(); textErr == nil {
			preview.Title = strings.TrimSpace(text)
		}
	} else if hasErr != nil {
		log.WithError(hasErr).Warn("Could not look up title element")
	}

	for _, selector := range descSelectors {
		ok, el, hasErr := page.Has(selector)
		if hasErr != nil {
			log.WithError(hasErr).WithField("selector", selector).Warn("Error searching for meta description tag")
			continue
		}
		if !ok {
			continue
		}
		content, attrErr := el.Attribute("content")
		if attrErr != nil || content == nil {
			continue
		}
		if d := strings.TrimSpace(*content); d != "" {
			preview.Description = d
			break
		}
	}
	if preview.Description == "" {
		log.Debug("Could not find description meta tag")
	}

	log.WithField("title", preview.Title).Info("Link preview scraped")
	return preview, nil
}

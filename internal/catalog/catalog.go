// Package catalog serves the small configuration-like documents behind the
// dashboard: category filters, banned words, header content and the image
// gallery indexes.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"bkds/internal/cache"
	"bkds/internal/domain"
	"bkds/internal/loader"
	"bkds/internal/paginate"
)

// ImageGridLimit is the default page size of the image grid.
const ImageGridLimit = 20

// DefaultHeaderTTL is the freshness window of the header content.
const DefaultHeaderTTL = 30 * time.Minute

// DataLoader reads a JSON document into v.
type DataLoader interface {
	Load(ctx context.Context, kind loader.Kind, p loader.Params, v any) error
}

// Service reads catalog documents through the cache.
type Service struct {
	cache     *cache.Store
	loader    DataLoader
	ttl       time.Duration
	headerTTL time.Duration
	log       logrus.FieldLogger
}

// NewService wires a catalog service. Zero TTLs select the defaults.
func NewService(store *cache.Store, ld DataLoader, ttl, headerTTL time.Duration, logger logrus.FieldLogger) *Service {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	if headerTTL <= 0 {
		headerTTL = DefaultHeaderTTL
	}
	return &Service{
		cache:     store,
		loader:    ld,
		ttl:       ttl,
		headerTTL: headerTTL,
		log:       logger.WithField("component", "catalog"),
	}
}

var filterNameReplacer = strings.NewReplacer(" ", "_", ",", "_", "\t", "_", "\n", "_")

// Filters returns the category filters of type filterType with spaces and
// commas in their names replaced by underscores.
func (s *Service) Filters(ctx context.Context, filterType string) ([]domain.CategoryFilter, error) {
	key := cache.Key{Kind: "category_filters", Type: filterType}
	return cache.Fetch(ctx, s.cache, key, s.ttl, func(ctx context.Context) ([]domain.CategoryFilter, error) {
		s.log.WithField("type", filterType).Info("Reading category filters from file")

		var all []domain.CategoryFilter
		if err := s.loader.Load(ctx, loader.KindCategoryFilters, loader.Params{}, &all); err != nil {
			return nil, fmt.Errorf("loading category filters: %w", err)
		}

		out := make([]domain.CategoryFilter, 0, len(all))
		for _, f := range all {
			if f.Type != filterType {
				continue
			}
			f.FilterName = filterNameReplacer.Replace(f.FilterName)
			out = append(out, f)
		}
		return out, nil
	})
}

// BannedWords returns the banned word list with case-insensitive duplicates
// removed. The first spelling of each word is kept.
func (s *Service) BannedWords(ctx context.Context) ([]string, error) {
	return cache.Fetch(ctx, s.cache, cache.Key{Kind: "banned_words"}, s.ttl, func(ctx context.Context) ([]string, error) {
		s.log.Info("Cache miss or expired. Reading banned words from file")

		var doc domain.BannedWords
		if err := s.loader.Load(ctx, loader.KindBannedWords, loader.Params{}, &doc); err != nil {
			return nil, fmt.Errorf("loading banned words: %w", err)
		}
		return dedupFold(doc.List), nil
	})
}

// HeaderContent returns the header document as stored.
func (s *Service) HeaderContent(ctx context.Context) (json.RawMessage, error) {
	return cache.Fetch(ctx, s.cache, cache.Key{Kind: "header_content"}, s.headerTTL, func(ctx context.Context) (json.RawMessage, error) {
		s.log.Info("Cache miss or expired. Reading header content from file")

		var doc json.RawMessage
		if err := s.loader.Load(ctx, loader.KindHeaderContent, loader.Params{}, &doc); err != nil {
			return nil, fmt.Errorf("loading header content: %w", err)
		}
		return doc, nil
	})
}

// ImageGrid returns one page of the master image index for imageType. An
// empty type yields an empty page without touching the disk. Images that
// repeat an img_url_id already seen are dropped.
func (s *Service) ImageGrid(ctx context.Context, imageType string, page, limit int) ([]domain.Image, error) {
	imageType = strings.TrimSpace(imageType)
	if imageType == "" {
		s.log.Info("Image grid type is empty, no action taken")
		return []domain.Image{}, nil
	}
	if limit < 1 {
		limit = ImageGridLimit
	}

	key := cache.Key{Kind: "image_index", Type: imageType}
	all, err := cache.Fetch(ctx, s.cache, key, s.ttl, func(ctx context.Context) ([]domain.Image, error) {
		s.log.WithField("type", imageType).Info("Reading image index from file")

		var images []domain.Image
		if err := s.loader.Load(ctx, loader.KindImageIndex, loader.Params{Type: imageType}, &images); err != nil {
			return nil, fmt.Errorf("loading image index %s: %w", imageType, err)
		}
		return dedupImages(images), nil
	})
	if err != nil {
		return nil, err
	}
	return paginate.Slice(all, page, limit), nil
}

func dedupFold(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		k := strings.ToLower(strings.TrimSpace(w))
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, w)
	}
	return out
}

// dedupImages drops images whose img_url_id was already seen. Images without
// an ID are always kept.
func dedupImages(images []domain.Image) []domain.Image {
	seen := make(map[string]struct{}, len(images))
	out := make([]domain.Image, 0, len(images))
	for _, img := range images {
		if img.URLID != "" {
			if _, ok := seen[img.URLID]; ok {
				continue
			}
			seen[img.URLID] = struct{}{}
		}
		out = append(out, img)
	}
	return out
}

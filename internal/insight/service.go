// Package insight serves the dashboard's insight cards and story pages.
package insight

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	"bkds/internal/cache"
	"bkds/internal/domain"
	"bkds/internal/icons"
	"bkds/internal/loader"
	"bkds/internal/paginate"
)

// DefaultCategory is the feed shown on the home page.
const DefaultCategory = "main_feed"

// ErrNotFound is returned when a story file or record does not exist.
var ErrNotFound = errors.New("insight not found")

// DataLoader reads a JSON document into v.
type DataLoader interface {
	Load(ctx context.Context, kind loader.Kind, p loader.Params, v any) error
}

// IconSource supplies the icon definitions attached to stories.
type IconSource interface {
	Icons(ctx context.Context) ([]domain.Icon, error)
}

// Service reads insight batches and stories through the cache.
type Service struct {
	cache   *cache.Store
	loader  DataLoader
	tr      *Transformer
	icons   IconSource
	shuffle Shuffler
	ttl     time.Duration
	log     logrus.FieldLogger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithTTL sets the freshness window for feed pages and story files.
func WithTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithShuffler replaces the random source used for related topics.
func WithShuffler(r Shuffler) ServiceOption {
	return func(s *Service) {
		if r != nil {
			s.shuffle = r
		}
	}
}

// NewService wires a Service. icons may be nil, in which case stories carry
// no icons.
func NewService(store *cache.Store, ld DataLoader, iconSrc IconSource, logger logrus.FieldLogger, opts ...ServiceOption) *Service {
	s := &Service{
		cache:   store,
		loader:  ld,
		tr:      NewTransformer(),
		icons:   iconSrc,
		shuffle: runtimeShuffler{},
		ttl:     cache.DefaultTTL,
		log:     logger.WithField("component", "insight_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Feed returns one page of display insights for category. Pages are cached
// per (category, page, limit).
func (s *Service) Feed(ctx context.Context, category string, page, limit int) ([]domain.DisplayInsight, error) {
	if category == "" {
		category = DefaultCategory
	}
	if page < 1 {
		page = paginate.DefaultPage
	}
	if limit < 1 {
		limit = paginate.DefaultLimit
	}

	log := s.log.WithFields(logrus.Fields{
		"category": category,
		"page":     page,
		"limit":    limit,
	})

	key := cache.Key{Kind: "insight_feed", Category: category, Page: page, Limit: limit}
	return cache.Fetch(ctx, s.cache, key, s.ttl, func(ctx context.Context) ([]domain.DisplayInsight, error) {
		log.Info("Feed cache miss, reading batch file")

		var raws []domain.RawInsight
		if err := s.loader.Load(ctx, loader.KindInsightBatch, loader.Params{Category: category}, &raws); err != nil {
			return nil, fmt.Errorf("loading %s batch: %w", category, err)
		}

		out := s.tr.TransformAll(paginate.Slice(raws, page, limit))
		log.WithField("count", len(out)).Debug("Feed page built")
		return out, nil
	})
}

// Story returns the detail view of postID within category and clusterID.
func (s *Service) Story(ctx context.Context, category, clusterID, postID string) (domain.Story, error) {
	log := s.log.WithFields(logrus.Fields{
		"category":   category,
		"cluster_id": clusterID,
		"post_id":    postID,
	})

	key := cache.Key{Kind: "insight_story", Category: category, Cluster: clusterID, ID: postID}
	raws, err := cache.Fetch(ctx, s.cache, key, s.ttl, func(ctx context.Context) ([]domain.RawInsight, error) {
		log.Info("Story cache miss, reading story file")
		var raws []domain.RawInsight
		err := s.loader.Load(ctx, loader.KindInsightStory, loader.Params{
			Category:  category,
			ClusterID: clusterID,
			PostID:    postID,
		}, &raws)
		return raws, err
	})
	if err != nil {
		var ioe *loader.IOError
		if errors.As(err, &ioe) && ioe.NotExist() {
			return domain.Story{}, fmt.Errorf("%w: %s", ErrNotFound, ioe.Path)
		}
		return domain.Story{}, fmt.Errorf("loading story %s: %w", postID, err)
	}

	raw, ok := findByURLID(raws, postID)
	if !ok {
		log.Info("No matching insight in story file")
		return domain.Story{}, fmt.Errorf("%w: %s", ErrNotFound, postID)
	}

	var iconList []domain.Icon
	if s.icons != nil {
		all, err := s.icons.Icons(ctx)
		if err != nil {
			log.WithError(err).Warn("Error fetching icons data")
		}
		iconList = all
	}

	display := s.tr.Transform(raw)
	images, videos := ProcessMedia(raw.Media)

	var searchTerm string
	if raw.Details.SearchTerm != nil {
		searchTerm = *raw.Details.SearchTerm
	}

	story := domain.Story{
		PostID:        postID,
		Title:         display.SubjectTitle,
		Category:      display.DataCategory,
		CategoryID:    display.DataCategoryID,
		ClusterID:     display.ClusterID,
		SearchTerm:    searchTerm,
		TextHTML:      display.TextContent,
		DefaultImage:  DefaultImage(raw, images),
		Images:        images,
		Videos:        videos,
		RelatedTopics: RelatedTopics(raw.RelatedTopics, s.shuffle),
		Icons:         icons.ForSubject(iconList, display.SubjectTitle),
		ImgBasePath:   "/img/",
	}

	log.WithField("title", story.Title).Info("Rendering story content")
	return story, nil
}

type runtimeShuffler struct{}

func (runtimeShuffler) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

func findByURLID(raws []domain.RawInsight, id string) (domain.RawInsight, bool) {
	for _, r := range raws {
		if r.Details != nil && r.Details.URLID != nil && *r.Details.URLID == id {
			return r, true
		}
	}
	return domain.RawInsight{}, false
}

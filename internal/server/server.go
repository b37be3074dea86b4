// Package server exposes the dashboard read services over HTTP.
package server

import (
	"context"
	"encoding/json"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"bkds/internal/cache"
	"bkds/internal/domain"
	"bkds/internal/icons"
	"bkds/internal/speech"
)

// InsightReader serves insight feeds and stories.
type InsightReader interface {
	Feed(ctx context.Context, category string, page, limit int) ([]domain.DisplayInsight, error)
	Story(ctx context.Context, category, clusterID, postID string) (domain.Story, error)
}

// IconReader serves icon definitions.
type IconReader interface {
	ByType(ctx context.Context, prefix string) ([]domain.Icon, error)
	Groups(ctx context.Context) (icons.Groups, error)
	Toolbar(ctx context.Context) ([]domain.Icon, error)
}

// CatalogReader serves the small dashboard documents.
type CatalogReader interface {
	Filters(ctx context.Context, filterType string) ([]domain.CategoryFilter, error)
	BannedWords(ctx context.Context) ([]string, error)
	HeaderContent(ctx context.Context) (json.RawMessage, error)
	ImageGrid(ctx context.Context, imageType string, page, limit int) ([]domain.Image, error)
}

// Speech narrates text and records voice searches.
type Speech interface {
	Narrate(ctx context.Context, req speech.Request) (string, error)
	SaveVoiceSearch(ctx context.Context, searchString, clientTimestamp string) (domain.VoiceSearch, error)
	RecentVoiceSearches(ctx context.Context, n int) ([]domain.VoiceSearch, error)
	DeleteVoiceSearch(ctx context.Context, id string) error
}

// Previewer fetches link previews.
type Previewer interface {
	Preview(ctx context.Context, rawURL string) (domain.LinkPreview, error)
}

// StatsSource reports cache counters.
type StatsSource interface {
	Stats() cache.Stats
}

// Deps are the services behind the routes. Preview and Audio may be nil,
// which disables /link-preview and audio playback respectively. Audio is the
// narration root only; nothing else under the data directory is served.
type Deps struct {
	Insights InsightReader
	Icons    IconReader
	Catalog  CatalogReader
	Speech   Speech
	Preview  Previewer
	Cache    StatsSource
	Audio    fs.FS
}

// AudioRoute is the URL prefix of narration playback. It matches the
// client paths returned by speech.Service.Narrate.
const AudioRoute = "/data/audio/speech/"

// Server routes dashboard requests to the read services.
type Server struct {
	deps   Deps
	router chi.Router
	log    logrus.FieldLogger
}

// New builds the router.
func New(deps Deps, logger logrus.FieldLogger) *Server {
	s := &Server{
		deps: deps,
		log:  logger.WithField("component", "http"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHome)
	r.Get("/fetch-all-insights", s.handleFetchAllInsights)
	r.Get("/fetch-insights-json", s.handleFetchInsightsJSON)
	r.Get("/insightStoryContent", s.handleStory)
	r.Get("/icons", s.handleIcons)
	r.Get("/appLaunchToolbar", s.handleToolbar)
	r.Get("/dataCategoryFilters", s.handleCategoryFilters)
	r.Get("/banned-words", s.handleBannedWords)
	r.Get("/header-content", s.handleHeaderContent)
	r.Get("/image-grid", s.handleImageGrid)
	r.Get("/speech", s.handleSpeech)
	r.Post("/synthesize", s.handleSynthesize)
	r.Post("/saveVoiceSearch", s.handleSaveVoiceSearch)
	r.Get("/voice-searches", s.handleVoiceSearches)
	r.Delete("/voice-searches/{id}", s.handleDeleteVoiceSearch)
	r.Get("/link-preview", s.handleLinkPreview)
	r.Get("/cache-stats", s.handleCacheStats)

	if deps.Audio != nil {
		r.Handle(AudioRoute+"*", http.StripPrefix(AudioRoute, http.FileServerFS(deps.Audio)))
	}

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLogger logs one line per request through logrus.
func requestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.WithFields(logrus.Fields{
					"request_id": middleware.GetReqID(r.Context()),
					"method":     r.Method,
					"path":       r.URL.Path,
					"status":     ww.Status(),
					"bytes":      ww.BytesWritten(),
					"duration":   time.Since(start).String(),
				}).Info("Request served")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

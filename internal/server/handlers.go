package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"bkds/internal/catalog"
	"bkds/internal/domain"
	"bkds/internal/icons"
	"bkds/internal/insight"
	"bkds/internal/paginate"
	"bkds/internal/speech"
)

// summaryLimit is the default page size of /fetch-insights-json.
const summaryLimit = 20

// voiceSearchLimit is the default size of /voice-searches.
const voiceSearchLimit = 50

type homeResponse struct {
	Insights []domain.DisplayInsight `json:"subjectInsights"`
	icons.Groups
	Filters         []domain.CategoryFilter `json:"dataCategoryFilters"`
	PhotoGridType   string                  `json:"photoGridType"`
	PaginatedImages []domain.Image          `json:"paginatedImages"`
}

type insightsResponse struct {
	Insights []domain.DisplayInsight `json:"insights"`
}

// feed reads the filterCategory, page and limit query values and returns
// that feed page. Missing or malformed batch files degrade to an empty page.
func (s *Server) feed(r *http.Request, defLimit int) ([]domain.DisplayInsight, error) {
	q := r.URL.Query()
	category := strings.TrimSpace(q.Get("filterCategory"))
	if category == "" {
		category = insight.DefaultCategory
	}
	page := paginate.Page(q.Get("page"))
	limit := paginate.Limit(q.Get("limit"), defLimit)

	items, err := s.deps.Insights.Feed(r.Context(), category, page, limit)
	if err != nil {
		if degradable(err) {
			s.log.WithError(err).WithField("category", category).Warn("Serving empty feed")
			return []domain.DisplayInsight{}, nil
		}
		return nil, err
	}
	return items, nil
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := s.feed(r, paginate.DefaultLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	groups, err := s.deps.Icons.Groups(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	filters, err := s.deps.Catalog.Filters(ctx, "category")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, homeResponse{
		Insights:        items,
		Groups:          groups,
		Filters:         filters,
		PhotoGridType:   "default",
		PaginatedImages: []domain.Image{},
	})
}

func (s *Server) handleFetchAllInsights(w http.ResponseWriter, r *http.Request) {
	items, err := s.feed(r, paginate.DefaultLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, insightsResponse{Insights: items})
}

func (s *Server) handleFetchInsightsJSON(w http.ResponseWriter, r *http.Request) {
	items, err := s.feed(r, summaryLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]domain.DisplayInsight, len(items))
	for i, it := range items {
		out[i] = it.Summary()
	}
	s.writeJSON(w, http.StatusOK, insightsResponse{Insights: out})
}

func (s *Server) handleStory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	story, err := s.deps.Insights.Story(r.Context(), q.Get("filterCategory"), q.Get("clusterID"), q.Get("postId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, story)
}

func (s *Server) handleIcons(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Icons.ByType(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleToolbar(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Icons.Toolbar(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCategoryFilters(w http.ResponseWriter, r *http.Request) {
	filterType := strings.TrimSpace(r.URL.Query().Get("type"))
	if filterType == "" {
		filterType = "category"
	}
	filters, err := s.deps.Catalog.Filters(r.Context(), filterType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, filters)
}

func (s *Server) handleBannedWords(w http.ResponseWriter, r *http.Request) {
	words, err := s.deps.Catalog.BannedWords(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"bannedWords": words})
}

func (s *Server) handleHeaderContent(w http.ResponseWriter, r *http.Request) {
	doc, err := s.deps.Catalog.HeaderContent(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleImageGrid(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	images, err := s.deps.Catalog.ImageGrid(r.Context(), q.Get("type"),
		paginate.Page(q.Get("page")), paginate.Limit(q.Get("limit"), catalog.ImageGridLimit))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]domain.Image{"images": images})
}

func (s *Server) handleSpeech(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": speech.ListeningMessage(r.URL.Query().Get("type")),
	})
}

func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var req speech.Request
	if err := decodeBody(w, r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	rel, err := s.deps.Speech.Narrate(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"path": rel})
}

type voiceSearchRequest struct {
	SearchString string `json:"searchString"`
	Timestamp    string `json:"timestamp"`
}

func (s *Server) handleSaveVoiceSearch(w http.ResponseWriter, r *http.Request) {
	var req voiceSearchRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	vs, err := s.deps.Speech.SaveVoiceSearch(r.Context(), req.SearchString, req.Timestamp)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, vs)
}

func (s *Server) handleVoiceSearches(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Speech.RecentVoiceSearches(r.Context(), paginate.Limit(r.URL.Query().Get("limit"), voiceSearchLimit))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]domain.VoiceSearch{"voiceSearches": list})
}

func (s *Server) handleDeleteVoiceSearch(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Speech.DeleteVoiceSearch(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLinkPreview(w http.ResponseWriter, r *http.Request) {
	if s.deps.Preview == nil {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "link previews are disabled"})
		return
	}
	p, err := s.deps.Preview.Preview(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

type cacheStatsResponse struct {
	Hits     uint64  `json:"hits"`
	Misses   uint64  `json:"misses"`
	Sweeps   uint64  `json:"sweeps"`
	Swept    uint64  `json:"swept"`
	Entries  int     `json:"entries"`
	HitRatio float64 `json:"hit_ratio"`
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	if s.deps.Cache == nil {
		s.writeError(w, r, errors.New("cache stats unavailable"))
		return
	}
	st := s.deps.Cache.Stats()
	s.writeJSON(w, http.StatusOK, cacheStatsResponse{
		Hits:     st.Hits,
		Misses:   st.Misses,
		Sweeps:   st.Sweeps,
		Swept:    st.Swept,
		Entries:  st.Entries,
		HitRatio: st.HitRatio(),
	})
}

package handlers

import (
	"net/http"

	"mediadex/internal/models"
	"mediadex/internal/scheduler"
	"mediadex/internal/services/tmdb"
	"mediadex/internal/trending"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// TrendingHandler serves the homepage trending snapshot
type TrendingHandler struct {
	cache       *gocache.Cache
	tmdbClient  *tmdb.Client
	trendingSvc *trending.Service
	logger      *logrus.Logger
}

// NewTrendingHandler creates a new trending handler
func NewTrendingHandler(cache *gocache.Cache, tmdbClient *tmdb.Client, trendingSvc *trending.Service, logger *logrus.Logger) *TrendingHandler {
	return &TrendingHandler{
		cache:       cache,
		tmdbClient:  tmdbClient,
		trendingSvc: trendingSvc,
		logger:      logger,
	}
}

// TrendingResponse is the combined homepage payload
type TrendingResponse struct {
	Titles      []models.MediaSummary         `json:"titles"`
	TopSearches []models.TrendingCounterEntry `json:"top_searches"`
}

// ServeHTTP handles GET /api/trending. Served from the scheduler-refreshed
// snapshot when warm; cache misses fall through to live calls.
func (h *TrendingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var response TrendingResponse

	if cached, ok := h.cache.Get(scheduler.TrendingTitlesKey); ok {
		response.Titles = cached.([]models.MediaSummary)
	} else {
		titles, err := h.tmdbClient.Trending(r.Context(), "", models.WindowDay)
		if err != nil {
			h.logger.WithError(err).Error("Failed to fetch trending titles")
			writeError(w, http.StatusBadGateway, "failed to fetch trending")
			return
		}
		response.Titles = titles
	}

	if cached, ok := h.cache.Get(scheduler.TopSearchesKey); ok {
		response.TopSearches = cached.([]models.TrendingCounterEntry)
	} else if searches, err := h.trendingSvc.TopSearches(r.Context(), trending.DefaultTopLimit); err != nil {
		// Top searches are decoration on the homepage; degrade quietly
		h.logger.WithError(err).Warn("Failed to fetch top searches")
	} else {
		response.TopSearches = searches
	}

	writeJSON(w, http.StatusOK, response)
}

package handlers

import (
	"net/http"

	"mediadex/internal/models"
	"mediadex/internal/scheduler"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// StatusHandler handles status requests
type StatusHandler struct {
	db     *models.Database
	cache  *gocache.Cache
	logger *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(db *models.Database, cache *gocache.Cache, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		db:     db,
		cache:  cache,
		logger: logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	CachedWatchlists int    `json:"cached_watchlists"`
	TrendingWarm     bool   `json:"trending_warm"`
	TopSearchesWarm  bool   `json:"top_searches_warm"`
	Language         string `json:"language"`
	Region           string `json:"region"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.db.CountWatchlistSnapshots()
	if err != nil {
		h.logger.WithError(err).Error("Failed to count cached watchlists")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	prefs, err := h.db.GetPreferences()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load preferences")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	_, trendingWarm := h.cache.Get(scheduler.TrendingTitlesKey)
	_, searchesWarm := h.cache.Get(scheduler.TopSearchesKey)

	writeJSON(w, http.StatusOK, StatusResponse{
		CachedWatchlists: snapshots,
		TrendingWarm:     trendingWarm,
		TopSearchesWarm:  searchesWarm,
		Language:         prefs.Language,
		Region:           prefs.Region,
	})
}

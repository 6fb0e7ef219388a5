package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"mediadex/internal/models"
	"mediadex/internal/services/tmdb"
	"mediadex/internal/trending"

	"github.com/sirupsen/logrus"
)

// SearchHandler handles search requests
type SearchHandler struct {
	tmdbClient  *tmdb.Client
	trendingSvc *trending.Service
	logger      *logrus.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(tmdbClient *tmdb.Client, trendingSvc *trending.Service, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{
		tmdbClient:  tmdbClient,
		trendingSvc: trendingSvc,
		logger:      logger,
	}
}

// ServeHTTP handles GET /api/search?q=&kind=&genre=
// Without a kind the query goes through multi-search; without a query the
// browse (discover) list for the kind is returned instead, narrowed to a
// single genre when one is given.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	kind := models.MediaKind(r.URL.Query().Get("kind"))
	genre := r.URL.Query().Get("genre")

	var (
		results []models.MediaSummary
		err     error
	)

	switch {
	case query == "" && kind != "" && genre != "":
		var genreID int64
		genreID, err = strconv.ParseInt(genre, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid genre id")
			return
		}
		results, err = h.tmdbClient.DiscoverByGenre(r.Context(), kind, genreID)
	case query == "" && kind != "":
		results, err = h.tmdbClient.Discover(r.Context(), kind)
	case query == "":
		writeError(w, http.StatusBadRequest, "q or kind parameter is required")
		return
	case kind != "":
		results, err = h.tmdbClient.Search(r.Context(), kind, query)
	default:
		results, err = h.tmdbClient.MultiSearch(r.Context(), query)
	}

	if err != nil {
		h.logger.WithError(err).WithField("query", query).Error("Search failed")
		writeError(w, http.StatusBadGateway, "search failed")
		return
	}

	// Best-effort popularity counter; never blocks or fails the response
	if query != "" && len(results) > 0 {
		h.trendingSvc.RecordSearch(r.Context(), query, results[0])
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
	})
}

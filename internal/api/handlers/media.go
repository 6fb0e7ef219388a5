package handlers

import (
	"net/http"
	"strconv"

	"mediadex/internal/models"
	"mediadex/internal/services/tmdb"

	"github.com/sirupsen/logrus"
)

// MediaHandler serves aggregated media detail pages
type MediaHandler struct {
	tmdbClient *tmdb.Client
	logger     *logrus.Logger
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(tmdbClient *tmdb.Client, logger *logrus.Logger) *MediaHandler {
	return &MediaHandler{
		tmdbClient: tmdbClient,
		logger:     logger,
	}
}

// MediaResponse aggregates everything a detail screen renders
type MediaResponse struct {
	Details         *models.MediaDetails       `json:"details"`
	Credits         *models.Credits            `json:"credits,omitempty"`
	Videos          []models.Video             `json:"videos,omitempty"`
	Providers       *models.WatchProviderGroup `json:"providers,omitempty"`
	Recommendations []models.MediaSummary      `json:"recommendations,omitempty"`
	Reviews         []models.Review            `json:"reviews,omitempty"`
}

// Details handles GET /api/media/{kind}/{id}
func (h *MediaHandler) Details(w http.ResponseWriter, r *http.Request) {
	kind := models.MediaKind(r.PathValue("kind"))
	if kind != models.KindMovie && kind != models.KindTV {
		writeError(w, http.StatusBadRequest, "kind must be movie or tv")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid media id")
		return
	}

	ctx := r.Context()

	details, err := h.tmdbClient.Details(ctx, kind, id)
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"kind": kind,
			"id":   id,
		}).Error("Failed to fetch details")
		writeError(w, http.StatusBadGateway, "failed to fetch details")
		return
	}

	response := MediaResponse{Details: details}

	// The secondary sections degrade independently; a failed credits call
	// must not blank the whole page
	if credits, err := h.tmdbClient.Credits(ctx, kind, id); err != nil {
		h.logger.WithError(err).Debug("Failed to fetch credits")
	} else {
		response.Credits = credits
	}

	if videos, err := h.tmdbClient.Videos(ctx, kind, id); err != nil {
		h.logger.WithError(err).Debug("Failed to fetch videos")
	} else {
		response.Videos = videos
	}

	if providers, err := h.tmdbClient.WatchProviders(ctx, kind, id); err != nil {
		h.logger.WithError(err).Debug("Failed to fetch watch providers")
	} else if group, ok := h.tmdbClient.RegionProviders(providers); ok {
		response.Providers = &group
	}

	if recs, err := h.tmdbClient.Recommendations(ctx, kind, id); err != nil {
		h.logger.WithError(err).Debug("Failed to fetch recommendations")
	} else {
		response.Recommendations = recs
	}

	if reviews, err := h.tmdbClient.Reviews(ctx, kind, id); err != nil {
		h.logger.WithError(err).Debug("Failed to fetch reviews")
	} else {
		response.Reviews = reviews
	}

	writeJSON(w, http.StatusOK, response)
}

// PersonResponse aggregates a person detail screen
type PersonResponse struct {
	Details *models.PersonDetails `json:"details"`
	Credits []models.MediaSummary `json:"credits,omitempty"`
}

// Person handles GET /api/person/{id}
func (h *MediaHandler) Person(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid person id")
		return
	}

	ctx := r.Context()

	details, err := h.tmdbClient.PersonDetails(ctx, id)
	if err != nil {
		h.logger.WithError(err).WithField("id", id).Error("Failed to fetch person details")
		writeError(w, http.StatusBadGateway, "failed to fetch person details")
		return
	}

	response := PersonResponse{Details: details}

	if credits, err := h.tmdbClient.PersonCombinedCredits(ctx, id); err != nil {
		h.logger.WithError(err).Debug("Failed to fetch person credits")
	} else {
		response.Credits = credits
	}

	writeJSON(w, http.StatusOK, response)
}

// People handles GET /api/people/popular
func (h *MediaHandler) People(w http.ResponseWriter, r *http.Request) {
	people, err := h.tmdbClient.PopularPeople(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch popular people")
		writeError(w, http.StatusBadGateway, "failed to fetch popular people")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"results": people})
}

// Genres handles GET /api/genres?kind=movie|tv
func (h *MediaHandler) Genres(w http.ResponseWriter, r *http.Request) {
	kind := models.MediaKind(r.URL.Query().Get("kind"))
	if kind != models.KindMovie && kind != models.KindTV {
		writeError(w, http.StatusBadRequest, "kind must be movie or tv")
		return
	}

	genres, err := h.tmdbClient.Genres(r.Context(), kind)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch genres")
		writeError(w, http.StatusBadGateway, "failed to fetch genres")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"genres": genres})
}

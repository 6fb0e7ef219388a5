package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"mediadex/internal/models"
	"mediadex/internal/services/appwrite"
	"mediadex/internal/watchlist"

	"github.com/sirupsen/logrus"
)

// WatchlistHandler handles watchlist reads and mutations
type WatchlistHandler struct {
	service *watchlist.Service
	client  *appwrite.Client
	logger  *logrus.Logger
}

// NewWatchlistHandler creates a new watchlist handler
func NewWatchlistHandler(service *watchlist.Service, client *appwrite.Client, logger *logrus.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		service: service,
		client:  client,
		logger:  logger,
	}
}

// List handles GET /api/watchlist. Degrades to the cached snapshot when
// the store is unreachable, so it only ever fails for auth.
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	account, err := h.client.CurrentAccount(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	entries := h.service.List(r.Context(), account.ID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
	})
}

// Add handles POST /api/watchlist with a media summary body
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var item models.MediaSummary
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid media item")
		return
	}

	entry, err := h.service.Add(r.Context(), item)
	if err != nil {
		if errors.Is(err, models.ErrAuthRequired) {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		h.logger.WithError(err).Error("Failed to add watchlist entry")
		writeError(w, http.StatusBadGateway, "failed to add to watchlist")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// Remove handles DELETE /api/watchlist/{documentId}
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	documentID := r.PathValue("documentId")
	if documentID == "" {
		writeError(w, http.StatusBadRequest, "document id is required")
		return
	}

	if err := h.service.Remove(r.Context(), documentID); err != nil {
		if models.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "watchlist entry not found")
			return
		}
		h.logger.WithError(err).Error("Failed to remove watchlist entry")
		writeError(w, http.StatusBadGateway, "failed to remove from watchlist")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// Check handles GET /api/watchlist/check?mediaId=. An unauthenticated user
// always reads back unsaved, without a store round trip.
func (h *WatchlistHandler) Check(w http.ResponseWriter, r *http.Request) {
	mediaID, err := strconv.ParseInt(r.URL.Query().Get("mediaId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid media id")
		return
	}

	account, err := h.client.CurrentAccount(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, models.SavedState{})
		return
	}

	entry := h.service.CheckIsSaved(r.Context(), account.ID, mediaID)
	if entry == nil {
		writeJSON(w, http.StatusOK, models.SavedState{})
		return
	}

	writeJSON(w, http.StatusOK, models.SavedState{
		IsSaved:    true,
		SavedDocID: entry.DocumentID,
	})
}

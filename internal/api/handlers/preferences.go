package handlers

import (
	"encoding/json"
	"net/http"

	"mediadex/internal/models"

	"github.com/sirupsen/logrus"
)

// PreferencesHandler handles the device-local browsing preferences
type PreferencesHandler struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(db *models.Database, logger *logrus.Logger) *PreferencesHandler {
	return &PreferencesHandler{
		db:     db,
		logger: logger,
	}
}

// Get handles GET /api/preferences
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.db.GetPreferences()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load preferences")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, prefs)
}

type preferencesRequest struct {
	Language     string `json:"language"`
	Region       string `json:"region"`
	IncludeAdult bool   `json:"include_adult"`
}

// Update handles PUT /api/preferences
func (h *PreferencesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req preferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Language == "" || req.Region == "" {
		writeError(w, http.StatusBadRequest, "language and region are required")
		return
	}

	prefs := &models.Preferences{
		Language:     req.Language,
		Region:       req.Region,
		IncludeAdult: req.IncludeAdult,
	}
	if err := h.db.SavePreferences(prefs); err != nil {
		h.logger.WithError(err).Error("Failed to save preferences")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"language": prefs.Language,
		"region":   prefs.Region,
	}).Info("Preferences updated")

	writeJSON(w, http.StatusOK, prefs)
}

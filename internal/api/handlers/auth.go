package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"mediadex/internal/models"
	"mediadex/internal/users"

	"github.com/sirupsen/logrus"
)

// Avatar uploads are small images; anything larger is rejected
const maxAvatarSize = 5 * 1024 * 1024

// AuthHandler handles account endpoints
type AuthHandler struct {
	users  *users.Service
	logger *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(usersSvc *users.Service, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		users:  usersSvc,
		logger: logger,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username,omitempty"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" || req.Username == "" {
		writeError(w, http.StatusBadRequest, "email, password and username are required")
		return
	}

	profile, err := h.users.Register(r.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		h.logger.WithError(err).Error("Registration failed")
		writeError(w, http.StatusBadGateway, "registration failed")
		return
	}

	writeJSON(w, http.StatusCreated, profile)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.users.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.WithError(err).Warn("Sign-in failed")
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"user_id": session.UserID,
	})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.users.SignOut(r.Context()); err != nil {
		h.logger.WithError(err).Error("Sign-out failed")
		writeError(w, http.StatusBadGateway, "sign-out failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := h.users.Current(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to resolve current user")
		writeError(w, http.StatusBadGateway, "failed to resolve user")
		return
	}
	if profile == nil {
		writeError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// Avatar handles POST /api/avatar with a multipart image upload
func (h *AuthHandler) Avatar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxAvatarSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	avatarURL, err := h.users.UploadAvatar(r.Context(), header.Filename, content)
	if err != nil {
		if errors.Is(err, models.ErrAuthRequired) {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		h.logger.WithError(err).Error("Avatar upload failed")
		writeError(w, http.StatusBadGateway, "avatar upload failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"avatar": avatarURL})
}

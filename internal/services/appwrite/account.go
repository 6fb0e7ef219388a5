package appwrite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"mediadex/internal/models"

	"github.com/google/uuid"
)

// SessionStore defines the interface for persisting the active session
type SessionStore interface {
	GetSession() (*Session, error)
	SaveSession(session *Session) error
	ClearSession() error
}

// Session represents an authenticated backend session
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Secret    string    `json:"secret"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FileSessionStore implements SessionStore using a JSON file
type FileSessionStore struct {
	filepath string
}

// NewFileSessionStore creates a new file-based session store
func NewFileSessionStore(filepath string) (*FileSessionStore, error) {
	return &FileSessionStore{filepath: filepath}, nil
}

// GetSession retrieves the session from the file
func (s *FileSessionStore) GetSession() (*Session, error) {
	data, err := os.ReadFile(s.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.ErrSessionNotFound
		}
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}

	return &session, nil
}

// SaveSession saves the session to the file
func (s *FileSessionStore) SaveSession(session *Session) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.filepath, data, 0600)
}

// ClearSession removes the persisted session
func (s *FileSessionStore) ClearSession() error {
	err := os.Remove(s.filepath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Account is the backend account identity
type Account struct {
	ID    string `json:"$id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type sessionResponse struct {
	ID     string `json:"$id"`
	UserID string `json:"userId"`
	Secret string `json:"secret"`
	Expire string `json:"expire"`
}

// CreateAccount registers a new account with the backend
func (c *Client) CreateAccount(ctx context.Context, email, password, name string) (*Account, error) {
	body := map[string]string{
		"userId":   uuid.NewString(),
		"email":    email,
		"password": password,
		"name":     name,
	}

	var account Account
	if err := c.doRequest(ctx, "POST", "/account", body, &account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return &account, nil
}

// CreateEmailSession signs in with email and password and persists the
// resulting session. If the backend reports an already-active session, the
// current one is fetched and reused instead of failing.
func (c *Client) CreateEmailSession(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var resp sessionResponse
	err := c.doRequest(ctx, "POST", "/account/sessions/email", body, &resp)
	if err != nil {
		var se *models.StatusError
		if errors.As(err, &se) && se.StatusCode == 401 && strings.Contains(se.Body, "active") {
			c.logger.Debug("Session already active, fetching current session")
			return c.CurrentSession(ctx)
		}
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	session := sessionFromResponse(resp)
	if err := c.sessionStore.SaveSession(session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// CurrentSession fetches the backend's current session
func (c *Client) CurrentSession(ctx context.Context) (*Session, error) {
	var resp sessionResponse
	if err := c.doRequest(ctx, "GET", "/account/sessions/current", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get current session: %w", err)
	}

	session := sessionFromResponse(resp)
	// The secret is only returned at creation time; keep the stored one
	if session.Secret == "" {
		if stored, err := c.sessionStore.GetSession(); err == nil && stored != nil {
			session.Secret = stored.Secret
		}
	}

	if err := c.sessionStore.SaveSession(session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// CurrentAccount returns the authenticated account identity, or
// ErrAuthRequired when no session is active
func (c *Client) CurrentAccount(ctx context.Context) (*Account, error) {
	if _, err := c.sessionStore.GetSession(); err != nil {
		return nil, models.ErrAuthRequired
	}

	var account Account
	if err := c.doRequest(ctx, "GET", "/account", nil, &account); err != nil {
		var se *models.StatusError
		if errors.As(err, &se) && se.StatusCode == 401 {
			return nil, models.ErrAuthRequired
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &account, nil
}

// DeleteSession signs out by deleting the current session and clearing the
// persisted one
func (c *Client) DeleteSession(ctx context.Context) error {
	if err := c.doRequest(ctx, "DELETE", "/account/sessions/current", nil, nil); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if err := c.sessionStore.ClearSession(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	return nil
}

func sessionFromResponse(resp sessionResponse) *Session {
	session := &Session{
		ID:     resp.ID,
		UserID: resp.UserID,
		Secret: resp.Secret,
	}
	if t, err := time.Parse(time.RFC3339, resp.Expire); err == nil {
		session.ExpiresAt = t
	}
	return session
}

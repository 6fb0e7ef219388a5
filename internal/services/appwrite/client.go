package appwrite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mediadex/internal/config"
	"mediadex/internal/models"

	"github.com/sirupsen/logrus"
)

// Client handles communication with the Appwrite-compatible backend that
// stores accounts, documents and files
type Client struct {
	endpoint     string
	projectID    string
	databaseID   string
	sessionStore SessionStore
	httpClient   *http.Client
	logger       *logrus.Logger
}

// NewClient creates a new document store client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.AppwriteEndpoint == "" {
		return nil, fmt.Errorf("appwrite endpoint is required")
	}
	if cfg.AppwriteProjectID == "" {
		return nil, fmt.Errorf("appwrite project ID is required")
	}

	sessionStore, err := NewFileSessionStore(cfg.SessionFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}

	return &Client{
		endpoint:     strings.TrimRight(cfg.AppwriteEndpoint, "/"),
		projectID:    cfg.AppwriteProjectID,
		databaseID:   cfg.AppwriteDatabaseID,
		sessionStore: sessionStore,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		logger:       logger,
	}, nil
}

// Endpoint returns the backend base URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// ProjectID returns the backend project identifier
func (c *Client) ProjectID() string {
	return c.projectID
}

// doRequest performs an authenticated HTTP request against the backend
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	fullURL := c.endpoint + path
	c.logger.WithFields(logrus.Fields{
		"method": method,
		"url":    fullURL,
	}).Debug("Making backend request")

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Appwrite-Project", c.projectID)

	// Attach the persisted session if we have one
	session, err := c.sessionStore.GetSession()
	if err == nil && session != nil {
		req.Header.Set("X-Appwrite-Session", session.Secret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return &models.StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(bodyBytes),
		}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

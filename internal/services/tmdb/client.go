package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"mediadex/internal/config"
	"mediadex/internal/models"

	"github.com/sirupsen/logrus"
)

const imageBaseURL = "https://image.tmdb.org/t/p"

// Poster size served to cards; "original" is wasteful for list rendering
const posterSize = "w500"

// Client wraps direct TMDB API HTTP calls
type Client struct {
	baseURL      string
	apiKey       string
	language     string
	region       string
	includeAdult bool
	httpClient   *http.Client
	logger       *logrus.Logger
}

// NewClient creates a new TMDB client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB API key is required")
	}

	return &Client{
		baseURL:      cfg.TMDBBaseURL,
		apiKey:       cfg.TMDBAPIKey,
		language:     cfg.Language,
		region:       cfg.Region,
		includeAdult: cfg.IncludeAdult,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		logger:       logger,
	}, nil
}

// doGET performs an authenticated GET against the TMDB API and decodes the
// JSON response into result
func (c *Client) doGET(ctx context.Context, path string, params url.Values, result interface{}) error {
	apiURL, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("invalid TMDB URL: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	if params.Get("language") == "" {
		params.Set("language", c.language)
	}
	apiURL.RawQuery = params.Encode()

	finalURL := apiURL.String()
	c.logger.WithField("url", finalURL).Debug("Performing TMDB request")

	req, err := http.NewRequestWithContext(ctx, "GET", finalURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("TMDB request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"path":        path,
		}).Error("TMDB returned non-OK status")
		return &models.StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode TMDB response: %w", err)
	}

	return nil
}

// apiPath maps a media kind to its TMDB path segment
func apiPath(kind models.MediaKind) string {
	if kind == models.KindTV {
		return "tv"
	}
	return "movie"
}

// ImageURL builds the full poster/profile image URL for a TMDB image path.
// Returns an empty string for an empty path.
func ImageURL(imagePath string) string {
	if imagePath == "" {
		return ""
	}
	return imageBaseURL + "/" + posterSize + imagePath
}

func (c *Client) adultParam() string {
	return strconv.FormatBool(c.includeAdult)
}

// resultsPage is the common list envelope returned by TMDB list endpoints
type resultsPage struct {
	Page         int                   `json:"page"`
	Results      []models.MediaSummary `json:"results"`
	TotalPages   int                   `json:"total_pages"`
	TotalResults int64                 `json:"total_results"`
}

// tagResults stamps the kind on results from endpoints where the kind is
// implied by the URL rather than carried in the payload
func tagResults(results []models.MediaSummary, kind models.MediaKind) []models.MediaSummary {
	for i := range results {
		if results[i].Kind == "" {
			results[i].Kind = kind
		}
	}
	return results
}

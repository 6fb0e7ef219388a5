// Package trending maintains the search-popularity counters behind the
// "trending searches" list.
package trending

import (
	"context"
	"fmt"

	"mediadex/internal/models"
	"mediadex/internal/services/appwrite"
	"mediadex/internal/services/tmdb"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultTopLimit caps the trending searches list
const DefaultTopLimit = 5

// Service records search popularity and serves the top-searches list
type Service struct {
	client     *appwrite.Client
	collection string
	logger     *logrus.Logger
}

// NewService creates a new telemetry service
func NewService(client *appwrite.Client, collectionID string, logger *logrus.Logger) *Service {
	return &Service{
		client:     client,
		collection: collectionID,
		logger:     logger,
	}
}

// RecordSearch increments the popularity counter for a search term, seeding
// a new row from the top-ranked result when the term has not been seen
// before. Best effort: failures are logged, never surfaced, so a telemetry
// outage cannot disturb the search flow.
func (s *Service) RecordSearch(ctx context.Context, term string, topResult models.MediaSummary) {
	if err := s.recordSearch(ctx, term, topResult); err != nil {
		s.logger.WithError(err).WithField("term", term).Warn("Failed to record search")
	}
}

func (s *Service) recordSearch(ctx context.Context, term string, topResult models.MediaSummary) error {
	list, err := s.client.ListDocuments(ctx, s.collection, []string{
		appwrite.Queries.Equal("searchTerm", term),
	})
	if err != nil {
		return fmt.Errorf("failed to look up search counter: %w", err)
	}

	if len(list.Documents) > 0 {
		entries, err := appwrite.DecodeDocuments[models.TrendingCounterEntry](list)
		if err != nil {
			return fmt.Errorf("failed to decode search counter: %w", err)
		}

		existing := entries[0]
		data := map[string]interface{}{
			"count": existing.Count + 1,
		}
		if err := s.client.UpdateDocument(ctx, s.collection, existing.DocumentID, data, nil); err != nil {
			return fmt.Errorf("failed to increment search counter: %w", err)
		}

		s.logger.WithFields(logrus.Fields{
			"term":  term,
			"count": existing.Count + 1,
		}).Debug("Incremented search counter")
		return nil
	}

	data := map[string]interface{}{
		"searchTerm": term,
		"movie_id":   topResult.ID,
		"title":      topResult.DisplayName(),
		"count":      1,
		"poster_url": tmdb.ImageURL(topResult.PosterPath),
	}
	if err := s.client.CreateDocument(ctx, s.collection, uuid.NewString(), data, nil); err != nil {
		return fmt.Errorf("failed to create search counter: %w", err)
	}

	s.logger.WithField("term", term).Debug("Created search counter")
	return nil
}

// TopSearches returns counter rows ordered by count descending, capped at
// limit (DefaultTopLimit when limit is not positive)
func (s *Service) TopSearches(ctx context.Context, limit int) ([]models.TrendingCounterEntry, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	list, err := s.client.ListDocuments(ctx, s.collection, []string{
		appwrite.Queries.Limit(limit),
		appwrite.Queries.OrderDesc("count"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list top searches: %w", err)
	}

	return appwrite.DecodeDocuments[models.TrendingCounterEntry](list)
}

// Package watchlist keeps the "is this media item saved by this user" fact
// synchronized between local state and the remote document store, with a
// best-effort local cache as the read fallback.
package watchlist

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"mediadex/internal/models"
	"mediadex/internal/services/appwrite"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Service mediates watchlist reads and mutations against the remote
// document store
type Service struct {
	client     *appwrite.Client
	db         *models.Database
	collection string
	logger     *logrus.Logger

	// In-flight add guard keyed by userID+mediaID, so a double-tap cannot
	// create duplicate documents
	mu       sync.Mutex
	inflight map[string]*pendingAdd
}

type pendingAdd struct {
	done  chan struct{}
	entry *models.WatchlistEntry
	err   error
}

// NewService creates a new watchlist service
func NewService(client *appwrite.Client, db *models.Database, collectionID string, logger *logrus.Logger) *Service {
	return &Service{
		client:     client,
		db:         db,
		collection: collectionID,
		logger:     logger,
		inflight:   make(map[string]*pendingAdd),
	}
}

// CheckIsSaved looks up the watchlist document for a user/media pair.
// Returns nil when no document matches, when the user is not
// authenticated, or when the lookup fails; a failed lookup must not break
// card rendering, so it is logged and treated as "not saved".
func (s *Service) CheckIsSaved(ctx context.Context, userID string, mediaID int64) *models.WatchlistEntry {
	if userID == "" {
		return nil
	}

	list, err := s.client.ListDocuments(ctx, s.collection, []string{
		appwrite.Queries.Equal("userId", userID),
		appwrite.Queries.Equal("mediaId", strconv.FormatInt(mediaID, 10)),
	})
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":  userID,
			"media_id": mediaID,
		}).Warn("Failed to check saved state")
		return nil
	}

	if list.Total == 0 || len(list.Documents) == 0 {
		return nil
	}

	entries, err := appwrite.DecodeDocuments[models.WatchlistEntry](list)
	if err != nil || len(entries) == 0 {
		s.logger.WithError(err).Warn("Failed to decode watchlist document")
		return nil
	}

	return &entries[0]
}

// Add resolves the authenticated identity, maps the media item into a
// watchlist entry and creates the remote document. Returns the created
// entry including its store-assigned identifier so the caller can remember
// it for deletion. Fails with ErrAuthRequired when nobody is signed in.
func (s *Service) Add(ctx context.Context, item models.MediaSummary) (*models.WatchlistEntry, error) {
	account, err := s.client.CurrentAccount(ctx)
	if err != nil {
		return nil, models.ErrAuthRequired
	}

	key := account.ID + ":" + strconv.FormatInt(item.ID, 10)

	s.mu.Lock()
	if p, ok := s.inflight[key]; ok {
		// Another add for the same pair is already running; wait for it
		// instead of creating a second document
		s.mu.Unlock()
		<-p.done
		return p.entry, p.err
	}
	p := &pendingAdd{done: make(chan struct{})}
	s.inflight[key] = p
	s.mu.Unlock()

	p.entry, p.err = s.createEntry(ctx, account.ID, item)

	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()
	close(p.done)

	return p.entry, p.err
}

func (s *Service) createEntry(ctx context.Context, userID string, item models.MediaSummary) (*models.WatchlistEntry, error) {
	if item.Kind != models.KindMovie && item.Kind != models.KindTV {
		return nil, fmt.Errorf("cannot save media of kind %q", item.Kind)
	}

	data := map[string]interface{}{
		"userId":       userID,
		"mediaId":      strconv.FormatInt(item.ID, 10),
		"mediaType":    string(item.Kind),
		"title":        item.DisplayName(),
		"poster_path":  item.PosterPath,
		"vote_average": item.RoundedVote(),
		"release_date": item.ReleaseOrAirDate(),
	}

	var entry models.WatchlistEntry
	if err := s.client.CreateDocument(ctx, s.collection, uuid.NewString(), data, &entry); err != nil {
		return nil, fmt.Errorf("failed to add to watchlist: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":     userID,
		"media_id":    item.ID,
		"document_id": entry.DocumentID,
	}).Info("Added to watchlist")

	return &entry, nil
}

// Remove deletes a watchlist document by its store-assigned identifier
func (s *Service) Remove(ctx context.Context, documentID string) error {
	if err := s.client.DeleteDocument(ctx, s.collection, documentID); err != nil {
		return fmt.Errorf("failed to remove from watchlist: %w", err)
	}

	s.logger.WithField("document_id", documentID).Info("Removed from watchlist")
	return nil
}

// List returns all watchlist entries for a user. On success the local
// cache snapshot is refreshed before returning; on failure the most recent
// snapshot is returned instead, or an empty list when none exists. List
// never returns an error to its caller, only degraded data.
func (s *Service) List(ctx context.Context, userID string) []models.WatchlistEntry {
	list, err := s.client.ListDocuments(ctx, s.collection, []string{
		appwrite.Queries.Equal("userId", userID),
	})
	if err == nil {
		entries, decodeErr := appwrite.DecodeDocuments[models.WatchlistEntry](list)
		if decodeErr == nil {
			if cacheErr := s.db.SaveWatchlistSnapshot(userID, entries); cacheErr != nil {
				s.logger.WithError(cacheErr).Warn("Failed to cache watchlist snapshot")
			}
			return entries
		}
		err = decodeErr
	}

	s.logger.WithError(err).WithField("user_id", userID).Warn("Failed to fetch watchlist, trying cache")

	snapshot, cacheErr := s.db.GetWatchlistSnapshot(userID)
	if cacheErr != nil {
		s.logger.WithField("user_id", userID).Debug("No cached watchlist snapshot")
		return []models.WatchlistEntry{}
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"count":   len(snapshot.Entries),
		"age":     snapshot.UpdatedAt,
	}).Info("Serving watchlist from offline cache")

	return snapshot.Entries
}

// Toggle flips the saved state for a media item with one user action. The
// local state only changes after the remote call succeeds; on failure the
// prior state is returned along with the error.
func (s *Service) Toggle(ctx context.Context, state models.SavedState, item models.MediaSummary) (models.SavedState, error) {
	if state.IsSaved {
		if err := s.Remove(ctx, state.SavedDocID); err != nil {
			return state, err
		}
		return models.SavedState{}, nil
	}

	entry, err := s.Add(ctx, item)
	if err != nil {
		return state, err
	}

	return models.SavedState{IsSaved: true, SavedDocID: entry.DocumentID}, nil
}

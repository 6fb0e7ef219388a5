package scheduler

import (
	"context"
	"fmt"
	"time"

	"mediadex/internal/models"
	"mediadex/internal/services/tmdb"
	"mediadex/internal/trending"

	gocache "github.com/patrickmn/go-cache"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Cache keys for the refreshed snapshots
const (
	TrendingTitlesKey = "trending_titles"
	TopSearchesKey    = "top_searches"
)

// snapshotTTL outlives the refresh interval so a single failed refresh does
// not blank the homepage
const snapshotTTL = 1 * time.Hour

// Snapshot age after which a user's cached watchlist is considered stale
const snapshotMaxAge = 30 * 24 * time.Hour

// Scheduler manages the background jobs: trending snapshot refresh and
// stale watchlist cache pruning
type Scheduler struct {
	cron        *cron.Cron
	tmdbClient  *tmdb.Client
	trendingSvc *trending.Service
	db          *models.Database
	cache       *gocache.Cache
	logger      *logrus.Logger
}

// NewScheduler creates a new scheduler writing snapshots into cache
func NewScheduler(
	tmdbClient *tmdb.Client,
	trendingSvc *trending.Service,
	db *models.Database,
	cache *gocache.Cache,
	logger *logrus.Logger,
) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		tmdbClient:  tmdbClient,
		trendingSvc: trendingSvc,
		db:          db,
		cache:       cache,
		logger:      logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	// Every 15 minutes: refresh the trending snapshots
	_, err := s.cron.AddFunc("*/15 * * * *", func() {
		s.runTrendingRefresh()
	})
	if err != nil {
		return fmt.Errorf("failed to add trending refresh job: %w", err)
	}

	// Daily: prune watchlist cache snapshots nobody has refreshed in a month
	_, err = s.cron.AddFunc("0 4 * * *", func() {
		s.runSnapshotPrune()
	})
	if err != nil {
		return fmt.Errorf("failed to add snapshot prune job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")

	// Warm the trending snapshots immediately
	go s.runTrendingRefresh()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// runTrendingRefresh refreshes both trending snapshots. Failures are
// logged and the previous snapshot stays served until it expires.
func (s *Scheduler) runTrendingRefresh() {
	s.logger.Debug("Running trending refresh")
	ctx := context.Background()

	titles, err := s.tmdbClient.Trending(ctx, "", models.WindowDay)
	if err != nil {
		s.logger.WithError(err).Error("Failed to refresh trending titles")
	} else {
		s.cache.Set(TrendingTitlesKey, titles, snapshotTTL)
		s.logger.WithField("count", len(titles)).Debug("Trending titles refreshed")
	}

	searches, err := s.trendingSvc.TopSearches(ctx, trending.DefaultTopLimit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to refresh top searches")
	} else {
		s.cache.Set(TopSearchesKey, searches, snapshotTTL)
		s.logger.WithField("count", len(searches)).Debug("Top searches refreshed")
	}
}

// runSnapshotPrune removes stale watchlist cache snapshots
func (s *Scheduler) runSnapshotPrune() {
	cutoff := time.Now().Add(-snapshotMaxAge)

	pruned, err := s.db.PruneWatchlistSnapshots(cutoff)
	if err != nil {
		s.logger.WithError(err).Error("Snapshot prune failed")
		return
	}

	if pruned > 0 {
		s.logger.WithField("count", pruned).Info("Pruned stale watchlist snapshots")
	}
}

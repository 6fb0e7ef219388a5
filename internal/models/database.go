package models

import (
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// Database wraps the bolthold store holding device-local state: watchlist
// snapshots and browsing preferences
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// Watchlist snapshot operations

func snapshotKey(userID string) string {
	return "watchlist_" + userID
}

// SaveWatchlistSnapshot writes a full snapshot of a user's watchlist,
// replacing any previous one. Called only after a successful remote list.
func (db *Database) SaveWatchlistSnapshot(userID string, entries []WatchlistEntry) error {
	snapshot := &WatchlistSnapshot{
		Key:       snapshotKey(userID),
		UserID:    userID,
		Entries:   entries,
		UpdatedAt: time.Now(),
	}
	return db.store.Upsert(snapshot.Key, snapshot)
}

// GetWatchlistSnapshot retrieves the most recent cached snapshot for a
// user. Returns bolthold.ErrNotFound when no snapshot exists.
func (db *Database) GetWatchlistSnapshot(userID string) (*WatchlistSnapshot, error) {
	var snapshot WatchlistSnapshot
	if err := db.store.Get(snapshotKey(userID), &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// DeleteWatchlistSnapshot removes a user's cached snapshot
func (db *Database) DeleteWatchlistSnapshot(userID string) error {
	return db.store.Delete(snapshotKey(userID), &WatchlistSnapshot{})
}

// PruneWatchlistSnapshots deletes snapshots that have not been refreshed
// since the cutoff. Returns the number of snapshots removed.
func (db *Database) PruneWatchlistSnapshots(olderThan time.Time) (int, error) {
	var snapshots []*WatchlistSnapshot
	err := db.store.Find(&snapshots, bolthold.Where("UpdatedAt").Lt(olderThan))
	if err != nil {
		return 0, err
	}

	pruned := 0
	for _, snapshot := range snapshots {
		if err := db.store.Delete(snapshot.Key, &WatchlistSnapshot{}); err != nil {
			return pruned, err
		}
		pruned++
	}

	return pruned, nil
}

// CountWatchlistSnapshots returns the number of cached snapshots
func (db *Database) CountWatchlistSnapshots() (int, error) {
	var snapshots []*WatchlistSnapshot
	if err := db.store.Find(&snapshots, nil); err != nil {
		return 0, err
	}
	return len(snapshots), nil
}

// Preferences operations

const preferencesID uint64 = 1

// GetPreferences retrieves the stored browsing preferences, or defaults
// when none have been saved yet
func (db *Database) GetPreferences() (*Preferences, error) {
	var prefs Preferences
	err := db.store.Get(preferencesID, &prefs)
	if err == bolthold.ErrNotFound {
		return &Preferences{
			ID:           preferencesID,
			Language:     "en-US",
			Region:       "US",
			IncludeAdult: false,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

// SavePreferences stores the browsing preferences
func (db *Database) SavePreferences(prefs *Preferences) error {
	prefs.ID = preferencesID
	prefs.UpdatedAt = time.Now()
	return db.store.Upsert(prefs.ID, prefs)
}

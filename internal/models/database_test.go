package models

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/timshannon/bolthold"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestWatchlistSnapshotRoundTrip(t *testing.T) {
	db := newTestDatabase(t)

	entries := []WatchlistEntry{
		{DocumentID: "doc_1", UserID: "user_1", MediaID: "155", MediaType: KindMovie, Title: "The Dark Knight", VoteAverage: 9},
		{DocumentID: "doc_2", UserID: "user_1", MediaID: "60059", MediaType: KindTV, Title: "Better Call Saul", VoteAverage: 9},
	}

	if err := db.SaveWatchlistSnapshot("user_1", entries); err != nil {
		t.Fatalf("SaveWatchlistSnapshot failed: %v", err)
	}

	snapshot, err := db.GetWatchlistSnapshot("user_1")
	if err != nil {
		t.Fatalf("GetWatchlistSnapshot failed: %v", err)
	}
	if snapshot.UserID != "user_1" {
		t.Errorf("User mismatch: %q", snapshot.UserID)
	}
	if len(snapshot.Entries) != 2 || snapshot.Entries[0].Title != "The Dark Knight" {
		t.Errorf("Entries mismatch: %+v", snapshot.Entries)
	}
	if snapshot.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be stamped")
	}

	// Saving again replaces the snapshot rather than appending
	if err := db.SaveWatchlistSnapshot("user_1", entries[:1]); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}
	snapshot, err = db.GetWatchlistSnapshot("user_1")
	if err != nil {
		t.Fatalf("GetWatchlistSnapshot failed: %v", err)
	}
	if len(snapshot.Entries) != 1 {
		t.Errorf("Expected replaced snapshot with 1 entry, got %d", len(snapshot.Entries))
	}
}

func TestGetWatchlistSnapshotMissing(t *testing.T) {
	db := newTestDatabase(t)

	if _, err := db.GetWatchlistSnapshot("nobody"); err != bolthold.ErrNotFound {
		t.Fatalf("Expected bolthold.ErrNotFound, got %v", err)
	}
}

func TestDeleteWatchlistSnapshot(t *testing.T) {
	db := newTestDatabase(t)

	if err := db.SaveWatchlistSnapshot("user_1", nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := db.DeleteWatchlistSnapshot("user_1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := db.GetWatchlistSnapshot("user_1"); err != bolthold.ErrNotFound {
		t.Errorf("Expected snapshot to be gone, got %v", err)
	}
}

func TestPruneWatchlistSnapshots(t *testing.T) {
	db := newTestDatabase(t)

	if err := db.SaveWatchlistSnapshot("user_1", nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := db.SaveWatchlistSnapshot("user_2", nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	count, err := db.CountWatchlistSnapshots()
	if err != nil || count != 2 {
		t.Fatalf("Expected 2 snapshots, got %d (err=%v)", count, err)
	}

	// Both snapshots are fresh; a cutoff in the past prunes nothing
	pruned, err := db.PruneWatchlistSnapshots(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if pruned != 0 {
		t.Errorf("Expected 0 pruned, got %d", pruned)
	}

	// A future cutoff prunes everything
	pruned, err = db.PruneWatchlistSnapshots(time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if pruned != 2 {
		t.Errorf("Expected 2 pruned, got %d", pruned)
	}

	count, err = db.CountWatchlistSnapshots()
	if err != nil || count != 0 {
		t.Errorf("Expected empty store, got %d (err=%v)", count, err)
	}
}

func TestPreferencesDefaults(t *testing.T) {
	db := newTestDatabase(t)

	prefs, err := db.GetPreferences()
	if err != nil {
		t.Fatalf("GetPreferences failed: %v", err)
	}
	if prefs.Language != "en-US" || prefs.Region != "US" || prefs.IncludeAdult {
		t.Errorf("Unexpected defaults: %+v", prefs)
	}

	prefs.Language = "fr-FR"
	prefs.Region = "FR"
	if err := db.SavePreferences(prefs); err != nil {
		t.Fatalf("SavePreferences failed: %v", err)
	}

	stored, err := db.GetPreferences()
	if err != nil {
		t.Fatalf("GetPreferences failed: %v", err)
	}
	if stored.Language != "fr-FR" || stored.Region != "FR" {
		t.Errorf("Stored preferences mismatch: %+v", stored)
	}
}

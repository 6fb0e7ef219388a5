package models

import "time"

// WatchlistEntry is a user's saved reference to a movie or TV show, stored
// in the remote document store. DocumentID is the store-assigned identifier;
// the pair (UserID, MediaID) is the logical key.
type WatchlistEntry struct {
	DocumentID  string    `json:"$id"`
	UserID      string    `json:"userId"`
	MediaID     string    `json:"mediaId"`
	MediaType   MediaKind `json:"mediaType"`
	Title       string    `json:"title"`
	PosterPath  string    `json:"poster_path"`
	VoteAverage int       `json:"vote_average"`
	ReleaseDate string    `json:"release_date"`
}

// SavedState is the per-card saved/unsaved fact a screen keeps in sync with
// the remote store
type SavedState struct {
	IsSaved    bool   `json:"isSaved"`
	SavedDocID string `json:"savedDocId"`
}

// TrendingCounterEntry is one search-popularity counter row, keyed by the
// exact search term
type TrendingCounterEntry struct {
	DocumentID string `json:"$id"`
	SearchTerm string `json:"searchTerm"`
	MovieID    int64  `json:"movie_id"`
	Title      string `json:"title"`
	Count      int64  `json:"count"`
	PosterURL  string `json:"poster_url"`
}

// WatchlistSnapshot is the locally cached copy of a user's watchlist, used
// as the read fallback when the remote store is unreachable
type WatchlistSnapshot struct {
	Key       string `boltholdKey:"Key"` // "watchlist_{userId}"
	UserID    string `boltholdIndex:"UserID"`
	Entries   []WatchlistEntry
	UpdatedAt time.Time
}

// Preferences is the device-local browsing configuration
type Preferences struct {
	ID           uint64    `boltholdKey:"ID" json:"-"`
	Language     string    `json:"language"`
	Region       string    `json:"region"`
	IncludeAdult bool      `json:"include_adult"`
	UpdatedAt    time.Time `json:"updated_at"`
}

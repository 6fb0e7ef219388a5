package models

import "math"

// MediaSummary is a tagged variant covering the three shapes the metadata
// collaborator returns from list endpoints: movies, TV shows and people.
// Kind decides which fields are meaningful; consumers must switch on it
// rather than probe optional fields.
type MediaSummary struct {
	Kind MediaKind `json:"media_type"`
	ID   int64     `json:"id"`

	// Movie fields
	Title       string `json:"title,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`

	// TV fields
	Name         string `json:"name,omitempty"`
	FirstAirDate string `json:"first_air_date,omitempty"`

	// Shared movie/TV fields
	Overview     string  `json:"overview,omitempty"`
	PosterPath   string  `json:"poster_path,omitempty"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	VoteAverage  float64 `json:"vote_average,omitempty"`
	VoteCount    int64   `json:"vote_count,omitempty"`
	Popularity   float64 `json:"popularity,omitempty"`
	GenreIDs     []int64 `json:"genre_ids,omitempty"`

	// Person fields
	ProfilePath        string `json:"profile_path,omitempty"`
	KnownForDepartment string `json:"known_for_department,omitempty"`
}

// DisplayName returns the human-readable name for any variant
func (m MediaSummary) DisplayName() string {
	switch m.Kind {
	case KindMovie:
		return m.Title
	case KindTV, KindPerson:
		return m.Name
	default:
		if m.Title != "" {
			return m.Title
		}
		return m.Name
	}
}

// ReleaseOrAirDate returns the release date for movies and the first air
// date for TV shows. People have no date and yield an empty string.
func (m MediaSummary) ReleaseOrAirDate() string {
	switch m.Kind {
	case KindMovie:
		return m.ReleaseDate
	case KindTV:
		return m.FirstAirDate
	case KindPerson:
		return ""
	default:
		return ""
	}
}

// RoundedVote returns the vote average rounded to the nearest integer,
// the form the watchlist stores it in
func (m MediaSummary) RoundedVote() int {
	return int(math.Round(m.VoteAverage))
}

// Genre is a genre reference from the metadata collaborator
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CastMember is a single cast credit
type CastMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

// Credits holds the cast list for a movie or TV show
type Credits struct {
	Cast []CastMember `json:"cast"`
}

// Review is a single user review for a movie or TV show
type Review struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	URL       string `json:"url"`
}

// Video is a trailer/teaser/clip reference
type Video struct {
	Key  string `json:"key"`
	Site string `json:"site"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// WatchProviderGroup holds the streaming/purchase options for one region
type WatchProviderGroup struct {
	Link     string          `json:"link"`
	Flatrate []WatchProvider `json:"flatrate,omitempty"`
	Buy      []WatchProvider `json:"buy,omitempty"`
}

// WatchProvider is a single provider entry
type WatchProvider struct {
	ProviderID   int64  `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}

// MediaDetails is the full record for a movie or TV show
type MediaDetails struct {
	Kind MediaKind `json:"media_type"`
	ID   int64     `json:"id"`

	Title        string `json:"title,omitempty"`
	ReleaseDate  string `json:"release_date,omitempty"`
	Runtime      int    `json:"runtime,omitempty"`
	Name         string `json:"name,omitempty"`
	FirstAirDate string `json:"first_air_date,omitempty"`
	NumSeasons   int    `json:"number_of_seasons,omitempty"`
	NumEpisodes  int    `json:"number_of_episodes,omitempty"`

	Overview     string  `json:"overview"`
	Tagline      string  `json:"tagline"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int64   `json:"vote_count"`
	Genres       []Genre `json:"genres"`
	Status       string  `json:"status"`
}

// PersonDetails is the full record for a person
type PersonDetails struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Biography    string `json:"biography"`
	Birthday     string `json:"birthday"`
	Deathday     string `json:"deathday"`
	PlaceOfBirth string `json:"place_of_birth"`
	ProfilePath  string `json:"profile_path"`
	KnownFor     string `json:"known_for_department"`
}

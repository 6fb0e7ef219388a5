package tmdb

import (
	"context"
	"fmt"
	"strconv"

	"mediadex/internal/models"
)

func mediaPath(kind models.MediaKind, id int64, suffix string) string {
	p := "/" + apiPath(kind) + "/" + strconv.FormatInt(id, 10)
	if suffix != "" {
		p += "/" + suffix
	}
	return p
}

// Details fetches the full record for a movie or TV show
func (c *Client) Details(ctx context.Context, kind models.MediaKind, id int64) (*models.MediaDetails, error) {
	if kind != models.KindMovie && kind != models.KindTV {
		return nil, fmt.Errorf("unsupported details kind: %s", kind)
	}

	var details models.MediaDetails
	if err := c.doGET(ctx, mediaPath(kind, id, ""), nil, &details); err != nil {
		return nil, fmt.Errorf("failed to fetch %s details: %w", kind, err)
	}

	details.Kind = kind
	return &details, nil
}

// Credits fetches the cast for a movie or TV show
func (c *Client) Credits(ctx context.Context, kind models.MediaKind, id int64) (*models.Credits, error) {
	var credits models.Credits
	if err := c.doGET(ctx, mediaPath(kind, id, "credits"), nil, &credits); err != nil {
		return nil, fmt.Errorf("failed to fetch credits: %w", err)
	}

	return &credits, nil
}

// Videos fetches the trailer/teaser list for a movie or TV show
func (c *Client) Videos(ctx context.Context, kind models.MediaKind, id int64) ([]models.Video, error) {
	var payload struct {
		Results []models.Video `json:"results"`
	}
	if err := c.doGET(ctx, mediaPath(kind, id, "videos"), nil, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch videos: %w", err)
	}

	return payload.Results, nil
}

// WatchProviders fetches the per-region streaming/purchase options for a
// movie or TV show
func (c *Client) WatchProviders(ctx context.Context, kind models.MediaKind, id int64) (map[string]models.WatchProviderGroup, error) {
	var payload struct {
		Results map[string]models.WatchProviderGroup `json:"results"`
	}
	if err := c.doGET(ctx, mediaPath(kind, id, "watch/providers"), nil, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch watch providers: %w", err)
	}

	return payload.Results, nil
}

// RegionProviders narrows the provider map to the configured region
func (c *Client) RegionProviders(providers map[string]models.WatchProviderGroup) (models.WatchProviderGroup, bool) {
	group, ok := providers[c.region]
	return group, ok
}

// Reviews fetches user reviews for a movie or TV show
func (c *Client) Reviews(ctx context.Context, kind models.MediaKind, id int64) ([]models.Review, error) {
	var payload struct {
		Results []models.Review `json:"results"`
	}
	if err := c.doGET(ctx, mediaPath(kind, id, "reviews"), nil, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch reviews: %w", err)
	}

	return payload.Results, nil
}

// Recommendations fetches recommended titles for a movie or TV show
func (c *Client) Recommendations(ctx context.Context, kind models.MediaKind, id int64) ([]models.MediaSummary, error) {
	var page resultsPage
	if err := c.doGET(ctx, mediaPath(kind, id, "recommendations"), nil, &page); err != nil {
		return nil, fmt.Errorf("failed to fetch recommendations: %w", err)
	}

	return tagResults(page.Results, kind), nil
}

// Genres fetches the genre list for movies or TV shows
func (c *Client) Genres(ctx context.Context, kind models.MediaKind) ([]models.Genre, error) {
	if kind != models.KindMovie && kind != models.KindTV {
		return nil, fmt.Errorf("unsupported genres kind: %s", kind)
	}

	var payload struct {
		Genres []models.Genre `json:"genres"`
	}
	if err := c.doGET(ctx, "/genre/"+apiPath(kind)+"/list", nil, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch genres: %w", err)
	}

	return payload.Genres, nil
}

package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"mediadex/internal/models"
)

// Search searches movies or TV shows by query. Kind must be KindMovie or
// KindTV; people come back through MultiSearch.
func (c *Client) Search(ctx context.Context, kind models.MediaKind, query string) ([]models.MediaSummary, error) {
	if kind != models.KindMovie && kind != models.KindTV {
		return nil, fmt.Errorf("unsupported search kind: %s", kind)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", c.adultParam())

	var page resultsPage
	if err := c.doGET(ctx, "/search/"+apiPath(kind), params, &page); err != nil {
		return nil, fmt.Errorf("%s search failed: %w", kind, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"kind":  kind,
		"query": query,
		"count": len(page.Results),
	}).Debug("TMDB search completed")

	return tagResults(page.Results, kind), nil
}

// Discover lists popular movies or TV shows, the browse path used when no
// query has been entered
func (c *Client) Discover(ctx context.Context, kind models.MediaKind) ([]models.MediaSummary, error) {
	if kind != models.KindMovie && kind != models.KindTV {
		return nil, fmt.Errorf("unsupported discover kind: %s", kind)
	}

	params := url.Values{}
	params.Set("include_adult", c.adultParam())
	params.Set("sort_by", "popularity.desc")

	var page resultsPage
	if err := c.doGET(ctx, "/discover/"+apiPath(kind), params, &page); err != nil {
		return nil, fmt.Errorf("%s discover failed: %w", kind, err)
	}

	return tagResults(page.Results, kind), nil
}

// DiscoverByGenre lists movies or TV shows for a single genre, most popular
// first
func (c *Client) DiscoverByGenre(ctx context.Context, kind models.MediaKind, genreID int64) ([]models.MediaSummary, error) {
	if kind != models.KindMovie && kind != models.KindTV {
		return nil, fmt.Errorf("unsupported discover kind: %s", kind)
	}

	params := url.Values{}
	params.Set("with_genres", strconv.FormatInt(genreID, 10))
	params.Set("sort_by", "popularity.desc")
	params.Set("include_adult", c.adultParam())

	var page resultsPage
	if err := c.doGET(ctx, "/discover/"+apiPath(kind), params, &page); err != nil {
		return nil, fmt.Errorf("genre discover failed: %w", err)
	}

	return tagResults(page.Results, kind), nil
}

// MultiSearch searches movies, TV shows and people in one call. Every
// result carries its media_type tag; entries with an unknown tag are
// dropped rather than guessed at.
func (c *Client) MultiSearch(ctx context.Context, query string) ([]models.MediaSummary, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", c.adultParam())

	var page resultsPage
	if err := c.doGET(ctx, "/search/multi", params, &page); err != nil {
		return nil, fmt.Errorf("multi search failed: %w", err)
	}

	results := make([]models.MediaSummary, 0, len(page.Results))
	for _, r := range page.Results {
		if !r.Kind.Valid() {
			c.logger.WithField("media_type", r.Kind).Debug("Dropping result with unknown media type")
			continue
		}
		results = append(results, r)
	}

	return results, nil
}

// Trending lists trending media for the given window. Kind may be a media
// kind or empty for "all"; results always carry their media_type tag.
func (c *Client) Trending(ctx context.Context, kind models.MediaKind, window models.TimeWindow) ([]models.MediaSummary, error) {
	segment := "all"
	if kind != "" {
		if !kind.Valid() {
			return nil, fmt.Errorf("unsupported trending kind: %s", kind)
		}
		segment = apiPath(kind)
		if kind == models.KindPerson {
			segment = "person"
		}
	}

	if window != models.WindowDay && window != models.WindowWeek {
		window = models.WindowDay
	}

	var page resultsPage
	if err := c.doGET(ctx, "/trending/"+segment+"/"+string(window), nil, &page); err != nil {
		return nil, fmt.Errorf("trending failed: %w", err)
	}

	if kind != "" {
		return tagResults(page.Results, kind), nil
	}
	return page.Results, nil
}

package tmdb

import (
	"context"
	"fmt"
	"strconv"

	"mediadex/internal/models"
)

// PersonDetails fetches the full record for a person
func (c *Client) PersonDetails(ctx context.Context, id int64) (*models.PersonDetails, error) {
	var details models.PersonDetails
	if err := c.doGET(ctx, "/person/"+strconv.FormatInt(id, 10), nil, &details); err != nil {
		return nil, fmt.Errorf("failed to fetch person details: %w", err)
	}

	return &details, nil
}

// PersonCombinedCredits fetches a person's movie and TV credits in one
// list. Each credit carries its media_type tag.
func (c *Client) PersonCombinedCredits(ctx context.Context, id int64) ([]models.MediaSummary, error) {
	var payload struct {
		Cast []models.MediaSummary `json:"cast"`
	}
	if err := c.doGET(ctx, "/person/"+strconv.FormatInt(id, 10)+"/combined_credits", nil, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch person credits: %w", err)
	}

	credits := make([]models.MediaSummary, 0, len(payload.Cast))
	for _, credit := range payload.Cast {
		if !credit.Kind.Valid() {
			continue
		}
		credits = append(credits, credit)
	}

	return credits, nil
}

// PopularPeople lists currently popular people
func (c *Client) PopularPeople(ctx context.Context) ([]models.MediaSummary, error) {
	var page resultsPage
	if err := c.doGET(ctx, "/person/popular", nil, &page); err != nil {
		return nil, fmt.Errorf("failed to fetch popular people: %w", err)
	}

	return tagResults(page.Results, models.KindPerson), nil
}

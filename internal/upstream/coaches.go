package upstream

import (
	"context"
	"fmt"
	"net/http"

	"ateliers/internal/domain/coach"
)

// ListCoaches fetches the coach collection.
func (c *Client) ListCoaches(ctx context.Context, token string) ([]coach.Coach, error) {
	var out []coach.Coach
	if err := c.do(ctx, http.MethodGet, "/api/coaches", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCoach fetches a single coach by id.
func (c *Client) GetCoach(ctx context.Context, token string, id int) (coach.Coach, error) {
	var out coach.Coach
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/coaches/%d", id), token, nil, &out); err != nil {
		return coach.Coach{}, err
	}
	return out, nil
}

// CreateCoach registers a new coach through the admin management flow.
func (c *Client) CreateCoach(ctx context.Context, token string, draft coach.Draft) (coach.Coach, error) {
	var out coach.Coach
	if err := c.do(ctx, http.MethodPost, "/api/coaches/create", token, draft, &out); err != nil {
		return coach.Coach{}, err
	}
	return out, nil
}

// UpdateCoach edits coach details. An empty Password is omitted from the
// payload rather than sent blank.
func (c *Client) UpdateCoach(ctx context.Context, token string, id int, draft coach.Draft) (coach.Coach, error) {
	var out coach.Coach
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/coaches/%d", id), token, draft, &out); err != nil {
		return coach.Coach{}, err
	}
	return out, nil
}

// DeleteCoach removes a coach.
func (c *Client) DeleteCoach(ctx context.Context, token string, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/coaches/%d", id), token, nil, nil)
}

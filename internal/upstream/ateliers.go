package upstream

import (
	"context"
	"fmt"
	"net/http"

	"ateliers/internal/domain/workshop"
)

// ListWorkshops fetches the full workshop collection.
func (c *Client) ListWorkshops(ctx context.Context, token string) ([]workshop.Workshop, error) {
	var out []workshop.Workshop
	if err := c.do(ctx, http.MethodGet, "/api/ateliers", token, nil, &out); err != nil {
		return nil, err
	}
	return normalizeAll(out), nil
}

// ListWorkshopsByCoach fetches the listing scoped to one coach. The scoping
// is an external contract; callers still re-filter the result.
func (c *Client) ListWorkshopsByCoach(ctx context.Context, token string, coachID int) ([]workshop.Workshop, error) {
	var out []workshop.Workshop
	path := fmt.Sprintf("/api/ateliers/coach/%d", coachID)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return normalizeAll(out), nil
}

// GetWorkshop fetches a single workshop by id.
func (c *Client) GetWorkshop(ctx context.Context, token string, id int) (workshop.Workshop, error) {
	var out workshop.Workshop
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/ateliers/%d", id), token, nil, &out); err != nil {
		return workshop.Workshop{}, err
	}
	return workshop.Normalize(out), nil
}

// CreateWorkshop submits a new workshop draft.
func (c *Client) CreateWorkshop(ctx context.Context, token string, draft workshop.Draft) (workshop.Workshop, error) {
	var out workshop.Workshop
	if err := c.do(ctx, http.MethodPost, "/api/ateliers/create", token, draft, &out); err != nil {
		return workshop.Workshop{}, err
	}
	return workshop.Normalize(out), nil
}

// UpdateWorkshop replaces a workshop's editable fields.
func (c *Client) UpdateWorkshop(ctx context.Context, token string, id int, w workshop.Workshop) (workshop.Workshop, error) {
	var out workshop.Workshop
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/ateliers/%d", id), token, w, &out); err != nil {
		return workshop.Workshop{}, err
	}
	return workshop.Normalize(out), nil
}

// DeleteWorkshop removes a workshop.
func (c *Client) DeleteWorkshop(ctx context.Context, token string, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/ateliers/%d", id), token, nil, nil)
}

func normalizeAll(ws []workshop.Workshop) []workshop.Workshop {
	for i := range ws {
		ws[i] = workshop.Normalize(ws[i])
	}
	return ws
}

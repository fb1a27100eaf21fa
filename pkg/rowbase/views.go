// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package rowbase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

const (
	pathVizCreate = "tables/viz/create"
	pathVizUpdate = "tables/viz/update"
	pathVizDelete = "tables/viz/delete"
	pathVizGet    = "tables/viz/get"
)

// View operations are thin pass-throughs: the request body and response are
// forwarded as-is, with no mapping and no invariants beyond surfacing errors.

// CreateView creates a visualization on the active table.
func (c *Client) CreateView(ctx context.Context, view map[string]any) (map[string]any, error) {
	return c.viewOp(ctx, http.MethodPost, pathVizCreate, view)
}

// UpdateView updates a visualization on the active table.
func (c *Client) UpdateView(ctx context.Context, view map[string]any) (map[string]any, error) {
	return c.viewOp(ctx, http.MethodPost, pathVizUpdate, view)
}

// DeleteView deletes a visualization by id.
func (c *Client) DeleteView(ctx context.Context, id string) (map[string]any, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &ClientError{Message: "view id must not be empty"}
	}
	return c.viewOp(ctx, http.MethodPost, pathVizDelete, map[string]any{"id": id})
}

// GetView fetches a visualization by id.
func (c *Client) GetView(ctx context.Context, id string) (map[string]any, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &ClientError{Message: "view id must not be empty"}
	}
	return c.viewOp(ctx, http.MethodGet, pathVizGet+"?id="+url.QueryEscape(id), nil)
}

func (c *Client) viewOp(ctx context.Context, method, path string, payload any) (map[string]any, error) {
	body, err := c.dispatch(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, nil
	}
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, clientErrorf(0, "decode %s response: %v", path, err)
	}
	return out, nil
}

// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package rowbase

import (
	"context"
	"encoding/json"
	"net/http"
)

// Version calls GET /version and returns the service version string when
// available. No authentication or table selection is required; this doubles
// as a connectivity check.
func (c *Client) Version(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/version", http.NoBody)
	if err != nil {
		return "", clientErrorf(0, "build version request: %v", err)
	}
	setStandardHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", clientErrorf(0, "version request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "unknown", nil
	}

	var out struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", clientErrorf(0, "decode version response: %v", err)
	}
	if out.Version == "" {
		return "unknown", nil
	}
	return out.Version, nil
}

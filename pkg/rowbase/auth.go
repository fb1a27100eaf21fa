// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package rowbase

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

const authPath = "auth"

type authRequest struct {
	Org      string `json:"org,omitempty"`
	Database string `json:"database,omitempty"`
	Token    string `json:"token,omitempty"`
	JWT      string `json:"jwt,omitempty"`
	Tbl      string `json:"tbl"`
}

type authResponse struct {
	Data string `json:"data"`
}

// ensureCredential returns a bearer credential for the active table, issuing
// an authentication request only when none is cached. Credentials are renewed
// lazily: on first use, or on first use after SetTable invalidated the cache.
// They are never refreshed reactively when a domain call is rejected.
func (c *Client) ensureCredential(ctx context.Context) (string, error) {
	table, credential := c.session()
	if table == "" {
		return "", &ClientError{Message: "no active table: call SetTable before dispatching operations"}
	}
	if credential != "" {
		return credential, nil
	}

	credential, err := c.authenticate(ctx, table)
	if err != nil {
		return "", err
	}
	c.storeCredential(table, credential)
	return credential, nil
}

// authenticate exchanges the client identity plus table selector for a
// short-lived bearer token.
func (c *Client) authenticate(ctx context.Context, table string) (string, error) {
	payload := authRequest{
		Org:      c.identity.Org,
		Database: c.identity.Database,
		Token:    c.identity.Token,
		JWT:      c.identity.JWT,
		Tbl:      table,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", clientErrorf(0, "encode auth request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+authPath, bytes.NewReader(body))
	if err != nil {
		return "", clientErrorf(0, "build auth request: %v", err)
	}
	setStandardHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", clientErrorf(0, "auth request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", clientErrorf(0, "read auth response: %v", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", &AuthError{Status: resp.StatusCode, Message: serviceMessage(respBody)}
	case resp.StatusCode == http.StatusBadRequest:
		return "", &AuthError{Status: resp.StatusCode, Message: serviceMessage(respBody)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", clientErrorf(resp.StatusCode, "auth failed: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var out authResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", clientErrorf(resp.StatusCode, "decode auth response: %v", err)
	}
	if strings.TrimSpace(out.Data) == "" {
		return "", clientErrorf(resp.StatusCode, "auth response carried no token")
	}
	return out.Data, nil
}

// serviceMessage extracts a human-readable detail from an auth error body.
// The service reports either {"message": ...} or {"error": ...}; anything
// else falls back to the raw body.
func serviceMessage(body []byte) string {
	var detail struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &detail); err == nil {
		if detail.Message != "" {
			return detail.Message
		}
		if detail.Error != "" {
			return detail.Error
		}
	}
	return strings.TrimSpace(string(body))
}

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

// userAgent identifies the client to the service; the version segment is the
// library version, not the CLI's.
const userAgent = "rowbase-go/1"

// dispatch issues a domain request. It guarantees a credential existed before
// the transport call was made (authenticating lazily when the cache is empty),
// attaches it as a bearer header, and classifies any non-2xx response into a
// ClientError carrying the numeric status and status text.
//
// A 401 here is deliberately a generic ClientError, not an AuthError: the
// client refreshes credentials only on table change or initial absence, never
// reactively on a rejected domain call.
func (c *Client) dispatch(ctx context.Context, method, path string, payload any) ([]byte, error) {
	credential, err := c.ensureCredential(ctx)
	if err != nil {
		return nil, err
	}

	var body io.Reader = http.NoBody
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, clientErrorf(0, "encode %s request: %v", path, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimPrefix(path, "/"), body)
	if err != nil {
		return nil, clientErrorf(0, "build %s request: %v", path, err)
	}
	setStandardHeaders(req)
	req.Header.Set("Authorization", "Bearer "+credential)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, clientErrorf(0, "%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, clientErrorf(0, "read %s response: %v", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, clientErrorf(resp.StatusCode, "%s %s failed: %d %s", method, path, resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return respBody, nil
}

func setStandardHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json, */*")
	req.Header.Set("User-Agent", userAgent)
}

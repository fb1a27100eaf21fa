// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package rowbase provides a client for the Rowbase tabular database HTTP API.
// It manages the session lifecycle (exchanging long-lived identity material for
// short-lived, table-scoped bearer credentials), dispatches record and field
// operations, and translates service-native field ids into human-readable
// field labels on the read path.
//
// A Client owns its session state exclusively; separate Client values are
// independently authenticated and share nothing.
package rowbase

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultBaseURL is the production Rowbase API endpoint.
const DefaultBaseURL = "https://api.rowbase.io/v1"

const defaultTimeout = 10 * time.Second

// HTTPDoer captures the subset of *http.Client the client relies on.
// Tests inject fake implementations so they can run offline.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Identity is the caller-supplied, long-lived authentication material used to
// obtain table-scoped credentials. Either Token (together with Org/Database)
// or JWT must be set. Identity is never mutated after construction; only the
// derived credential changes.
type Identity struct {
	// Org is the organization slug the token belongs to.
	Org string
	// Database names the database within the organization.
	Database string
	// Token is a long-lived Rowbase API token.
	Token string
	// JWT is a pre-issued signed token used instead of Org/Database/Token.
	JWT string
}

func (id Identity) empty() bool {
	return strings.TrimSpace(id.Token) == "" && strings.TrimSpace(id.JWT) == ""
}

// Options configures a Client.
type Options struct {
	// BaseURL overrides DefaultBaseURL when set.
	BaseURL string

	// Identity material; Token or JWT is required.
	Org      string
	Database string
	Token    string
	JWT      string

	// Table optionally selects the active table at construction.
	Table string

	// HTTPClient overrides the underlying transport. When nil a *http.Client
	// with a 10 second timeout is used. Timeout/cancellation behavior is
	// whatever the injected transport provides.
	HTTPClient HTTPDoer

	// Timeout applies to the default transport only; ignored when HTTPClient
	// is set.
	Timeout time.Duration
}

// Client talks to the Rowbase API. It holds the active table selector and the
// cached bearer credential. A Client is safe to use from a single logical
// caller; switching tables from multiple uncoordinated goroutines is not
// supported.
type Client struct {
	baseURL  string
	identity Identity
	client   HTTPDoer

	// mu guards table and credential. It is never held across a network
	// call, so concurrent operations on an unauthenticated client may each
	// trigger their own authentication request; the service treats token
	// issuing as idempotent and cheap, so the duplicate call is accepted
	// rather than serialized.
	mu         sync.Mutex
	table      string
	credential string
}

// New constructs a Client. Missing identity material (neither Token nor JWT)
// is a fatal construction-time error. No network call is made; the first
// credential is fetched lazily by the first operation.
func New(opts Options) (*Client, error) {
	identity := Identity{
		Org:      strings.TrimSpace(opts.Org),
		Database: strings.TrimSpace(opts.Database),
		Token:    strings.TrimSpace(opts.Token),
		JWT:      strings.TrimSpace(opts.JWT),
	}
	if identity.empty() {
		return nil, &ClientError{Message: "missing identity material: provide Token or JWT"}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:  baseURL,
		identity: identity,
		client:   client,
		table:    strings.TrimSpace(opts.Table),
	}, nil
}

// SetTable switches the active table. Credentials are scoped to a single
// table, so changing the selector invalidates the cached credential; the next
// operation re-authenticates. Setting the already-active table is a no-op and
// does not discard the credential.
func (c *Client) SetTable(name string) {
	name = strings.TrimSpace(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	if name == c.table {
		return
	}
	c.table = name
	c.credential = ""
}

// Table returns the active table selector, which may be empty.
func (c *Client) Table() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.table
}

func (c *Client) session() (table, credential string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.table, c.credential
}

// storeCredential caches a freshly issued credential, unless the table was
// switched while the authentication call was in flight.
func (c *Client) storeCredential(table, credential string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.table == table {
		c.credential = credential
	}
}

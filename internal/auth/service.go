// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth provides authentication services for the rowbase CLI.
// Tokens are stored in the OS keychain; non-secret scope (org, database,
// default table, base URL) lives in the XDG config file and can be
// overridden through ROWBASE_* environment variables.
package auth

import (
	"context"
	"errors"
	"os"
	"strings"

	"rowbase/cli/internal/config"
	"rowbase/cli/internal/keychain"
	"rowbase/cli/pkg/rowbase"
)

// Environment overrides recognized by the CLI.
const (
	EnvToken    = "ROWBASE_TOKEN"
	EnvJWT      = "ROWBASE_JWT"
	EnvOrg      = "ROWBASE_ORG"
	EnvDatabase = "ROWBASE_DATABASE"
	EnvBaseURL  = "ROWBASE_BASE_URL"
	EnvTable    = "ROWBASE_TABLE"
)

// ErrNotLoggedIn is returned when no token can be resolved from the
// environment or the keychain.
var ErrNotLoggedIn = errors.New("not logged in: run 'rowbase login' or set " + EnvToken)

// Service centralizes authentication-related operations against the
// keychain, the config file, and the Rowbase service.
type Service struct{}

// NewService constructs an auth Service.
func NewService() *Service {
	return &Service{}
}

// Login verifies the supplied token against the service and stores it in the
// OS keychain on success. Verification needs a table because Rowbase
// credentials are table-scoped; when no table is known the token is stored
// unverified.
func (s *Service) Login(ctx context.Context, token, org, database string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("empty token")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.Org = org
	cfg.Database = database

	if table := resolveTable(cfg); table != "" {
		client, err := rowbase.New(rowbase.Options{
			BaseURL:  resolveBaseURL(cfg),
			Org:      org,
			Database: database,
			Token:    token,
			Table:    table,
		})
		if err != nil {
			return err
		}
		// A field listing is the cheapest authenticated probe.
		if _, err := client.ListFields(ctx); err != nil {
			return err
		}
	}

	km, err := keychain.GetManager()
	if err != nil {
		return err
	}
	if err := km.SaveAPIToken(token); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}
	return SetLoggedIn(org, database)
}

// Logout clears the stored token and login state. The service keeps no
// session server-side; table-scoped credentials simply expire.
func (s *Service) Logout() error {
	km, err := keychain.GetManager()
	if err != nil {
		return err
	}
	if err := km.ClearAuth(); err != nil {
		return err
	}
	return Clear()
}

// ClientOptions resolves everything needed to construct a rowbase.Client:
// environment first, then keychain and config file. Missing identity
// material yields ErrNotLoggedIn.
func (s *Service) ClientOptions() (rowbase.Options, error) {
	cfg, err := config.Load()
	if err != nil {
		return rowbase.Options{}, err
	}

	opts := rowbase.Options{
		BaseURL:  resolveBaseURL(cfg),
		Org:      firstNonEmpty(os.Getenv(EnvOrg), cfg.Org),
		Database: firstNonEmpty(os.Getenv(EnvDatabase), cfg.Database),
		Table:    resolveTable(cfg),
		JWT:      strings.TrimSpace(os.Getenv(EnvJWT)),
	}

	opts.Token = strings.TrimSpace(os.Getenv(EnvToken))
	if opts.Token == "" && opts.JWT == "" {
		if km, err := keychain.GetManager(); err == nil {
			if token, err := km.LoadAPIToken(); err == nil {
				opts.Token = token
			}
		}
	}
	if opts.Token == "" && opts.JWT == "" {
		return rowbase.Options{}, ErrNotLoggedIn
	}
	return opts, nil
}

// NewClient resolves options and constructs a client.
func (s *Service) NewClient() (*rowbase.Client, error) {
	opts, err := s.ClientOptions()
	if err != nil {
		return nil, err
	}
	return rowbase.New(opts)
}

func resolveBaseURL(cfg config.Config) string {
	return firstNonEmpty(os.Getenv(EnvBaseURL), cfg.BaseURL)
}

func resolveTable(cfg config.Config) string {
	return firstNonEmpty(os.Getenv(EnvTable), cfg.Table)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

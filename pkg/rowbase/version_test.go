// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package rowbase_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"rowbase/cli/pkg/rowbase"
)

func TestVersion_LiveServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/version" {
			t.Fatalf("path=%q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Fatal("version probe must not carry credentials")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"version":"2.3.1"}`))
	}))
	defer srv.Close()

	c, err := rowbase.New(rowbase.Options{BaseURL: srv.URL, Token: "T"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	v, err := c.Version(context.Background())
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v != "2.3.1" {
		t.Fatalf("version=%q", v)
	}
}

func TestVersion_NonOKReportsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := rowbase.New(rowbase.Options{BaseURL: srv.URL, JWT: "signed"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	v, err := c.Version(context.Background())
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v != "unknown" {
		t.Fatalf("version=%q, want unknown", v)
	}
}

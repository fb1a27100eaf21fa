// Copyright (c) 2025 Rowbase
// Licensed under the MIT License. See LICENSE file in the project root for details.

package rowbase_test

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"rowbase/cli/pkg/rowbase"
	"rowbase/cli/pkg/rowbase/rowbasetest"
)

const authOK = `{"data":"issued-token"}`

func newClient(t *testing.T, doer rowbase.HTTPDoer, table string) *rowbase.Client {
	t.Helper()
	c, err := rowbase.New(rowbase.Options{
		BaseURL:    "https://example.test/v1",
		Token:      "T",
		Table:      table,
		HTTPClient: doer,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNew_RequiresIdentity(t *testing.T) {
	_, err := rowbase.New(rowbase.Options{BaseURL: "https://example.test"})
	if err == nil {
		t.Fatal("expected construction error")
	}
	if !rowbase.IsClientError(err) {
		t.Fatalf("err=%v, want ClientError", err)
	}
}

func TestListRecords_AuthThenDataWithMapping(t *testing.T) {
	fake := rowbasetest.NewFakeDoer(t,
		rowbasetest.NewStringResponse(http.StatusOK, authOK),
		rowbasetest.NewStringResponse(http.StatusOK, `{"fields":[{"id":"f1","label":"Name"}],"data":[{"f1":"Alice"}]}`),
	)
	c := newClient(t, fake, "users")

	got, err := c.ListRecords(context.Background(), rowbase.ReadOptions{})
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if want := []rowbase.Record{{"Name": "Alice"}}; !reflect.DeepEqual(got.Records, want) {
		t.Fatalf("records=%v want=%v", got.Records, want)
	}
	if len(got.Fields) != 1 || got.Fields[0].ID != "f1" {
		t.Fatalf("fields=%v", got.Fields)
	}

	reqs := fake.Requests()
	if len(reqs) != 2 {
		t.Fatalf("requests=%d, want auth + data", len(reqs))
	}
	if reqs[0].Method != http.MethodPost || reqs[0].URL.Path != "/v1/auth" {
		t.Fatalf("auth request: %s %s", reqs[0].Method, reqs[0].URL.Path)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(fake.Bodies()[0]), &payload); err != nil {
		t.Fatalf("auth body: %v", err)
	}
	if payload["token"] != "T" || payload["tbl"] != "users" {
		t.Fatalf("auth payload=%v", payload)
	}
	if reqs[1].URL.Path != "/v1/tables/data" {
		t.Fatalf("data path=%s", reqs[1].URL.Path)
	}
	if got := reqs[1].Header.Get("Authorization"); got != "Bearer issued-token" {
		t.Fatalf("auth header=%q", got)
	}
}

func TestListRecords_RawSkipsMapping(t *testing.T) {
	fake := rowbasetest.NewFakeDoer(t,
		rowbasetest.NewStringResponse(http.StatusOK, authOK),
		rowbasetest.NewStringResponse(http.StatusOK, `{"fields":[{"id":"f1","label":"Name"}],"data":[{"f1":"Alice"}]}`),
	)
	c := newClient(t, fake, "users")

	got, err := c.ListRecords(context.Background(), rowbase.ReadOptions{Raw: true})
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if want := []rowbase.Record{{"f1": "Alice"}}; !reflect.DeepEqual(got.Records, want) {
		t.Fatalf("records=%v want=%v", got.Records, want)
	}
}

func TestListRecords_MalformedResponseIsLoud(t *testing.T) {
	for _, body := range []string{
		`{"data":[{"f1":"Alice"}]}`,
		`{"fields":{"id":"f1"},"data":[]}`,
		`{"fields":[],"data":"nope"}`,
	} {
		fake := rowbasetest.NewFakeDoer(t,
			rowbasetest.NewStringResponse(http.StatusOK, authOK),
			rowbasetest.NewStringResponse(http.StatusOK, body),
		)
		c := newClient(t, fake, "users")
		if _, err := c.ListRecords(context.Background(), rowbase.ReadOptions{}); !rowbase.IsClientError(err) {
			t.Fatalf("body %q: err=%v, want ClientError", body, err)
		}
	}
}

func TestListRecords_RawTolerantOfMissingFields(t *testing.T) {
	fake := rowbasetest.NewFakeDoer(t,
		rowbasetest.NewStringResponse(http.StatusOK, authOK),
		rowbasetest.NewStringResponse(http.StatusOK, `{"data":[{"f1":"Alice"}]}`),
	)
	c := newClient(t, fake, "users")
	got, err := c.ListRecords(context.Background(), rowbase.ReadOptions{Raw: true})
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if got.Fields != nil {
		t.Fatalf("fields=%v, want nil", got.Fields)
	}
}

func TestAuth_Unauthorized(t *testing.T) {
	fake := rowbasetest.NewFakeDoer(t,
		rowbasetest.NewStringResponse(http.StatusUnauthorized, `{"message":"bad token"}`),
	)
	c := newClient(t, fake, "users")

	_, err := c.ListRecords(context.Background(), rowbase.ReadOptions{})
	if !rowbase.IsAuthError(err) {
		t.Fatalf("err=%v, want AuthError", err)
	}
	if !strings.Contains(err.Error(), "bad token") {
		t.Fatalf("err=%v, want service message surfaced", err)
	}
	// The domain call must never have been attempted.
	if n := len(fake.Requests()); n != 1 {
		t.Fatalf("requests=%d, want only the auth call", n)
	}
}

func TestAuth_BadRequestCarriesServiceMessage(t *testing.T) {
	fake := rowbasetest.NewFakeDoer(t,
		rowbasetest.NewStringResponse(http.StatusBadRequest, `{"error":"tbl is required"}`),
	)
	c := newClient(t, fake, "users")
	_, err := c.ListFields(context.Background())
	if !rowbase.IsAuthError(err) {
		t.Fatalf("err=%v, want AuthError", err)
	}
	if !strings.Contains(err.Error(), "tbl is required") {
		t.Fatalf("err=%v", err)
	}
}

func TestAuth_ServerErrorIsClientError(t *testing.T) {
	fake := rowbasetest.NewFakeDoer(t,
		rowbasetest.NewStringResponse(http.StatusBadGateway, "upstream down"),
	)
	c := newClient(t, fake, "users")
	_, err := c.ListFields(context.Background())
	if !rowbase.IsClientError(err) || rowbase.IsAuthError(err) {
		t.Fatalf("err=%v, want ClientError", err)
	}
	if !strings.Contains(err.Error(), "502") {
		t.Fatalf("err=%v, want status embedded", err)
	}
}

func TestDispatch_DomainUnauthorizedIsClientError(t *testing.T) {
	fake := rowbasetest.NewFakeDoer(t,
		rowbasetest.NewStringResponse(http.StatusOK, authOK),
		rowbasetest.NewStringResponse(http.StatusUnauthorized, `expired`),
	)
	c := newClient(t, fake, "users")

	_, err := c.ListFields(context.Background())
	if rowbase.IsAuthError(err) {
		t.Fatalf("domain 401 must not be an AuthError: %v", err)
	}
	if !rowbase.IsClientError(err) {
		t.Fatalf("err=%v, want ClientError", err)
	}
	// No re-authentication attempt follows a rejected domain call.
	if n := len(fake.Requests()); n != 2 {
		t.Fatalf("requests=%d, want exactly auth + fields", n)
	}
}

func TestDispatch_NoTableSet(t *testing.T) {
	fake := rowbasetest.NewFakeDoer(t)
	c := newClient(t, fake, "")

	_, err := c.ListRecords(context.Background(), rowbase.ReadOptions{})
	if !rowbase.IsClientError(err) {
		t.Fatalf("err=%v, want ClientError", err)
	}
	if n := len(fake.Requests()); n != 0 {
		t.Fatalf("requests=%d, want none before the precondition check", n)
	}
}

func TestSetTable_SameTableKeepsCredential(t *testing.T) {
	fake := rowbasetest.NewFakeDoer(t,
		rowbasetest.NewStringResponse(http.StatusOK, authOK),
		rowbasetest.NewStringResponse(http.StatusOK, `{"fields":[],"data":[]}`),
		rowbasetest.NewStringResponse(http.StatusOK, `{"fields":[],"data":[]}`),
	)
	c := newClient(t, fake, "users")

	if _, err := c.ListRecords(context.Background(), rowbase.ReadOptions{}); err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	c.SetTable("users")
	c.SetTable("users")
	if _, err := c.ListRecords(context.Background(), rowbase.ReadOptions{}); err != nil {
		t.Fatalf("ListRecords: %v", err)
	}

	auths := 0
	for _, r := range fake.Requests() {
		if r.URL.Path == "/v1/auth" {
			auths++
		}
	}
	if auths != 1 {
		t.Fatalf("auth calls=%d, want 1 (no-op SetTable must keep credential)", auths)
	}
}

func TestSetTable_NewTableInvalidatesCredential(t *testing.T) {
	fake := rowbasetest.NewFakeDoer(t,
		rowbasetest.NewStringResponse(http.StatusOK, `{"data":"token-users"}`),
		rowbasetest.NewStringResponse(http.StatusOK, `{"fields":[],"data":[]}`),
		rowbasetest.NewStringResponse(http.StatusOK, `{"data":"token-orders"}`),
		rowbasetest.NewStringResponse(http.StatusOK, `{"fields":[],"data":[]}`),
	)
	c := newClient(t, fake, "users")

	if _, err := c.ListRecords(context.Background(), rowbase.ReadOptions{}); err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	c.SetTable("orders")
	if _, err := c.ListRecords(context.Background(), rowbase.ReadOptions{}); err != nil {
		t.Fatalf("ListRecords: %v", err)
	}

	reqs := fake.Requests()
	if len(reqs) != 4 {
		t.Fatalf("requests=%d, want auth+data per table", len(reqs))
	}
	var second map[string]any
	if err := json.Unmarshal([]byte(fake.Bodies()[2]), &second); err != nil {
		t.Fatalf("second auth body: %v", err)
	}
	if second["tbl"] != "orders" {
		t.Fatalf("second auth payload=%v", second)
	}
	if got := reqs[3].Header.Get("Authorization"); got != "Bearer token-orders" {
		t.Fatalf("auth header=%q, want the re-issued credential", got)
	}
}

func TestGetRecord_NotFound(t *testing.T) {
	for _, raw := range []bool{false, true} {
		fake := rowbasetest.NewFakeDoer(t,
			rowbasetest.NewStringResponse(http.StatusOK, authOK),
			rowbasetest.NewStringResponse(http.StatusOK, `{"data":null,"fields":null}`),
		)
		c := newClient(t, fake, "users")

		got, err := c.GetRecord(context.Background(), "r-404", rowbase.ReadOptions{Raw: raw})
		if err != nil {
			t.Fatalf("raw=%v GetRecord: %v", raw, err)
		}
		if got.Record != nil || got.Fields != nil {
			t.Fatalf("raw=%v result=%+v, want nil/nil pair", raw, got)
		}
	}
}

func TestGetRecord_MapsLabels(t *testing.T) {
	fake := rowbasetest.NewFakeDoer(t,
		rowbasetest.NewStringResponse(http.StatusOK, authOK),
		rowbasetest.NewStringResponse(http.StatusOK, `{"data":{"f1":"Alice"},"fields":[{"id":"f1","label":"Name"}]}`),
	)
	c := newClient(t, fake, "users")

	got, err := c.GetRecord(context.Background(), "r-1", rowbase.ReadOptions{})
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if want := (rowbase.Record{"Name": "Alice"}); !reflect.DeepEqual(got.Record, want) {
		t.Fatalf("record=%v want=%v", got.Record, want)
	}
	if q := fake.Requests()[1].URL.Query().Get("id"); q != "r-1" {
		t.Fatalf("id query=%q", q)
	}
}

func TestGetRecord_EmptyID(t *testing.T) {
	c := newClient(t, rowbasetest.NewFakeDoer(t), "users")
	if _, err := c.GetRecord(context.Background(), " ", rowbase.ReadOptions{}); !rowbase.IsClientError(err) {
		t.Fatalf("err=%v, want ClientError", err)
	}
}

func TestInsertRecords_SingleAuthSingleCall(t *testing.T) {
	fake := rowbasetest.NewFakeDoer(t,
		rowbasetest.NewStringResponse(http.StatusOK, authOK),
		rowbasetest.NewStringResponse(http.StatusOK, `{"success":true}`),
	)
	c := newClient(t, fake, "users")

	ok, err := c.InsertRecords(context.Background(), []rowbase.Record{{"name": "A"}, {"name": "B"}})
	if err != nil {
		t.Fatalf("InsertRecords: %v", err)
	}
	if !ok {
		t.Fatal("success=false")
	}

	reqs := fake.Requests()
	if len(reqs) != 2 {
		t.Fatalf("requests=%d, want exactly one auth and one insert", len(reqs))
	}
	if reqs[1].Method != http.MethodPost || reqs[1].URL.Path != "/v1/tables/rows/insert" {
		t.Fatalf("insert request: %s %s", reqs[1].Method, reqs[1].URL.Path)
	}
	var payload struct {
		Data []rowbase.Record `json:"data"`
	}
	if err := json.Unmarshal([]byte(fake.Bodies()[1]), &payload); err != nil {
		t.Fatalf("insert body: %v", err)
	}
	if len(payload.Data) != 2 {
		t.Fatalf("insert carried %d records, want both in one call", len(payload.Data))
	}
}

func TestUpdateRecords_RequireSelfIdentifyingItems(t *testing.T) {
	c := newClient(t, rowbasetest.NewFakeDoer(t), "users")
	_, err := c.UpdateRecords(context.Background(), []rowbase.Record{
		{"id": "r-1", "f1": "x"},
		{"f1": "y"},
	})
	if !rowbase.IsClientError(err) {
		t.Fatalf("err=%v, want ClientError for record without id", err)
	}
}

func TestUpdateAndDelete_Paths(t *testing.T) {
	fake := rowbasetest.NewFakeDoer(t,
		rowbasetest.NewStringResponse(http.StatusOK, authOK),
		rowbasetest.NewStringResponse(http.StatusOK, `{"success":true}`),
		rowbasetest.NewStringResponse(http.StatusOK, `{"success":true}`),
		rowbasetest.NewStringResponse(http.StatusOK, `{"success":true}`),
	)
	c := newClient(t, fake, "users")

	if ok, err := c.UpdateRecord(context.Background(), "r-1", rowbase.Record{"f1": "x"}); err != nil || !ok {
		t.Fatalf("UpdateRecord: ok=%v err=%v", ok, err)
	}
	if ok, err := c.UpdateRecords(context.Background(), []rowbase.Record{{"id": "r-2", "f1": "y"}}); err != nil || !ok {
		t.Fatalf("UpdateRecords: ok=%v err=%v", ok, err)
	}
	if ok, err := c.DeleteRecord(context.Background(), "r-3"); err != nil || !ok {
		t.Fatalf("DeleteRecord: ok=%v err=%v", ok, err)
	}

	paths := []string{}
	for _, r := range fake.Requests()[1:] {
		paths = append(paths, r.URL.Path)
	}
	want := []string{"/v1/tables/rows/update", "/v1/tables/rows/update-many", "/v1/tables/rows/delete"}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("paths=%v want=%v", paths, want)
	}
}

func TestViews_PassThrough(t *testing.T) {
	fake := rowbasetest.NewFakeDoer(t,
		rowbasetest.NewStringResponse(http.StatusOK, authOK),
		rowbasetest.NewStringResponse(http.StatusOK, `{"id":"v1","kind":"bar"}`),
		rowbasetest.NewStringResponse(http.StatusOK, `{"id":"v1","kind":"bar"}`),
	)
	c := newClient(t, fake, "users")

	created, err := c.CreateView(context.Background(), map[string]any{"kind": "bar"})
	if err != nil {
		t.Fatalf("CreateView: %v", err)
	}
	if created["id"] != "v1" {
		t.Fatalf("created=%v", created)
	}
	got, err := c.GetView(context.Background(), "v1")
	if err != nil {
		t.Fatalf("GetView: %v", err)
	}
	if got["kind"] != "bar" {
		t.Fatalf("view=%v", got)
	}
	if p := fake.Requests()[2].URL.Path; p != "/v1/tables/viz/get" {
		t.Fatalf("path=%s", p)
	}
}

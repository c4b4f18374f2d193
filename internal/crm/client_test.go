package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"leadwatch_backend/platform/apperr"
	"leadwatch_backend/platform/config"
	"leadwatch_backend/platform/logger"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := New(&config.Config{
		DirectoryBaseURL:           srv.URL,
		DirectoryAPIKey:            "test-key",
		DirectoryRequestsPerSecond: 100,
	}, logger.New("test"))

	return client, srv
}

func TestListAssignedLeads(t *testing.T) {
	var gotQuery string
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/leads" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{
				"id":          "lead-1",
				"displayName": "Jane Prospect",
				"phone":       "(415) 555-0100",
				"assignee":    map[string]string{"id": "agent-1", "name": "Agent One", "email": "one@example.com"},
			},
			{
				"id":          "lead-2",
				"displayName": "Pool Lead",
			},
		})
	}))

	leads, err := client.ListAssignedLeads(context.Background(), Selector{PoolID: "pool-9"})
	if err != nil {
		t.Fatalf("ListAssignedLeads() error = %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
	if gotQuery != "limit=100&pool=pool-9" {
		t.Fatalf("query = %q", gotQuery)
	}
	if len(leads) != 2 {
		t.Fatalf("expected 2 leads, got %d", len(leads))
	}
	if leads[0].Phone != "+14155550100" {
		t.Fatalf("phone = %q, want normalized E.164", leads[0].Phone)
	}
	if leads[0].Assignee == nil || leads[0].Assignee.ID != "agent-1" {
		t.Fatalf("unexpected assignee: %+v", leads[0].Assignee)
	}
	if leads[1].Assignee != nil {
		t.Fatalf("expected nil assignee for unowned lead, got %+v", leads[1].Assignee)
	}
}

func TestListCallsSince(t *testing.T) {
	since := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	callAt := since.Add(10 * time.Minute)

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/leads/lead-1/calls" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("since"); got != since.Format(time.RFC3339) {
			t.Errorf("since = %q", got)
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"timestamp": callAt.Format(time.RFC3339), "direction": "outbound"},
		})
	}))

	calls, err := client.ListCallsSince(context.Background(), "lead-1", since)
	if err != nil {
		t.Fatalf("ListCallsSince() error = %v", err)
	}
	if len(calls) != 1 || !calls[0].Timestamp.Equal(callAt) {
		t.Fatalf("unexpected calls: %+v", calls)
	}
}

func TestAddTag(t *testing.T) {
	var gotBody map[string]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/leads/lead-1/tags" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := client.AddTag(context.Background(), "lead-1", "response-overdue"); err != nil {
		t.Fatalf("AddTag() error = %v", err)
	}
	if gotBody["name"] != "response-overdue" {
		t.Fatalf("body = %v", gotBody)
	}
}

func TestClearAssignment(t *testing.T) {
	var gotBody map[string]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/leads/lead-1/unassign" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))

	if err := client.ClearAssignment(context.Background(), "lead-1", "pool-return"); err != nil {
		t.Fatalf("ClearAssignment() error = %v", err)
	}
	if gotBody["poolId"] != "pool-return" {
		t.Fatalf("body = %v", gotBody)
	}
}

func TestListSources(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/sources" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode([]map[string]string{
			{"id": "src-1", "name": "webforms"},
		})
	}))

	sources, err := client.ListSources(context.Background())
	if err != nil {
		t.Fatalf("ListSources() error = %v", err)
	}
	if len(sources) != 1 || sources[0].Name != "webforms" {
		t.Fatalf("unexpected sources: %+v", sources)
	}
}

func TestNonSuccessStatusMapsToUpstream(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusInternalServerError} {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		_, err := client.ListAssignedLeads(context.Background(), Selector{Source: "webforms"})
		if err == nil {
			t.Fatalf("status %d: expected error", status)
		}
		if apperr.GetKind(err) != apperr.KindUpstream {
			t.Fatalf("status %d: kind = %v, want upstream", status, apperr.GetKind(err))
		}
	}
}

func TestSelectorLabel(t *testing.T) {
	if got := (Selector{PoolID: "p1"}).Label(); got != "pool:p1" {
		t.Fatalf("Label() = %q", got)
	}
	if got := (Selector{Source: "webforms"}).Label(); got != "source:webforms" {
		t.Fatalf("Label() = %q", got)
	}
}

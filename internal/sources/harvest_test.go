package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/af-corp/autodaily/internal/config"
	"github.com/af-corp/autodaily/internal/types"
)

func newTestHarvest(t *testing.T, baseURL string) *Harvest {
	h := NewHarvest(config.HarvestConfig{
		BaseURL:   baseURL,
		UserAgent: "autodaily-test",
		PageSize:  100,
	}, http.DefaultClient, testLocale(t))
	h.now = func() time.Time { return fixedNow }
	return h
}

var validHarvestCreds = types.HarvestCredentials{Token: "tok", AccountID: "12345"}

func TestHarvest_ConfigIncomplete(t *testing.T) {
	h := newTestHarvest(t, "http://127.0.0.1:1")
	for _, creds := range []types.HarvestCredentials{
		{Token: "tok"},
		{AccountID: "12345"},
		{},
	} {
		_, err := h.FetchTimeEntries(context.Background(), creds, 24)
		if kind := types.KindOf(err); kind != types.KindConfigIncomplete {
			t.Errorf("creds %+v: expected config_incomplete, got %q", creds, kind)
		}
	}
}

func TestHarvest_Success(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		fmt.Fprint(w, `{
			"time_entries": [
				{"id": 1, "spent_date": "2024-01-10", "hours": 1.5, "notes": "Pairing on auth",
				 "project": {"id": 10, "name": "Portal"}, "task": {"id": 5, "name": "Development"}, "client": {"id": 2, "name": "Contoso"}},
				{"id": 2, "spent_date": "2024-01-09", "hours": 2.25, "notes": null,
				 "project": {"id": 10, "name": "Portal"}, "task": {"id": 6, "name": "Meetings"}, "client": {"id": 2, "name": "Contoso"}}
			],
			"total_entries": 2
		}`)
	}))
	defer srv.Close()

	entries, err := newTestHarvest(t, srv.URL).FetchTimeEntries(context.Background(), validHarvestCreds, 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.URL.Path != "/time_entries" {
		t.Errorf("unexpected path %q", got.URL.Path)
	}
	q := got.URL.Query()
	if q.Get("from") != "2024-01-09" || q.Get("to") != "2024-01-10" {
		t.Errorf("unexpected range from=%s to=%s", q.Get("from"), q.Get("to"))
	}
	if got.Header.Get("Authorization") != "Bearer tok" {
		t.Errorf("unexpected Authorization %q", got.Header.Get("Authorization"))
	}
	if got.Header.Get("Harvest-Account-Id") != "12345" {
		t.Errorf("unexpected Harvest-Account-Id %q", got.Header.Get("Harvest-Account-Id"))
	}
	if got.Header.Get("User-Agent") != "autodaily-test" {
		t.Errorf("unexpected User-Agent %q", got.Header.Get("User-Agent"))
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Hours != 1.5 || entries[0].Project != "Portal" || entries[0].Task != "Development" || entries[0].Client != "Contoso" {
		t.Errorf("unexpected first entry %+v", entries[0])
	}
	if entries[0].Date != "10/01/2024" {
		t.Errorf("expected pt-BR date 10/01/2024, got %q", entries[0].Date)
	}
	if entries[1].Notes != types.NoDescription {
		t.Errorf("expected sentinel notes for null, got %q", entries[1].Notes)
	}
}

func TestHarvest_NotesMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"time_entries": [
			{"id": 1, "spent_date": "2024-01-10", "hours": 1, "notes": null},
			{"id": 2, "spent_date": "2024-01-10", "hours": 1, "notes": ""},
			{"id": 3, "spent_date": "2024-01-10", "hours": 1, "notes": "   "},
			{"id": 4, "spent_date": "2024-01-10", "hours": 1, "notes": "Code review"}
		]}`)
	}))
	defer srv.Close()

	entries, err := newTestHarvest(t, srv.URL).FetchTimeEntries(context.Background(), validHarvestCreds, 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{types.NoDescription, types.NoDescription, "   ", "Code review"}
	for i, e := range entries {
		if e.Notes != want[i] {
			t.Errorf("entry %d: notes = %q, want %q", e.ID, e.Notes, want[i])
		}
	}
}

func TestHarvest_ZeroHoursQueriesToday(t *testing.T) {
	var from, to string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		from, to = r.URL.Query().Get("from"), r.URL.Query().Get("to")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"time_entries": []}`)
	}))
	defer srv.Close()

	if _, err := newTestHarvest(t, srv.URL).FetchTimeEntries(context.Background(), validHarvestCreds, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if from != "2024-01-10" || to != "2024-01-10" {
		t.Errorf("expected today only, got from=%s to=%s", from, to)
	}
}

func TestHarvest_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   types.ErrorKind
	}{
		{http.StatusUnauthorized, types.KindInvalidCredentials},
		{http.StatusForbidden, types.KindAccessDenied},
		{http.StatusTooManyRequests, types.KindUpstreamError},
		{http.StatusInternalServerError, types.KindUpstreamError},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(tt.status)
			fmt.Fprint(w, `{"error":"raw upstream body"}`)
		}))

		_, err := newTestHarvest(t, srv.URL).FetchTimeEntries(context.Background(), validHarvestCreds, 24)
		srv.Close()

		e := types.AsError(err)
		if e == nil || e.Kind != tt.want {
			t.Errorf("status %d: expected %q, got %v", tt.status, tt.want, err)
			continue
		}
		if tt.want == types.KindUpstreamError && e.Details != `{"error":"raw upstream body"}` {
			t.Errorf("status %d: expected raw body as details, got %q", tt.status, e.Details)
		}
	}
}

func TestHarvest_UnexpectedContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html>maintenance</html>")
	}))
	defer srv.Close()

	_, err := newTestHarvest(t, srv.URL).FetchTimeEntries(context.Background(), validHarvestCreds, 24)
	if kind := types.KindOf(err); kind != types.KindUnexpectedResponse {
		t.Errorf("expected unexpected_response, got %q", kind)
	}
}

package mcp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/claude/reptracker/internal/calc"
	"github.com/claude/reptracker/internal/models"
	"github.com/claude/reptracker/internal/tracker"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path. Verifies the HTTP client sends correct paths and query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestClientDashboard verifies the range query param and the dashboard decoding.
func TestClientDashboard(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/dashboard": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("range"); got != "30d" {
				t.Errorf("range=%q, want 30d", got)
			}
			writeTestJSON(t, w, http.StatusOK, tracker.Dashboard{
				Today:    "2024-01-15",
				Progress: calc.Progress{Total: 25, Goal: 50, Percentage: 50},
				Debt:     -25,
				Chart:    []models.ChartDataPoint{{DateKey: "2024-01-15", Counts: map[string]int{"a": 25}}},
			})
		},
	})
	defer ts.Close()

	d, err := NewHTTPClient(ts.URL+"/").Dashboard(context.Background(), calc.Range30Days)
	if err != nil {
		t.Fatal(err)
	}
	if d.Debt != -25 || d.Progress.Total != 25 || d.Chart[0].Counts["a"] != 25 {
		t.Errorf("dashboard = %+v", d)
	}
}

// TestClientDay verifies the date path segment and the flattened entry decoding.
func TestClientDay(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/days/2024-01-14": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, http.StatusOK, tracker.DayView{
				DateKey: "2024-01-14",
				Total:   10,
				Entries: []tracker.EntryView{{
					LogEntry: models.LogEntry{ID: "e1", TypeID: "t1", Count: 10},
					TypeName: "Standard",
				}},
			})
		},
	})
	defer ts.Close()

	day, err := NewHTTPClient(ts.URL).Day(context.Background(), "2024-01-14")
	if err != nil {
		t.Fatal(err)
	}
	if len(day.Entries) != 1 || day.Entries[0].ID != "e1" || day.Entries[0].TypeName != "Standard" {
		t.Errorf("day = %+v", day)
	}
}

// TestClientLogReps verifies the POST body and the created entry decoding.
func TestClientLogReps(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/logs": func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method=%s, want POST", r.Method)
			}
			var req tracker.LogRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatal(err)
			}
			if req.TypeID != "t1" || req.Count != 15 {
				t.Errorf("request = %+v", req)
			}
			writeTestJSON(t, w, http.StatusCreated, models.LogEntry{ID: "new", TypeID: req.TypeID, Count: req.Count})
		},
	})
	defer ts.Close()

	entry, err := NewHTTPClient(ts.URL).LogReps(context.Background(), tracker.LogRequest{TypeID: "t1", Count: 15})
	if err != nil {
		t.Fatal(err)
	}
	if entry.ID != "new" || entry.Count != 15 {
		t.Errorf("entry = %+v", entry)
	}
}

// TestClientTypesAndState verifies the list and whole-ledger endpoints.
func TestClientTypesAndState(t *testing.T) {
	state := models.DefaultState("2024-01-01")
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/types": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, http.StatusOK, state.Types)
		},
		"/api/v1/state": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, http.StatusOK, state)
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	types, err := client.Types(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(types) != len(state.Types) {
		t.Errorf("got %d types, want %d", len(types), len(state.Types))
	}

	got, err := client.State(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got.Settings != state.Settings {
		t.Errorf("settings = %+v, want %+v", got.Settings, state.Settings)
	}
}

// TestClientErrorBody verifies API error messages are surfaced in the returned error.
func TestClientErrorBody(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/logs": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, http.StatusBadRequest, map[string]string{"error": "dateKey: cannot log reps for a future date"})
		},
		"/api/v1/types": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	_, err := client.LogReps(context.Background(), tracker.LogRequest{TypeID: "t1", Count: 1})
	if err == nil || !strings.Contains(err.Error(), "future date") || !strings.Contains(err.Error(), "400") {
		t.Errorf("err = %v", err)
	}

	_, err = client.Types(context.Background())
	if err == nil || !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("err = %v", err)
	}
}

// TestClientBadJSON verifies a malformed response body is reported as a decode error.
func TestClientBadJSON(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/state": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{not json"))
		},
	})
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL).State(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode state") {
		t.Errorf("err = %v", err)
	}
}

// TestClientRestore verifies the backup is posted verbatim and server
// rejections carry the server's message.
func TestClientRestore(t *testing.T) {
	backup := []byte(`{"settings":{"dailyGoal":5,"startDate":"2024-01-01"},"types":[],"logs":[]}`)
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/import": func(w http.ResponseWriter, r *http.Request) {
			got, _ := io.ReadAll(r.Body)
			if string(got) != string(backup) {
				writeTestJSON(t, w, http.StatusBadRequest, map[string]string{"error": "Failed to parse JSON file"})
				return
			}
			writeTestJSON(t, w, http.StatusOK, models.DefaultState("2024-01-01"))
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	state, err := client.Restore(context.Background(), backup)
	if err != nil {
		t.Fatal(err)
	}
	if state.Settings.StartDate != "2024-01-01" {
		t.Errorf("state = %+v", state.Settings)
	}

	_, err = client.Restore(context.Background(), []byte("nonsense"))
	if err == nil || !strings.Contains(err.Error(), "Failed to parse JSON file") {
		t.Errorf("err = %v", err)
	}
}

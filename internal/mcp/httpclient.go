package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/reptracker/internal/calc"
	"github.com/claude/reptracker/internal/models"
	"github.com/claude/reptracker/internal/tracker"
)

// HTTPClient implements DataSource by calling the reptracker REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the ledger lives on a running server.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	return c.do(req, path, http.StatusOK)
}

func (c *HTTPClient) post(ctx context.Context, path string, body []byte, want int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, want)
}

func (c *HTTPClient) do(req *http.Request, path string, want int) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != want {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) Dashboard(ctx context.Context, r calc.ChartRange) (tracker.Dashboard, error) {
	params := url.Values{}
	if r != "" {
		params.Set("range", string(r))
	}

	body, err := c.get(ctx, "/api/v1/dashboard", params)
	if err != nil {
		return tracker.Dashboard{}, err
	}

	var d tracker.Dashboard
	if err := json.Unmarshal(body, &d); err != nil {
		return tracker.Dashboard{}, fmt.Errorf("httpclient: decode dashboard: %w", err)
	}
	return d, nil
}

func (c *HTTPClient) Day(ctx context.Context, key string) (tracker.DayView, error) {
	body, err := c.get(ctx, "/api/v1/days/"+url.PathEscape(key), nil)
	if err != nil {
		return tracker.DayView{}, err
	}

	var day tracker.DayView
	if err := json.Unmarshal(body, &day); err != nil {
		return tracker.DayView{}, fmt.Errorf("httpclient: decode day: %w", err)
	}
	return day, nil
}

func (c *HTTPClient) Types(ctx context.Context) ([]models.ExerciseType, error) {
	body, err := c.get(ctx, "/api/v1/types", nil)
	if err != nil {
		return nil, err
	}

	var types []models.ExerciseType
	if err := json.Unmarshal(body, &types); err != nil {
		return nil, fmt.Errorf("httpclient: decode types: %w", err)
	}
	return types, nil
}

func (c *HTTPClient) LogReps(ctx context.Context, req tracker.LogRequest) (models.LogEntry, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return models.LogEntry{}, fmt.Errorf("httpclient: encode log request: %w", err)
	}
	body, err := c.post(ctx, "/api/v1/logs", payload, http.StatusCreated)
	if err != nil {
		return models.LogEntry{}, err
	}

	var entry models.LogEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		return models.LogEntry{}, fmt.Errorf("httpclient: decode log entry: %w", err)
	}
	return entry, nil
}

func (c *HTTPClient) State(ctx context.Context) (models.AppState, error) {
	body, err := c.get(ctx, "/api/v1/state", nil)
	if err != nil {
		return models.AppState{}, err
	}

	var state models.AppState
	if err := json.Unmarshal(body, &state); err != nil {
		return models.AppState{}, fmt.Errorf("httpclient: decode state: %w", err)
	}
	return state, nil
}

// Restore uploads a JSON backup to the server, which validates it and
// replaces its ledger.
func (c *HTTPClient) Restore(ctx context.Context, backup []byte) (models.AppState, error) {
	body, err := c.post(ctx, "/api/v1/import", backup, http.StatusOK)
	if err != nil {
		return models.AppState{}, err
	}

	var state models.AppState
	if err := json.Unmarshal(body, &state); err != nil {
		return models.AppState{}, fmt.Errorf("httpclient: decode restored state: %w", err)
	}
	return state, nil
}

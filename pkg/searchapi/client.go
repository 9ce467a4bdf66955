package searchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	datatable "github.com/goliatone/go-datatable/components/datatable"
)

// Config configures the HTTP search client.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// Client talks to a remote row-search service via REST endpoints. It
// implements datatable.Searcher over dynamic rows.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// New builds a client capable of hitting a live search API.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("searchapi: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

var _ datatable.Searcher[datatable.Row] = (*Client)(nil)

// Search implements datatable.Searcher by calling the remote search endpoint.
func (c *Client) Search(ctx context.Context, query datatable.SearchQuery) ([]datatable.Row, error) {
	req := searchRequest{}
	if query.Match != nil {
		req.Column = query.Match.Column
		req.Value = query.Match.Value
		req.Operator = string(query.Match.Operator)
	}
	if query.Window != nil {
		req.Field = query.Window.Field
		req.Start = query.Window.Start.Format(time.RFC3339)
		req.End = query.Window.End.Format(time.RFC3339)
	}
	var resp searchResponse
	if err := c.do(ctx, http.MethodPost, "/rows/search", req, &resp); err != nil {
		return nil, err
	}
	return resp.Rows, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("searchapi: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("searchapi: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("searchapi: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("searchapi: remote error %d: %s", resp.StatusCode, buf.String())
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("searchapi: decode response: %w", err)
	}
	return nil
}

type searchRequest struct {
	Column   string `json:"column,omitempty"`
	Value    string `json:"value,omitempty"`
	Operator string `json:"operator,omitempty"`
	Field    string `json:"field,omitempty"`
	Start    string `json:"start,omitempty"`
	End      string `json:"end,omitempty"`
}

type searchResponse struct {
	Rows []datatable.Row `json:"rows"`
}

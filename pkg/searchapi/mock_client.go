package searchapi

import (
	"context"
	"strings"
	"sync"

	datatable "github.com/goliatone/go-datatable/components/datatable"
)

// MockData seeds deterministic search responses for tests or local demos.
type MockData struct {
	Rows []datatable.Row
	Err  error
}

// MockClient implements datatable.Searcher using in-memory fixtures. It
// filters the seeded rows locally so demos behave like a live backend.
type MockClient struct {
	data  MockData
	mu    sync.RWMutex
	calls []datatable.SearchQuery
}

// NewMockClient builds a mock search client from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	return &MockClient{data: data}
}

var _ datatable.Searcher[datatable.Row] = (*MockClient)(nil)

// Search filters the seeded rows by the query criteria.
func (c *MockClient) Search(ctx context.Context, query datatable.SearchQuery) ([]datatable.Row, error) {
	c.mu.Lock()
	c.calls = append(c.calls, query)
	c.mu.Unlock()

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data.Err != nil {
		return nil, c.data.Err
	}
	out := make([]datatable.Row, 0, len(c.data.Rows))
	for _, row := range c.data.Rows {
		if matches(row, query) {
			out = append(out, cloneRow(row))
		}
	}
	return out, nil
}

// Calls returns the queries recorded so far.
func (c *MockClient) Calls() []datatable.SearchQuery {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]datatable.SearchQuery(nil), c.calls...)
}

func matches(row datatable.Row, query datatable.SearchQuery) bool {
	if query.Match != nil {
		value := strings.ToLower(datatable.FormatValue(row[query.Match.Column]))
		needle := strings.ToLower(query.Match.Value)
		switch query.Match.Operator {
		case datatable.OpPrefix:
			if !strings.HasPrefix(value, needle) {
				return false
			}
		case datatable.OpContains:
			if !strings.Contains(value, needle) {
				return false
			}
		default:
			if value != needle {
				return false
			}
		}
	}
	if query.Window != nil && query.Window.Field != "" {
		ts, ok := datatable.ParseTime(row[query.Window.Field])
		if !ok || !query.Window.Contains(ts) {
			return false
		}
	}
	return true
}

func cloneRow(row datatable.Row) datatable.Row {
	out := make(datatable.Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

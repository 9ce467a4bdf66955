package datatable

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"
)

type applyRecorder struct {
	mu     sync.Mutex
	rows   [][]person
	resets int
}

func (r *applyRecorder) apply(_ context.Context, rows []person) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, rows)
}

func (r *applyRecorder) reset(context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets++
}

func (r *applyRecorder) lastRows() []person {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.rows) == 0 {
		return nil
	}
	return r.rows[len(r.rows)-1]
}

func TestNewSearchAdapterValidatesOptions(t *testing.T) {
	_, err := NewSearchAdapter(SearchOptions[person]{})
	if err == nil {
		t.Fatalf("expected error for missing searcher")
	}
	_, err = NewSearchAdapter(SearchOptions[person]{
		Searcher: SearcherFunc[person](func(context.Context, SearchQuery) ([]person, error) { return nil, nil }),
	})
	if err == nil {
		t.Fatalf("expected error for missing apply")
	}
}

func TestTriggerWritesParamsAndAppliesRows(t *testing.T) {
	recorder := &applyRecorder{}
	store := NewURLValuesStore(url.Values{})
	want := []person{{ID: "p-01", Email: "bob@example.com"}}

	adapter, err := NewSearchAdapter(SearchOptions[person]{
		Searcher: SearcherFunc[person](func(_ context.Context, query SearchQuery) ([]person, error) {
			if query.Match == nil || query.Match.Column != "email" {
				t.Fatalf("unexpected query %+v", query)
			}
			return want, nil
		}),
		Apply:  recorder.apply,
		Params: store,
	})
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}

	desc := SearchDescriptor{Column: "email", Value: "bob@example.com"}
	if err := adapter.Trigger(context.Background(), desc); err != nil {
		t.Fatalf("trigger: %v", err)
	}

	if got := store.Encode(); got != "column=email&operator=eq&q=bob%40example.com" {
		t.Fatalf("unexpected param encoding %q", got)
	}
	if adapter.Phase() != PhaseActive {
		t.Fatalf("expected active phase, got %s", adapter.Phase())
	}
	if rows := recorder.lastRows(); len(rows) != 1 || rows[0].ID != "p-01" {
		t.Fatalf("expected search result applied, got %+v", rows)
	}
	if adapter.Descriptor().Operator != OpEquals {
		t.Fatalf("expected default operator eq, got %q", adapter.Descriptor().Operator)
	}
}

func TestTriggerZeroDescriptorClears(t *testing.T) {
	recorder := &applyRecorder{}
	store := NewMemoryStore()
	store.Set("q", "leftover")
	store.Set("column", "email")

	adapter, err := NewSearchAdapter(SearchOptions[person]{
		Searcher: SearcherFunc[person](func(context.Context, SearchQuery) ([]person, error) {
			t.Fatalf("zero descriptor must not hit the searcher")
			return nil, nil
		}),
		Apply:  recorder.apply,
		Reset:  recorder.reset,
		Params: store,
	})
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}

	if err := adapter.Trigger(context.Background(), SearchDescriptor{}); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if _, ok := store.Get("q"); ok {
		t.Fatalf("clear should remove the value param")
	}
	if _, ok := store.Get("column"); ok {
		t.Fatalf("clear should remove the column param")
	}
	if recorder.resets != 1 {
		t.Fatalf("expected reset callback, got %d", recorder.resets)
	}
	if adapter.Phase() != PhaseIdle {
		t.Fatalf("expected idle phase, got %s", adapter.Phase())
	}
}

func TestTriggerFailureRollsBack(t *testing.T) {
	recorder := &applyRecorder{}
	store := NewMemoryStore()
	var gotErr error

	adapter, err := NewSearchAdapter(SearchOptions[person]{
		Searcher: SearcherFunc[person](func(context.Context, SearchQuery) ([]person, error) {
			return nil, errors.New("backend down")
		}),
		Apply:   recorder.apply,
		OnError: func(_ context.Context, err error) { gotErr = err },
		Params:  store,
	})
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}

	err = adapter.Trigger(context.Background(), SearchDescriptor{Column: "email", Value: "bob"})
	if err == nil {
		t.Fatalf("expected trigger to surface the failure")
	}
	if gotErr == nil {
		t.Fatalf("expected OnError callback")
	}
	if _, ok := store.Get("q"); ok {
		t.Fatalf("failed search should roll the params back")
	}
	if adapter.Phase() != PhaseIdle {
		t.Fatalf("expected rollback to idle, got %s", adapter.Phase())
	}
	if len(recorder.rows) != 0 {
		t.Fatalf("failed search must not apply rows")
	}
}

func TestStaleResultNeverOverwritesNewer(t *testing.T) {
	recorder := &applyRecorder{}
	firstStarted := make(chan struct{})
	release := make(chan struct{})

	adapter, err := NewSearchAdapter(SearchOptions[person]{
		Searcher: SearcherFunc[person](func(_ context.Context, query SearchQuery) ([]person, error) {
			if query.Match.Value == "slow" {
				close(firstStarted)
				<-release
				return []person{{ID: "stale"}}, nil
			}
			return []person{{ID: "fresh"}}, nil
		}),
		Apply: recorder.apply,
	})
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}

	ctx := context.Background()
	done := make(chan error, 1)
	go func() {
		done <- adapter.Trigger(ctx, SearchDescriptor{Column: "email", Value: "slow"})
	}()
	<-firstStarted

	if err := adapter.Trigger(ctx, SearchDescriptor{Column: "email", Value: "fast"}); err != nil {
		t.Fatalf("second trigger: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("superseded trigger should return nil, got %v", err)
	}

	if rows := recorder.lastRows(); len(rows) != 1 || rows[0].ID != "fresh" {
		t.Fatalf("stale result overwrote newer data: %+v", rows)
	}
	if adapter.Descriptor().Value != "fast" {
		t.Fatalf("descriptor should reflect the newest trigger, got %q", adapter.Descriptor().Value)
	}
}

func TestHydrateAndRestoreFromParams(t *testing.T) {
	values := url.Values{}
	values.Set("column", "email")
	values.Set("q", "bob@example.com")
	values.Set("operator", "prefix")
	values.Set("timeRange", "1month")
	store := NewURLValuesStore(values)

	recorder := &applyRecorder{}
	var gotQuery SearchQuery
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	adapter, err := NewSearchAdapter(SearchOptions[person]{
		Searcher: SearcherFunc[person](func(_ context.Context, query SearchQuery) ([]person, error) {
			gotQuery = query
			return nil, nil
		}),
		Apply:     recorder.apply,
		Params:    store,
		TimeField: "joined",
		Now:       func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}

	desc := adapter.Descriptor()
	if desc.Column != "email" || desc.Value != "bob@example.com" || desc.Operator != OpPrefix || desc.TimeRange != Range1Month {
		t.Fatalf("hydration mismatch: %+v", desc)
	}

	if err := adapter.Restore(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if gotQuery.Match == nil || gotQuery.Match.Value != "bob@example.com" {
		t.Fatalf("restore should re-run the hydrated search, got %+v", gotQuery)
	}
	if gotQuery.Window == nil || gotQuery.Window.Field != "joined" {
		t.Fatalf("expected time window on the query, got %+v", gotQuery.Window)
	}
	if !gotQuery.Window.Start.Equal(now.AddDate(0, -1, 0)) || !gotQuery.Window.End.Equal(now) {
		t.Fatalf("unexpected window bounds %+v", gotQuery.Window)
	}
}

func TestTriggerUnknownTimeRangeFails(t *testing.T) {
	adapter, err := NewSearchAdapter(SearchOptions[person]{
		Searcher: SearcherFunc[person](func(context.Context, SearchQuery) ([]person, error) { return nil, nil }),
		Apply:    (&applyRecorder{}).apply,
	})
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	err = adapter.Trigger(context.Background(), SearchDescriptor{TimeRange: TimeRange("fortnight")})
	if err == nil {
		t.Fatalf("expected error for unknown time range")
	}
	if adapter.Phase() != PhaseIdle {
		t.Fatalf("failed validation should leave the adapter idle")
	}
}

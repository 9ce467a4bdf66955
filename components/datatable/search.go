package datatable

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Operator names the server-side comparison applied to the search value.
type Operator string

const (
	OpEquals   Operator = "eq"
	OpPrefix   Operator = "prefix"
	OpContains Operator = "contains"
)

// SearchDescriptor is the tuple describing an active server-side search,
// mirrored one-to-one into the param store.
type SearchDescriptor struct {
	Column    string    `json:"column,omitempty"`
	Value     string    `json:"value,omitempty"`
	Operator  Operator  `json:"operator,omitempty"`
	TimeRange TimeRange `json:"time_range,omitempty"`
}

// IsZero reports whether the descriptor carries no search criteria. A zero
// descriptor triggers the documented clear fallback.
func (d SearchDescriptor) IsZero() bool {
	return d.Value == "" && d.TimeRange == RangeNone
}

// MatchCriterion is the value-match half of a server-side query.
type MatchCriterion struct {
	Column   string   `json:"column"`
	Value    string   `json:"value"`
	Operator Operator `json:"operator"`
}

// SearchQuery is the server-side query description built from a descriptor:
// at most one value-match criterion and one time-range criterion.
type SearchQuery struct {
	Match  *MatchCriterion `json:"match,omitempty"`
	Window *TimeWindow     `json:"window,omitempty"`
}

// Searcher performs the asynchronous search round-trip. Implementations talk
// to whatever backend holds the rows; pkg/searchapi ships a REST client.
type Searcher[T any] interface {
	Search(ctx context.Context, query SearchQuery) ([]T, error)
}

// SearcherFunc adapts a function to the Searcher interface.
type SearcherFunc[T any] func(ctx context.Context, query SearchQuery) ([]T, error)

func (f SearcherFunc[T]) Search(ctx context.Context, query SearchQuery) ([]T, error) {
	return f(ctx, query)
}

// SearchPhase is the adapter's lifecycle position.
type SearchPhase string

const (
	PhaseIdle      SearchPhase = "idle"
	PhaseSearching SearchPhase = "searching"
	PhaseActive    SearchPhase = "active"
)

// SearchOptions configures a SearchAdapter.
type SearchOptions[T any] struct {
	// Searcher performs the network round-trip. Required.
	Searcher Searcher[T]
	// Apply installs a search result as the table's row input, typically
	// Table.ReplaceRows. Required. Must not call back into the adapter.
	Apply func(ctx context.Context, rows []T)
	// Reset restores the initial dataset on clear, typically
	// Table.RestoreRows.
	Reset func(ctx context.Context)
	// OnError receives search failures; the adapter has already rolled its
	// state back when it fires.
	OnError func(ctx context.Context, err error)
	// Params is the injected query-string store. Defaults to an in-memory
	// store. Concurrent adapters sharing one namespace clobber each other;
	// give each table its own store or keys.
	Params ParamStore
	// Keys overrides the recognized parameter names.
	Keys ParamKeys
	// TimeField names the row field the time window applies to. Defaults to
	// "created_at".
	TimeField string
	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time

	Telemetry Telemetry
}

// SearchAdapter synchronizes a search descriptor bidirectionally with the
// param store and swaps the table's row input with server-side results.
// Results carry a monotonic sequence: a trigger supersedes any still-pending
// one, so a stale response resolving late can never overwrite newer data.
type SearchAdapter[T any] struct {
	searcher  Searcher[T]
	apply     func(ctx context.Context, rows []T)
	reset     func(ctx context.Context)
	onError   func(ctx context.Context, err error)
	params    ParamStore
	keys      ParamKeys
	timeField string
	now       func() time.Time
	telemetry Telemetry

	mu    sync.Mutex
	seq   uint64
	desc  SearchDescriptor
	phase SearchPhase
}

// NewSearchAdapter builds an adapter and hydrates its descriptor from the
// param store, so a table mounted from a bookmarked URL reconstructs the
// same search.
func NewSearchAdapter[T any](opts SearchOptions[T]) (*SearchAdapter[T], error) {
	if opts.Searcher == nil {
		return nil, errMissingSearcher
	}
	if opts.Apply == nil {
		return nil, errMissingApply
	}
	if opts.Params == nil {
		opts.Params = NewMemoryStore()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TimeField == "" {
		opts.TimeField = "created_at"
	}
	a := &SearchAdapter[T]{
		searcher:  opts.Searcher,
		apply:     opts.Apply,
		reset:     opts.Reset,
		onError:   opts.OnError,
		params:    opts.Params,
		keys:      opts.Keys.normalize(),
		timeField: opts.TimeField,
		now:       opts.Now,
		telemetry: normalizeTelemetry(opts.Telemetry),
		phase:     PhaseIdle,
	}
	a.Hydrate()
	return a, nil
}

// Descriptor returns the current search descriptor.
func (a *SearchAdapter[T]) Descriptor() SearchDescriptor {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.desc
}

// Phase returns the adapter's lifecycle position.
func (a *SearchAdapter[T]) Phase() SearchPhase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase
}

// Active reports whether a search result is currently applied.
func (a *SearchAdapter[T]) Active() bool {
	return a.Phase() == PhaseActive
}

// Hydrate reads the param store and reconstructs the descriptor. It does not
// trigger a round-trip; use Restore for that.
func (a *SearchAdapter[T]) Hydrate() (SearchDescriptor, bool) {
	var desc SearchDescriptor
	if v, ok := a.params.Get(a.keys.Column); ok {
		desc.Column = v
	}
	if v, ok := a.params.Get(a.keys.Value); ok {
		desc.Value = v
	}
	if v, ok := a.params.Get(a.keys.Operator); ok {
		desc.Operator = Operator(v)
	}
	if v, ok := a.params.Get(a.keys.TimeRange); ok {
		desc.TimeRange = TimeRange(v)
	}
	if desc.IsZero() {
		return SearchDescriptor{}, false
	}
	a.mu.Lock()
	a.desc = normalizeDescriptor(desc)
	a.mu.Unlock()
	return desc, true
}

// Restore re-runs the hydrated search, if any. Called on mount when the URL
// carries search parameters.
func (a *SearchAdapter[T]) Restore(ctx context.Context) error {
	desc, ok := a.Hydrate()
	if !ok {
		return nil
	}
	return a.Trigger(ctx, desc)
}

// Trigger commits a search: it mirrors the descriptor into the param store,
// performs the round-trip, and applies the result. An all-empty descriptor
// behaves as Clear. On failure the descriptor and params roll back to their
// pre-trigger values and the error is surfaced through OnError.
func (a *SearchAdapter[T]) Trigger(ctx context.Context, desc SearchDescriptor) error {
	if desc.IsZero() {
		return a.Clear(ctx)
	}
	desc = normalizeDescriptor(desc)

	a.mu.Lock()
	prevDesc, prevPhase := a.desc, a.phase
	a.seq++
	seq := a.seq
	a.desc = desc
	a.phase = PhaseSearching
	a.writeParams(desc)
	query, err := a.buildQuery(desc)
	if err != nil {
		a.desc, a.phase = prevDesc, prevPhase
		a.restoreParams(prevDesc)
		a.mu.Unlock()
		return err
	}
	a.mu.Unlock()

	rows, err := a.searcher.Search(ctx, query)

	a.mu.Lock()
	if a.seq != seq {
		// A newer trigger superseded this one while the round-trip was in
		// flight; last write wins.
		a.mu.Unlock()
		a.telemetry.Record(ctx, "datatable.search.superseded", map[string]any{
			"column": desc.Column,
		})
		return nil
	}
	if err != nil {
		a.desc, a.phase = prevDesc, prevPhase
		a.restoreParams(prevDesc)
		a.mu.Unlock()
		wrapped := fmt.Errorf("datatable: search failed: %w", err)
		if a.onError != nil {
			a.onError(ctx, wrapped)
		}
		a.telemetry.Record(ctx, "datatable.search.error", map[string]any{
			"column": desc.Column,
			"error":  err.Error(),
		})
		return wrapped
	}
	a.phase = PhaseActive
	a.apply(ctx, rows)
	a.mu.Unlock()

	a.telemetry.Record(ctx, "datatable.search.applied", map[string]any{
		"column": desc.Column,
		"rows":   len(rows),
	})
	return nil
}

// Clear removes the search parameters, returns the adapter to Idle, and
// restores the initial dataset. Any in-flight search is superseded.
func (a *SearchAdapter[T]) Clear(ctx context.Context) error {
	a.mu.Lock()
	a.seq++
	a.desc = SearchDescriptor{}
	a.phase = PhaseIdle
	a.params.Delete(a.keys.Column)
	a.params.Delete(a.keys.Value)
	a.params.Delete(a.keys.Operator)
	a.params.Delete(a.keys.TimeRange)
	a.mu.Unlock()

	if a.reset != nil {
		a.reset(ctx)
	}
	a.telemetry.Record(ctx, "datatable.search.cleared", nil)
	return nil
}

func (a *SearchAdapter[T]) buildQuery(desc SearchDescriptor) (SearchQuery, error) {
	var query SearchQuery
	if desc.Value != "" {
		query.Match = &MatchCriterion{
			Column:   desc.Column,
			Value:    desc.Value,
			Operator: desc.Operator,
		}
	}
	if desc.TimeRange != RangeNone {
		window, err := WindowFor(a.now(), desc.TimeRange)
		if err != nil {
			return SearchQuery{}, err
		}
		window.Field = a.timeField
		query.Window = &window
	}
	return query, nil
}

func (a *SearchAdapter[T]) writeParams(desc SearchDescriptor) {
	setOrDelete(a.params, a.keys.Column, desc.Column)
	setOrDelete(a.params, a.keys.Value, desc.Value)
	setOrDelete(a.params, a.keys.Operator, string(desc.Operator))
	setOrDelete(a.params, a.keys.TimeRange, string(desc.TimeRange))
}

func (a *SearchAdapter[T]) restoreParams(desc SearchDescriptor) {
	if desc.IsZero() {
		a.params.Delete(a.keys.Column)
		a.params.Delete(a.keys.Value)
		a.params.Delete(a.keys.Operator)
		a.params.Delete(a.keys.TimeRange)
		return
	}
	a.writeParams(desc)
}

func setOrDelete(store ParamStore, key, value string) {
	if value == "" {
		store.Delete(key)
		return
	}
	store.Set(key, value)
}

func normalizeDescriptor(desc SearchDescriptor) SearchDescriptor {
	if desc.Value != "" && desc.Operator == "" {
		desc.Operator = OpEquals
	}
	return desc
}

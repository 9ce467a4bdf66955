package datatable

import (
	"net/url"
	"sync"
)

// ParamStore abstracts the URL query string as an injected key-value store
// so table instances can be given distinct namespaces, or an in-memory store
// for testing, instead of a single global location bar. An absent key means
// "not set", never an empty string.
type ParamStore interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// ParamKeys names the query parameters the search adapter mirrors its
// descriptor into.
type ParamKeys struct {
	Column    string
	Value     string
	Operator  string
	TimeRange string
}

// DefaultParamKeys are the recognized parameter names when none are
// configured.
var DefaultParamKeys = ParamKeys{
	Column:    "column",
	Value:     "q",
	Operator:  "operator",
	TimeRange: "timeRange",
}

func (k ParamKeys) normalize() ParamKeys {
	if k.Column == "" {
		k.Column = DefaultParamKeys.Column
	}
	if k.Value == "" {
		k.Value = DefaultParamKeys.Value
	}
	if k.Operator == "" {
		k.Operator = DefaultParamKeys.Operator
	}
	if k.TimeRange == "" {
		k.TimeRange = DefaultParamKeys.TimeRange
	}
	return k
}

// MemoryStore is a concurrency-safe in-memory ParamStore.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// URLValuesStore adapts url.Values (a request query, a location bar) to the
// ParamStore contract. Mutations write through to the underlying values so
// the caller can re-encode them into a URL.
type URLValuesStore struct {
	mu     sync.RWMutex
	values url.Values
}

// NewURLValuesStore wraps the given values; nil starts empty.
func NewURLValuesStore(values url.Values) *URLValuesStore {
	if values == nil {
		values = url.Values{}
	}
	return &URLValuesStore{values: values}
}

func (s *URLValuesStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.values.Has(key) {
		return "", false
	}
	return s.values.Get(key), true
}

func (s *URLValuesStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values.Set(key, value)
}

func (s *URLValuesStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values.Del(key)
}

// Encode returns the current query string.
func (s *URLValuesStore) Encode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Encode()
}

package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	datatable "github.com/goliatone/go-datatable/components/datatable"
	"github.com/goliatone/go-datatable/components/datatable/commands"
	"github.com/goliatone/go-datatable/components/datatable/queries"
)

type stubCommander[T any] struct {
	last  T
	calls int
	err   error
}

func (s *stubCommander[T]) Execute(ctx context.Context, msg T) error {
	s.last = msg
	s.calls++
	return s.err
}

type stubPageQuerier struct {
	payload datatable.PagePayload
	calls   int
}

func (s *stubPageQuerier) Query(context.Context, queries.PageRequest) (datatable.PagePayload, error) {
	s.calls++
	return s.payload, nil
}

func TestHandlePage(t *testing.T) {
	page := &stubPageQuerier{payload: datatable.PagePayload{TableID: "orders", PageCount: 3}}
	api := &Handlers{Page: page}
	req := httptest.NewRequest(http.MethodGet, "/table", nil)
	rec := httptest.NewRecorder()
	api.HandlePage(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got datatable.PagePayload
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if got.TableID != "orders" || got.PageCount != 3 {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestHandleExport(t *testing.T) {
	export := &stubCommander[commands.ExportSelectionInput]{}
	api := &Handlers{Export: export}
	req := httptest.NewRequest(http.MethodPost, "/table/export", nil)
	rec := httptest.NewRecorder()
	api.HandleExport(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if export.calls != 1 {
		t.Fatalf("expected export to execute")
	}
}

func TestHandleSearch(t *testing.T) {
	search := &stubCommander[commands.SearchInput]{}
	api := &Handlers{Search: search}
	payload := commands.SearchInput{Column: "email", Value: "bob@example.com", Operator: "eq"}
	buf, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/table/search", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	api.HandleSearch(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if search.last.Column != "email" {
		t.Fatalf("expected column propagation, got %+v", search.last)
	}
}

func TestHandleSearchRejectsBadBody(t *testing.T) {
	search := &stubCommander[commands.SearchInput]{}
	api := &Handlers{Search: search}
	req := httptest.NewRequest(http.MethodPost, "/table/search", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	api.HandleSearch(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if search.calls != 0 {
		t.Fatalf("expected search to be skipped")
	}
}

func TestHandleClearSearch(t *testing.T) {
	clear := &stubCommander[commands.ClearSearchInput]{}
	api := &Handlers{ClearSearch: clear}
	req := httptest.NewRequest(http.MethodPost, "/table/search/clear", nil)
	rec := httptest.NewRecorder()
	api.HandleClearSearch(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if clear.calls != 1 {
		t.Fatalf("expected clear to execute")
	}
}

package httpapi

import (
	"encoding/json"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	datatable "github.com/goliatone/go-datatable/components/datatable"
	"github.com/goliatone/go-datatable/components/datatable/commands"
	"github.com/goliatone/go-datatable/components/datatable/queries"
)

// Handlers exposes HTTP endpoints backed by shared commands and queries.
type Handlers struct {
	Page        gocommand.Querier[queries.PageRequest, datatable.PagePayload]
	Export      gocommand.Commander[commands.ExportSelectionInput]
	Print       gocommand.Commander[commands.PrintSelectionInput]
	Share       gocommand.Commander[commands.ShareSelectionInput]
	Search      gocommand.Commander[commands.SearchInput]
	ClearSearch gocommand.Commander[commands.ClearSearchInput]
}

func (h *Handlers) HandlePage(w http.ResponseWriter, r *http.Request) {
	payload, err := h.Page.Query(r.Context(), queries.PageRequest{})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	if err := h.Export.Execute(r.Context(), commands.ExportSelectionInput{}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) HandlePrint(w http.ResponseWriter, r *http.Request) {
	if err := h.Print.Execute(r.Context(), commands.PrintSelectionInput{}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) HandleShare(w http.ResponseWriter, r *http.Request) {
	if err := h.Share.Execute(r.Context(), commands.ShareSelectionInput{}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var payload commands.SearchInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Search.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleClearSearch(w http.ResponseWriter, r *http.Request) {
	if err := h.ClearSearch.Execute(r.Context(), commands.ClearSearchInput{}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

package gorouter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	router "github.com/goliatone/go-router"

	datatable "github.com/goliatone/go-datatable/components/datatable"
	"github.com/goliatone/go-datatable/components/datatable/commands"
	"github.com/goliatone/go-datatable/components/datatable/httpapi"
)

// Config wires go-router with datatable controllers, APIs, and hooks.
type Config[T any] struct {
	Router     router.Router[T]
	Controller *datatable.Controller
	API        httpapi.Executor
	Broadcast  *datatable.BroadcastHook
	BasePath   string
	Routes     RouteConfig
}

// RouteConfig customizes the relative paths used for table endpoints.
type RouteConfig struct {
	Page        string
	Sort        string
	Filter      string
	Paginate    string
	Select      string
	Search      string
	ClearSearch string
	Export      string
	Print       string
	Share       string
	Summary     string
	WebSocket   string
}

// Register mounts table routes (JSON, REST, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := cfg.routes()
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}

	group := cfg.Router.Group(base)

	group.Get(routes.Page, router.WrapHandler(func(ctx router.Context) error {
		return ctx.JSON(http.StatusOK, cfg.Controller.Page(ctx.Context()))
	}))

	group.Post(routes.Sort, router.WrapHandler(func(ctx router.Context) error {
		var payload struct {
			Column    string `json:"column"`
			Direction string `json:"direction,omitempty"`
		}
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if payload.Column == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("column is required"))
		}
		cfg.Controller.Sort(ctx.Context(), payload.Column, datatable.SortDirection(payload.Direction))
		return ctx.JSON(http.StatusOK, cfg.Controller.Page(ctx.Context()))
	}))

	group.Post(routes.Filter, router.WrapHandler(func(ctx router.Context) error {
		var payload struct {
			Column string `json:"column"`
			Value  any    `json:"value"`
		}
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if payload.Column == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("column is required"))
		}
		cfg.Controller.Filter(ctx.Context(), payload.Column, payload.Value)
		return ctx.JSON(http.StatusOK, cfg.Controller.Page(ctx.Context()))
	}))

	group.Post(routes.Paginate, router.WrapHandler(func(ctx router.Context) error {
		index, err := strconv.Atoi(ctx.Query("page", "0"))
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		size := 0
		if raw := ctx.Query("size"); raw != "" {
			size, err = strconv.Atoi(raw)
			if err != nil {
				return respondError(ctx, http.StatusBadRequest, err)
			}
		}
		if err := cfg.Controller.Paginate(ctx.Context(), index, size); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		return ctx.JSON(http.StatusOK, cfg.Controller.Page(ctx.Context()))
	}))

	group.Post(routes.Select, router.WrapHandler(func(ctx router.Context) error {
		var payload datatable.SelectionRequest
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := cfg.Controller.Select(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		return ctx.JSON(http.StatusOK, cfg.Controller.Page(ctx.Context()))
	}))

	group.Get(routes.Summary, router.WrapHandler(func(ctx router.Context) error {
		cfg0 := datatable.SummaryChartConfig{
			Title:       ctx.Query("title"),
			Type:        ctx.Query("type", "bar"),
			GroupBy:     ctx.Query("group_by"),
			Metric:      ctx.Query("metric", "count"),
			ValueColumn: ctx.Query("value_column"),
		}
		html, err := cfg.Controller.RenderSummary(ctx.Context(), cfg0)
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send([]byte(html))
	}))

	if cfg.API != nil {
		registerAPI(group, cfg.API, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, routes RouteConfig) {
	r.Post(routes.Export, router.WrapHandler(func(ctx router.Context) error {
		if err := api.Export(ctx.Context(), commands.ExportSelectionInput{}); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "exported"})
	}))

	r.Post(routes.Print, router.WrapHandler(func(ctx router.Context) error {
		if err := api.Print(ctx.Context(), commands.PrintSelectionInput{}); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "printed"})
	}))

	r.Post(routes.Share, router.WrapHandler(func(ctx router.Context) error {
		if err := api.Share(ctx.Context(), commands.ShareSelectionInput{}); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "shared"})
	}))

	r.Post(routes.Search, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SearchInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Search(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "searched"})
	}))

	r.Post(routes.ClearSearch, router.WrapHandler(func(ctx router.Context) error {
		if err := api.ClearSearch(ctx.Context(), commands.ClearSearchInput{}); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "cleared"})
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *datatable.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func (cfg Config[T]) routes() RouteConfig {
	return defaultRouteConfig(cfg.Routes)
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Page == "" {
		routes.Page = "/table"
	}
	if routes.Sort == "" {
		routes.Sort = "/table/sort"
	}
	if routes.Filter == "" {
		routes.Filter = "/table/filter"
	}
	if routes.Paginate == "" {
		routes.Paginate = "/table/page"
	}
	if routes.Select == "" {
		routes.Select = "/table/select"
	}
	if routes.Search == "" {
		routes.Search = "/table/search"
	}
	if routes.ClearSearch == "" {
		routes.ClearSearch = "/table/search/clear"
	}
	if routes.Export == "" {
		routes.Export = "/table/export"
	}
	if routes.Print == "" {
		routes.Print = "/table/print"
	}
	if routes.Share == "" {
		routes.Share = "/table/share"
	}
	if routes.Summary == "" {
		routes.Summary = "/table/summary"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/table/ws"
	}
	return routes
}

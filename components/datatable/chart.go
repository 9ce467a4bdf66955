package datatable

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "360px"

var sharedRenderCache = NewRenderCache(5 * time.Minute)

// SummaryChartConfig describes a distribution chart over the filtered rows:
// buckets grouped by one column, measured by count or by the sum of another.
type SummaryChartConfig struct {
	Title       string `json:"title,omitempty"`
	Type        string `json:"type,omitempty"`   // "bar" (default) or "pie"
	GroupBy     string `json:"group_by"`         // bucket column id
	Metric      string `json:"metric,omitempty"` // "count" (default) or "sum"
	ValueColumn string `json:"value_column,omitempty"`
	Theme       string `json:"theme,omitempty"`
	Limit       int    `json:"limit,omitempty"` // max buckets, rest folded into "Other"
}

// Bucket is one aggregated slice of the summary.
type Bucket struct {
	Label string
	Value float64
}

// SummaryChart renders server-side echarts markup summarizing the current
// filtered row set. Revenue and appointment summaries reuse it across
// tables.
type SummaryChart[T any] struct {
	columns    []Column[T]
	cache      RenderCache
	theme      string
	assetsHost string
}

// SummaryChartOption customizes chart rendering.
type SummaryChartOption[T any] func(*SummaryChart[T])

// WithSummaryCache injects a render cache.
func WithSummaryCache[T any](cache RenderCache) SummaryChartOption[T] {
	return func(c *SummaryChart[T]) {
		c.cache = cache
	}
}

// WithSummaryTheme sets a static theme (defaults to Westeros).
func WithSummaryTheme[T any](theme string) SummaryChartOption[T] {
	return func(c *SummaryChart[T]) {
		c.theme = theme
	}
}

// WithSummaryAssetsHost rewrites the assets host so the echarts runtime
// loads from a CDN or self-hosted bucket.
func WithSummaryAssetsHost[T any](host string) SummaryChartOption[T] {
	return func(c *SummaryChart[T]) {
		c.assetsHost = host
	}
}

// NewSummaryChart builds a chart renderer over a column model.
func NewSummaryChart[T any](columns []Column[T], options ...SummaryChartOption[T]) (*SummaryChart[T], error) {
	if len(columns) == 0 {
		return nil, errMissingColumns
	}
	normalized, err := normalizeColumns(columns)
	if err != nil {
		return nil, err
	}
	c := &SummaryChart[T]{
		columns: normalized,
		cache:   sharedRenderCache,
		theme:   types.ThemeWesteros,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Aggregate buckets rows by the group-by column. Buckets are ordered by
// value descending; beyond cfg.Limit they fold into an "Other" bucket.
func (c *SummaryChart[T]) Aggregate(rows []T, cfg SummaryChartConfig) ([]Bucket, error) {
	group, ok := c.column(cfg.GroupBy)
	if !ok {
		return nil, fmt.Errorf("datatable: summary group column %q not found", cfg.GroupBy)
	}
	metric := strings.ToLower(cfg.Metric)
	if metric == "" {
		metric = "count"
	}
	var value Column[T]
	if metric == "sum" {
		value, ok = c.column(cfg.ValueColumn)
		if !ok {
			return nil, fmt.Errorf("datatable: summary value column %q not found", cfg.ValueColumn)
		}
	}

	totals := map[string]float64{}
	order := []string{}
	for _, row := range rows {
		label := FormatValue(group.Accessor(row))
		if label == "" {
			label = "(none)"
		}
		if _, seen := totals[label]; !seen {
			order = append(order, label)
		}
		switch metric {
		case "sum":
			if f, ok := toFloat(value.Accessor(row)); ok {
				totals[label] += f
			}
		case "count":
			totals[label]++
		default:
			return nil, fmt.Errorf("datatable: unknown summary metric %q", cfg.Metric)
		}
	}

	buckets := make([]Bucket, 0, len(order))
	for _, label := range order {
		buckets = append(buckets, Bucket{Label: label, Value: totals[label]})
	}
	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].Value > buckets[j].Value })

	if cfg.Limit > 0 && len(buckets) > cfg.Limit {
		var other float64
		for _, b := range buckets[cfg.Limit:] {
			other += b.Value
		}
		buckets = append(buckets[:cfg.Limit], Bucket{Label: "Other", Value: other})
	}
	return buckets, nil
}

// Render aggregates and renders the chart HTML, memoized through the render
// cache.
func (c *SummaryChart[T]) Render(rows []T, cfg SummaryChartConfig) (string, error) {
	buckets, err := c.Aggregate(rows, cfg)
	if err != nil {
		return "", err
	}
	renderFn := func() (string, error) {
		return c.render(buckets, cfg)
	}
	if c.cache == nil {
		return renderFn()
	}
	key := fmt.Sprintf("%s:%s:%s", cfg.GroupBy, cfg.Type, renderHash(map[string]any{
		"cfg":     cfg,
		"buckets": buckets,
	}))
	return c.cache.GetOrRender(key, renderFn)
}

func (c *SummaryChart[T]) render(buckets []Bucket, cfg SummaryChartConfig) (string, error) {
	title := cfg.Title
	if title == "" {
		title = "Summary"
	}
	theme := cfg.Theme
	if theme == "" {
		theme = c.theme
	}
	chartType := strings.ToLower(cfg.Type)
	if chartType == "" {
		chartType = "bar"
	}
	switch chartType {
	case "bar":
		bar := charts.NewBar()
		bar.SetGlobalOptions(c.globalChartOptions(title, theme)...)
		labels := make([]string, len(buckets))
		data := make([]opts.BarData, len(buckets))
		for i, b := range buckets {
			labels[i] = b.Label
			data[i] = opts.BarData{Name: b.Label, Value: b.Value}
		}
		bar.SetXAxis(labels)
		bar.AddSeries(title, data)
		return renderChart(bar)
	case "pie":
		pie := charts.NewPie()
		pie.SetGlobalOptions(c.globalChartOptions(title, theme)...)
		data := make([]opts.PieData, len(buckets))
		for i, b := range buckets {
			data[i] = opts.PieData{Name: b.Label, Value: b.Value}
		}
		pie.AddSeries(title, data)
		return renderChart(pie)
	default:
		return "", fmt.Errorf("datatable: unsupported chart type: %s", cfg.Type)
	}
}

func (c *SummaryChart[T]) globalChartOptions(title, theme string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if c.assetsHost != "" {
		initOpts.AssetsHost = c.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func (c *SummaryChart[T]) column(id string) (Column[T], bool) {
	for _, col := range c.columns {
		if col.ID == id {
			return col, true
		}
	}
	return Column[T]{}, false
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

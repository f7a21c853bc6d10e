// Package dashboard provides the application-level service behind the
// dashboard.  Every call re-derives its result from the current dataset
// snapshot: selection, filtered subset, summary and chart specs.
package dashboard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/turtacn/readiness-dashboard/internal/domain/chart"
	"github.com/turtacn/readiness-dashboard/internal/domain/readiness"
	"github.com/turtacn/readiness-dashboard/internal/infrastructure/database/redis"
	"github.com/turtacn/readiness-dashboard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/readiness-dashboard/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/readiness-dashboard/pkg/errors"
)

// DatasetSource yields the current dataset snapshot.  *dataset.Store
// implements it.
type DatasetSource interface {
	Current() (*readiness.Dataset, error)
	Reload(ctx context.Context) (*readiness.Dataset, error)
}

// Service defines the dashboard operations.
type Service interface {
	Options(ctx context.Context) (*Options, error)
	Countries(ctx context.Context, regions []string) ([]string, error)
	BuildView(ctx context.Context, q Query) (*View, error)
	Records(ctx context.Context, sel readiness.Selection) (*RecordTable, error)
	Reload(ctx context.Context) (*ReloadResult, error)
}

// Config holds the service's defaults.
type Config struct {
	DefaultColorBy chart.ColorBy
	AxisLayout     chart.AxisLayout
	Bounds         chart.Bounds
	CacheTTL       time.Duration
}

type service struct {
	source       DatasetSource
	configurator *chart.Configurator
	cfg          Config
	cache        redis.Cache
	metrics      *prometheus.AppMetrics
	logger       logging.Logger
}

// Option customises the service.
type Option func(*service)

// WithCache enables the view cache.  A nil cache is ignored.
func WithCache(c redis.Cache) Option {
	return func(s *service) { s.cache = c }
}

// WithMetrics records view and fallback metrics.
func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(s *service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService returns the dashboard Service.
func NewService(source DatasetSource, cfg Config, opts ...Option) Service {
	return newService(source, cfg, opts...)
}

func newService(source DatasetSource, cfg Config, opts ...Option) *service {
	if cfg.DefaultColorBy == "" {
		cfg.DefaultColorBy = chart.ColorByRegion
	}
	if cfg.AxisLayout == "" {
		cfg.AxisLayout = chart.LayoutOpportunityY
	}
	s := &service{
		source:  source,
		cfg:     cfg,
		metrics: prometheus.NewNoopAppMetrics(),
		logger:  logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.configurator = chart.NewConfigurator(cfg.Bounds)
	s.logger = s.logger.Named("dashboard")
	return s
}

func (s *service) Options(ctx context.Context) (*Options, error) {
	ds, err := s.source.Current()
	if err != nil {
		return nil, err
	}
	b := s.configurator.Bounds()
	out := &Options{
		Regions:        ds.Table.Regions(),
		ColorSchemes:   colorSchemes(ds.Table.HasInfluence()),
		DefaultColorBy: s.cfg.DefaultColorBy,
		AxisLayout:     s.cfg.AxisLayout,
		BubbleSize:     BubbleSizeRange{Min: b.Min, Max: b.Max, Default: b.Default},
		HasBarChart:    ds.Bars != nil,
		DatasetVersion: ds.Version,
		LoadedAt:       ds.LoadedAt,
	}
	if ds.Table.HasInfluence() {
		out.InfluenceTiers = []readiness.InfluenceTier{readiness.InfluenceAll}
		out.InfluenceTiers = append(out.InfluenceTiers, readiness.InfluenceTiers...)
	}
	return out, nil
}

// Countries returns the country options for the chosen regions.  Nil regions
// means every region.
func (s *service) Countries(ctx context.Context, regions []string) ([]string, error) {
	ds, err := s.source.Current()
	if err != nil {
		return nil, err
	}
	return ds.Table.Countries(regions), nil
}

func (s *service) BuildView(ctx context.Context, q Query) (*View, error) {
	ds, err := s.source.Current()
	if err != nil {
		return nil, err
	}
	q = s.withDefaults(q)

	// Chart options are validated before any cache access so a bad request
	// never reaches the backend.
	if _, err := s.configurator.Configure(q.Chart); err != nil {
		prometheus.RecordError(s.metrics, "dashboard", string(errors.GetCode(err)))
		return nil, err
	}
	if q.Chart.ColorBy == chart.ColorByInfluence && !ds.Table.HasInfluence() {
		return nil, errors.New(errors.ErrCodeChartOptionInvalid, "dataset has no influence column to color by").
			WithDetail(ds.Table.Source)
	}

	if s.cache == nil {
		return s.derive(ctx, ds, q)
	}

	var view View
	hit, err := s.cache.GetOrSet(ctx, viewKey(ds.Version, q), &view, s.cfg.CacheTTL,
		func(ctx context.Context) (interface{}, error) {
			return s.derive(ctx, ds, q)
		})
	prometheus.RecordCacheAccess(s.metrics, "view", hit)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// derive performs one full re-derivation from the snapshot.
func (s *service) derive(ctx context.Context, ds *readiness.Dataset, q Query) (*View, error) {
	start := time.Now()
	log := s.logger.WithContext(ctx)

	sel := q.Selection.WithDefaults(ds.Table)
	res := readiness.Filter(ds.Table, sel)
	if !res.CountryApplied {
		prometheus.RecordFilterFallback(s.metrics, "country")
	}
	if res.InfluenceSkipped {
		prometheus.RecordFilterFallback(s.metrics, "influence")
		log.Debug("influence filter skipped, table has no influence column",
			logging.String("tier", string(sel.Influence)))
	}

	sum := readiness.Summarize(res.Rows)
	scatter, err := s.configurator.Configure(q.Chart)
	if err != nil {
		return nil, err
	}

	view := &View{
		DatasetVersion: ds.Version,
		Selection:      describeSelection(sel),
		Filter: FilterInfo{
			CountryApplied:   res.CountryApplied,
			InfluenceApplied: res.InfluenceApplied,
			InfluenceSkipped: res.InfluenceSkipped,
		},
		Summary:      sum,
		TotalLabel:   sum.TotalLabel(),
		AverageLabel: sum.AverageLabel(),
		NoData:       sum.Empty(),
		Scatter:      scatter,
		Columns:      columnsFor(ds.Table),
		Rows:         res.Rows,
	}
	if ds.Bars != nil {
		bar := chart.ConfigureBar(q.Bar).Attach(readiness.BarsFor(ds.Bars, res.Rows))
		view.Bar = &bar
	}

	elapsed := time.Since(start)
	prometheus.RecordDashboardView(s.metrics, sum.Empty(), elapsed)
	if sum.Empty() {
		log.Info("no matching rows for current filter",
			logging.Strings("regions", sel.Regions),
			logging.Bool("country_filter", res.CountryApplied),
			logging.String("influence", string(sel.Influence)))
	}
	return view, nil
}

func (s *service) Records(ctx context.Context, sel readiness.Selection) (*RecordTable, error) {
	ds, err := s.source.Current()
	if err != nil {
		return nil, err
	}
	sel = sel.WithDefaults(ds.Table)
	res := readiness.Filter(ds.Table, sel)
	return &RecordTable{
		DatasetVersion: ds.Version,
		Columns:        columnsFor(ds.Table),
		Rows:           res.Rows,
		extras:         ds.Table.ExtraColumns(),
		influence:      ds.Table.HasInfluence(),
	}, nil
}

func (s *service) Reload(ctx context.Context) (*ReloadResult, error) {
	prev, _ := s.source.Current()
	ds, err := s.source.Reload(ctx)
	if err != nil {
		return nil, err
	}
	out := &ReloadResult{
		Version:  ds.Version,
		Rows:     ds.Table.Len(),
		BarRows:  ds.Bars.Len(),
		LoadedAt: ds.LoadedAt,
	}
	if prev != nil {
		out.PreviousVersion = prev.Version
	}
	return out, nil
}

// PurgeViews drops cached views of the replaced snapshot.  Register it with
// the dataset store as a reload hook.
func (s *service) PurgeViews(ctx context.Context, prev, _ *readiness.Dataset) {
	if s.cache == nil || prev == nil {
		return
	}
	n, err := s.cache.DeleteByPrefix(ctx, "view:"+prev.Version+":")
	if err != nil {
		s.logger.Warn("failed to purge cached views", logging.String("version", prev.Version), logging.Err(err))
		return
	}
	s.logger.Info("purged cached views", logging.String("version", prev.Version), logging.Int64("deleted", n))
}

// ReloadHook returns the cache purge hook for svc, or nil when svc was not
// built by NewService.
func ReloadHook(svc Service) func(ctx context.Context, prev, next *readiness.Dataset) {
	if s, ok := svc.(*service); ok {
		return s.PurgeViews
	}
	return nil
}

func colorSchemes(influence bool) []chart.ColorBy {
	out := make([]chart.ColorBy, 0, len(chart.ColorSchemes))
	for _, c := range chart.ColorSchemes {
		if c == chart.ColorByInfluence && !influence {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (s *service) withDefaults(q Query) Query {
	if q.Chart.ColorBy == "" {
		q.Chart.ColorBy = s.cfg.DefaultColorBy
	}
	if q.Chart.AxisLayout == "" {
		q.Chart.AxisLayout = s.cfg.AxisLayout
	}
	if q.Chart.InfluenceFilter == "" {
		q.Chart.InfluenceFilter = q.Selection.Influence
	}
	return q
}

// viewKey is view:<dataset version>:<digest of selection and chart toggles>.
func viewKey(version string, q Query) string {
	c := q.Chart
	raw := fmt.Sprintf("%s|%s|%t|%t|%d|%s|%s|%t",
		q.Selection.Key(), c.ColorBy, c.LogScale, c.TickBucketing, c.BubbleSizeMax,
		c.InfluenceFilter, c.AxisLayout, q.Bar.Sort)
	sum := sha256.Sum256([]byte(raw))
	return "view:" + version + ":" + hex.EncodeToString(sum[:12])
}

//Personal.AI order the ending

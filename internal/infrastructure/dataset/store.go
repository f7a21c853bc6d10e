package dataset

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/readiness-dashboard/internal/domain/readiness"
	"github.com/turtacn/readiness-dashboard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/readiness-dashboard/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/readiness-dashboard/pkg/errors"
)

// ReloadHook runs after a new snapshot has been published.  prev is nil on
// the first load.
type ReloadHook func(ctx context.Context, prev, next *readiness.Dataset)

// StoreConfig configures a Store.
type StoreConfig struct {
	PrimaryPath    string
	SecondaryPath  string
	ReloadInterval time.Duration
	Watch          bool
	// Debounce coalesces bursts of file events into one reload.
	Debounce time.Duration
}

// Store owns the current dataset snapshot.  Readers never block: Current
// returns an immutable snapshot that is swapped atomically on reload.
type Store struct {
	cfg     StoreConfig
	loader  *Loader
	metrics *prometheus.AppMetrics
	logger  logging.Logger

	current atomic.Pointer[readiness.Dataset]
	group   singleflight.Group

	mu    sync.Mutex
	hooks []ReloadHook
}

// NewStore returns an empty Store.  Call Load before serving.
func NewStore(cfg StoreConfig, loader *Loader, metrics *prometheus.AppMetrics, logger logging.Logger) *Store {
	if metrics == nil {
		metrics = prometheus.NewNoopAppMetrics()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 500 * time.Millisecond
	}
	return &Store{cfg: cfg, loader: loader, metrics: metrics, logger: logger.Named("dataset")}
}

// OnReload registers a hook called after every successful load.
func (s *Store) OnReload(h ReloadHook) {
	s.mu.Lock()
	s.hooks = append(s.hooks, h)
	s.mu.Unlock()
}

// Current returns the published snapshot.
func (s *Store) Current() (*readiness.Dataset, error) {
	ds := s.current.Load()
	if ds == nil {
		return nil, errors.New(errors.ErrCodeDatasetNotLoaded, "dataset not loaded")
	}
	return ds, nil
}

// Ready reports whether a snapshot has been published.
func (s *Store) Ready() bool { return s.current.Load() != nil }

// Load performs the initial load.  Any error here is fatal to startup.
func (s *Store) Load(ctx context.Context) (*readiness.Dataset, error) {
	return s.Reload(ctx)
}

// Reload reads both tables again and publishes the result.  Concurrent
// callers share one load, which is detached from any single caller's
// cancellation; a caller whose ctx ends stops waiting without aborting the
// load for the others.  On failure the previous snapshot stays current.
func (s *Store) Reload(ctx context.Context) (*readiness.Dataset, error) {
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan("reload", func() (interface{}, error) {
		return s.reload(shared)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("reload shared with concurrent caller")
		}
		return res.Val.(*readiness.Dataset), nil
	}
}

func (s *Store) reload(ctx context.Context) (*readiness.Dataset, error) {
	start := time.Now()

	next, err := s.loader.Load(ctx, s.cfg.PrimaryPath, s.cfg.SecondaryPath,
		func(table string, rows int, elapsed time.Duration, err error) {
			prometheus.RecordDatasetLoad(s.metrics, table, rows, elapsed, err)
		})
	if err != nil {
		return nil, s.failed(err)
	}

	prev := s.current.Swap(next)
	logging.LogOperationDuration(s.logger, "dataset.load", start,
		logging.String("version", next.Version),
		logging.Int("rows", next.Table.Len()),
		logging.Int("bar_rows", next.Bars.Len()),
		logging.Bool("influence", next.Table.HasInfluence()))

	s.mu.Lock()
	hooks := append([]ReloadHook(nil), s.hooks...)
	s.mu.Unlock()
	for _, h := range hooks {
		h(ctx, prev, next)
	}
	return next, nil
}

func (s *Store) failed(err error) error {
	prometheus.RecordError(s.metrics, "dataset", string(errors.GetCode(err)))
	fields := []logging.Field{logging.Err(err)}
	var te *TableError
	if stderrors.As(err, &te) {
		fields = append(fields, logging.String("table", te.Table), logging.String("source", te.Source))
	}
	s.logger.Error("dataset load failed", fields...)
	return err
}

// Run drives background reloads until ctx is done: a ticker when
// ReloadInterval is set and a file watcher when Watch is set.  Failed
// reloads are logged and the previous snapshot is kept.
func (s *Store) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if s.cfg.ReloadInterval > 0 {
		t := time.NewTicker(s.cfg.ReloadInterval)
		defer t.Stop()
		tick = t.C
	}

	var (
		events <-chan fsnotify.Event
		errs   <-chan error
	)
	if s.cfg.Watch {
		w, err := s.newWatcher()
		if err != nil {
			return err
		}
		if w != nil {
			defer w.Close()
			events, errs = w.Events, w.Errors
		}
	}

	if tick == nil && events == nil {
		<-ctx.Done()
		return nil
	}

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
			s.background(ctx, "interval")
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if s.watched(ev.Name) && ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounce = time.After(s.cfg.Debounce)
			}
		case <-debounce:
			debounce = nil
			s.background(ctx, "watch")
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			s.logger.Warn("dataset watcher error", logging.Err(err))
		}
	}
}

func (s *Store) background(ctx context.Context, trigger string) {
	if _, err := s.Reload(ctx); err != nil {
		s.logger.Warn("background reload failed, keeping previous snapshot",
			logging.String("trigger", trigger), logging.Err(err))
	}
}

// newWatcher watches the directories of local dataset files.  Editors often
// replace a file rather than write it, so the directory is the stable target.
// Returns nil when no configured path is local.
func (s *Store) newWatcher() (*fsnotify.Watcher, error) {
	dirs := map[string]struct{}{}
	for _, p := range s.localPaths() {
		dirs[filepath.Dir(p)] = struct{}{}
	}
	if len(dirs) == 0 {
		s.logger.Info("dataset watch requested but no local files configured")
		return nil, nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Internal("failed to create dataset watcher").WithCause(err)
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, errors.Internal("failed to watch dataset directory").WithDetail(dir).WithCause(err)
		}
	}
	return w, nil
}

func (s *Store) localPaths() []string {
	var out []string
	for _, p := range []string{s.cfg.PrimaryPath, s.cfg.SecondaryPath} {
		if p != "" && KindOf(p) == SourceFile {
			out = append(out, filepath.Clean(p))
		}
	}
	return out
}

func (s *Store) watched(name string) bool {
	name = filepath.Clean(name)
	for _, p := range s.localPaths() {
		if p == name {
			return true
		}
	}
	return false
}

//Personal.AI order the ending

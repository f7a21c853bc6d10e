package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/readiness-dashboard/internal/application/dashboard"
	"github.com/turtacn/readiness-dashboard/internal/config"
	"github.com/turtacn/readiness-dashboard/internal/domain/readiness"
	"github.com/turtacn/readiness-dashboard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/readiness-dashboard/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/readiness-dashboard/internal/interfaces/http"
	"github.com/turtacn/readiness-dashboard/internal/interfaces/http/handlers"
	"github.com/turtacn/readiness-dashboard/internal/interfaces/http/middleware"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API",
		Long: "Load the dataset and serve the dashboard API until SIGINT or SIGTERM.\n" +
			"A missing or unreadable primary table stops startup with a non-zero exit.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if port > 0 {
				cliCtx.Config.Server.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cliCtx)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP port (overrides server.port)")
	return cmd
}

// runServe wires every component and blocks until ctx is cancelled.
func runServe(ctx context.Context, cliCtx *CLIContext) error {
	cfg := cliCtx.Config
	logger := cliCtx.Logger.Named("obr")
	defer func() { _ = logger.Sync() }()

	var (
		collector prometheus.MetricsCollector
		metrics   = prometheus.NewNoopAppMetrics()
	)
	if cfg.Metrics.Enabled {
		c, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return err
		}
		collector = c
		metrics = prometheus.NewAppMetrics(c)
	}

	loader, objects, cs, err := newLoader(cfg, logger)
	if err != nil {
		return err
	}
	defer cs.Close()

	store := newStore(cfg, loader, metrics, logger)
	ds, err := store.Load(ctx)
	if err != nil {
		logger.Error("initial dataset load failed", logging.String("path", cfg.Dataset.PrimaryPath), logging.Err(err))
		return err
	}

	checkers := []handlers.HealthChecker{handlers.DatasetChecker(store)}
	opts := []dashboard.Option{dashboard.WithMetrics(metrics), dashboard.WithLogger(logger)}

	cache, redisClient, err := newCache(cfg, logger)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, dashboard.WithCache(cache))
		checkers = append(checkers, handlers.PingChecker("redis", redisClient))
	}
	if objects != nil {
		checkers = append(checkers, handlers.CheckFunc{Label: "minio", Fn: func(ctx context.Context) error {
			_, err := objects.HealthCheck(ctx)
			return err
		}})
	}

	svc := dashboard.NewService(store, dashboardConfig(cfg), opts...)
	if hook := dashboard.ReloadHook(svc); hook != nil {
		store.OnReload(hook)
	}

	routerCfg := httpserver.RouterConfig{
		DashboardHandler: handlers.NewDashboardHandler(svc, dashboard.NewExporter(svc, metrics, logger), logger),
		HealthHandler:    handlers.NewHealthHandler(Version, checkers...),
		Logger:           logger,
		Metrics:          metrics,
		MetricsCollector: collector,
		MetricsPath:      cfg.Metrics.Path,
	}
	if len(cfg.Server.CORSAllowedOrigins) > 0 {
		cors := middleware.DefaultCORSConfig()
		cors.AllowedOrigins = cfg.Server.CORSAllowedOrigins
		routerCfg.CORS = &cors
	}
	srv := httpserver.NewServer(cfg.Server, httpserver.NewRouter(routerCfg), logger)

	if cliCtx.ConfigFile != "" {
		config.Watch(cliCtx.ConfigFile, func(next *config.Config) {
			onConfigChange(ctx, cfg, next, store, logger)
		}, func(err error) {
			logger.Warn("ignoring invalid config change", logging.String("file", cliCtx.ConfigFile), logging.Err(err))
		})
	}

	logger.Info("starting readiness dashboard",
		logging.String("version", Version),
		logging.String("addr", cfg.Server.Addr()),
		logging.String("dataset_version", ds.Version),
		logging.Int("rows", ds.Table.Len()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Start() })
	g.Go(func() error { return store.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		return srv.Stop(context.Background())
	})
	return g.Wait()
}

// onConfigChange refreshes the dataset after an edit to the config file.
// New dataset paths are not picked up; they need a restart.
func onConfigChange(ctx context.Context, cur, next *config.Config, store reloader, logger logging.Logger) {
	if next.Dataset.PrimaryPath != cur.Dataset.PrimaryPath || next.Dataset.SecondaryPath != cur.Dataset.SecondaryPath {
		logger.Warn("dataset paths changed in config; restart to apply",
			logging.String("primary_path", next.Dataset.PrimaryPath),
			logging.String("secondary_path", next.Dataset.SecondaryPath))
		return
	}
	if ctx.Err() != nil {
		return
	}
	if _, err := store.Reload(ctx); err != nil {
		logger.Warn("reload after config change failed", logging.Err(err))
		return
	}
	logger.Info("dataset reloaded after config change")
}

type reloader interface {
	Reload(ctx context.Context) (*readiness.Dataset, error)
}

//Personal.AI order the ending

package cli

import (
	"context"
	"io"
	"net/http"

	"github.com/turtacn/readiness-dashboard/internal/application/dashboard"
	"github.com/turtacn/readiness-dashboard/internal/config"
	"github.com/turtacn/readiness-dashboard/internal/domain/chart"
	"github.com/turtacn/readiness-dashboard/internal/infrastructure/database/redis"
	"github.com/turtacn/readiness-dashboard/internal/infrastructure/dataset"
	"github.com/turtacn/readiness-dashboard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/readiness-dashboard/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/readiness-dashboard/internal/infrastructure/storage/minio"
)

// closers releases clients in reverse order of creation.
type closers []io.Closer

func (c closers) Close() error {
	var first error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// newObjectStore dials MinIO when either dataset path is an s3:// reference.
func newObjectStore(cfg *config.Config, logger logging.Logger) (*minio.MinIOClient, error) {
	if !cfg.UsesObjectStorage() {
		return nil, nil
	}
	return minio.NewMinIOClient(&minio.MinIOConfig{
		Endpoint:        cfg.MinIO.Endpoint,
		AccessKeyID:     cfg.MinIO.AccessKey,
		SecretAccessKey: cfg.MinIO.SecretKey,
		UseSSL:          cfg.MinIO.UseSSL,
		Region:          cfg.MinIO.Region,
	}, logger.Named("minio"))
}

// newLoader builds the dataset loader.  The returned closers must be closed
// by the caller.
func newLoader(cfg *config.Config, logger logging.Logger) (*dataset.Loader, *minio.MinIOClient, closers, error) {
	var cs closers
	objects, err := newObjectStore(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	lc := dataset.LoaderConfig{
		Delimiter:    cfg.Dataset.DelimiterRune(),
		FetchTimeout: cfg.Dataset.FetchTimeout,
		HTTPClient:   &http.Client{},
	}
	if objects != nil {
		lc.Objects = objects
		cs = append(cs, objects)
	}
	return dataset.NewLoader(lc, logger.Named("loader")), objects, cs, nil
}

// newStore builds the snapshot store over loader.
func newStore(cfg *config.Config, loader *dataset.Loader, metrics *prometheus.AppMetrics, logger logging.Logger) *dataset.Store {
	return dataset.NewStore(dataset.StoreConfig{
		PrimaryPath:    cfg.Dataset.PrimaryPath,
		SecondaryPath:  cfg.Dataset.SecondaryPath,
		ReloadInterval: cfg.Dataset.ReloadInterval,
		Watch:          cfg.Dataset.Watch,
	}, loader, metrics, logger)
}

// newCache connects to Redis when enabled.  A nil cache disables view caching.
func newCache(cfg *config.Config, logger logging.Logger) (redis.Cache, *redis.Client, error) {
	if !cfg.Redis.Enabled {
		return nil, nil, nil
	}
	client, err := redis.NewClient(&redis.RedisConfig{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	}, logger.Named("redis"))
	if err != nil {
		return nil, nil, err
	}
	cache := redis.NewRedisCache(client, logger.Named("cache"),
		redis.WithPrefix(cfg.Redis.KeyPrefix),
		redis.WithDefaultTTL(cfg.Redis.DefaultTTL))
	return cache, client, nil
}

// dashboardConfig maps config.DashboardConfig onto the service config.  The
// values were validated at load time.
func dashboardConfig(cfg *config.Config) dashboard.Config {
	colorBy, _ := chart.ParseColorBy(cfg.Dashboard.DefaultColorBy)
	layout, _ := chart.ParseAxisLayout(cfg.Dashboard.AxisLayout)
	return dashboard.Config{
		DefaultColorBy: colorBy,
		AxisLayout:     layout,
		Bounds: chart.Bounds{
			Min:     cfg.Dashboard.BubbleSizeMin,
			Max:     cfg.Dashboard.BubbleSizeMax,
			Default: cfg.Dashboard.BubbleSizeDefault,
		},
		CacheTTL: cfg.Redis.DefaultTTL,
	}
}

// offline loads the dataset once and returns a service over it, for the
// commands that do not serve HTTP.
func offline(ctx context.Context, cliCtx *CLIContext) (dashboard.Service, io.Closer, error) {
	loader, _, cs, err := newLoader(cliCtx.Config, cliCtx.Logger)
	if err != nil {
		return nil, nil, err
	}
	store := newStore(cliCtx.Config, loader, nil, cliCtx.Logger)
	if _, err := store.Load(ctx); err != nil {
		_ = cs.Close()
		return nil, nil, err
	}
	return dashboard.NewService(store, dashboardConfig(cliCtx.Config), dashboard.WithLogger(cliCtx.Logger)), cs, nil
}

//Personal.AI order the ending

package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/laktaabhutan/LAK-Goods-Transport-Application/config"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/data"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/data/metrics"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/internal/job/data/repository"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/internal/job/handler"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/internal/job/service"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/internal/server"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/logging/logger"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/logging/observes"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/oss"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/security/jwt"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/version"
	"github.com/spf13/cobra"
)

// newServeCommand starts the HTTP API.
func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the job API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, *configPath)
		},
	}
}

func serve(ctx context.Context, configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cleanupLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer cleanupLogger()
	logger.SetVersion(version.Version)
	l := logger.StdLogger()

	flushSentry, shutdownTracer, err := setupObserves(cfg)
	if err != nil {
		return err
	}
	defer flushSentry()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			l.Warn(shutdownCtx, "tracer shutdown failed", "error", err)
		}
	}()

	if cfg.Auth == nil || cfg.Auth.JWT == nil || cfg.Auth.JWT.Secret == "" {
		return errors.New("auth.jwt.secret is not configured")
	}
	tokens := jwt.NewTokenManager(cfg.Auth.JWT.Secret, time.Duration(cfg.Auth.JWT.Expire)*time.Hour)

	collector := metrics.NewCollector()

	d, cleanupData, err := data.New(ctx, cfg.Data, data.WithMetricsCollector(collector))
	if err != nil {
		return fmt.Errorf("init data: %w", err)
	}
	defer cleanupData()

	repo := repository.NewJobRepository(ctx, d, l)
	if rc := d.GetRedis(); rc != nil {
		repo = repository.NewCachedRepository(repo, repository.NewRedisStore(rc), cfg.Data.Redis.TTL, collector, l)
		l.Info(ctx, "job cache enabled", "ttl", cfg.Data.Redis.TTL.String())
	}

	media, err := oss.NewStorage(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	var mediaDir string
	if fs, ok := media.(*oss.FileSystem); ok {
		mediaDir = fs.GetEndpoint()
	}

	svc := service.NewService(repo, media, cfg.Job, collector, l)
	h := handler.NewHandler(svc, cfg.Job, l)

	srv, err := server.New(server.Options{
		Config:    cfg,
		Logger:    l,
		Identity:  tokens,
		Collector: collector,
		Health:    d,
		MediaDir:  mediaDir,
		Routes:    h.RegisterRoutes,
	})
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	config.Watch(func(c *config.Config) {
		if c.Logger != nil {
			logger.SetLevel(c.Logger.Level)
		}
		l.Info(context.Background(), "config reloaded", "run_mode", c.RunMode)
	})

	l.Info(ctx, "server configured", "app", cfg.AppName, "addr", srv.Addr(), "version", version.Version)
	return srv.Run(ctx)
}

func setupObserves(cfg *config.Config) (func(), func(context.Context) error, error) {
	flush := func() {}
	shutdown := func(context.Context) error { return nil }
	if cfg.Observes == nil {
		return flush, shutdown, nil
	}

	if s := cfg.Observes.Sentry; s != nil {
		f, err := observes.NewSentry(&observes.SentryOptions{
			Dsn:         s.Dsn,
			Name:        cfg.AppName,
			Release:     s.Release,
			Environment: s.Environment,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("init sentry: %w", err)
		}
		flush = f
	}

	if t := cfg.Observes.Tracer; t != nil {
		s, err := observes.NewTracer(&observes.TracerOption{
			URL:          t.Endpoint,
			Name:         cfg.AppName,
			Version:      version.Version,
			Environment:  cfg.RunMode,
			SamplingRate: t.SamplingRate,
		})
		if err != nil {
			flush()
			return nil, nil, fmt.Errorf("init tracer: %w", err)
		}
		shutdown = s
	}

	return flush, shutdown, nil
}

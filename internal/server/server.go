// Package server wires the HTTP router, its middleware and the operational
// endpoints, and runs the listener with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/config"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/data/metrics"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/internal/server/middleware"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/logging/logger"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/net/resp"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/oss"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/version"
)

const shutdownTimeout = 30 * time.Second

// HealthChecker reports the health of each storage component; a nil error is healthy.
type HealthChecker interface {
	Health(ctx context.Context) map[string]error
}

// Options holds the collaborators of the server.
type Options struct {
	Config    *config.Config
	Logger    *logger.Logger
	Identity  middleware.IdentityResolver
	Collector *metrics.Collector
	Health    HealthChecker
	// MediaDir is served under the media prefix when set.
	MediaDir string
	// Routes registers the API routes.
	Routes func(r gin.IRouter)
}

type Server struct {
	opts   Options
	engine *gin.Engine
	http   *http.Server
}

// New builds the server and its router.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, errors.New("config is nil")
	}
	if opts.Identity == nil {
		return nil, errors.New("identity resolver is nil")
	}
	if opts.Logger == nil {
		opts.Logger = logger.StdLogger()
	}

	s := &Server{opts: opts}
	s.engine = s.setupRouter()
	s.http = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", opts.Config.Host, opts.Config.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.http.Addr
}

func (s *Server) setupRouter() *gin.Engine {
	conf := s.opts.Config
	switch conf.RunMode {
	case gin.DebugMode, gin.TestMode:
		gin.SetMode(conf.RunMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	var whitelist []string
	if conf.Auth != nil {
		whitelist = append(whitelist, conf.Auth.Whitelist...)
	}
	mediaRoute := strings.TrimSuffix(oss.MediaPrefix, "/")
	if s.opts.MediaDir != "" {
		whitelist = append(whitelist, mediaRoute)
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(s.opts.Logger),
		middleware.Trace(),
		middleware.Logger(s.opts.Logger),
		middleware.Metrics(s.opts.Collector),
		middleware.Timeout(conf.RequestTimeout),
		middleware.Auth(s.opts.Identity, whitelist, s.opts.Logger),
	)

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(s.opts.Collector.Handler()))
	if s.opts.MediaDir != "" {
		r.Static(mediaRoute, s.opts.MediaDir)
	}
	if s.opts.Routes != nil {
		s.opts.Routes(r)
	}

	r.NoRoute(func(c *gin.Context) {
		resp.Fail(c.Writer, resp.NotFound("route not found"))
	})
	r.NoMethod(func(c *gin.Context) {
		resp.Fail(c.Writer, resp.NotAllowed("method not allowed"))
	})
	r.HandleMethodNotAllowed = true
	return r
}

func (s *Server) health(c *gin.Context) {
	components := map[string]string{}
	healthy := true
	if s.opts.Health != nil {
		for name, err := range s.opts.Health.Health(c.Request.Context()) {
			if err != nil {
				healthy = false
				components[name] = err.Error()
				continue
			}
			components[name] = "ok"
		}
	}

	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	sort.Strings(names)

	body := resp.Payload{"components": components, "version": version.Version}
	if !healthy {
		s.opts.Logger.Warn(c.Request.Context(), "health check failed", "components", strings.Join(names, ","))
		resp.WithStatusCode(c.Writer, http.StatusServiceUnavailable, "unhealthy", body)
		return
	}
	resp.Success(c.Writer, "healthy", body)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.Info(context.Background(), "starting server", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.opts.Logger.Info(context.Background(), "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

package data

import (
	"context"
	"errors"
	"time"

	"github.com/laktaabhutan/LAK-Goods-Transport-Application/data/config"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/data/connection"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/data/metrics"

	"github.com/redis/go-redis/v9"
)

// Data represents the data layer implementation
type Data struct {
	Conn *connection.Connections
	Conf *config.Config

	executor  *Executor
	collector *metrics.Collector
}

// Option function type for configuring Data
type Option func(*Data)

// WithMetricsCollector sets the metrics collector
func WithMetricsCollector(collector *metrics.Collector) Option {
	return func(d *Data) {
		if collector != nil {
			d.collector = collector
		}
	}
}

// New creates new data layer
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Data, func(), error) {
	if cfg == nil {
		return nil, nil, errors.New("data config is required")
	}

	conn, err := connection.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	d := &Data{Conn: conn, Conf: cfg}
	for _, opt := range opts {
		opt(d)
	}
	d.executor = NewExecutor(cfg.MongoDB, cfg.Breaker, d.collector)

	cleanup := func() {
		cctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		d.Close(cctx)
	}

	return d, cleanup, nil
}

// GetMongoManager returns the MongoDB manager
func (d *Data) GetMongoManager() *connection.MongoManager {
	if d.Conn != nil {
		return d.Conn.MGM
	}
	return nil
}

// GetRedis returns the Redis client, nil when the cache is disabled
func (d *Data) GetRedis() *redis.Client {
	if d.Conn != nil {
		return d.Conn.RC
	}
	return nil
}

// Executor returns the storage call executor
func (d *Data) Executor() *Executor {
	return d.executor
}

// GetMetricsCollector returns the metrics collector
func (d *Data) GetMetricsCollector() *metrics.Collector {
	return d.collector
}

// Health pings every connection and records the result per component.
func (d *Data) Health(ctx context.Context) map[string]error {
	if d.Conn == nil {
		return map[string]error{"data": errors.New("no connections")}
	}
	status := d.Conn.Ping(ctx)
	for component, err := range status {
		d.collector.HealthCheck(component, err == nil)
	}
	return status
}

// Close closes all data connections
func (d *Data) Close(ctx context.Context) []error {
	if d.Conn == nil {
		return nil
	}
	return d.Conn.Close(ctx)
}

package connection

import (
	"context"
	"errors"
	"sync"

	"github.com/laktaabhutan/LAK-Goods-Transport-Application/data/config"

	"github.com/redis/go-redis/v9"
)

// Connections struct to hold all database connections and clients
type Connections struct {
	MGM    *MongoManager
	RC     *redis.Client
	closed bool
	mu     sync.Mutex
}

// New creates a new Connections. MongoDB is mandatory, Redis optional.
func New(ctx context.Context, conf *config.Config) (*Connections, error) {
	if conf == nil || conf.MongoDB == nil || conf.MongoDB.URI == "" {
		return nil, errors.New("mongodb uri is required")
	}

	c := &Connections{}
	var err error

	c.MGM, err = NewMongoManager(ctx, conf.MongoDB)
	if err != nil {
		return nil, err
	}

	if conf.Redis.Enabled() {
		c.RC, err = newRedisClient(ctx, conf.Redis)
		if err != nil {
			_ = c.MGM.Close(ctx)
			return nil, err
		}
	}

	return c, nil
}

// Ping checks every open connection and returns the failures keyed by component.
func (c *Connections) Ping(ctx context.Context) map[string]error {
	status := make(map[string]error)
	if c.MGM != nil {
		status["mongodb"] = c.MGM.Health(ctx)
	}
	if c.RC != nil {
		status["redis"] = c.RC.Ping(ctx).Err()
	}
	return status
}

// Close closes all connections once.
func (c *Connections) Close(ctx context.Context) (errs []error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	if c.MGM != nil {
		if err := c.MGM.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if c.RC != nil {
		if err := c.RC.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	c.closed = true
	return errs
}

package connection

import (
	"context"
	"fmt"
	"time"

	"github.com/laktaabhutan/LAK-Goods-Transport-Application/data/config"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisDialTimeout = 5 * time.Second
	redisPoolSize           = 10
)

func redisOptions(conf *config.Redis) *redis.Options {
	dial := conf.DialTimeout
	if dial <= 0 {
		dial = defaultRedisDialTimeout
	}
	return &redis.Options{
		Addr:         conf.Addr,
		Username:     conf.Username,
		Password:     conf.Password,
		DB:           conf.Db,
		DialTimeout:  dial,
		ReadTimeout:  conf.ReadTimeout,
		WriteTimeout: conf.WriteTimeout,
		PoolSize:     redisPoolSize,
	}
}

// newRedisClient opens the cache client and fails fast when the server does
// not answer within the dial timeout.
func newRedisClient(ctx context.Context, conf *config.Redis) (*redis.Client, error) {
	opts := redisOptions(conf)
	rc := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := rc.Ping(pingCtx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("redis %s unreachable: %w", conf.Addr, err)
	}
	return rc, nil
}

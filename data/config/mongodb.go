package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	defaultMongoTimeout      = 5 * time.Second
	defaultMongoRetryBackoff = 100 * time.Millisecond
)

// MongoDB mongodb config struct
type MongoDB struct {
	URI          string        `json:"uri" yaml:"uri"`
	Database     string        `json:"database" yaml:"database"`
	Timeout      time.Duration `json:"timeout" yaml:"timeout"`             // bound of a single storage call
	RetryBackoff time.Duration `json:"retry_backoff" yaml:"retry_backoff"` // wait before the single timeout retry
	MaxPoolSize  uint64        `json:"max_pool_size" yaml:"max_pool_size"`
}

// getMongoDBConfigs reads MongoDB configurations
func getMongoDBConfigs(v *viper.Viper) *MongoDB {
	c := &MongoDB{
		URI:          v.GetString("data.mongodb.uri"),
		Database:     v.GetString("data.mongodb.database"),
		Timeout:      v.GetDuration("data.mongodb.timeout"),
		RetryBackoff: v.GetDuration("data.mongodb.retry_backoff"),
		MaxPoolSize:  uint64(v.GetInt("data.mongodb.max_pool_size")),
	}
	if c.Database == "" {
		c.Database = "transport"
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultMongoTimeout
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = defaultMongoRetryBackoff
	}
	return c
}

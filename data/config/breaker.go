package config

import (
	"time"

	"github.com/spf13/viper"
)

// Breaker circuit breaker config struct
type Breaker struct {
	MaxFailures uint32        `json:"max_failures" yaml:"max_failures"` // consecutive failures before opening
	OpenTimeout time.Duration `json:"open_timeout" yaml:"open_timeout"` // time spent open before a probe
}

func getBreakerConfigs(v *viper.Viper) *Breaker {
	c := &Breaker{
		MaxFailures: uint32(v.GetInt("data.breaker.max_failures")),
		OpenTimeout: v.GetDuration("data.breaker.open_timeout"),
	}
	if c.MaxFailures == 0 {
		c.MaxFailures = 5
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = 30 * time.Second
	}
	return c
}

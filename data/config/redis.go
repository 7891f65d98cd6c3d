package config

import (
	"time"

	"github.com/spf13/viper"
)

// DefaultCacheTTL bounds how long a cached job snapshot may be served.
const DefaultCacheTTL = 10 * time.Minute

// Redis configures the optional job cache.
type Redis struct {
	Addr         string        `json:"addr" yaml:"addr"`
	Username     string        `json:"username" yaml:"username"`
	Password     string        `json:"password" yaml:"password"`
	Db           int           `json:"db" yaml:"db"`
	TTL          time.Duration `json:"ttl" yaml:"ttl"`
	DialTimeout  time.Duration `json:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
}

// Enabled reports whether a cache server is configured.
func (r *Redis) Enabled() bool {
	return r != nil && r.Addr != ""
}

func getRedisConfigs(v *viper.Viper) *Redis {
	const prefix = "data.redis."
	c := &Redis{
		Addr:         v.GetString(prefix + "addr"),
		Username:     v.GetString(prefix + "username"),
		Password:     v.GetString(prefix + "password"),
		Db:           v.GetInt(prefix + "db"),
		TTL:          v.GetDuration(prefix + "ttl"),
		DialTimeout:  v.GetDuration(prefix + "dial_timeout"),
		ReadTimeout:  v.GetDuration(prefix + "read_timeout"),
		WriteTimeout: v.GetDuration(prefix + "write_timeout"),
	}
	if c.TTL <= 0 {
		c.TTL = DefaultCacheTTL
	}
	return c
}

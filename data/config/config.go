package config

import (
	"github.com/spf13/viper"
)

// Config data config struct
type Config struct {
	*MongoDB `yaml:"mongodb" json:"mongodb"`
	*Redis   `yaml:"redis" json:"redis"`
	*Breaker `yaml:"breaker" json:"breaker"`
}

// GetConfig returns data config
func GetConfig(v *viper.Viper) *Config {
	return &Config{
		MongoDB: getMongoDBConfigs(v),
		Redis:   getRedisConfigs(v),
		Breaker: getBreakerConfigs(v),
	}
}

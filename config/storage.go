package config

import (
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/oss"

	"github.com/spf13/viper"
)

// Storage represents the media storage configuration
type Storage = oss.Config

// getStorageConfig get storage config
func getStorageConfig(v *viper.Viper) *Storage {
	return &Storage{
		Provider: getStringOrDefault(v, "storage.provider", "filesystem"),
		ID:       v.GetString("storage.id"),
		Secret:   v.GetString("storage.secret"),
		Region:   v.GetString("storage.region"),
		Bucket:   v.GetString("storage.bucket"),
		Endpoint: v.GetString("storage.endpoint"),
		UseSSL:   v.GetBool("storage.use_ssl"),
	}
}

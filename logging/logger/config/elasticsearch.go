package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Elasticsearch configures log shipping; nil when no address is set.
type Elasticsearch struct {
	Addresses []string `json:"addresses" yaml:"addresses"`
	Username  string   `json:"username" yaml:"username"`
	Password  string   `json:"password" yaml:"password"`
}

func getElasticsearchConfigs(v *viper.Viper) *Elasticsearch {
	var addrs []string
	for _, a := range v.GetStringSlice("logger.elasticsearch.addresses") {
		if a = strings.TrimSpace(a); a != "" {
			addrs = append(addrs, a)
		}
	}
	if len(addrs) == 0 {
		return nil
	}
	return &Elasticsearch{
		Addresses: addrs,
		Username:  v.GetString("logger.elasticsearch.username"),
		Password:  v.GetString("logger.elasticsearch.password"),
	}
}

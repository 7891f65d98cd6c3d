package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config logger configuration struct
type Config struct {
	Level         int            `json:"level" yaml:"level"`
	Format        string         `json:"format" yaml:"format"`
	Output        string         `json:"output" yaml:"output"`
	OutputFile    string         `json:"output_file" yaml:"output_file"`
	IndexName     string         `json:"index_name" yaml:"index_name"`
	Elasticsearch *Elasticsearch `json:"elasticsearch" yaml:"elasticsearch"`
}

// GetConfig returns the logger configuration
func GetConfig(v *viper.Viper) *Config {
	indexName := strings.ToLower(v.GetString("app_name") + "-" + v.GetString("run_mode") + "-log")
	if v.IsSet("logger.index_name") && v.GetString("logger.index_name") != "" {
		indexName = v.GetString("logger.index_name")
	}

	level := 4 // logrus.InfoLevel
	if v.IsSet("logger.level") {
		level = v.GetInt("logger.level")
	}

	return &Config{
		Level:         level,
		Format:        v.GetString("logger.format"),
		Output:        v.GetString("logger.output"),
		OutputFile:    v.GetString("logger.output_file"),
		IndexName:     indexName,
		Elasticsearch: getElasticsearchConfigs(v),
	}
}

// BuildIndexName returns the daily index name for t.
func (c *Config) BuildIndexName(t time.Time) string {
	return fmt.Sprintf("%s-%s", c.IndexName, t.Format("2006.01.02"))
}

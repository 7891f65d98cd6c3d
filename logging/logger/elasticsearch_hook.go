package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/logging/logger/config"
	"github.com/sirupsen/logrus"
)

// ElasticSearchHook ships log entries to Elasticsearch
type ElasticSearchHook struct {
	client   *elasticsearch.Client
	config   *config.Config
	hostname string
}

// NewElasticSearchHook creates new Elasticsearch hook
func NewElasticSearchHook(cfg *config.Config) (*ElasticSearchHook, error) {
	if cfg == nil || cfg.Elasticsearch == nil || len(cfg.Elasticsearch.Addresses) == 0 {
		return nil, fmt.Errorf("elasticsearch config is empty")
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	hostname, _ := os.Hostname()
	return &ElasticSearchHook{client: client, config: cfg, hostname: hostname}, nil
}

// Levels returns all log levels
func (h *ElasticSearchHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire sends log entry to Elasticsearch
func (h *ElasticSearchHook) Fire(entry *logrus.Entry) error {
	body, err := json.Marshal(h.prepareLogDocument(entry))
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := h.client.Index(
		h.config.BuildIndexName(entry.Time),
		bytes.NewReader(body),
		h.client.Index.WithContext(ctx),
		h.client.Index.WithRefresh("false"),
	)
	if err != nil {
		return fmt.Errorf("failed to index log entry: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch index error: %s", res.Status())
	}
	return nil
}

// prepareLogDocument prepares the log document structure
func (h *ElasticSearchHook) prepareLogDocument(entry *logrus.Entry) map[string]any {
	doc := map[string]any{
		"@timestamp": entry.Time.UTC().Format(time.RFC3339Nano),
		"level":      entry.Level.String(),
		"message":    entry.Message,
	}
	if h.hostname != "" {
		doc["hostname"] = h.hostname
	}
	for key, value := range entry.Data {
		if key == "@timestamp" || key == "level" || key == "message" {
			continue
		}
		if err, ok := value.(error); ok {
			value = err.Error()
		}
		doc[key] = value
	}
	return doc
}

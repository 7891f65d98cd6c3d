// Package service runs the job lifecycle against the repository. Each mutation
// reads a snapshot, applies a pure transition and writes it back conditional on
// the version it read.
package service

import (
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/config"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/data/metrics"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/internal/job/data/repository"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/logging/logger"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/oss"
)

// Service aggregates all business logic services.
type Service struct {
	Job *JobService
}

// NewService creates a new service instance with all sub-services initialized.
func NewService(repo repository.JobRepository, media oss.Interface, conf *config.Job, collector *metrics.Collector, logger *logger.Logger) *Service {
	return &Service{
		Job: NewJobService(repo, media, conf, collector, logger),
	}
}

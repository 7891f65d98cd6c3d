// Package handler exposes the job lifecycle over HTTP.
package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/config"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/internal/job/service"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/logging/logger"
)

// Handler aggregates all HTTP handlers.
type Handler struct {
	Job    *JobHandler
	logger *logger.Logger
}

// NewHandler creates a new handler instance with all sub-handlers initialized.
func NewHandler(svc *service.Service, conf *config.Job, logger *logger.Logger) *Handler {
	return &Handler{
		Job:    NewJobHandler(svc.Job, conf, logger),
		logger: logger,
	}
}

// RegisterRoutes registers all job routes on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	jobs := r.Group("/jobs")
	{
		jobs.POST("", h.Job.Create)
		jobs.GET("", h.Job.List)
		jobs.POST("/get-by-ids", h.Job.GetByIDs)
		jobs.GET("/:id", h.Job.Get)
		jobs.PATCH("/:id", h.Job.Update)
		jobs.DELETE("/:id", h.Job.Delete)
		jobs.PATCH("/:id/apply", h.Job.Apply)
		jobs.PATCH("/:id/assign-driver", h.Job.AssignDriver)
		jobs.PATCH("/:id/deny-driver", h.Job.DenyDriver)
		jobs.PATCH("/:id/complete", h.Job.Complete)
	}
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/config"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/ctxutil"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/ecode"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/internal/job/service"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/internal/job/structs"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/logging/logger"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/net/resp"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/paging"
)

// JobHandler handles HTTP requests for jobs.
type JobHandler struct {
	svc    *service.JobService
	conf   *config.Job
	logger *logger.Logger
}

// NewJobHandler creates a new job handler.
func NewJobHandler(svc *service.JobService, conf *config.Job, logger *logger.Logger) *JobHandler {
	if conf == nil {
		conf = &config.Job{DefaultLimit: paging.DefaultLimit, MaxLimit: paging.MaxLimit}
	}
	return &JobHandler{
		svc:    svc,
		conf:   conf,
		logger: logger,
	}
}

// Create handles job creation.
func (h *JobHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var body structs.CreateJobBody
	if err := bindPayload(c, &body); err != nil {
		h.fail(c, err)
		return
	}
	uploads, closeImages, err := openImages(c, h.conf.MaxImages)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer closeImages()

	job, err := h.svc.CreateJob(ctx, ctxutil.GetUserID(ctx), &body, uploads)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp.WithStatusCode(c.Writer, http.StatusCreated, "Job created", resp.Payload{"jobId": job.ID})
}

// Update handles payload and image updates by the owner.
func (h *JobHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	var body structs.UpdateJobBody
	if err := bindPayload(c, &body); err != nil {
		h.fail(c, err)
		return
	}
	uploads, closeImages, err := openImages(c, h.conf.MaxImages)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer closeImages()

	job, err := h.svc.UpdateJob(ctx, ctxutil.GetUserID(ctx), c.Param("id"), &body, uploads)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp.Success(c.Writer, "Job updated", resp.Payload{"job": job})
}

// Delete handles job deletion by the owner.
func (h *JobHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if err := h.svc.DeleteJob(ctx, ctxutil.GetUserID(ctx), id); err != nil {
		h.fail(c, err)
		return
	}

	resp.Success(c.Writer, "Job deleted", resp.Payload{"jobId": id})
}

// Get handles single job retrieval.
func (h *JobHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	job, err := h.svc.GetJob(ctx, c.Param("id"), ctxutil.GetUserID(ctx))
	if err != nil {
		h.fail(c, err)
		return
	}

	resp.Success(c.Writer, "Job found", resp.Payload{"job": job})
}

// GetByIDs handles bulk retrieval of an explicit id list.
func (h *JobHandler) GetByIDs(c *gin.Context) {
	ctx := c.Request.Context()

	var body structs.GetByIDsBody
	if err := bindJSON(c, &body); err != nil {
		h.fail(c, err)
		return
	}

	jobs, err := h.svc.GetJobs(ctx, body.JobIDs, ctxutil.GetUserID(ctx))
	if err != nil {
		h.fail(c, err)
		return
	}

	resp.Success(c.Writer, "Jobs found", resp.Payload{"jobs": jobs})
}

// List handles the filtered, paginated id listing.
func (h *JobHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := paging.Parse(c.Query("offset"), c.Query("limit"), h.conf.DefaultLimit, h.conf.MaxLimit)
	if err != nil {
		h.fail(c, err)
		return
	}
	filter := structs.ListFilter{
		Owned:    structs.ParseFlag(c.Query("owned")),
		Assigned: structs.ParseFlag(c.Query("assigned")),
		Finished: structs.ParseFlag(c.Query("finished")),
		Applied:  structs.ParseFlag(c.Query("applied")),
		Search:   c.Query("search"),
	}

	res, err := h.svc.GetJobIds(ctx, ctxutil.GetUserID(ctx), filter, params)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp.Success(c.Writer, "Jobs found", resp.Payload{
		"jobIds":  res.Items,
		"offset":  res.Offset,
		"limit":   res.Limit,
		"hasMore": res.HasMore,
	})
}

// Apply registers the caller as an applicant.
func (h *JobHandler) Apply(c *gin.Context) {
	ctx := c.Request.Context()

	job, err := h.svc.AddJobApplicant(ctx, c.Param("id"), ctxutil.GetUserID(ctx))
	if err != nil {
		h.fail(c, err)
		return
	}

	resp.Success(c.Writer, "Applied to job", resp.Payload{"job": job})
}

// AssignDriver assigns the driver named in the body.
func (h *JobHandler) AssignDriver(c *gin.Context) {
	ctx := c.Request.Context()

	var body structs.DriverBody
	if err := bindJSON(c, &body); err != nil {
		h.fail(c, err)
		return
	}

	job, err := h.svc.AssignDriver(ctx, c.Param("id"), ctxutil.GetUserID(ctx), body.DriverID)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp.Success(c.Writer, "Driver assigned", resp.Payload{"job": job})
}

// DenyDriver removes the driver named in the body from the applicants.
func (h *JobHandler) DenyDriver(c *gin.Context) {
	ctx := c.Request.Context()

	var body structs.DriverBody
	if err := bindJSON(c, &body); err != nil {
		h.fail(c, err)
		return
	}

	job, err := h.svc.DenyDriver(ctx, c.Param("id"), ctxutil.GetUserID(ctx), body.DriverID)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp.Success(c.Writer, "Driver denied", resp.Payload{"job": job})
}

// Complete marks the job finished.
func (h *JobHandler) Complete(c *gin.Context) {
	ctx := c.Request.Context()

	job, err := h.svc.CompleteJob(ctx, c.Param("id"), ctxutil.GetUserID(ctx))
	if err != nil {
		h.fail(c, err)
		return
	}

	resp.Success(c.Writer, "Job completed", resp.Payload{"job": job})
}

// fail writes the error response. Client errors are logged at debug level,
// internal ones were already logged by the service.
func (h *JobHandler) fail(c *gin.Context, err error) {
	if kind := ecode.KindOf(err); kind != ecode.KindInternal && kind != ecode.KindUnavailable {
		h.logger.Debug(c.Request.Context(), "request refused", "path", c.FullPath(), "kind", kind.String(), "error", err)
	}
	_ = c.Error(err)
	resp.Fail(c.Writer, resp.FromError(err))
}

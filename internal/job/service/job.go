package service

import (
	"context"
	"errors"
	"time"

	"github.com/laktaabhutan/LAK-Goods-Transport-Application/config"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/ctxutil"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/data/metrics"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/ecode"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/internal/job/data/repository"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/internal/job/structs"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/logging/logger"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/logging/observes"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/oss"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/validator"
	"go.opentelemetry.io/otel/attribute"
)

// JobService handles the job lifecycle and queries.
type JobService struct {
	repo      repository.JobRepository
	media     oss.Interface
	conf      *config.Job
	collector *metrics.Collector
	logger    *logger.Logger
	now       func() time.Time
}

// NewJobService creates a new job service. A nil conf uses the defaults.
func NewJobService(repo repository.JobRepository, media oss.Interface, conf *config.Job, collector *metrics.Collector, l *logger.Logger) *JobService {
	if conf == nil {
		conf = &config.Job{
			MaxImages:    6,
			MaxImageSize: 5 << 20,
			DefaultLimit: 20,
			MaxLimit:     100,
			AssignPolicy: config.AssignApplicantsOnly,
		}
	}
	if l == nil {
		l = logger.StdLogger()
	}
	return &JobService{
		repo:      repo,
		media:     media,
		conf:      conf,
		collector: collector,
		logger:    l,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// CreateJob validates the payload, stores the images and persists a Posted job owned by userID.
func (s *JobService) CreateJob(ctx context.Context, userID string, body *structs.CreateJobBody, uploads []structs.ImageUpload) (job *structs.Job, err error) {
	ctx, end := s.begin(ctx, EventCreate, "")
	defer func() { end(err) }()

	if userID == "" {
		return nil, errNoCaller()
	}
	if body == nil {
		return nil, ecode.Validation(ecode.FieldIsRequired("job payload"))
	}
	if fields := validator.ValidateStruct(body); len(fields) > 0 {
		return nil, ecode.ValidationFields(ecode.FieldIsInvalid("job payload"), fields)
	}

	images, err := s.uploadImages(ctx, uploads)
	if err != nil {
		return nil, err
	}

	now := s.now()
	created, err := s.repo.Create(ctx, &structs.Job{
		OwnerID:       userID,
		Status:        structs.StatusPosted,
		Applicants:    []string{},
		DeniedDrivers: []string{},
		Images:        images,
		CreatedAt:     now,
		UpdatedAt:     now,
		Payload:       body.Payload(),
	})
	if err != nil {
		s.removeImages(ctx, images)
		return nil, s.translate(ctx, EventCreate, "", err)
	}

	s.logger.Info(ctx, "job created", "job_id", created.ID, "owner_id", userID, "images", len(images))
	return created, nil
}

// UpdateJob merges the non-nil payload fields. New images replace the old ones.
func (s *JobService) UpdateJob(ctx context.Context, userID, jobID string, body *structs.UpdateJobBody, uploads []structs.ImageUpload) (job *structs.Job, err error) {
	ctx, end := s.begin(ctx, EventUpdate, jobID)
	defer func() { end(err) }()

	if userID == "" {
		return nil, errNoCaller()
	}
	if body == nil {
		body = &structs.UpdateJobBody{}
	}
	if fields := validator.ValidateStruct(body); len(fields) > 0 {
		return nil, ecode.ValidationFields(ecode.FieldIsInvalid("job payload"), fields)
	}
	if body.Empty() && len(uploads) == 0 {
		return nil, ecode.Validation("nothing to update")
	}

	var uploaded []structs.Image
	prev, saved, err := s.mutate(ctx, EventUpdate, jobID, func(j *structs.Job) error {
		if err := editable(j, userID); err != nil {
			return err
		}
		body.Merge(&j.Payload)
		if len(uploads) == 0 {
			return nil
		}
		images, err := s.uploadImages(ctx, uploads)
		if err != nil {
			return err
		}
		uploaded = images
		j.Images = images
		return nil
	})
	if err != nil {
		s.removeImages(ctx, uploaded)
		return nil, err
	}
	if len(uploads) > 0 {
		s.removeImages(ctx, prev.Images)
	}

	s.logger.Info(ctx, "job updated", "job_id", jobID, "owner_id", userID)
	return saved, nil
}

// AddJobApplicant registers userID as an applicant. Applying twice is a conflict.
func (s *JobService) AddJobApplicant(ctx context.Context, jobID, userID string) (job *structs.Job, err error) {
	ctx, end := s.begin(ctx, EventApply, jobID)
	defer func() { end(err) }()

	if userID == "" {
		return nil, errNoCaller()
	}
	_, saved, err := s.mutate(ctx, EventApply, jobID, func(j *structs.Job) error {
		return applyTo(j, userID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "driver applied", "job_id", jobID, "driver_id", userID)
	return saved, nil
}

// AssignDriver makes driverID the assignee of an open job owned by ownerID.
func (s *JobService) AssignDriver(ctx context.Context, jobID, ownerID, driverID string) (job *structs.Job, err error) {
	ctx, end := s.begin(ctx, EventAssign, jobID)
	defer func() { end(err) }()

	if ownerID == "" {
		return nil, errNoCaller()
	}
	if driverID == "" {
		return nil, ecode.Validation(ecode.FieldIsRequired("driverId"))
	}
	_, saved, err := s.mutate(ctx, EventAssign, jobID, func(j *structs.Job) error {
		return assign(j, ownerID, driverID, s.conf.AssignPolicy)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "driver assigned", "job_id", jobID, "owner_id", ownerID, "driver_id", driverID)
	return saved, nil
}

// DenyDriver removes driverID from the applicants of a job owned by ownerID.
func (s *JobService) DenyDriver(ctx context.Context, jobID, ownerID, driverID string) (job *structs.Job, err error) {
	ctx, end := s.begin(ctx, EventDeny, jobID)
	defer func() { end(err) }()

	if ownerID == "" {
		return nil, errNoCaller()
	}
	if driverID == "" {
		return nil, ecode.Validation(ecode.FieldIsRequired("driverId"))
	}
	_, saved, err := s.mutate(ctx, EventDeny, jobID, func(j *structs.Job) error {
		return deny(j, ownerID, driverID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "driver denied", "job_id", jobID, "owner_id", ownerID, "driver_id", driverID)
	return saved, nil
}

// CompleteJob finishes an assigned job. Only the owner or the assignee may call it.
func (s *JobService) CompleteJob(ctx context.Context, jobID, userID string) (job *structs.Job, err error) {
	ctx, end := s.begin(ctx, EventComplete, jobID)
	defer func() { end(err) }()

	if userID == "" {
		return nil, errNoCaller()
	}
	_, saved, err := s.mutate(ctx, EventComplete, jobID, func(j *structs.Job) error {
		return complete(j, userID, s.now())
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "job completed", "job_id", jobID, "user_id", userID)
	return saved, nil
}

// DeleteJob removes the job and its images. The id drops out of every listing,
// including the ones of its applicants.
func (s *JobService) DeleteJob(ctx context.Context, userID, jobID string) (err error) {
	ctx, end := s.begin(ctx, EventDelete, jobID)
	defer func() { end(err) }()

	if userID == "" {
		return errNoCaller()
	}
	if !structs.IsValidID(jobID) {
		return invalidID(jobID)
	}

	cur, err := s.repo.Get(ctx, jobID)
	if err != nil {
		return s.translate(ctx, EventDelete, jobID, err)
	}
	if err := removable(cur, userID); err != nil {
		return err
	}
	if err := s.repo.DeleteIfVersion(ctx, jobID, cur.Version); err != nil {
		return s.translate(ctx, EventDelete, jobID, err)
	}
	s.removeImages(ctx, cur.Images)

	s.logger.Info(ctx, "job deleted", "job_id", jobID, "owner_id", userID, "applicants", len(cur.Applicants))
	return nil
}

// mutate runs one read-modify-write cycle and returns the snapshot it read
// together with the stored result.
func (s *JobService) mutate(ctx context.Context, event Event, jobID string, change func(*structs.Job) error) (*structs.Job, *structs.Job, error) {
	if !structs.IsValidID(jobID) {
		return nil, nil, invalidID(jobID)
	}

	cur, err := s.repo.Get(ctx, jobID)
	if err != nil {
		return nil, nil, s.translate(ctx, event, jobID, err)
	}

	next := cur.Clone()
	if err := change(next); err != nil {
		return nil, nil, err
	}
	next.UpdatedAt = s.now()

	saved, err := s.repo.UpdateIfVersion(ctx, next, cur.Version)
	if err != nil {
		return nil, nil, s.translate(ctx, event, jobID, err)
	}
	return cur, saved, nil
}

// begin starts the span of an operation; the returned func ends it and records the outcome.
func (s *JobService) begin(ctx context.Context, event Event, jobID string) (context.Context, func(error)) {
	attrs := []attribute.KeyValue{attribute.String("job.event", string(event))}
	if jobID != "" {
		attrs = append(attrs, attribute.String("job.id", jobID))
	}
	ctx, span := observes.StartSpan(ctx, observes.LayerService, "job."+string(event), attrs...)
	return ctx, func(err error) {
		observes.EndSpan(span, err)
		s.record(event, err)
	}
}

func (s *JobService) record(event Event, err error) {
	outcome := "ok"
	if err != nil {
		outcome = ecode.KindOf(err).String()
	}
	s.collector.Transition(string(event), outcome)
}

// translate maps repository errors to error kinds. Unclassified errors are
// logged and reported before they reach the boundary.
func (s *JobService) translate(ctx context.Context, event Event, jobID string, err error) error {
	var e *ecode.Error
	switch {
	case errors.As(err, &e):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return ecode.NotFound(ecode.NotExist("job"), err)
	case errors.Is(err, repository.ErrVersionConflict):
		return ecode.Conflicted("job was modified concurrently", err)
	case errors.Is(err, repository.ErrUnavailable):
		s.logger.Warn(ctx, "job repository unavailable", "event", event, "job_id", jobID, "error", err)
		return ecode.Unavailable("job repository unavailable", err)
	default:
		s.logger.Error(ctx, "job operation failed",
			"event", event, "job_id", jobID, "user_id", ctxutil.GetUserID(ctx), "error", err)
		observes.CaptureError(ctx, err, map[string]string{"event": string(event), "job_id": jobID})
		return ecode.Internal("internal server error", err)
	}
}

func errNoCaller() error {
	return ecode.Unauthenticated("authentication required")
}

func invalidID(id string) error {
	return ecode.ValidationFields(ecode.FieldIsInvalid("job id"), map[string]string{
		"id": "'" + id + "' is not a valid job id.",
	})
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/laktaabhutan/LAK-Goods-Transport-Application/ecode"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/internal/job/structs"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/logging/observes"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/paging"
	"go.opentelemetry.io/otel/attribute"
)

const maxSearchLength = 200

// GetJobIds lists the ids of the jobs matching filter relative to userID,
// most recent first.
func (s *JobService) GetJobIds(ctx context.Context, userID string, filter structs.ListFilter, params paging.Params) (res *paging.Result[string], err error) {
	ctx, span := observes.StartSpan(ctx, observes.LayerService, "job.list",
		attribute.Int("paging.offset", params.Offset), attribute.Int("paging.limit", params.Limit))
	defer func() { observes.EndSpan(span, err) }()

	if userID == "" {
		return nil, errNoCaller()
	}
	if !filter.HasCriteria() {
		return nil, ecode.ValidationFields(ecode.FieldIsRequired("filter"), map[string]string{
			"filter": "At least one of owned, assigned, finished or applied must be true or false.",
		})
	}
	filter.Search = strings.TrimSpace(filter.Search)
	if len(filter.Search) > maxSearchLength {
		return nil, ecode.ValidationFields(ecode.FieldIsInvalid("search"), map[string]string{
			"search": fmt.Sprintf("The field 'search' must be at most %d characters long.", maxSearchLength),
		})
	}

	params = paging.NormalizeParams(params, s.conf.DefaultLimit, s.conf.MaxLimit)
	res, err = paging.Paginate(params, func(offset, limit int) ([]string, error) {
		return s.repo.SearchIDs(ctx, structs.Query{
			UserID: userID,
			Filter: filter,
			Offset: offset,
			Limit:  limit,
		})
	})
	if err != nil {
		return nil, s.translate(ctx, "list", "", err)
	}
	return res, nil
}

// GetJob returns one job. Any authenticated user may view any job.
func (s *JobService) GetJob(ctx context.Context, jobID, userID string) (job *structs.Job, err error) {
	ctx, span := observes.StartSpan(ctx, observes.LayerService, "job.get", attribute.String("job.id", jobID))
	defer func() { observes.EndSpan(span, err) }()

	if userID == "" {
		return nil, errNoCaller()
	}
	if !structs.IsValidID(jobID) {
		return nil, invalidID(jobID)
	}
	job, err = s.repo.Get(ctx, jobID)
	if err != nil {
		return nil, s.translate(ctx, "get", jobID, err)
	}
	return job, nil
}

// GetJobs resolves jobIDs in order, skipping the ones that no longer exist.
func (s *JobService) GetJobs(ctx context.Context, jobIDs []string, userID string) (jobs []*structs.Job, err error) {
	ctx, span := observes.StartSpan(ctx, observes.LayerService, "job.get_many", attribute.Int("job.count", len(jobIDs)))
	defer func() { observes.EndSpan(span, err) }()

	if userID == "" {
		return nil, errNoCaller()
	}
	if len(jobIDs) > s.conf.MaxLimit {
		return nil, ecode.ValidationFields(ecode.FieldIsInvalid("jobIds"), map[string]string{
			"jobIds": fmt.Sprintf("At most %d ids can be resolved at once.", s.conf.MaxLimit),
		})
	}
	for _, id := range jobIDs {
		if !structs.IsValidID(id) {
			return nil, invalidID(id)
		}
	}
	if len(jobIDs) == 0 {
		return []*structs.Job{}, nil
	}

	jobs, err = s.repo.GetMany(ctx, jobIDs)
	if err != nil {
		return nil, s.translate(ctx, "get_many", "", err)
	}
	return jobs, nil
}

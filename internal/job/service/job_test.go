package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/laktaabhutan/LAK-Goods-Transport-Application/config"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/data/metrics"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/ecode"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/internal/job/data/repository"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/internal/job/structs"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/logging/logger"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/oss"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	owner = "owner-1"
	d1    = "driver-1"
	d2    = "driver-2"
	d3    = "driver-3"
)

type fixture struct {
	svc       *JobService
	repo      *repository.MemoryRepository
	media     *oss.FileSystem
	collector *metrics.Collector
}

func newFixture(t *testing.T, policy ...string) *fixture {
	t.Helper()
	media, err := oss.NewFileSystem(t.TempDir())
	require.NoError(t, err)

	conf := &config.Job{
		MaxImages:    2,
		MaxImageSize: 1024,
		DefaultLimit: 20,
		MaxLimit:     100,
		AssignPolicy: config.AssignApplicantsOnly,
	}
	if len(policy) > 0 {
		conf.AssignPolicy = policy[0]
	}

	repo := repository.NewMemoryRepository()
	collector := metrics.NewCollector()
	return &fixture{
		svc:       NewJobService(repo, media, conf, collector, logger.NewLogger(io.Discard)),
		repo:      repo,
		media:     media,
		collector: collector,
	}
}

func newBody(title string) *structs.CreateJobBody {
	return &structs.CreateJobBody{
		Title:           title,
		PickupLocation:  "Thimphu",
		DropoffLocation: "Paro",
		Pay:             ptr(1500.0),
	}
}

func (f *fixture) create(t *testing.T, title string) *structs.Job {
	t.Helper()
	j, err := f.svc.CreateJob(context.Background(), owner, newBody(title), nil)
	require.NoError(t, err)
	return j
}

func image(name string, size int) structs.ImageUpload {
	return structs.ImageUpload{
		Filename: name,
		Size:     int64(size),
		Reader:   bytes.NewReader(bytes.Repeat([]byte{0x89}, size)),
	}
}

// assertAssignmentInvariant checks that a driver is set exactly when the job is assigned or completed.
func assertAssignmentInvariant(t *testing.T, j *structs.Job) {
	t.Helper()
	assigned := j.Status == structs.StatusAssigned || j.Status == structs.StatusCompleted
	assert.Equal(t, assigned, j.AssignedDriverID != nil, "status %s", j.Status)
	assert.False(t, j.HasApplicant(j.OwnerID))
}

func TestCreateJob(t *testing.T) {
	f := newFixture(t)
	j := f.create(t, "  Move a sofa ")

	assert.True(t, structs.IsValidID(j.ID))
	assert.Equal(t, owner, j.OwnerID)
	assert.Equal(t, structs.StatusPosted, j.Status)
	assert.Empty(t, j.Applicants)
	assert.NotNil(t, j.Applicants)
	assert.Nil(t, j.AssignedDriverID)
	assert.Nil(t, j.FinishedAt)
	assert.Equal(t, "Move a sofa", j.Title)
	assert.InDelta(t, 1500.0, j.Pay, 0.001)
	assert.EqualValues(t, 1, j.Version)
	assert.False(t, j.CreatedAt.IsZero())
	assertAssignmentInvariant(t, j)

	stored, err := f.repo.Get(context.Background(), j.ID)
	require.NoError(t, err)
	assert.Equal(t, j.ID, stored.ID)
}

func TestCreateJobValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateJob(ctx, owner, &structs.CreateJobBody{PickupLocation: "Thimphu"}, nil)
	require.Error(t, err)
	assert.True(t, ecode.IsKind(err, ecode.KindValidation))
	var e *ecode.Error
	require.True(t, errors.As(err, &e))
	assert.Contains(t, e.Fields, "title")
	assert.Contains(t, e.Fields, "dropoffLocation")
	assert.Contains(t, e.Fields, "pay")

	body := newBody("Move")
	body.PickupDate = "tomorrow"
	_, err = f.svc.CreateJob(ctx, owner, body, nil)
	assert.True(t, ecode.IsKind(err, ecode.KindValidation))

	_, err = f.svc.CreateJob(ctx, owner, nil, nil)
	assert.True(t, ecode.IsKind(err, ecode.KindValidation))

	_, err = f.svc.CreateJob(ctx, "", newBody("Move"), nil)
	assert.True(t, ecode.IsKind(err, ecode.KindUnauthorized))
}

func TestCreateJobImages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	j, err := f.svc.CreateJob(ctx, owner, newBody("With photos"), []structs.ImageUpload{
		image("front.PNG", 100),
		image("back.jpg", 200),
	})
	require.NoError(t, err)
	require.Len(t, j.Images, 2)
	for _, img := range j.Images {
		assert.True(t, strings.HasPrefix(img.Key, "jobs/"), img.Key)
		assert.Equal(t, oss.MediaPrefix+img.Key, img.URL)
		ok, err := f.media.Exists(ctx, img.Key)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.True(t, strings.HasSuffix(j.Images[0].Key, ".png"))

	tests := []struct {
		name    string
		uploads []structs.ImageUpload
	}{
		{name: "too many", uploads: []structs.ImageUpload{image("a.png", 1), image("b.png", 1), image("c.png", 1)}},
		{name: "not an image", uploads: []structs.ImageUpload{image("run.exe", 10)}},
		{name: "declared too large", uploads: []structs.ImageUpload{image("big.png", 2048)}},
		{name: "larger than declared", uploads: []structs.ImageUpload{{Filename: "lie.png", Size: 10, Reader: bytes.NewReader(make([]byte, 4096))}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateJob(ctx, owner, newBody("Rejected"), tt.uploads)
			assert.True(t, ecode.IsKind(err, ecode.KindValidation), "got %v", err)
		})
	}
}

func TestAddJobApplicant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	j := f.create(t, "Deliver rice")

	got, err := f.svc.AddJobApplicant(ctx, j.ID, d1)
	require.NoError(t, err)
	assert.Equal(t, structs.StatusApplied, got.Status)
	assert.Equal(t, []string{d1}, got.Applicants)
	assert.EqualValues(t, 2, got.Version)

	_, err = f.svc.AddJobApplicant(ctx, j.ID, d1)
	assert.True(t, ecode.IsKind(err, ecode.KindConflict), "second apply: %v", err)

	_, err = f.svc.AddJobApplicant(ctx, j.ID, owner)
	assert.True(t, ecode.IsKind(err, ecode.KindForbidden))

	got, err = f.svc.GetJob(ctx, j.ID, d1)
	require.NoError(t, err)
	assert.Equal(t, []string{d1}, got.Applicants)
	assert.False(t, got.HasApplicant(owner))

	_, err = f.svc.AddJobApplicant(ctx, structs.NewID(), d1)
	assert.True(t, ecode.IsKind(err, ecode.KindNotFound))

	_, err = f.svc.AddJobApplicant(ctx, "not-an-id", d1)
	assert.True(t, ecode.IsKind(err, ecode.KindValidation))

	n, err := testutil.GatherAndCount(f.collector.Registry(), "transport_job_transitions_total")
	require.NoError(t, err)
	assert.Positive(t, n)
}

func TestAssignDriver(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	j := f.create(t, "Move boxes")
	_, err := f.svc.AddJobApplicant(ctx, j.ID, d1)
	require.NoError(t, err)
	_, err = f.svc.AddJobApplicant(ctx, j.ID, d2)
	require.NoError(t, err)

	_, err = f.svc.AssignDriver(ctx, j.ID, d1, d1)
	assert.True(t, ecode.IsKind(err, ecode.KindForbidden))

	_, err = f.svc.AssignDriver(ctx, j.ID, owner, d3)
	assert.True(t, ecode.IsKind(err, ecode.KindNotFound))

	_, err = f.svc.AssignDriver(ctx, j.ID, owner, "")
	assert.True(t, ecode.IsKind(err, ecode.KindValidation))

	got, err := f.svc.AssignDriver(ctx, j.ID, owner, d1)
	require.NoError(t, err)
	assert.Equal(t, structs.StatusAssigned, got.Status)
	require.NotNil(t, got.AssignedDriverID)
	assert.Equal(t, d1, *got.AssignedDriverID)
	assert.Equal(t, []string{d1, d2}, got.Applicants)
	assertAssignmentInvariant(t, got)

	_, err = f.svc.AssignDriver(ctx, j.ID, owner, d2)
	assert.True(t, ecode.IsKind(err, ecode.KindState), "second assign: %v", err)

	_, err = f.svc.AddJobApplicant(ctx, j.ID, d3)
	assert.True(t, ecode.IsKind(err, ecode.KindConflict))
}

func TestAssignDriverAnyPolicy(t *testing.T) {
	f := newFixture(t, config.AssignAny)
	ctx := context.Background()
	j := f.create(t, "Direct hire")

	_, err := f.svc.AssignDriver(ctx, j.ID, owner, owner)
	assert.True(t, ecode.IsKind(err, ecode.KindValidation))

	got, err := f.svc.AssignDriver(ctx, j.ID, owner, d3)
	require.NoError(t, err)
	assert.Equal(t, d3, *got.AssignedDriverID)
	assert.Empty(t, got.Applicants)
	assertAssignmentInvariant(t, got)

	other := f.create(t, "Second hire")
	_, err = f.svc.AddJobApplicant(ctx, other.ID, d1)
	require.NoError(t, err)
	_, err = f.svc.DenyDriver(ctx, other.ID, owner, d1)
	require.NoError(t, err)
	_, err = f.svc.AssignDriver(ctx, other.ID, owner, d1)
	assert.True(t, ecode.IsKind(err, ecode.KindConflict), "denied driver assigned directly: %v", err)
}

func TestDenyDriver(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	j := f.create(t, "Carry furniture")
	for _, d := range []string{d1, d2, d3} {
		_, err := f.svc.AddJobApplicant(ctx, j.ID, d)
		require.NoError(t, err)
	}

	_, err := f.svc.DenyDriver(ctx, j.ID, d1, d2)
	assert.True(t, ecode.IsKind(err, ecode.KindForbidden))

	got, err := f.svc.DenyDriver(ctx, j.ID, owner, d2)
	require.NoError(t, err)
	assert.Equal(t, []string{d1, d3}, got.Applicants)
	assert.Equal(t, []string{d2}, got.DeniedDrivers)
	assert.Equal(t, structs.StatusApplied, got.Status)
	assert.Equal(t, structs.StatusDenied, got.DriverStatus(d2))

	_, err = f.svc.DenyDriver(ctx, j.ID, owner, d2)
	assert.True(t, ecode.IsKind(err, ecode.KindNotFound))

	_, err = f.svc.AddJobApplicant(ctx, j.ID, d2)
	assert.True(t, ecode.IsKind(err, ecode.KindConflict), "denied driver re-applied: %v", err)
	stored, err := f.svc.GetJob(ctx, j.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{d1, d3}, stored.Applicants)

	_, err = f.svc.AssignDriver(ctx, j.ID, owner, d2)
	assert.True(t, ecode.IsKind(err, ecode.KindConflict), "denied driver cannot be assigned")

	_, err = f.svc.AssignDriver(ctx, j.ID, owner, d1)
	require.NoError(t, err)

	_, err = f.svc.DenyDriver(ctx, j.ID, owner, d1)
	assert.True(t, ecode.IsKind(err, ecode.KindState))

	got, err = f.svc.DenyDriver(ctx, j.ID, owner, d3)
	require.NoError(t, err)
	assert.Equal(t, []string{d1}, got.Applicants)
	assertAssignmentInvariant(t, got)
}

func TestCompleteJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	j := f.create(t, "Haul timber")
	_, err := f.svc.AddJobApplicant(ctx, j.ID, d1)
	require.NoError(t, err)

	_, err = f.svc.CompleteJob(ctx, j.ID, owner)
	assert.True(t, ecode.IsKind(err, ecode.KindState), "complete before assign: %v", err)

	_, err = f.svc.AssignDriver(ctx, j.ID, owner, d1)
	require.NoError(t, err)

	_, err = f.svc.CompleteJob(ctx, j.ID, d2)
	assert.True(t, ecode.IsKind(err, ecode.KindForbidden))

	got, err := f.svc.CompleteJob(ctx, j.ID, d1)
	require.NoError(t, err)
	assert.Equal(t, structs.StatusCompleted, got.Status)
	require.NotNil(t, got.FinishedAt)
	assert.False(t, got.FinishedAt.Before(got.CreatedAt))
	assertAssignmentInvariant(t, got)

	_, err = f.svc.CompleteJob(ctx, j.ID, owner)
	assert.True(t, ecode.IsKind(err, ecode.KindState))
}

func TestUpdateJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	j, err := f.svc.CreateJob(ctx, owner, newBody("Old title"), []structs.ImageUpload{image("a.png", 10)})
	require.NoError(t, err)
	oldKey := j.Images[0].Key

	_, err = f.svc.UpdateJob(ctx, d1, j.ID, &structs.UpdateJobBody{Title: ptr("Hijack")}, nil)
	assert.True(t, ecode.IsKind(err, ecode.KindForbidden))

	_, err = f.svc.UpdateJob(ctx, owner, j.ID, &structs.UpdateJobBody{}, nil)
	assert.True(t, ecode.IsKind(err, ecode.KindValidation))

	_, err = f.svc.UpdateJob(ctx, owner, structs.NewID(), &structs.UpdateJobBody{Title: ptr("x")}, nil)
	assert.True(t, ecode.IsKind(err, ecode.KindNotFound))

	got, err := f.svc.UpdateJob(ctx, owner, j.ID, &structs.UpdateJobBody{Title: ptr("New title"), Pay: ptr(99.5)}, nil)
	require.NoError(t, err)
	assert.Equal(t, "New title", got.Title)
	assert.InDelta(t, 99.5, got.Pay, 0.001)
	assert.Equal(t, "Thimphu", got.PickupLocation)
	assert.Equal(t, oldKey, got.Images[0].Key)

	got, err = f.svc.UpdateJob(ctx, owner, j.ID, nil, []structs.ImageUpload{image("b.jpg", 10)})
	require.NoError(t, err)
	require.Len(t, got.Images, 1)
	assert.NotEqual(t, oldKey, got.Images[0].Key)

	exists, err := f.media.Exists(ctx, oldKey)
	require.NoError(t, err)
	assert.False(t, exists, "replaced image is removed")
	exists, err = f.media.Exists(ctx, got.Images[0].Key)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDeleteJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	j, err := f.svc.CreateJob(ctx, owner, newBody("Short lived"), []structs.ImageUpload{image("a.png", 10)})
	require.NoError(t, err)
	_, err = f.svc.AddJobApplicant(ctx, j.ID, d1)
	require.NoError(t, err)

	applied := structs.ListFilter{Applied: ptr(true)}
	res, err := f.svc.GetJobIds(ctx, d1, applied, defaultPage())
	require.NoError(t, err)
	assert.Equal(t, []string{j.ID}, res.Items)

	err = f.svc.DeleteJob(ctx, d1, j.ID)
	assert.True(t, ecode.IsKind(err, ecode.KindForbidden))

	require.NoError(t, f.svc.DeleteJob(ctx, owner, j.ID))

	_, err = f.svc.GetJob(ctx, j.ID, owner)
	assert.True(t, ecode.IsKind(err, ecode.KindNotFound))

	res, err = f.svc.GetJobIds(ctx, d1, applied, defaultPage())
	require.NoError(t, err)
	assert.Empty(t, res.Items)

	exists, err := f.media.Exists(ctx, j.Images[0].Key)
	require.NoError(t, err)
	assert.False(t, exists)

	err = f.svc.DeleteJob(ctx, owner, j.ID)
	assert.True(t, ecode.IsKind(err, ecode.KindNotFound))
}

func TestDeleteCompletedJob(t *testing.T) {
	f := newFixture(t, config.AssignAny)
	ctx := context.Background()
	j := f.create(t, "Done")
	_, err := f.svc.AssignDriver(ctx, j.ID, owner, d1)
	require.NoError(t, err)
	_, err = f.svc.CompleteJob(ctx, j.ID, owner)
	require.NoError(t, err)

	err = f.svc.DeleteJob(ctx, owner, j.ID)
	assert.True(t, ecode.IsKind(err, ecode.KindState))
}

func TestConcurrentAssign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		j := f.create(t, "Race")
		_, err := f.svc.AddJobApplicant(ctx, j.ID, d1)
		require.NoError(t, err)
		_, err = f.svc.AddJobApplicant(ctx, j.ID, d2)
		require.NoError(t, err)

		drivers := []string{d1, d2}
		errs := make([]error, len(drivers))
		start := make(chan struct{})
		var wg sync.WaitGroup
		for i, d := range drivers {
			i, d := i, d
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				_, errs[i] = f.svc.AssignDriver(ctx, j.ID, owner, d)
			}()
		}
		close(start)
		wg.Wait()

		winner := ""
		for i, err := range errs {
			if err == nil {
				require.Empty(t, winner, "two assignments succeeded")
				winner = drivers[i]
				continue
			}
			assert.True(t, ecode.IsKind(err, ecode.KindConflict) || ecode.IsKind(err, ecode.KindState), "loser got %v", err)
		}
		require.NotEmpty(t, winner, "no assignment succeeded")

		got, err := f.svc.GetJob(ctx, j.ID, owner)
		require.NoError(t, err)
		require.NotNil(t, got.AssignedDriverID)
		assert.Equal(t, winner, *got.AssignedDriverID)
		assertAssignmentInvariant(t, got)
	}
}

// flakyRepository fails selected calls with a fixed error.
type flakyRepository struct {
	*repository.MemoryRepository
	getErr    error
	updateErr error
}

func (r *flakyRepository) Get(ctx context.Context, id string) (*structs.Job, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.MemoryRepository.Get(ctx, id)
}

func (r *flakyRepository) UpdateIfVersion(ctx context.Context, job *structs.Job, expected int64) (*structs.Job, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	return r.MemoryRepository.UpdateIfVersion(ctx, job, expected)
}

func TestRepositoryErrorTranslation(t *testing.T) {
	mem := repository.NewMemoryRepository()
	j, err := mem.Create(context.Background(), &structs.Job{OwnerID: owner, Status: structs.StatusPosted})
	require.NoError(t, err)

	tests := []struct {
		name string
		repo *flakyRepository
		kind ecode.Kind
	}{
		{name: "unavailable", repo: &flakyRepository{MemoryRepository: mem, getErr: repository.ErrUnavailable}, kind: ecode.KindUnavailable},
		{name: "conflict", repo: &flakyRepository{MemoryRepository: mem, updateErr: repository.ErrVersionConflict}, kind: ecode.KindConflict},
		{name: "unknown", repo: &flakyRepository{MemoryRepository: mem, getErr: errors.New("disk on fire")}, kind: ecode.KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewJobService(tt.repo, nil, nil, nil, logger.NewLogger(io.Discard))
			_, err := svc.AddJobApplicant(context.Background(), j.ID, d1)
			require.Error(t, err)
			assert.Equal(t, tt.kind, ecode.KindOf(err))
		})
	}

	svc := NewJobService(&flakyRepository{MemoryRepository: mem, getErr: errors.New("disk on fire")}, nil, nil, nil, logger.NewLogger(io.Discard))
	_, err = svc.GetJob(context.Background(), j.ID, d1)
	var e *ecode.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "internal server error", e.Message)
}

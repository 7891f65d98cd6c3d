// Package repository persists jobs. Every write is conditional on the version
// the caller read, so concurrent writers on one job never overwrite each other.
package repository

import (
	"context"
	"errors"

	"github.com/laktaabhutan/LAK-Goods-Transport-Application/data"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/internal/job/structs"
)

var (
	// ErrNotFound is returned for ids that do not resolve to a job.
	ErrNotFound = errors.New("job not found")
	// ErrVersionConflict is returned when the stored version differs from the expected one.
	ErrVersionConflict = errors.New("job version conflict")
	// ErrUnavailable is returned when the store cannot be reached in time.
	ErrUnavailable = data.ErrUnavailable
)

// JobRepository defines the interface for job data operations.
type JobRepository interface {
	// Create assigns an id when missing, sets version 1 and stores the job.
	Create(ctx context.Context, job *structs.Job) (*structs.Job, error)
	// Get returns the job or ErrNotFound.
	Get(ctx context.Context, id string) (*structs.Job, error)
	// GetMany returns the existing jobs in the order of ids, skipping unknown ids.
	GetMany(ctx context.Context, ids []string) ([]*structs.Job, error)
	// UpdateIfVersion stores job when the stored version equals expected and
	// returns it with version expected+1.
	UpdateIfVersion(ctx context.Context, job *structs.Job, expected int64) (*structs.Job, error)
	// DeleteIfVersion removes the job when the stored version equals expected.
	DeleteIfVersion(ctx context.Context, id string, expected int64) error
	// SearchIDs returns matching ids, most recent first.
	SearchIDs(ctx context.Context, q structs.Query) ([]string, error)
}

// prepareNew fills the fields every new job starts with.
func prepareNew(job *structs.Job) *structs.Job {
	j := job.Clone()
	if j.ID == "" {
		j.ID = structs.NewID()
	}
	if j.Applicants == nil {
		j.Applicants = []string{}
	}
	if j.DeniedDrivers == nil {
		j.DeniedDrivers = []string{}
	}
	if j.Images == nil {
		j.Images = []structs.Image{}
	}
	j.Version = 1
	return j
}

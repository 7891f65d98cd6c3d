package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/laktaabhutan/LAK-Goods-Transport-Application/data"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/internal/job/structs"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/logging/logger"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/nanoid"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "jobs"

// jobDocument is the stored form of a job. WriteID tags the replace that
// produced it.
type jobDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	WriteID     string             `bson:"write_id,omitempty"`
	structs.Job `bson:",inline"`
}

// writeStamp is the part of a stored job that identifies its last write.
type writeStamp struct {
	Version int64  `bson:"version"`
	WriteID string `bson:"write_id"`
}

func toDocument(j *structs.Job) (*jobDocument, error) {
	oid, err := primitive.ObjectIDFromHex(j.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid job id %q: %w", j.ID, err)
	}
	return &jobDocument{ID: oid, Job: *j}, nil
}

func (d *jobDocument) job() *structs.Job {
	j := d.Job
	j.ID = d.ID.Hex()
	if j.Applicants == nil {
		j.Applicants = []string{}
	}
	if j.DeniedDrivers == nil {
		j.DeniedDrivers = []string{}
	}
	if j.Images == nil {
		j.Images = []structs.Image{}
	}
	return &j
}

type jobRepository struct {
	collection *mongo.Collection
	exec       *data.Executor
	logger     *logger.Logger
}

// NewJobRepository creates the MongoDB job repository and ensures its indexes.
func NewJobRepository(ctx context.Context, d *data.Data, logger *logger.Logger) JobRepository {
	r := &jobRepository{
		collection: d.GetMongoManager().Collection(collectionName),
		exec:       d.Executor(),
		logger:     logger,
	}
	r.ensureIndexes(ctx)
	return r
}

func (r *jobRepository) ensureIndexes(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "assigned_driver_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "applicants", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "description", Value: "text"},
				{Key: "pickup_location", Value: "text"},
				{Key: "dropoff_location", Value: "text"},
			},
			Options: options.Index().SetName("job_text"),
		},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, models); err != nil {
		r.logger.Warn(ctx, "failed to create job indexes", "error", err)
	}
}

// Create inserts a new job.
func (r *jobRepository) Create(ctx context.Context, job *structs.Job) (*structs.Job, error) {
	j := prepareNew(job)
	doc, err := toDocument(j)
	if err != nil {
		return nil, err
	}

	err = r.exec.Do(ctx, "job.create", func(ctx context.Context) error {
		_, err := r.collection.InsertOne(ctx, doc)
		return err
	})
	if err != nil {
		r.logger.Error(ctx, "failed to create job", "error", err)
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return j, nil
}

// Get retrieves a job by id.
func (r *jobRepository) Get(ctx context.Context, id string) (*structs.Job, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc jobDocument
	err = r.exec.Do(ctx, "job.get", func(ctx context.Context) error {
		return r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error(ctx, "failed to find job", "id", id, "error", err)
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return doc.job(), nil
}

// GetMany retrieves jobs by ids, keeping the order of ids.
func (r *jobRepository) GetMany(ctx context.Context, ids []string) ([]*structs.Job, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []*structs.Job{}, nil
	}

	var docs []*jobDocument
	err := r.exec.Do(ctx, "job.get_many", func(ctx context.Context) error {
		cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)
		docs = docs[:0]
		return cursor.All(ctx, &docs)
	})
	if err != nil {
		r.logger.Error(ctx, "failed to find jobs", "count", len(ids), "error", err)
		return nil, fmt.Errorf("failed to find jobs: %w", err)
	}

	byID := make(map[string]*structs.Job, len(docs))
	for _, doc := range docs {
		j := doc.job()
		byID[j.ID] = j
	}
	return orderByIDs(ids, byID), nil
}

// UpdateIfVersion replaces the job when its stored version matches expected.
func (r *jobRepository) UpdateIfVersion(ctx context.Context, job *structs.Job, expected int64) (*structs.Job, error) {
	j := job.Clone()
	j.Version = expected + 1
	doc, err := toDocument(j)
	if err != nil {
		return nil, ErrNotFound
	}
	doc.WriteID = nanoid.Must()

	var matched int64
	attempts := 0
	err = r.exec.Do(ctx, "job.update", func(ctx context.Context) error {
		attempts++
		res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID, "version": expected}, doc)
		if err != nil {
			return err
		}
		matched = res.MatchedCount
		return nil
	})
	if err != nil {
		r.logger.Error(ctx, "failed to update job", "id", j.ID, "error", err)
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	if matched == 0 {
		if err := r.settleMiss(ctx, doc.ID, attempts, &writeStamp{Version: j.Version, WriteID: doc.WriteID}); err != nil {
			return nil, err
		}
	}
	return j, nil
}

// DeleteIfVersion removes the job when its stored version matches expected.
func (r *jobRepository) DeleteIfVersion(ctx context.Context, id string, expected int64) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	var deleted int64
	attempts := 0
	err = r.exec.Do(ctx, "job.delete", func(ctx context.Context) error {
		attempts++
		res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "version": expected})
		if err != nil {
			return err
		}
		deleted = res.DeletedCount
		return nil
	})
	if err != nil {
		r.logger.Error(ctx, "failed to delete job", "id", id, "error", err)
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if deleted == 0 {
		return r.settleMiss(ctx, oid, attempts, nil)
	}
	return nil
}

// settleMiss explains a conditional write that matched nothing. want is the
// stamp the write would leave behind, nil for a delete.
func (r *jobRepository) settleMiss(ctx context.Context, oid primitive.ObjectID, attempts int, want *writeStamp) error {
	var stored *writeStamp
	err := r.exec.Do(ctx, "job.stamp", func(ctx context.Context) error {
		var st writeStamp
		err := r.collection.FindOne(ctx, bson.M{"_id": oid},
			options.FindOne().SetProjection(bson.M{"version": 1, "write_id": 1})).Decode(&st)
		if errors.Is(err, mongo.ErrNoDocuments) {
			stored = nil
			return nil
		}
		if err != nil {
			return err
		}
		stored = &st
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to check job: %w", err)
	}
	return missOutcome(attempts > 1, stored, want)
}

// missOutcome classifies a write that matched no document. When the call was
// retried, the first attempt may have committed before timing out; a stored
// stamp equal to want (or, for a delete, a vanished job) is then that write.
func missOutcome(retried bool, stored, want *writeStamp) error {
	switch {
	case stored == nil && retried && want == nil:
		return nil
	case stored == nil:
		return ErrNotFound
	case retried && want != nil && *stored == *want:
		return nil
	}
	return ErrVersionConflict
}

// SearchIDs lists matching job ids, most recent first.
func (r *jobRepository) SearchIDs(ctx context.Context, q structs.Query) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(q.Offset))
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	err := r.exec.Do(ctx, "job.search", func(ctx context.Context) error {
		cursor, err := r.collection.Find(ctx, buildSearchFilter(q), opts)
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)
		docs = docs[:0]
		return cursor.All(ctx, &docs)
	})
	if err != nil {
		r.logger.Error(ctx, "failed to search jobs", "user_id", q.UserID, "error", err)
		return nil, fmt.Errorf("failed to search jobs: %w", err)
	}

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID.Hex())
	}
	return ids, nil
}

// buildSearchFilter translates the tri-state flags into a query document.
func buildSearchFilter(q structs.Query) bson.D {
	f := q.Filter
	filter := bson.D{}

	if f.Owned != nil {
		filter = append(filter, bson.E{Key: "owner_id", Value: eqOrNe(*f.Owned, q.UserID)})
	}
	if f.Assigned != nil {
		filter = append(filter, bson.E{Key: "assigned_driver_id", Value: eqOrNe(*f.Assigned, q.UserID)})
	}
	if f.Finished != nil {
		filter = append(filter, bson.E{Key: "status", Value: eqOrNe(*f.Finished, string(structs.StatusCompleted))})
	}
	if f.Applied != nil {
		filter = append(filter, bson.E{Key: "applicants", Value: eqOrNe(*f.Applied, q.UserID)})
	}
	if f.Search != "" {
		filter = append(filter, bson.E{Key: "$text", Value: bson.M{"$search": f.Search}})
	}
	return filter
}

func eqOrNe(want bool, v string) bson.M {
	if want {
		return bson.M{"$eq": v}
	}
	return bson.M{"$ne": v}
}

// orderByIDs lays the found jobs out in the order of ids. Unknown ids are
// skipped; a repeated id repeats its job.
func orderByIDs(ids []string, byID map[string]*structs.Job) []*structs.Job {
	out := make([]*structs.Job, 0, len(ids))
	seen := make(map[string]bool, len(byID))
	for _, id := range ids {
		j, ok := byID[id]
		if !ok {
			continue
		}
		if seen[id] {
			j = j.Clone()
		}
		seen[id] = true
		out = append(out, j)
	}
	return out
}

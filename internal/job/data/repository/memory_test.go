package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/laktaabhutan/LAK-Goods-Transport-Application/internal/job/structs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func seed(t *testing.T, repo JobRepository, n int, owner string) []*structs.Job {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jobs := make([]*structs.Job, 0, n)
	for i := 0; i < n; i++ {
		j, err := repo.Create(context.Background(), &structs.Job{
			OwnerID:   owner,
			Status:    structs.StatusPosted,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Payload:   structs.Payload{Title: fmt.Sprintf("job %d", i), PickupLocation: "Thimphu", DropoffLocation: "Paro"},
		})
		require.NoError(t, err)
		jobs = append(jobs, j)
	}
	return jobs
}

func TestMemoryCreateAndGet(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	j, err := repo.Create(ctx, &structs.Job{OwnerID: "o1", Status: structs.StatusPosted})
	require.NoError(t, err)
	assert.True(t, structs.IsValidID(j.ID))
	assert.EqualValues(t, 1, j.Version)
	assert.NotNil(t, j.Applicants)

	got, err := repo.Get(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, j, got)

	got.Applicants = append(got.Applicants, "mutated")
	again, err := repo.Get(ctx, j.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Applicants)

	_, err = repo.Get(ctx, structs.NewID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUpdateIfVersion(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	j := seed(t, repo, 1, "o1")[0]

	j.Applicants = []string{"d1"}
	updated, err := repo.UpdateIfVersion(ctx, j, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated.Version)

	_, err = repo.UpdateIfVersion(ctx, j, 1)
	assert.ErrorIs(t, err, ErrVersionConflict)

	_, err = repo.UpdateIfVersion(ctx, &structs.Job{ID: structs.NewID()}, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryDeleteIfVersion(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	j := seed(t, repo, 1, "o1")[0]

	assert.ErrorIs(t, repo.DeleteIfVersion(ctx, j.ID, 7), ErrVersionConflict)
	require.NoError(t, repo.DeleteIfVersion(ctx, j.ID, 1))
	assert.ErrorIs(t, repo.DeleteIfVersion(ctx, j.ID, 1), ErrNotFound)

	_, err := repo.Get(ctx, j.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryGetManyKeepsOrder(t *testing.T) {
	repo := NewMemoryRepository()
	jobs := seed(t, repo, 3, "o1")

	got, err := repo.GetMany(context.Background(), []string{jobs[2].ID, structs.NewID(), jobs[0].ID, jobs[2].ID})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, jobs[2].ID, got[0].ID)
	assert.Equal(t, jobs[0].ID, got[1].ID)
	assert.Equal(t, jobs[2].ID, got[2].ID)
	assert.NotSame(t, got[0], got[2])
}

func TestMemorySearchPagination(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	jobs := seed(t, repo, 5, "o1")
	seed(t, repo, 2, "o2")

	q := structs.Query{UserID: "o1", Filter: structs.ListFilter{Owned: ptr(true)}, Limit: 2}
	first, err := repo.SearchIDs(ctx, q)
	require.NoError(t, err)
	q.Offset = 2
	second, err := repo.SearchIDs(ctx, q)
	require.NoError(t, err)
	q.Offset = 4
	third, err := repo.SearchIDs(ctx, q)
	require.NoError(t, err)

	assert.Equal(t, []string{jobs[4].ID, jobs[3].ID}, first)
	assert.Equal(t, []string{jobs[2].ID, jobs[1].ID}, second)
	assert.Equal(t, []string{jobs[0].ID}, third)

	q.Offset = 10
	none, err := repo.SearchIDs(ctx, q)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemorySearchText(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	_, err := repo.Create(ctx, &structs.Job{OwnerID: "o1", Payload: structs.Payload{Title: "Move a piano", DropoffLocation: "Punakha"}})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &structs.Job{OwnerID: "o1", Payload: structs.Payload{Title: "Deliver rice"}})
	require.NoError(t, err)

	ids, err := repo.SearchIDs(ctx, structs.Query{UserID: "o1", Filter: structs.ListFilter{Owned: ptr(true), Search: "PIANO"}})
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	ids, err = repo.SearchIDs(ctx, structs.Query{UserID: "o1", Filter: structs.ListFilter{Owned: ptr(true), Search: "punakha rice"}})
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestMemorySearchMatchesWholeWords(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	catalog, err := repo.Create(ctx, &structs.Job{OwnerID: "o1", Payload: structs.Payload{Title: "Ship the catalog"}})
	require.NoError(t, err)
	boxes, err := repo.Create(ctx, &structs.Job{OwnerID: "o1", Payload: structs.Payload{Title: "Move boxes", PickupLocation: "Thimphu-Chang"}})
	require.NoError(t, err)

	tests := []struct {
		search string
		want   []string
	}{
		{search: "cat", want: []string{}},
		{search: "catalog", want: []string{catalog.ID}},
		{search: "box", want: []string{boxes.ID}},
		{search: "chang", want: []string{boxes.ID}},
		{search: "thim", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			ids, err := repo.SearchIDs(ctx, structs.Query{UserID: "o1", Filter: structs.ListFilter{Owned: ptr(true), Search: tt.search}})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids)
		})
	}
}

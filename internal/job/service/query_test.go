package service

import (
	"context"
	"strings"
	"testing"

	"github.com/laktaabhutan/LAK-Goods-Transport-Application/ecode"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/internal/job/structs"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/paging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultPage() paging.Params {
	return paging.Params{Offset: 0, Limit: 20}
}

func TestAssignedScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	j := f.create(t, "Scenario")
	_, err := f.svc.AddJobApplicant(ctx, j.ID, d1)
	require.NoError(t, err)
	_, err = f.svc.AddJobApplicant(ctx, j.ID, d2)
	require.NoError(t, err)
	_, err = f.svc.AssignDriver(ctx, j.ID, owner, d1)
	require.NoError(t, err)

	assigned := structs.ListFilter{Assigned: ptr(true)}

	res, err := f.svc.GetJobIds(ctx, d2, assigned, defaultPage())
	require.NoError(t, err)
	assert.NotContains(t, res.Items, j.ID)

	res, err = f.svc.GetJobIds(ctx, d1, assigned, defaultPage())
	require.NoError(t, err)
	assert.Contains(t, res.Items, j.ID)

	res, err = f.svc.GetJobIds(ctx, d2, structs.ListFilter{Applied: ptr(true), Assigned: ptr(false)}, defaultPage())
	require.NoError(t, err)
	assert.Equal(t, []string{j.ID}, res.Items)
}

func TestGetJobIdsPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		f.create(t, "Job "+string(rune('A'+i)))
	}
	owned := structs.ListFilter{Owned: ptr(true)}

	first, err := f.svc.GetJobIds(ctx, owner, owned, paging.Params{Offset: 0, Limit: 2})
	require.NoError(t, err)
	second, err := f.svc.GetJobIds(ctx, owner, owned, paging.Params{Offset: 2, Limit: 2})
	require.NoError(t, err)
	third, err := f.svc.GetJobIds(ctx, owner, owned, paging.Params{Offset: 4, Limit: 2})
	require.NoError(t, err)

	assert.Len(t, first.Items, 2)
	assert.Len(t, second.Items, 2)
	assert.Len(t, third.Items, 1)
	assert.True(t, first.HasMore)
	assert.True(t, second.HasMore)
	assert.False(t, third.HasMore)

	seen := map[string]bool{}
	for _, page := range [][]string{first.Items, second.Items, third.Items} {
		for _, id := range page {
			assert.False(t, seen[id], "duplicate id %s", id)
			seen[id] = true
		}
	}
	assert.Len(t, seen, 5)

	all, err := f.svc.GetJobIds(ctx, owner, owned, paging.Params{})
	require.NoError(t, err)
	assert.Equal(t, append(append(first.Items, second.Items...), third.Items...), all.Items)
	assert.Equal(t, 20, all.Limit)

	clamped, err := f.svc.GetJobIds(ctx, owner, owned, paging.Params{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 100, clamped.Limit)
}

func TestGetJobIdsOrdersMostRecentFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	older := f.create(t, "Older")
	newer := f.create(t, "Newer")

	res, err := f.svc.GetJobIds(ctx, owner, structs.ListFilter{Owned: ptr(true)}, defaultPage())
	require.NoError(t, err)
	assert.Equal(t, []string{newer.ID, older.ID}, res.Items)
}

func TestGetJobIdsFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rice := f.create(t, "Deliver rice to Paro")
	_, err := f.svc.AddJobApplicant(ctx, rice.ID, d1)
	require.NoError(t, err)
	_, err = f.svc.AssignDriver(ctx, rice.ID, owner, d1)
	require.NoError(t, err)
	_, err = f.svc.CompleteJob(ctx, rice.ID, d1)
	require.NoError(t, err)
	sofa := f.create(t, "Move sofa")

	tests := []struct {
		name   string
		user   string
		filter structs.ListFilter
		want   []string
	}{
		{name: "owned", user: owner, filter: structs.ListFilter{Owned: ptr(true)}, want: []string{sofa.ID, rice.ID}},
		{name: "owned unfinished", user: owner, filter: structs.ListFilter{Owned: ptr(true), Finished: ptr(false)}, want: []string{sofa.ID}},
		{name: "finished for driver", user: d1, filter: structs.ListFilter{Assigned: ptr(true), Finished: ptr(true)}, want: []string{rice.ID}},
		{name: "not owned by driver", user: d1, filter: structs.ListFilter{Owned: ptr(false)}, want: []string{sofa.ID, rice.ID}},
		{name: "search", user: owner, filter: structs.ListFilter{Owned: ptr(true), Search: "  RICE "}, want: []string{rice.ID}},
		{name: "search no match", user: owner, filter: structs.ListFilter{Owned: ptr(true), Search: "piano"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.svc.GetJobIds(ctx, tt.user, tt.filter, defaultPage())
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Items)
		})
	}
}

func TestGetJobIdsValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetJobIds(ctx, owner, structs.ListFilter{Search: "rice"}, defaultPage())
	assert.True(t, ecode.IsKind(err, ecode.KindValidation))

	_, err = f.svc.GetJobIds(ctx, owner, structs.ListFilter{Owned: ptr(true), Search: strings.Repeat("x", 201)}, defaultPage())
	assert.True(t, ecode.IsKind(err, ecode.KindValidation))

	_, err = f.svc.GetJobIds(ctx, "", structs.ListFilter{Owned: ptr(true)}, defaultPage())
	assert.True(t, ecode.IsKind(err, ecode.KindUnauthorized))
}

func TestGetJobs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t, "A")
	b := f.create(t, "B")
	c := f.create(t, "C")
	require.NoError(t, f.svc.DeleteJob(ctx, owner, b.ID))

	jobs, err := f.svc.GetJobs(ctx, []string{c.ID, b.ID, a.ID}, d1)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, c.ID, jobs[0].ID)
	assert.Equal(t, a.ID, jobs[1].ID)

	jobs, err = f.svc.GetJobs(ctx, []string{a.ID, c.ID, a.ID}, d1)
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, []string{a.ID, c.ID, a.ID}, []string{jobs[0].ID, jobs[1].ID, jobs[2].ID})

	jobs, err = f.svc.GetJobs(ctx, nil, d1)
	require.NoError(t, err)
	assert.Empty(t, jobs)

	_, err = f.svc.GetJobs(ctx, []string{a.ID, "bogus"}, d1)
	assert.True(t, ecode.IsKind(err, ecode.KindValidation))

	_, err = f.svc.GetJobs(ctx, []string{a.ID}, "")
	assert.True(t, ecode.IsKind(err, ecode.KindUnauthorized))
}

func TestGetJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	j := f.create(t, "Visible")

	got, err := f.svc.GetJob(ctx, j.ID, d3)
	require.NoError(t, err)
	assert.Equal(t, j.Title, got.Title)

	_, err = f.svc.GetJob(ctx, "123", d3)
	assert.True(t, ecode.IsKind(err, ecode.KindValidation))

	_, err = f.svc.GetJob(ctx, structs.NewID(), d3)
	assert.True(t, ecode.IsKind(err, ecode.KindNotFound))
}

package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/laktaabhutan/LAK-Goods-Transport-Application/internal/job/structs"
)

// MemoryRepository keeps jobs in a map. Safe for concurrent access; it is used
// by tests and local development and honours the same version checks as the
// MongoDB repository.
type MemoryRepository struct {
	mu   sync.RWMutex
	jobs map[string]*structs.Job
}

var _ JobRepository = (*MemoryRepository)(nil)

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{jobs: make(map[string]*structs.Job)}
}

// Create stores a copy of job.
func (m *MemoryRepository) Create(_ context.Context, job *structs.Job) (*structs.Job, error) {
	j := prepareNew(job)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.jobs[j.ID]; exists {
		return nil, ErrVersionConflict
	}
	m.jobs[j.ID] = j.Clone()
	return j, nil
}

// Get returns a copy of the stored job.
func (m *MemoryRepository) Get(_ context.Context, id string) (*structs.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return j.Clone(), nil
}

// GetMany returns copies of the known jobs in the order of ids.
func (m *MemoryRepository) GetMany(_ context.Context, ids []string) ([]*structs.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byID := make(map[string]*structs.Job, len(ids))
	for _, id := range ids {
		if j, ok := m.jobs[id]; ok {
			byID[id] = j.Clone()
		}
	}
	return orderByIDs(ids, byID), nil
}

// UpdateIfVersion swaps in job when the stored version equals expected.
func (m *MemoryRepository) UpdateIfVersion(_ context.Context, job *structs.Job, expected int64) (*structs.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.jobs[job.ID]
	if !ok {
		return nil, ErrNotFound
	}
	if cur.Version != expected {
		return nil, ErrVersionConflict
	}
	j := job.Clone()
	j.Version = expected + 1
	m.jobs[j.ID] = j.Clone()
	return j, nil
}

// DeleteIfVersion removes the job when the stored version equals expected.
func (m *MemoryRepository) DeleteIfVersion(_ context.Context, id string, expected int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.jobs[id]
	if !ok {
		return ErrNotFound
	}
	if cur.Version != expected {
		return ErrVersionConflict
	}
	delete(m.jobs, id)
	return nil
}

// SearchIDs filters, orders by creation time (newest first) and pages.
func (m *MemoryRepository) SearchIDs(_ context.Context, q structs.Query) ([]string, error) {
	terms := words(q.Filter.Search)

	m.mu.RLock()
	matched := make([]*structs.Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		if q.Filter.Matches(j, q.UserID) && matchesTerms(j, terms) {
			matched = append(matched, j)
		}
	}
	m.mu.RUnlock()

	sort.Slice(matched, func(a, b int) bool {
		if !matched[a].CreatedAt.Equal(matched[b].CreatedAt) {
			return matched[a].CreatedAt.After(matched[b].CreatedAt)
		}
		return matched[a].ID > matched[b].ID
	})

	if q.Offset >= len(matched) {
		return []string{}, nil
	}
	matched = matched[q.Offset:]
	if q.Limit > 0 && q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}

	ids := make([]string, len(matched))
	for i, j := range matched {
		ids[i] = j.ID
	}
	return ids, nil
}

// matchesTerms mirrors a text index: a job matches when any search word
// equals a word of its descriptive fields.
func matchesTerms(j *structs.Job, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	fields := make(map[string]bool)
	for _, f := range []string{j.Title, j.Description, j.PickupLocation, j.DropoffLocation} {
		for _, w := range words(f) {
			fields[w] = true
		}
	}
	for _, t := range terms {
		if fields[t] {
			return true
		}
	}
	return false
}

// words splits s on anything but letters and digits, lowercases each word
// and drops a plural suffix, close to what the text index stems.
func words(s string) []string {
	raw := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i, w := range raw {
		raw[i] = stem(w)
	}
	return raw
}

func stem(w string) string {
	switch {
	case len(w) > 4 && strings.HasSuffix(w, "es"):
		return w[:len(w)-2]
	case len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss"):
		return w[:len(w)-1]
	}
	return w
}

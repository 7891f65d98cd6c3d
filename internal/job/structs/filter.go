package structs

import "strconv"

// ListFilter selects jobs relative to the caller. Each flag is tri-state:
// nil ignores the criterion, true requires it and false excludes it.
type ListFilter struct {
	Owned    *bool
	Assigned *bool
	Finished *bool
	Applied  *bool
	Search   string
}

// HasCriteria reports whether at least one flag is set.
func (f ListFilter) HasCriteria() bool {
	return f.Owned != nil || f.Assigned != nil || f.Finished != nil || f.Applied != nil
}

// Matches evaluates the filter flags against a job for userID.
// Search is matched by the repository.
func (f ListFilter) Matches(j *Job, userID string) bool {
	return flag(f.Owned, j.IsOwner(userID)) &&
		flag(f.Assigned, j.IsAssignee(userID)) &&
		flag(f.Finished, j.Status == StatusCompleted) &&
		flag(f.Applied, j.HasApplicant(userID))
}

func flag(want *bool, got bool) bool {
	return want == nil || *want == got
}

// ParseFlag reads a boolean query value; anything unparsable counts as absent.
func ParseFlag(raw string) *bool {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

// Query is a repository id search.
type Query struct {
	UserID string
	Filter ListFilter
	Offset int
	Limit  int
}

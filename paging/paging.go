package paging

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/laktaabhutan/LAK-Goods-Transport-Application/ecode"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds the offset pagination parameters
type Params struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Result holds the pagination result
type Result[T any] struct {
	Items   []T  `json:"items"`
	Offset  int  `json:"offset"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"hasMore"`
}

// NormalizeParams ensures that Limit is within an acceptable range
func NormalizeParams(params Params, limits ...int) Params {
	def, max := DefaultLimit, MaxLimit
	if len(limits) > 0 && limits[0] > 0 {
		def = limits[0]
	}
	if len(limits) > 1 && limits[1] > 0 {
		max = limits[1]
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	if params.Limit <= 0 {
		params.Limit = def
	}
	if params.Limit > max {
		params.Limit = max
	}
	return params
}

// Parse reads offset and limit from their raw query values.
// Empty values fall back to defaults; anything that is not a non-negative
// integer is a validation error.
func Parse(offset, limit string, limits ...int) (Params, error) {
	o, err := parseNonNegative("offset", offset)
	if err != nil {
		return Params{}, err
	}
	l, err := parseNonNegative("limit", limit)
	if err != nil {
		return Params{}, err
	}
	return NormalizeParams(Params{Offset: o, Limit: l}, limits...), nil
}

func parseNonNegative(name, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, ecode.ValidationFields(ecode.FieldIsInvalid(name), map[string]string{
			name: fmt.Sprintf("The field '%s' must be a non-negative integer.", name),
		})
	}
	return n, nil
}

// PagingFunc is a function type that implements pagination logic
type PagingFunc[T any] func(offset, limit int) (items []T, err error)

// Paginate applies pagination using the provided PagingFunc.
// One extra item is requested to detect whether another page exists.
func Paginate[T any](params Params, paginateFunc PagingFunc[T]) (*Result[T], error) {
	if params.Offset < 0 {
		params.Offset = 0
	}
	if params.Limit <= 0 {
		params.Limit = DefaultLimit
	}
	items, err := paginateFunc(params.Offset, params.Limit+1)
	if err != nil {
		return nil, err
	}

	hasMore := false
	if len(items) > params.Limit {
		hasMore = true
		items = items[:params.Limit]
	}

	if items == nil {
		items = make([]T, 0)
	}

	return &Result[T]{
		Items:   items,
		Offset:  params.Offset,
		Limit:   params.Limit,
		HasMore: hasMore,
	}, nil
}

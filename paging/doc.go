// Package paging provides offset/limit pagination for listing endpoints.
//
// Parse the raw query values, then run the query through Paginate:
//
//	params, err := paging.Parse(c.Query("offset"), c.Query("limit"), 20, 100)
//	if err != nil {
//	    return err // ecode validation error
//	}
//	result, err := paging.Paginate(params, func(offset, limit int) ([]string, error) {
//	    return repo.SearchIDs(ctx, filter, offset, limit)
//	})
//
// Paginate asks for one item more than the limit so Result.HasMore can be
// reported without a count query.
package paging

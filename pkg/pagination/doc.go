// Package pagination slices a search result set into fixed-size pages.
//
// Paginate is a pure function: it never fails and never panics, even for
// page numbers past the last page, so callers can always ask for a page
// and read navigation availability from the result.
//
// Example usage:
//
//	page := pagination.Paginate(resultSet, 10, pagination.PageSize)
//	for _, id := range page.VisibleIDs {
//		// hydrate id
//	}
//	if page.HasNext {
//		// offer a "next" control
//	}
//
// With the catalog's 120-result cap and 12 items per page there are at
// most 10 pages; page 10 holds identifiers [108:120] and has no next page.
package pagination

package pagination

import (
	"github.com/Sternrassler/art-explorer/pkg/catalog"
)

const (
	// PageSize is the number of items shown per page.
	PageSize = 12
)

// Page is one window onto a result set.
type Page struct {
	// Number is the 1-based page number.
	Number int `json:"number" yaml:"number"`

	// VisibleIDs are the identifiers on this page, in result order.
	VisibleIDs []catalog.ObjectID `json:"visible_ids" yaml:"visible_ids"`

	HasPrev bool `json:"has_prev" yaml:"has_prev"`
	HasNext bool `json:"has_next" yaml:"has_next"`

	// Total is the length of the underlying result set.
	Total int `json:"total" yaml:"total"`

	// TotalPages is the number of non-empty pages.
	TotalPages int `json:"total_pages" yaml:"total_pages"`
}

// Paginate returns page pageNumber of ids with pageSize items per page.
// Page numbers below 1 are treated as 1 and a non-positive pageSize falls
// back to PageSize. A page past the end has no visible ids.
func Paginate(ids []catalog.ObjectID, pageNumber, pageSize int) Page {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize <= 0 {
		pageSize = PageSize
	}

	page := Page{
		Number:     pageNumber,
		HasPrev:    pageNumber > 1,
		Total:      len(ids),
		TotalPages: TotalPages(len(ids), pageSize),
		VisibleIDs: []catalog.ObjectID{},
	}

	// Past the end. Checked before multiplying so huge page numbers
	// cannot overflow.
	if pageNumber-1 >= page.TotalPages {
		return page
	}

	start := (pageNumber - 1) * pageSize
	end := min(start+pageSize, len(ids))
	visible := ids[start:end]

	// Copy so callers cannot write through to the result set.
	out := make([]catalog.ObjectID, len(visible))
	copy(out, visible)

	page.VisibleIDs = out
	page.HasNext = end < len(ids)
	return page
}

// TotalPages returns how many pages n items fill.
func TotalPages(n, pageSize int) int {
	if n <= 0 {
		return 0
	}
	if pageSize <= 0 {
		pageSize = PageSize
	}
	pages := n / pageSize
	if n%pageSize != 0 {
		pages++
	}
	return pages
}

// IsEmpty reports whether the page shows nothing.
func (p Page) IsEmpty() bool {
	return len(p.VisibleIDs) == 0
}

package render

import (
	"fmt"

	"github.com/Sternrassler/art-explorer/pkg/catalog"
	"github.com/Sternrassler/art-explorer/pkg/pagination"
)

// Columns is the fixed grid width.
const Columns = 3

// Status is the outcome of rendering one item.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// ItemError is a per-item failure. It never aborts sibling items.
type ItemError struct {
	ID  catalog.ObjectID
	Err error
}

// Error implements the error interface.
func (e *ItemError) Error() string {
	return fmt.Sprintf("artwork %s: %v", e.ID, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ItemError) Unwrap() error {
	return e.Err
}

// Image describes downloaded image bytes.
type Image struct {
	URL    string `json:"url" yaml:"url"`
	Format string `json:"format" yaml:"format"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
	Size   int    `json:"size" yaml:"size"`
	Data   []byte `json:"-" yaml:"-"`
}

// Item is one grid cell: either a summary (with optional image) or an
// error placeholder tagged with the object id.
type Item struct {
	// Index is the position on the page; Column is Index mod Columns.
	Index  int `json:"index" yaml:"index"`
	Column int `json:"column" yaml:"column"`

	ID     catalog.ObjectID `json:"id" yaml:"id"`
	Status Status           `json:"status" yaml:"status"`

	Summary *catalog.ArtworkSummary `json:"summary,omitempty" yaml:"summary,omitempty"`
	Image   *Image                  `json:"image,omitempty" yaml:"image,omitempty"`

	// Error is the placeholder text for a failed item.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	Err      *ItemError `json:"-" yaml:"-"`
	ImageErr error      `json:"-" yaml:"-"`
}

// OK reports whether the item rendered.
func (it Item) OK() bool {
	return it.Status == StatusOK
}

func failedItem(id catalog.ObjectID, err error) Item {
	ie := &ItemError{ID: id, Err: err}
	return Item{
		ID:     id,
		Status: StatusFailed,
		Error:  err.Error(),
		Err:    ie,
	}
}

// Grid is a rendered page laid out in Columns columns.
type Grid struct {
	Page    pagination.Page `json:"page" yaml:"page"`
	Items   []Item          `json:"items" yaml:"items"`
	Columns int             `json:"columns" yaml:"columns"`
}

// Rows groups items into rows of Columns cells, the last row possibly short.
func (g Grid) Rows() [][]Item {
	cols := g.columns()
	var rows [][]Item
	for start := 0; start < len(g.Items); start += cols {
		rows = append(rows, g.Items[start:min(start+cols, len(g.Items))])
	}
	return rows
}

// Column returns the items placed in column c, top to bottom.
func (g Grid) Column(c int) []Item {
	var out []Item
	for _, it := range g.Items {
		if it.Column == c {
			out = append(out, it)
		}
	}
	return out
}

// Failed returns how many items are error placeholders.
func (g Grid) Failed() int {
	n := 0
	for _, it := range g.Items {
		if !it.OK() {
			n++
		}
	}
	return n
}

func (g Grid) columns() int {
	if g.Columns <= 0 {
		return Columns
	}
	return g.Columns
}

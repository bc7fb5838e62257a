package session

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Sternrassler/art-explorer/pkg/catalog"
	"github.com/Sternrassler/art-explorer/pkg/pagination"
)

// ErrInvalidSnapshot is returned when a snapshot breaks a session invariant.
var ErrInvalidSnapshot = errors.New("invalid session snapshot")

// Snapshot is the serializable form of a Session.
type Snapshot struct {
	Keyword string             `json:"keyword"`
	Results []catalog.ObjectID `json:"results"`
	Page    int                `json:"page"`
}

// Snapshot captures the session state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Keyword: s.keyword,
		Results: slices.Clone([]catalog.ObjectID(s.results)),
		Page:    s.page.Number,
	}
}

// Validate checks the page and result-set bounds.
func (snap Snapshot) Validate() error {
	if len(snap.Results) > catalog.MaxResults {
		return fmt.Errorf("%w: %d results exceed %d", ErrInvalidSnapshot, len(snap.Results), catalog.MaxResults)
	}
	if snap.Page < 1 {
		return fmt.Errorf("%w: page %d", ErrInvalidSnapshot, snap.Page)
	}
	if snap.Page > 1 && snap.Page > pagination.TotalPages(len(snap.Results), pagination.PageSize) {
		return fmt.Errorf("%w: page %d past the last page", ErrInvalidSnapshot, snap.Page)
	}
	return nil
}

// Restore replaces the session state with snap. Nothing changes when snap
// is invalid.
func (s *Session) Restore(snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	s.keyword = snap.Keyword
	s.results = catalog.NewResultSet(snap.Results)
	s.page = PageState{Number: snap.Page}
	return nil
}

// FromSnapshot builds a session from a stored snapshot.
func FromSnapshot(searcher Searcher, snap Snapshot) (*Session, error) {
	s := New(searcher)
	if err := s.Restore(snap); err != nil {
		return nil, err
	}
	return s, nil
}

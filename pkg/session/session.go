// Package session holds the state of one browsing session: the result set
// of the last successful search and the current page number. The two are
// only ever replaced together, so a reader never sees a page number that
// belongs to a different result set.
//
// A Session is not safe for concurrent mutation. Shells that share sessions
// across requests persist them through a Store.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/art-explorer/pkg/catalog"
	"github.com/Sternrassler/art-explorer/pkg/pagination"
)

var (
	// ErrNoNextPage is returned by NextPage on the last page.
	ErrNoNextPage = errors.New("no next page")

	// ErrNoPrevPage is returned by PrevPage on the first page.
	ErrNoPrevPage = errors.New("no previous page")

	// ErrPageOutOfRange is returned by GoTo for a page that does not exist.
	ErrPageOutOfRange = errors.New("page out of range")
)

// ValidationError reports user input rejected before any remote call.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Searcher runs a keyword search. *catalog.Client implements it.
type Searcher interface {
	Search(ctx context.Context, keyword string) (catalog.ResultSet, error)
}

// PageState is the 1-based current page.
type PageState struct {
	Number int
}

// Session is one user's browsing state.
type Session struct {
	searcher Searcher
	keyword  string
	results  catalog.ResultSet
	page     PageState
	logger   zerolog.Logger
}

// New creates an empty session on page 1.
func New(searcher Searcher) *Session {
	return &Session{
		searcher: searcher,
		page:     PageState{Number: 1},
		logger:   log.With().Str("component", "session").Logger(),
	}
}

// NewSearch runs a search for keyword. On success the result set is
// replaced, the page resets to 1 and the number of kept results is
// returned. On any error, including catalog.ErrEmptyResult, the session is
// left exactly as it was.
func (s *Session) NewSearch(ctx context.Context, keyword string) (int, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		SearchesTotal.WithLabelValues("invalid").Inc()
		return 0, &ValidationError{Field: "keyword", Message: "keyword is required"}
	}

	rs, err := s.searcher.Search(ctx, keyword)
	if err != nil {
		if errors.Is(err, catalog.ErrEmptyResult) {
			SearchesTotal.WithLabelValues("empty").Inc()
			s.logger.Info().Str("keyword", keyword).Msg("No artworks found")
			return 0, err
		}
		SearchesTotal.WithLabelValues("failed").Inc()
		s.logger.Error().Err(err).Str("keyword", keyword).Msg("Search failed")
		return 0, err
	}

	s.keyword = keyword
	s.results = rs
	s.page = PageState{Number: 1}

	SearchesTotal.WithLabelValues("ok").Inc()
	s.logger.Info().
		Str("keyword", keyword).
		Int("results", rs.Len()).
		Msg("Search results replaced")

	return rs.Len(), nil
}

// GetPage returns the current page of the result set.
func (s *Session) GetPage() pagination.Page {
	return pagination.Paginate(s.results, s.page.Number, pagination.PageSize)
}

// NextPage advances one page.
func (s *Session) NextPage() error {
	if !s.GetPage().HasNext {
		return ErrNoNextPage
	}
	s.page.Number++
	return nil
}

// PrevPage goes back one page.
func (s *Session) PrevPage() error {
	if !s.GetPage().HasPrev {
		return ErrNoPrevPage
	}
	s.page.Number--
	return nil
}

// GoTo jumps to page n. Page 1 always exists.
func (s *Session) GoTo(n int) error {
	if n < 1 || (n > 1 && n > pagination.TotalPages(s.results.Len(), pagination.PageSize)) {
		return fmt.Errorf("%w: %d", ErrPageOutOfRange, n)
	}
	s.page.Number = n
	return nil
}

// Keyword returns the keyword of the last successful search.
func (s *Session) Keyword() string {
	return s.keyword
}

// Results returns a copy of the current result set.
func (s *Session) Results() catalog.ResultSet {
	return slices.Clone(s.results)
}

// Page returns the current page state.
func (s *Session) Page() PageState {
	return s.page
}

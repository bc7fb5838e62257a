package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Sternrassler/art-explorer/pkg/catalog"
	"github.com/Sternrassler/art-explorer/pkg/pagination"
	"github.com/Sternrassler/art-explorer/pkg/render"
	"github.com/Sternrassler/art-explorer/pkg/session"
)

// User-facing messages.
const (
	MsgFound        = "Found %d results."
	MsgNoResults    = "No artworks found."
	MsgEnterKeyword = "Please enter a keyword."
)

const maxRequestBodyKB = 16

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type sessionResponse struct {
	ID      string          `json:"id"`
	Keyword string          `json:"keyword"`
	Page    pagination.Page `json:"page"`
}

type searchRequest struct {
	Keyword string `json:"keyword"`
}

type searchResponse struct {
	sessionResponse
	Count   int    `json:"count"`
	Message string `json:"message"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id := s.newID()
	sess := session.New(s.searcher)

	if err := s.store.Save(r.Context(), id, sess.Snapshot()); err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Info().Str("session_id", id).Msg("Session created")
	writeJSON(w, http.StatusCreated, sessionView(id, sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sess, err := s.load(r, id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView(id, sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	unlock := s.lock(id)
	defer unlock()

	if _, err := s.store.Load(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req searchRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyKB<<10)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error(), Code: "bad_request"})
		return
	}

	unlock := s.lock(id)
	defer unlock()

	sess, err := s.load(r, id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	n, err := sess.NewSearch(r.Context(), req.Keyword)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.store.Save(r.Context(), id, sess.Snapshot()); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		sessionResponse: sessionView(id, sess),
		Count:           n,
		Message:         fmt.Sprintf(MsgFound, n),
	})
}

// handlePage renders the current page, or the page named by ?page=N
// without moving the session.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sess, err := s.load(r, id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if p := r.URL.Query().Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "page must be an integer", Code: "bad_request"})
			return
		}
		if err := sess.GoTo(n); err != nil {
			s.writeError(w, err)
			return
		}
	}

	grid := s.renderer.RenderPage(r.Context(), sess.GetPage())

	format := r.URL.Query().Get("format")
	switch format {
	case "", "json":
		writeJSON(w, http.StatusOK, grid)
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		render.FormatText(w, grid)
	case "yaml":
		w.Header().Set("Content-Type", "application/yaml")
		if err := render.FormatYAML(w, grid); err != nil {
			s.logger.Error().Err(err).Msg("Unable to encode YAML response")
		}
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("unknown format %q", format), Code: "bad_request"})
	}
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, (*session.Session).NextPage)
}

func (s *Server) handlePrev(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, (*session.Session).PrevPage)
}

func (s *Server) navigate(w http.ResponseWriter, r *http.Request, move func(*session.Session) error) {
	id := r.PathValue("id")
	unlock := s.lock(id)
	defer unlock()

	sess, err := s.load(r, id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := move(sess); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), id, sess.Snapshot()); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionView(id, sess))
}

// handleObject renders one artwork outside any session.
func (s *Server) handleObject(w http.ResponseWriter, r *http.Request) {
	oid, err := catalog.ParseObjectID(r.PathValue("oid"))
	if err != nil || oid <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "object id must be a positive integer", Code: "bad_request"})
		return
	}

	item := s.renderer.RenderItem(r.Context(), oid)
	status := http.StatusOK
	if !item.OK() {
		status, _ = remoteStatus(item.Err)
	}
	writeJSON(w, status, item)
}

func (s *Server) load(r *http.Request, id string) (*session.Session, error) {
	snap, err := s.store.Load(r.Context(), id)
	if err != nil {
		return nil, err
	}
	return session.FromSnapshot(s.searcher, snap)
}

func sessionView(id string, sess *session.Session) sessionResponse {
	return sessionResponse{
		ID:      id,
		Keyword: sess.Keyword(),
		Page:    sess.GetPage(),
	}
}

// writeError maps err to a status code and JSON body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, code, msg := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Int("status", status).Msg("Request failed")
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

func classify(err error) (status int, code, msg string) {
	switch {
	case session.IsValidation(err):
		return http.StatusBadRequest, "validation", MsgEnterKeyword
	case errors.Is(err, catalog.ErrEmptyResult):
		return http.StatusNotFound, "empty_result", MsgNoResults
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found", "Session not found"
	case errors.Is(err, session.ErrNoNextPage):
		return http.StatusConflict, "no_next_page", err.Error()
	case errors.Is(err, session.ErrNoPrevPage):
		return http.StatusConflict, "no_prev_page", err.Error()
	case errors.Is(err, session.ErrPageOutOfRange):
		return http.StatusBadRequest, "page_out_of_range", err.Error()
	case catalog.IsRemote(err):
		st, c := remoteStatus(err)
		return st, c, err.Error()
	default:
		return http.StatusInternalServerError, "internal", "Internal server error"
	}
}

// remoteStatus maps a catalog failure to a gateway status.
func remoteStatus(err error) (int, string) {
	var re *catalog.RemoteError
	if !errors.As(err, &re) {
		return http.StatusBadGateway, "remote_error"
	}
	switch {
	case re.Class == catalog.ErrorClassTimeout:
		return http.StatusGatewayTimeout, "remote_timeout"
	case re.StatusCode == http.StatusNotFound:
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusBadGateway, "remote_error"
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

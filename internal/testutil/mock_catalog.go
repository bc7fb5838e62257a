// Package testutil provides testing utilities for the catalog client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock catalog endpoint response.
type MockResponse struct {
	StatusCode  int
	Body        string
	ContentType string
	Delay       time.Duration
}

// MockObject is the detail payload served for one object.
type MockObject struct {
	ObjectID          int64  `json:"objectID"`
	Title             string `json:"title,omitempty"`
	ArtistDisplayName string `json:"artistDisplayName,omitempty"`
	ObjectDate        string `json:"objectDate,omitempty"`
	PrimaryImageSmall string `json:"primaryImageSmall,omitempty"`
}

// MockCatalog is a configurable mock catalog API server for testing.
// Unknown object ids are answered with 404 like the real API.
type MockCatalog struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)
	searches map[string][]int64
	objects  map[int64]MockResponse

	requestCount int
	paths        []string
	lastQuery    map[string]string
}

// NewMockCatalog creates a new mock catalog server.
func NewMockCatalog() *MockCatalog {
	mock := &MockCatalog{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
		searches: make(map[string][]int64),
		objects:  make(map[int64]MockResponse),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requestCount++
		mock.paths = append(mock.paths, r.URL.Path)
		if r.URL.Path == "/search" {
			mock.lastQuery = map[string]string{
				"q":         r.URL.Query().Get("q"),
				"hasImages": r.URL.Query().Get("hasImages"),
			}
		}
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL, usable as a client base URL.
func (m *MockCatalog) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockCatalog) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockCatalog) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.paths = nil
	m.lastQuery = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockCatalog) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockCatalog) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, r, resp)
	})
}

// SetSearch configures the identifiers returned for keyword q.
// A nil slice is served as a null objectIDs field.
func (m *MockCatalog) SetSearch(q string, ids []int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches[q] = ids
}

// SetObject configures a 200 detail response for an object.
func (m *MockCatalog) SetObject(obj MockObject) {
	body, _ := json.Marshal(obj)
	m.SetObjectResponse(obj.ObjectID, NewJSONResponse(string(body)))
}

// SetObjectResponse configures an arbitrary detail response for an object.
func (m *MockCatalog) SetObjectResponse(id int64, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[id] = resp
}

// SetImage serves data at path with the given content type.
func (m *MockCatalog) SetImage(path string, contentType string, data []byte) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockCatalog) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// CountPrefix returns how many requests hit a path starting with prefix.
func (m *MockCatalog) CountPrefix(prefix string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, p := range m.paths {
		if strings.HasPrefix(p, prefix) {
			n++
		}
	}
	return n
}

// LastSearchQuery returns the q and hasImages parameters of the last search.
func (m *MockCatalog) LastSearchQuery() (q string, hasImages string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastQuery["q"], m.lastQuery["hasImages"]
}

// defaultHandler serves configured searches and objects.
func (m *MockCatalog) defaultHandler(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/search":
		m.mu.RLock()
		ids, ok := m.searches[r.URL.Query().Get("q")]
		m.mu.RUnlock()

		payload := map[string]any{"total": len(ids), "objectIDs": ids}
		if !ok || ids == nil {
			payload["objectIDs"] = nil
		}
		body, _ := json.Marshal(payload)
		writeResponse(w, r, NewJSONResponse(string(body)))

	case strings.HasPrefix(r.URL.Path, "/objects/"):
		var id int64
		if _, err := fmt.Sscanf(strings.TrimPrefix(r.URL.Path, "/objects/"), "%d", &id); err != nil {
			writeResponse(w, r, NewNotFoundResponse())
			return
		}
		m.mu.RLock()
		resp, ok := m.objects[id]
		m.mu.RUnlock()
		if !ok {
			writeResponse(w, r, NewNotFoundResponse())
			return
		}
		writeResponse(w, r, resp)

	default:
		writeResponse(w, r, NewNotFoundResponse())
	}
}

func writeResponse(w http.ResponseWriter, r *http.Request, resp MockResponse) {
	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-r.Context().Done():
			return
		}
	}
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// NewJSONResponse creates a 200 OK JSON response.
func NewJSONResponse(body string) MockResponse {
	return MockResponse{
		StatusCode:  http.StatusOK,
		Body:        body,
		ContentType: "application/json",
	}
}

// NewNotFoundResponse creates the catalog's 404 response.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode:  http.StatusNotFound,
		Body:        `{"message": "Not a valid object"}`,
		ContentType: "application/json",
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode:  http.StatusInternalServerError,
		Body:        `{"error": "Internal server error"}`,
		ContentType: "application/json",
	}
}

// NewSlowResponse creates a 200 response delayed by d.
func NewSlowResponse(body string, d time.Duration) MockResponse {
	resp := NewJSONResponse(body)
	resp.Delay = d
	return resp
}

// IDRange returns n sequential identifiers starting at first.
func IDRange(first int64, n int) []int64 {
	ids := make([]int64, n)
	for i := range ids {
		ids[i] = first + int64(i)
	}
	return ids
}

package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/art-explorer/internal/testutil"
	"github.com/Sternrassler/art-explorer/pkg/catalog"
	"github.com/Sternrassler/art-explorer/pkg/render"
	"github.com/Sternrassler/art-explorer/pkg/session"
)

func setupTools(t *testing.T) (*Tools, *testutil.MockCatalog) {
	t.Helper()

	mock := testutil.NewMockCatalog()
	t.Cleanup(mock.Close)

	ids := testutil.IDRange(1, 30)
	mock.SetSearch("flower", ids)
	for _, id := range ids {
		mock.SetObject(testutil.MockObject{ObjectID: id, Title: fmt.Sprintf("Flower %d", id), ObjectDate: "1890"})
	}

	cfg := catalog.DefaultConfig("TestApp/1.0.0")
	cfg.BaseURL = mock.URL()
	cfg.Timeout = time.Second
	client, err := catalog.New(cfg)
	require.NoError(t, err)

	tools := New(client, render.New(client, client, render.DefaultConfig()), session.NewMemoryStore(0))
	return tools, mock
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func request(name string, args any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Request: mcp.Request{Method: "tools/call"},
		Params:  mcp.CallToolParams{Name: name, Arguments: args},
	}
}

func TestNewServer(t *testing.T) {
	tools, _ := setupTools(t)
	s := NewServer(tools, "test")
	if s == nil {
		t.Fatal("NewServer() returned nil")
	}
}

func TestSearchArtworks(t *testing.T) {
	tools, _ := setupTools(t)
	ctx := context.Background()

	args := SearchArgs{Keyword: "flower"}
	result, err := tools.handleSearch(ctx, request("search_artworks", args), args)
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	var sr SearchResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &sr))
	assert.Equal(t, "Found 30 results.", sr.Message)
	assert.Equal(t, 30, sr.Count)
	assert.Equal(t, 1, sr.Page.Number)
	assert.Len(t, sr.Page.VisibleIDs, 12)
}

func TestSearchArtworks_Errors(t *testing.T) {
	tools, mock := setupTools(t)
	ctx := context.Background()

	tests := []struct {
		keyword string
		message string
	}{
		{"  ", "Please enter a keyword."},
		{"xyzzy", "No artworks found."},
	}

	for _, tt := range tests {
		args := SearchArgs{Keyword: tt.keyword}
		result, err := tools.handleSearch(ctx, request("search_artworks", args), args)
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Equal(t, tt.message, resultText(t, result))
	}

	assert.Equal(t, 1, mock.CountPrefix("/search"), "blank keyword makes no request")
}

func TestPaging(t *testing.T) {
	tools, _ := setupTools(t)
	ctx := context.Background()

	result, err := tools.handlePrevPage(ctx, request("prev_page", nil), NavigateArgs{})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "Already on the first page.", resultText(t, result))

	args := SearchArgs{Keyword: "flower"}
	_, err = tools.handleSearch(ctx, request("search_artworks", args), args)
	require.NoError(t, err)

	result, err = tools.handleNextPage(ctx, request("next_page", nil), NavigateArgs{})
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	var grid render.Grid
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &grid))
	assert.Equal(t, 2, grid.Page.Number)
	require.Len(t, grid.Items, 12)
	assert.Equal(t, "Flower 13", grid.Items[0].Summary.Title)

	result, err = tools.handleNextPage(ctx, request("next_page", nil), NavigateArgs{Format: "text"})
	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, "Flower 25")
	assert.Contains(t, text, "Page 3 of 3")

	result, err = tools.handleNextPage(ctx, request("next_page", nil), NavigateArgs{})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "Already on the last page.", resultText(t, result))

	// get_page with an explicit page leaves the session on page 3.
	result, err = tools.handleGetPage(ctx, request("get_page", nil), PageArgs{Page: 1})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &grid))
	assert.Equal(t, 1, grid.Page.Number)

	result, err = tools.handleGetPage(ctx, request("get_page", nil), PageArgs{})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &grid))
	assert.Equal(t, 3, grid.Page.Number)

	result, err = tools.handleGetPage(ctx, request("get_page", nil), PageArgs{Page: 9})
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = tools.handleGetPage(ctx, request("get_page", nil), PageArgs{Format: "xml"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestGetArtwork(t *testing.T) {
	tools, _ := setupTools(t)
	ctx := context.Background()

	result, err := tools.handleGetArtwork(ctx, request("get_artwork", nil), ArtworkArgs{ID: 4})
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	var item render.Item
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &item))
	assert.Equal(t, "Flower 4", item.Summary.Title)
	assert.Equal(t, "1890", item.Summary.Date)
	assert.Equal(t, catalog.DefaultArtist, item.Summary.Artist)

	result, err = tools.handleGetArtwork(ctx, request("get_artwork", nil), ArtworkArgs{ID: 404})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Error loading artwork ID 404")

	result, err = tools.handleGetArtwork(ctx, request("get_artwork", nil), ArtworkArgs{ID: 0})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestSessionID_Default(t *testing.T) {
	assert.Equal(t, defaultSessionID, sessionID(context.Background()))
}

// gatedSearcher blocks searches for "slow" until release is closed.
type gatedSearcher struct {
	started chan struct{}
	release chan struct{}
}

func (g *gatedSearcher) Search(ctx context.Context, keyword string) (catalog.ResultSet, error) {
	if keyword == "slow" {
		close(g.started)
		select {
		case <-g.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return catalog.NewResultSet([]catalog.ObjectID{1, 2, 3}), nil
}

type sessionKey struct{}

func TestSearch_SessionsDoNotBlockEachOther(t *testing.T) {
	g := &gatedSearcher{started: make(chan struct{}), release: make(chan struct{})}
	tools := New(g, render.New(nil, nil, render.DefaultConfig()), session.NewMemoryStore(0))
	tools.sessionID = func(ctx context.Context) string {
		id, _ := ctx.Value(sessionKey{}).(string)
		return id
	}

	slowCtx := context.WithValue(context.Background(), sessionKey{}, "a")
	slowDone := make(chan struct{})
	go func() {
		defer close(slowDone)
		args := SearchArgs{Keyword: "slow"}
		tools.handleSearch(slowCtx, request("search_artworks", args), args)
	}()
	<-g.started

	fastCtx := context.WithValue(context.Background(), sessionKey{}, "b")
	fastDone := make(chan *mcp.CallToolResult, 1)
	go func() {
		args := SearchArgs{Keyword: "fast"}
		result, _ := tools.handleSearch(fastCtx, request("search_artworks", args), args)
		fastDone <- result
	}()

	select {
	case result := <-fastDone:
		assert.False(t, result.IsError, resultText(t, result))
	case <-time.After(time.Second):
		t.Fatal("search in session b waited for session a")
	}

	close(g.release)
	<-slowDone
	assert.Equal(t, 0, tools.locks.Len())
}

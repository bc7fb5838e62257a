package catalog

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/art-explorer/internal/testutil"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := DefaultConfig("TestApp/1.0.0 (test@example.com)")
	cfg.BaseURL = baseURL
	cfg.Timeout = 2 * time.Second
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		errorMsg string
	}{
		{
			name:   "valid config",
			config: DefaultConfig("TestApp/1.0.0"),
		},
		{
			name:     "empty base url",
			config:   Config{UserAgent: "TestApp/1.0.0", Timeout: time.Second},
			errorMsg: "base url is required",
		},
		{
			name:     "empty user agent",
			config:   Config{BaseURL: DefaultBaseURL, Timeout: time.Second},
			errorMsg: "user-agent is required",
		},
		{
			name:     "zero timeout",
			config:   Config{BaseURL: DefaultBaseURL, UserAgent: "TestApp/1.0.0"},
			errorMsg: "timeout must be > 0 (got 0s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.config)
			if tt.errorMsg != "" {
				require.Error(t, err)
				assert.Equal(t, tt.errorMsg, err.Error())
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("TestApp/1.0.0")

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, "TestApp/1.0.0", cfg.UserAgent)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, int64(DefaultMaxImageBytes), cfg.MaxImageBytes)
}

func TestSearch_TruncatesAndKeepsOrder(t *testing.T) {
	mock := testutil.NewMockCatalog()
	defer mock.Close()

	// Descending ids so that any sorting would be visible.
	ids := make([]int64, 130)
	for i := range ids {
		ids[i] = int64(1000 - i)
	}
	mock.SetSearch("flower", ids)

	c := newTestClient(t, mock.URL())
	rs, err := c.Search(context.Background(), "flower")
	require.NoError(t, err)

	require.Len(t, rs, MaxResults)
	for i, id := range rs {
		assert.Equal(t, ObjectID(ids[i]), id, "index %d", i)
	}

	q, hasImages := mock.LastSearchQuery()
	assert.Equal(t, "flower", q)
	assert.Equal(t, "true", hasImages)
}

func TestSearch_FewerThanCap(t *testing.T) {
	mock := testutil.NewMockCatalog()
	defer mock.Close()
	mock.SetSearch("sunflower", []int64{5, 3, 9})

	c := newTestClient(t, mock.URL())
	rs, err := c.Search(context.Background(), "  sunflower ")
	require.NoError(t, err)
	assert.Equal(t, ResultSet{5, 3, 9}, rs)
}

func TestSearch_EmptyResult(t *testing.T) {
	tests := []struct {
		name string
		ids  []int64
	}{
		{"null objectIDs", nil},
		{"empty objectIDs", []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockCatalog()
			defer mock.Close()
			mock.SetSearch("xyzzynonexistentkeyword", tt.ids)

			c := newTestClient(t, mock.URL())
			rs, err := c.Search(context.Background(), "xyzzynonexistentkeyword")

			assert.Nil(t, rs)
			assert.ErrorIs(t, err, ErrEmptyResult)
			assert.False(t, IsRemote(err), "empty result must be distinguishable from a remote failure")
		})
	}
}

func TestSearch_RemoteErrors(t *testing.T) {
	tests := []struct {
		name       string
		resp       testutil.MockResponse
		class      ErrorClass
		statusCode int
	}{
		{"server error", testutil.NewServerErrorResponse(), ErrorClassServer, 500},
		{"not found", testutil.NewNotFoundResponse(), ErrorClassClient, 404},
		{"malformed body", testutil.NewJSONResponse(`{"objectIDs": [1, 2,`), ErrorClassDecode, 200},
		{"empty body", testutil.NewJSONResponse(""), ErrorClassDecode, 200},
		{"wrong shape", testutil.NewJSONResponse(`{"objectIDs": "nope"}`), ErrorClassDecode, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockCatalog()
			defer mock.Close()
			mock.SetResponse("/search", tt.resp)

			c := newTestClient(t, mock.URL())
			_, err := c.Search(context.Background(), "flower")
			require.Error(t, err)

			var re *RemoteError
			require.True(t, errors.As(err, &re), "expected *RemoteError, got %T", err)
			assert.Equal(t, OpSearch, re.Op)
			assert.Equal(t, tt.class, re.Class)
			assert.Equal(t, tt.statusCode, re.StatusCode)
			assert.NotErrorIs(t, err, ErrEmptyResult)
		})
	}
}

func TestSearch_Timeout(t *testing.T) {
	mock := testutil.NewMockCatalog()
	defer mock.Close()
	mock.SetResponse("/search", testutil.NewSlowResponse(`{"objectIDs":[1]}`, time.Second))

	cfg := DefaultConfig("TestApp/1.0.0")
	cfg.BaseURL = mock.URL()
	cfg.Timeout = 50 * time.Millisecond
	c, err := New(cfg)
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "flower")

	var re *RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, ErrorClassTimeout, re.Class)
}

func TestSearch_TransportError(t *testing.T) {
	mock := testutil.NewMockCatalog()
	baseURL := mock.URL()
	mock.Close()

	c := newTestClient(t, baseURL)
	_, err := c.Search(context.Background(), "flower")

	var re *RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, ErrorClassNetwork, re.Class)
}

func TestSearch_BlankKeyword(t *testing.T) {
	mock := testutil.NewMockCatalog()
	defer mock.Close()

	c := newTestClient(t, mock.URL())
	_, err := c.Search(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, 0, mock.GetRequestCount())
}

func TestFetchDetail_Defaults(t *testing.T) {
	mock := testutil.NewMockCatalog()
	defer mock.Close()

	mock.SetObject(testutil.MockObject{
		ObjectID:          1,
		Title:             "Sunflowers",
		ArtistDisplayName: "Vincent van Gogh",
		ObjectDate:        "1887",
		PrimaryImageSmall: "https://images.example.org/1.jpg",
	})
	mock.SetObjectResponse(2, testutil.NewJSONResponse(`{"objectID": 2}`))
	mock.SetObjectResponse(3, testutil.NewJSONResponse(`{"objectID": 3, "title": null, "artistDisplayName": "", "objectDate": "ca. 1500", "primaryImageSmall": ""}`))

	c := newTestClient(t, mock.URL())
	ctx := context.Background()

	tests := []struct {
		id       ObjectID
		expected ArtworkSummary
	}{
		{1, ArtworkSummary{ID: 1, Title: "Sunflowers", Artist: "Vincent van Gogh", Date: "1887", ImageURL: "https://images.example.org/1.jpg"}},
		{2, ArtworkSummary{ID: 2, Title: DefaultTitle, Artist: DefaultArtist, Date: ""}},
		{3, ArtworkSummary{ID: 3, Title: DefaultTitle, Artist: DefaultArtist, Date: "ca. 1500"}},
	}

	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			got, err := c.FetchDetail(ctx, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	assert.False(t, tests[1].expected.HasImage())
	assert.True(t, tests[0].expected.HasImage())
}

func TestFetchDetail_NotFound(t *testing.T) {
	mock := testutil.NewMockCatalog()
	defer mock.Close()

	c := newTestClient(t, mock.URL())
	_, err := c.FetchDetail(context.Background(), 404404)

	var re *RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, OpDetail, re.Op)
	assert.Equal(t, http.StatusNotFound, re.StatusCode)
	assert.Equal(t, ErrorClassClient, re.Class)
}

func TestFetchImage(t *testing.T) {
	mock := testutil.NewMockCatalog()
	defer mock.Close()

	png := testutil.PNG(4, 3)
	mock.SetImage("/img/ok.png", "image/png", png)
	mock.SetImage("/img/empty.png", "image/png", nil)

	c := newTestClient(t, mock.URL())
	ctx := context.Background()

	data, err := c.FetchImage(ctx, mock.URL()+"/img/ok.png")
	require.NoError(t, err)
	assert.Equal(t, png, data)

	_, err = c.FetchImage(ctx, mock.URL()+"/img/empty.png")
	var re *RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, ErrorClassDecode, re.Class)

	_, err = c.FetchImage(ctx, mock.URL()+"/img/missing.png")
	require.True(t, errors.As(err, &re))
	assert.Equal(t, ErrorClassClient, re.Class)
}

func TestFetchImage_TooLarge(t *testing.T) {
	mock := testutil.NewMockCatalog()
	defer mock.Close()
	mock.SetImage("/img/big.png", "image/png", make([]byte, 64))

	cfg := DefaultConfig("TestApp/1.0.0")
	cfg.BaseURL = mock.URL()
	cfg.MaxImageBytes = 32
	c, err := New(cfg)
	require.NoError(t, err)

	_, err = c.FetchImage(context.Background(), mock.URL()+"/img/big.png")
	var re *RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, ErrorClassDecode, re.Class)
}

func TestUserAgentSet(t *testing.T) {
	mock := testutil.NewMockCatalog()
	defer mock.Close()

	var userAgent string
	mock.SetHandler("/objects/7", func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`{"objectID": 7}`))
	})

	c := newTestClient(t, mock.URL())
	_, err := c.FetchDetail(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "TestApp/1.0.0 (test@example.com)", userAgent)
}

func TestNewResultSet(t *testing.T) {
	ids := make([]ObjectID, 150)
	for i := range ids {
		ids[i] = ObjectID(i)
	}

	rs := NewResultSet(ids)
	assert.Equal(t, MaxResults, rs.Len())
	assert.Equal(t, ObjectID(0), rs[0])
	assert.Equal(t, ObjectID(119), rs[119])

	// The result set must not alias the input.
	ids[0] = 999
	assert.Equal(t, ObjectID(0), rs[0])

	assert.Equal(t, 0, NewResultSet(nil).Len())
}

func TestParseObjectID(t *testing.T) {
	id, err := ParseObjectID(" 436524 ")
	require.NoError(t, err)
	assert.Equal(t, ObjectID(436524), id)
	assert.Equal(t, "436524", id.String())

	_, err = ParseObjectID("abc")
	assert.Error(t, err)
}

// Package catalog provides the read-only client for the art-collection
// catalog API: keyword search, object detail fetch and image download,
// with every failure normalized to a *RemoteError.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the public Metropolitan Museum of Art collection API.
	DefaultBaseURL = "https://collectionapi.metmuseum.org/public/collection/v1"

	// DefaultTimeout bounds every remote call.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxImageBytes bounds a single image download.
	DefaultMaxImageBytes = 10 << 20
)

// Operation names used in errors, logs and metrics.
const (
	OpSearch = "search"
	OpDetail = "detail"
	OpImage  = "image"
)

// Client is the catalog API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API root, e.g. DefaultBaseURL. No trailing slash needed.
	BaseURL string

	// UserAgent header sent with every request.
	UserAgent string

	// Timeout bounds each remote call, including reading the body.
	Timeout time.Duration

	// MaxImageBytes bounds an image download. Larger images fail.
	MaxImageBytes int64
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(userAgent string) Config {
	return Config{
		BaseURL:       DefaultBaseURL,
		UserAgent:     userAgent,
		Timeout:       DefaultTimeout,
		MaxImageBytes: DefaultMaxImageBytes,
	}
}

// New creates a new catalog client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be > 0 (got %s)", cfg.Timeout)
	}

	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = DefaultMaxImageBytes
	}

	logger := log.With().Str("component", "catalog-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		config:  cfg,
		logger:  logger,
	}, nil
}

// Search returns the identifiers of objects with images matching keyword,
// truncated to the first MaxResults in response order. It returns
// ErrEmptyResult when the catalog reports no matches.
func (c *Client) Search(ctx context.Context, keyword string) (ResultSet, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("keyword is required")
	}

	params := url.Values{
		"q":         {keyword},
		"hasImages": {"true"},
	}
	reqURL := c.baseURL + "/search?" + params.Encode()

	var sr searchResponse
	err := c.do(ctx, OpSearch, reqURL, "application/json", func(resp *http.Response) error {
		return json.NewDecoder(resp.Body).Decode(&sr)
	})
	if err != nil {
		return nil, err
	}

	if len(sr.ObjectIDs) == 0 {
		c.logger.Info().Str("keyword", keyword).Msg("Search returned no results")
		return nil, ErrEmptyResult
	}

	rs := NewResultSet(sr.ObjectIDs)
	SearchResults.Observe(float64(rs.Len()))

	c.logger.Info().
		Str("keyword", keyword).
		Int("total", len(sr.ObjectIDs)).
		Int("kept", rs.Len()).
		Msg("Search complete")

	return rs, nil
}

// FetchDetail returns the normalized summary of one object.
func (c *Client) FetchDetail(ctx context.Context, id ObjectID) (ArtworkSummary, error) {
	reqURL := c.baseURL + "/objects/" + url.PathEscape(id.String())

	var obj objectResponse
	err := c.do(ctx, OpDetail, reqURL, "application/json", func(resp *http.Response) error {
		return json.NewDecoder(resp.Body).Decode(&obj)
	})
	if err != nil {
		return ArtworkSummary{}, err
	}

	return obj.summary(id), nil
}

// FetchImage downloads the bytes behind an image URL returned by
// FetchDetail. An empty body is an error.
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	if imageURL == "" {
		return nil, fmt.Errorf("image url is required")
	}

	var data []byte
	err := c.do(ctx, OpImage, imageURL, "image/*", func(resp *http.Response) error {
		limit := c.config.MaxImageBytes
		b, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
		if err != nil {
			return err
		}
		if int64(len(b)) > limit {
			return fmt.Errorf("image exceeds %d bytes", limit)
		}
		if len(b) == 0 {
			return errors.New("empty image body")
		}
		data = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

// do performs one bounded GET and hands a 200 response to read. The call
// deadline stays in force while read consumes the body.
func (c *Client) do(ctx context.Context, op, reqURL, accept string, read func(*http.Response) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	startTime := time.Now()
	defer func() {
		RequestDuration.WithLabelValues(op).Observe(time.Since(startTime).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return c.fail(&RemoteError{Op: op, URL: reqURL, Class: ErrorClassNetwork, Err: fmt.Errorf("create request: %w", err)})
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", accept)

	c.logger.Debug().
		Str("op", op).
		Str("endpoint", reqURL).
		Msg("Executing catalog request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		RequestsTotal.WithLabelValues(op, "transport_error").Inc()
		return c.fail(&RemoteError{Op: op, URL: reqURL, Class: classifyTransport(err), Err: err})
	}
	defer resp.Body.Close()

	RequestsTotal.WithLabelValues(op, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return c.fail(statusError(op, reqURL, resp))
	}

	if err := read(resp); err != nil {
		class := ErrorClassDecode
		if ctx.Err() != nil {
			class = ErrorClassTimeout
		}
		return c.fail(&RemoteError{Op: op, URL: reqURL, StatusCode: resp.StatusCode, Class: class, Err: err})
	}

	c.logger.Debug().
		Str("op", op).
		Str("endpoint", reqURL).
		Dur("duration", time.Since(startTime)).
		Msg("Catalog request complete")

	return nil
}

// fail records and logs a RemoteError before returning it.
func (c *Client) fail(err *RemoteError) error {
	ErrorsTotal.WithLabelValues(err.Op, string(err.Class)).Inc()
	c.logger.Warn().
		Err(err.Err).
		Str("op", err.Op).
		Str("endpoint", err.URL).
		Int("status", err.StatusCode).
		Str("error_class", string(err.Class)).
		Msg("Catalog request failed")
	return err
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

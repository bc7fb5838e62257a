package catalog

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Common errors returned by the client.
var (
	// ErrEmptyResult is returned by Search when the catalog answers
	// successfully with zero object identifiers.
	ErrEmptyResult = errors.New("no results")
)

// ErrorClass represents a classification of remote call failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors and unexpected statuses.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents transport errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassTimeout represents requests that exceeded their deadline.
	ErrorClassTimeout ErrorClass = "timeout"

	// ErrorClassDecode represents empty or malformed response bodies.
	ErrorClassDecode ErrorClass = "decode"
)

// RemoteError is returned for any failed call against the catalog API.
type RemoteError struct {
	Op         string
	URL        string
	StatusCode int
	Class      ErrorClass
	Err        error
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		if e.Err != nil {
			return fmt.Sprintf("catalog %s %s error (status %d): %v", e.Op, e.Class, e.StatusCode, e.Err)
		}
		return fmt.Sprintf("catalog %s %s error (status %d)", e.Op, e.Class, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("catalog %s %s error: %v", e.Op, e.Class, e.Err)
	}
	return fmt.Sprintf("catalog %s %s error", e.Op, e.Class)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *RemoteError) Unwrap() error {
	return e.Err
}

// IsRemote reports whether err is (or wraps) a *RemoteError.
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}

// classifyStatus maps a non-200 status code to an error class.
func classifyStatus(statusCode int) ErrorClass {
	switch {
	case statusCode >= 400 && statusCode < 500:
		return ErrorClassClient
	default:
		return ErrorClassServer
	}
}

// classifyTransport maps an http.Client error to an error class.
func classifyTransport(err error) ErrorClass {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorClassTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorClassTimeout
	}
	return ErrorClassNetwork
}

// statusError builds the RemoteError for an unexpected status.
func statusError(op, url string, resp *http.Response) *RemoteError {
	return &RemoteError{
		Op:         op,
		URL:        url,
		StatusCode: resp.StatusCode,
		Class:      classifyStatus(resp.StatusCode),
	}
}

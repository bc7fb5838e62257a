// Package mcptools exposes the browsing pipeline as MCP tools so agents
// can search the collection and page through results. Each MCP client
// session gets its own browsing session in the store.
package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/art-explorer/pkg/render"
	"github.com/Sternrassler/art-explorer/pkg/session"
)

// ServerName is announced to MCP clients.
const ServerName = "art-explorer"

// defaultSessionID keys the browsing session when the transport carries
// no client session.
const defaultSessionID = "default"

// Tools holds the dependencies of the tool handlers.
type Tools struct {
	searcher session.Searcher
	renderer *render.Renderer
	store    session.Store
	logger   zerolog.Logger

	locks     session.Locker
	sessionID func(context.Context) string
}

// New creates the tool set.
func New(searcher session.Searcher, renderer *render.Renderer, store session.Store) *Tools {
	return &Tools{
		searcher:  searcher,
		renderer:  renderer,
		store:     store,
		logger:    log.With().Str("component", "mcp").Logger(),
		sessionID: sessionID,
	}
}

// NewServer creates an MCP server with every tool registered.
func NewServer(t *Tools, version string) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(false),
	)
	t.Register(s)
	return s
}

// ServeStdio serves s on stdin/stdout until the input closes.
func ServeStdio(s *server.MCPServer) error {
	log.Info().Str("component", "mcp").Msg("Starting MCP server in stdio mode")
	return server.ServeStdio(s)
}

// ServeHTTP serves s over streamable HTTP on addr until ctx is cancelled.
func ServeHTTP(ctx context.Context, s *server.MCPServer, addr string) error {
	httpServer := server.NewStreamableHTTPServer(s)

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("component", "mcp").Str("addr", addr).Msg("Starting MCP server on HTTP")
		serverErr <- httpServer.Start(addr)
	}()

	select {
	case <-ctx.Done():
		return httpServer.Shutdown(context.Background())
	case err := <-serverErr:
		return err
	}
}

// sessionID returns the MCP client session id carried by ctx.
func sessionID(ctx context.Context) string {
	if cs := server.ClientSessionFromContext(ctx); cs != nil && cs.SessionID() != "" {
		return cs.SessionID()
	}
	return defaultSessionID
}

// withSession loads the caller's browsing session, runs fn and saves the
// result when fn succeeds and mutate is set. A missing session starts empty.
func (t *Tools) withSession(ctx context.Context, mutate bool, fn func(*session.Session) error) error {
	id := t.sessionID(ctx)
	unlock := t.locks.Lock(id)
	defer unlock()

	sess := session.New(t.searcher)

	snap, err := t.store.Load(ctx, id)
	switch {
	case err == nil:
		if err := sess.Restore(snap); err != nil {
			return err
		}
	case !errors.Is(err, session.ErrSessionNotFound):
		return err
	}

	if err := fn(sess); err != nil {
		return err
	}
	if !mutate {
		return nil
	}
	return t.store.Save(ctx, id, sess.Snapshot())
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return mcp.NewToolResultText(text)
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

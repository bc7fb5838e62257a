package mcptools

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Sternrassler/art-explorer/pkg/catalog"
	"github.com/Sternrassler/art-explorer/pkg/pagination"
	"github.com/Sternrassler/art-explorer/pkg/render"
	"github.com/Sternrassler/art-explorer/pkg/session"
)

type SearchArgs struct {
	Keyword string `json:"keyword"`
}

type SearchResult struct {
	Message string          `json:"message"`
	Count   int             `json:"count"`
	Keyword string          `json:"keyword"`
	Page    pagination.Page `json:"page"`
}

type PageArgs struct {
	Page   int    `json:"page,omitempty"`
	Format string `json:"format,omitempty"`
}

type NavigateArgs struct {
	Format string `json:"format,omitempty"`
}

type ArtworkArgs struct {
	ID int64 `json:"id"`
}

// Register adds every tool to s.
func (t *Tools) Register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("search_artworks",
		mcp.WithDescription("Search the Metropolitan Museum of Art collection for artworks with images. Replaces the current results and returns page 1 (up to 120 results, 12 per page)."),
		mcp.WithString("keyword",
			mcp.Required(),
			mcp.Description("Search keyword, e.g. 'flower'"),
		),
	), mcp.NewTypedToolHandler(t.handleSearch))

	s.AddTool(mcp.NewTool("get_page",
		mcp.WithDescription("Render the current page of results with title, artist, date and image info for each artwork. Failed artworks appear as error placeholders."),
		mcp.WithNumber("page", mcp.Description("Page to render instead of the current one (optional, does not move the session)")),
		mcp.WithString("format", mcp.Description("Output format: json (default) or text")),
	), mcp.NewTypedToolHandler(t.handleGetPage))

	s.AddTool(mcp.NewTool("next_page",
		mcp.WithDescription("Advance to the next page of results and render it"),
		mcp.WithString("format", mcp.Description("Output format: json (default) or text")),
	), mcp.NewTypedToolHandler(t.handleNextPage))

	s.AddTool(mcp.NewTool("prev_page",
		mcp.WithDescription("Go back to the previous page of results and render it"),
		mcp.WithString("format", mcp.Description("Output format: json (default) or text")),
	), mcp.NewTypedToolHandler(t.handlePrevPage))

	s.AddTool(mcp.NewTool("get_artwork",
		mcp.WithDescription("Fetch the details of one artwork by its object id"),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Catalog object id"),
		),
	), mcp.NewTypedToolHandler(t.handleGetArtwork))
}

func (t *Tools) handleSearch(ctx context.Context, _ mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, error) {
	var result SearchResult
	err := t.withSession(ctx, true, func(sess *session.Session) error {
		n, err := sess.NewSearch(ctx, args.Keyword)
		if err != nil {
			return err
		}
		result = SearchResult{
			Message: fmt.Sprintf("Found %d results.", n),
			Count:   n,
			Keyword: sess.Keyword(),
			Page:    sess.GetPage(),
		}
		return nil
	})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(result)
}

func (t *Tools) handleGetPage(ctx context.Context, _ mcp.CallToolRequest, args PageArgs) (*mcp.CallToolResult, error) {
	var page pagination.Page
	err := t.withSession(ctx, false, func(sess *session.Session) error {
		if args.Page != 0 {
			if err := sess.GoTo(args.Page); err != nil {
				return err
			}
		}
		page = sess.GetPage()
		return nil
	})
	if err != nil {
		return toolError(err), nil
	}
	return t.renderResult(ctx, page, args.Format)
}

func (t *Tools) handleNextPage(ctx context.Context, _ mcp.CallToolRequest, args NavigateArgs) (*mcp.CallToolResult, error) {
	return t.navigate(ctx, (*session.Session).NextPage, args.Format)
}

func (t *Tools) handlePrevPage(ctx context.Context, _ mcp.CallToolRequest, args NavigateArgs) (*mcp.CallToolResult, error) {
	return t.navigate(ctx, (*session.Session).PrevPage, args.Format)
}

func (t *Tools) navigate(ctx context.Context, move func(*session.Session) error, format string) (*mcp.CallToolResult, error) {
	var page pagination.Page
	err := t.withSession(ctx, true, func(sess *session.Session) error {
		if err := move(sess); err != nil {
			return err
		}
		page = sess.GetPage()
		return nil
	})
	if err != nil {
		return toolError(err), nil
	}
	return t.renderResult(ctx, page, format)
}

func (t *Tools) handleGetArtwork(ctx context.Context, _ mcp.CallToolRequest, args ArtworkArgs) (*mcp.CallToolResult, error) {
	if args.ID <= 0 {
		return mcp.NewToolResultError("id must be a positive integer"), nil
	}

	item := t.renderer.RenderItem(ctx, catalog.ObjectID(args.ID))
	if !item.OK() {
		return mcp.NewToolResultError(fmt.Sprintf("Error loading artwork ID %d: %s", args.ID, item.Error)), nil
	}
	return jsonResult(item)
}

// renderResult renders page in the requested format.
func (t *Tools) renderResult(ctx context.Context, page pagination.Page, format string) (*mcp.CallToolResult, error) {
	grid := t.renderer.RenderPage(ctx, page)

	switch format {
	case "", "json":
		return jsonResult(grid)
	case "text":
		var buf bytes.Buffer
		render.FormatText(&buf, grid)
		return textResult(buf.String()), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q (want json or text)", format)), nil
	}
}

// toolError turns a pipeline error into a tool error result the agent can
// read and act on.
func toolError(err error) *mcp.CallToolResult {
	switch {
	case session.IsValidation(err):
		return mcp.NewToolResultError("Please enter a keyword.")
	case errors.Is(err, catalog.ErrEmptyResult):
		return mcp.NewToolResultError("No artworks found.")
	case errors.Is(err, session.ErrNoNextPage):
		return mcp.NewToolResultError("Already on the last page.")
	case errors.Is(err, session.ErrNoPrevPage):
		return mcp.NewToolResultError("Already on the first page.")
	default:
		return mcp.NewToolResultError(err.Error())
	}
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/Sternrassler/art-explorer/internal/mcptools"
	"github.com/Sternrassler/art-explorer/pkg/session"
)

func newMCPCmd(a *app) *cobra.Command {
	var httpAddr string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run as an MCP server exposing search and paging tools",
		Long: `MCP serves the tools search_artworks, get_page, next_page, prev_page and
get_artwork. It speaks stdio by default; --http serves streamable HTTP instead.
Logs go to stderr so they never mix with the stdio protocol.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{logLevelAnnotation: "info"},
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.newCatalog()
			if err != nil {
				return err
			}

			tools := mcptools.New(client, a.newRenderer(client), session.NewMemoryStore(a.cfg.Session.TTL))
			s := mcptools.NewServer(tools, version)

			if httpAddr != "" {
				return mcptools.ServeHTTP(cmd.Context(), s, httpAddr)
			}
			return mcptools.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http", "", "serve streamable HTTP on this address instead of stdio")

	return cmd
}

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/art-explorer/pkg/catalog"
	"github.com/Sternrassler/art-explorer/pkg/render"
	"github.com/Sternrassler/art-explorer/pkg/session"
)

// User-facing messages shared by the CLI shells.
const (
	msgFound        = "Found %d results."
	msgNoResults    = "No artworks found."
	msgEnterKeyword = "Please enter a keyword."
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		page   int
		format string
	)

	cmd := &cobra.Command{
		Use:   "search [keyword]",
		Short: "Search once and print one page of results",
		Long: `Search runs a keyword search against the collection, keeps the first 120
artworks with images, and prints one page of twelve in a three-column grid.
The keyword defaults to search.default_keyword.`,
		Example: `  # First page of flowers
  art-explorer search flower

  # Third page as JSON
  art-explorer search "water lilies" --page 3 --format json`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{logLevelAnnotation: "warn"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := render.CheckFormat(format); err != nil {
				return err
			}

			keyword := a.cfg.Search.DefaultKeyword
			if len(args) == 1 {
				keyword = args[0]
			}

			client, err := a.newCatalog()
			if err != nil {
				return err
			}
			sess := session.New(client)

			n, err := sess.NewSearch(cmd.Context(), keyword)
			switch {
			case session.IsValidation(err):
				return errors.New(msgEnterKeyword)
			case errors.Is(err, catalog.ErrEmptyResult):
				fmt.Fprintln(cmd.ErrOrStderr(), msgNoResults)
				return nil
			case err != nil:
				return fmt.Errorf("search failed: %w", err)
			}

			if err := sess.GoTo(page); err != nil {
				return err
			}

			if strings.EqualFold(format, "text") {
				fmt.Fprintf(cmd.ErrOrStderr(), msgFound+"\n", n)
			}

			grid := a.newRenderer(client).RenderPage(cmd.Context(), sess.GetPage())
			return render.Format(cmd.OutOrStdout(), grid, format)
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "page to print")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")

	return cmd
}

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/art-explorer/pkg/catalog"
	"github.com/Sternrassler/art-explorer/pkg/render"
	"github.com/Sternrassler/art-explorer/pkg/session"
)

const browseHelp = `Commands:
  search [keyword]  search (without a keyword: repeat the last one typed)
  next, n           next page
  prev, p           previous page
  page [n]          show the current page, or jump to page n
  show <id>         show one artwork
  help, ?           this help
  quit, q           exit`

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse results interactively",
		Long: `Browse starts an interactive prompt. Type "search <keyword>" to load results,
then "next" and "prev" to page through them. The keyword box starts with
search.default_keyword, so a bare "search" runs it.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{logLevelAnnotation: "warn"},
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.newCatalog()
			if err != nil {
				return err
			}

			b := &browser{
				sess:     session.New(client),
				renderer: a.newRenderer(client),
				keyword:  a.cfg.Search.DefaultKeyword,
				out:      cmd.OutOrStdout(),
			}
			return b.run(cmd.Context(), cmd.InOrStdin())
		},
	}
}

// browser is the interactive shell. It owns one session.
type browser struct {
	sess     *session.Session
	renderer *render.Renderer

	// keyword is the text box: the last keyword typed, initially the default.
	keyword string
	out     io.Writer
}

// run reads commands from in until quit, EOF or ctx is done.
func (b *browser) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintf(b.out, "art-explorer: type \"search <keyword>\" (keyword: %q), \"help\" or \"quit\".\n", b.keyword)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(b.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(b.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}
		if quit := b.exec(ctx, scanner.Text()); quit {
			return nil
		}
	}
}

// exec runs one command line and reports whether the shell should exit.
func (b *browser) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, rest := strings.ToLower(fields[0]), strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	switch cmd {
	case "quit", "q", "exit":
		return true
	case "help", "?":
		fmt.Fprintln(b.out, browseHelp)
	case "search", "s":
		if rest != "" {
			b.keyword = rest
		}
		b.search(ctx)
	case "next", "n":
		b.move(ctx, b.sess.NextPage)
	case "prev", "p":
		b.move(ctx, b.sess.PrevPage)
	case "page":
		if rest == "" {
			b.showPage(ctx)
			return false
		}
		n, err := strconv.Atoi(rest)
		if err != nil {
			fmt.Fprintf(b.out, "Not a page number: %q\n", rest)
			return false
		}
		b.move(ctx, func() error { return b.sess.GoTo(n) })
	case "show":
		id, err := catalog.ParseObjectID(rest)
		if err != nil {
			fmt.Fprintln(b.out, err)
			return false
		}
		render.FormatItem(b.out, b.renderer.RenderItem(ctx, id))
	default:
		fmt.Fprintf(b.out, "Unknown command %q. Type \"help\".\n", fields[0])
	}
	return false
}

func (b *browser) search(ctx context.Context) {
	n, err := b.sess.NewSearch(ctx, b.keyword)
	switch {
	case session.IsValidation(err):
		fmt.Fprintln(b.out, msgEnterKeyword)
		return
	case errors.Is(err, catalog.ErrEmptyResult):
		fmt.Fprintln(b.out, msgNoResults)
		return
	case err != nil:
		log.Warn().Err(err).Str("keyword", b.keyword).Msg("Search failed")
		fmt.Fprintf(b.out, "Search failed: %v\n", err)
		return
	}

	fmt.Fprintf(b.out, msgFound+"\n", n)
	b.showPage(ctx)
}

func (b *browser) move(ctx context.Context, step func() error) {
	switch err := step(); {
	case errors.Is(err, session.ErrNoNextPage):
		fmt.Fprintln(b.out, "Already on the last page.")
	case errors.Is(err, session.ErrNoPrevPage):
		fmt.Fprintln(b.out, "Already on the first page.")
	case err != nil:
		fmt.Fprintln(b.out, err)
	default:
		b.showPage(ctx)
	}
}

func (b *browser) showPage(ctx context.Context) {
	if b.sess.Results().Len() == 0 {
		fmt.Fprintln(b.out, "No results yet. Type \"search <keyword>\".")
		return
	}
	render.FormatText(b.out, b.renderer.RenderPage(ctx, b.sess.GetPage()))
}

package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// cellWidth is the text width of one grid column.
const cellWidth = 30

// FormatText writes the grid as three text columns followed by a page
// footer. Failed items show an error placeholder with their id.
func FormatText(w io.Writer, g Grid) {
	if len(g.Items) == 0 {
		fmt.Fprintln(w, "No artworks on this page.")
		writeFooter(w, g)
		return
	}

	sep := strings.Repeat("-", (cellWidth+3)*g.columns())
	for _, row := range g.Rows() {
		cells := make([][]string, len(row))
		height := 0
		for i, it := range row {
			cells[i] = cellLines(it)
			height = max(height, len(cells[i]))
		}

		for line := 0; line < height; line++ {
			var b strings.Builder
			for i := range cells {
				text := ""
				if line < len(cells[i]) {
					text = cells[i][line]
				}
				b.WriteString(pad(text, cellWidth))
				if i < len(cells)-1 {
					b.WriteString(" | ")
				}
			}
			fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
		}
		fmt.Fprintln(w, sep)
	}

	writeFooter(w, g)
}

func writeFooter(w io.Writer, g Grid) {
	prev, next := "       ", "       "
	if g.Page.HasPrev {
		prev = "< prev"
	}
	if g.Page.HasNext {
		next = "next >"
	}
	fmt.Fprintf(w, "%s   Page %d of %d   %s\n", prev, g.Page.Number, g.Page.TotalPages, next)
}

// cellLines returns the wrapped text lines of one grid cell.
func cellLines(it Item) []string {
	if !it.OK() {
		msg := fmt.Sprintf("Error loading artwork ID %s: %s", it.ID, it.Error)
		return wrap(msg, cellWidth)
	}

	var lines []string
	switch {
	case it.Image != nil:
		lines = append(lines, fmt.Sprintf("[%s %dx%d]", it.Image.Format, it.Image.Width, it.Image.Height))
	case it.Summary.HasImage():
		lines = append(lines, "[image unavailable]")
	default:
		lines = append(lines, "[no image]")
	}

	lines = append(lines, wrap(it.Summary.Title, cellWidth)...)
	lines = append(lines, truncate(it.Summary.Artist, cellWidth))
	if it.Summary.Date != "" {
		lines = append(lines, truncate(it.Summary.Date, cellWidth))
	}
	lines = append(lines, "#"+it.ID.String())
	return lines
}

// FormatJSON writes the grid as indented JSON.
func FormatJSON(w io.Writer, g Grid) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(g)
}

// FormatYAML writes the grid as YAML.
func FormatYAML(w io.Writer, g Grid) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(g); err != nil {
		return err
	}
	return enc.Close()
}

// CheckFormat reports whether Format accepts format.
func CheckFormat(format string) error {
	switch strings.ToLower(format) {
	case "", "text", "json", "yaml", "yml":
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

// Format writes g in the named format: "text", "json" or "yaml".
func Format(w io.Writer, g Grid, format string) error {
	if err := CheckFormat(format); err != nil {
		return err
	}
	switch strings.ToLower(format) {
	case "json":
		return FormatJSON(w, g)
	case "yaml", "yml":
		return FormatYAML(w, g)
	default:
		FormatText(w, g)
		return nil
	}
}

// FormatItem writes one item as labelled lines.
func FormatItem(w io.Writer, it Item) {
	if !it.OK() {
		fmt.Fprintf(w, "Error loading artwork ID %s: %s\n", it.ID, it.Error)
		return
	}

	s := it.Summary
	fmt.Fprintf(w, "Title:  %s\n", s.Title)
	fmt.Fprintf(w, "Artist: %s\n", s.Artist)
	if s.Date != "" {
		fmt.Fprintf(w, "Date:   %s\n", s.Date)
	}
	switch {
	case it.Image != nil:
		fmt.Fprintf(w, "Image:  %s [%s %dx%d, %d bytes]\n", it.Image.URL, it.Image.Format, it.Image.Width, it.Image.Height, it.Image.Size)
	case s.HasImage():
		fmt.Fprintf(w, "Image:  %s [unavailable]\n", s.ImageURL)
	default:
		fmt.Fprintln(w, "Image:  none")
	}
	fmt.Fprintf(w, "ID:     %s\n", it.ID)
}

// wrap breaks s into lines of at most width runes on word boundaries.
// Words longer than width are cut.
func wrap(s string, width int) []string {
	var lines []string
	var cur string
	for _, word := range strings.Fields(s) {
		word = truncate(word, width)
		switch {
		case cur == "":
			cur = word
		case utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(word) <= width:
			cur += " " + word
		default:
			lines = append(lines, cur)
			cur = word
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}

func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

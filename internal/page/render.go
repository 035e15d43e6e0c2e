package page

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"gitlab.com/dirk.krummacker/addressbook/internal/model"
)

const (
	indexWidth = 5
	fieldWidth = 20
)

var (
	bannerStyle = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	indexStyle  = lipgloss.NewStyle().Width(indexWidth)
	textStyle   = lipgloss.NewStyle().Width(fieldWidth)
	phoneStyle  = lipgloss.NewStyle().Width(fieldWidth).Align(lipgloss.Center)
)

// Renderer prints records as fixed-width rows.
type Renderer struct {
	out io.Writer
}

// NewRenderer returns a renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Render prints every page with a banner and a header row. Each record is prefixed with its
// number within the whole collection.
func (r *Renderer) Render(pages []Page) {
	for _, p := range pages {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, bannerStyle.Render(fmt.Sprintf("Page %d", p.Number)))
		fmt.Fprintln(r.out, headerStyle.Render(Header()))
		for i, rec := range p.Records {
			fmt.Fprintln(r.out, indexStyle.Render(cut(fmt.Sprint(p.Index(i)), indexWidth))+Row(rec))
		}
	}
}

// Header returns the column titles aligned like the rows.
func Header() string {
	var b strings.Builder
	b.WriteString(indexStyle.Render("№"))
	for _, f := range model.Fields {
		b.WriteString(cellStyle(f).Render(cut(f.Title(), fieldWidth)))
	}
	return b.String()
}

// Row formats a single record without its number. Absent fields are blank.
func Row(rec *model.Record) string {
	var b strings.Builder
	for _, f := range model.Fields {
		b.WriteString(cellStyle(f).Render(cut(rec.Value(f), fieldWidth)))
	}
	return strings.TrimRight(b.String(), " ")
}

func cellStyle(f model.Field) lipgloss.Style {
	if f.IsPhone() {
		return phoneStyle
	}
	return textStyle
}

// cut shortens s so that at least one blank cell separates it from the next column. Widths are
// measured in terminal cells, so wide characters count twice.
func cut(s string, width int) string {
	if lipgloss.Width(s) < width {
		return s
	}
	return ansi.Truncate(s, width-1, "…")
}

package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/notes/internal/model"
)

// noteItem adapts a note to bubbles/list.Item.
type noteItem struct {
	note     model.Note
	category model.Category
	label    string // date label relative to now
}

func (i noteItem) FilterValue() string { return i.note.Title + " " + i.note.Content }

// snippet is the first non-blank content line.
func (i noteItem) snippet() string {
	for _, ln := range strings.Split(i.note.Content, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			return ln
		}
	}
	return ""
}

// noteDelegate draws each note on two lines: title, then date, category and
// the start of the content.
type noteDelegate struct{}

func (d noteDelegate) Height() int                               { return 2 }
func (d noteDelegate) Spacing() int                              { return 1 }
func (d noteDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d noteDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(noteItem)
	if !ok {
		return
	}
	width := m.Width() - 4
	if width < 10 {
		width = 10
	}

	title := truncate(it.note.Title, width-2)
	meta := fmt.Sprintf("%s · %s", it.label, it.category.Name)
	if s := it.snippet(); s != "" {
		meta += " · " + s
	}
	meta = truncate(meta, width)

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render(">") + " "
		title = titleStyle.Render(title)
	}
	fmt.Fprintf(w, "%s%s %s\n    %s", prefix, colored(it.category.Color, swatch), title, mutedStyle.Render(meta))
}

func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 3 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

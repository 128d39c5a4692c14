package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/notes/internal/model"
)

const (
	focusTitle = iota
	focusBody
)

// form is the editor modal's widgets. The draft itself lives in
// editor.Editor and is synced from here before every save.
type form struct {
	open    bool
	heading string
	title   textinput.Model
	body    textarea.Model
	entries []model.SidebarEntry
	entry   int // index into entries, -1 keeps initial.Category
	focus   int
	err     string

	// initial is the draft the form opened with; loaded is what the widgets
	// read back right after opening. Fields whose widget still reads as
	// loaded keep their initial value.
	initial model.Draft
	loaded  model.Draft
}

func newForm(heading string, d model.Draft, entries []model.SidebarEntry, width, height int) (form, tea.Cmd) {
	ti := textinput.New()
	ti.Prompt = "Title: "
	ti.Placeholder = model.UntitledTitle
	ti.CharLimit = 200
	ti.SetValue(d.Title)
	ti.CursorEnd()

	ta := textarea.New()
	ta.Placeholder = "Write something..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetValue(d.Content)
	ta.Blur()

	f := form{
		open:    true,
		heading: heading,
		title:   ti,
		body:    ta,
		entries: entries,
		entry:   -1,
		initial: d,
	}
	for i, e := range entries {
		if e.Filter == d.Category {
			f.entry = i
			break
		}
	}
	f.loaded = f.read()
	f.resize(width, height)
	cmd := f.title.Focus()
	return f, cmd
}

func (f *form) resize(width, height int) {
	if width < 20 {
		width = 20
	}
	bodyHeight := height - 8
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	f.title.Width = width - len(f.title.Prompt) - 2
	f.body.SetWidth(width)
	f.body.SetHeight(bodyHeight)
}

func (f *form) category() model.SidebarEntry {
	if f.entry >= 0 && f.entry < len(f.entries) {
		return f.entries[f.entry]
	}
	id, ok := f.initial.Category.CategoryID()
	if !ok {
		return model.AllEntry()
	}
	c := model.UnknownCategory(id)
	return model.SidebarEntry{Filter: f.initial.Category, Name: c.Name, Color: c.Color}
}

func (f *form) cycleCategory() {
	if len(f.entries) == 0 {
		return
	}
	f.entry = (f.entry + 1) % len(f.entries)
}

func (f *form) toggleFocus() tea.Cmd {
	if f.focus == focusTitle {
		f.focus = focusBody
		f.title.Blur()
		return f.body.Focus()
	}
	f.focus = focusTitle
	f.body.Blur()
	return f.title.Focus()
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.focus == focusTitle {
		f.title, cmd = f.title.Update(msg)
	} else {
		f.body, cmd = f.body.Update(msg)
	}
	return cmd
}

func (f form) view() string {
	cat := f.category()
	head := titleStyle.Render(f.heading)
	if f.err != "" {
		head += "  " + errorStyle.Render(f.err)
	}
	lines := []string{
		head,
		"",
		f.title.View(),
		"Category: " + colored(cat.Color, swatch) + " " + cat.Name + mutedStyle.Render("  (tab to change)"),
		"",
		f.body.View(),
	}
	return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// read returns the widgets' current values.
func (f form) read() model.Draft {
	return model.Draft{
		Title:    strings.TrimRight(f.title.Value(), " "),
		Content:  f.body.Value(),
		Category: f.category().Filter,
	}
}

// draft is the initial draft with the fields the user changed applied.
func (f form) draft() model.Draft {
	d, cur := f.initial, f.read()
	if cur.Title != f.loaded.Title {
		d.Title = cur.Title
	}
	if cur.Content != f.loaded.Content {
		d.Content = cur.Content
	}
	d.Category = cur.Category
	return d
}

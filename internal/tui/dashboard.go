// Package tui is the interactive notes dashboard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/idilsaglam/notes/internal/editor"
	"github.com/idilsaglam/notes/internal/gateway"
	"github.com/idilsaglam/notes/internal/model"
	"github.com/idilsaglam/notes/internal/notebook"
)

const sidebarWidth = 26

type keyMap struct {
	Next, Prev, New, Edit, Delete, Reload, Quit, ForceQuit key.Binding
	Submit, Dismiss, Category, Focus                       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:      key.NewBinding(key.WithKeys("right", "tab"), key.WithHelp("→/tab", "next category")),
		Prev:      key.NewBinding(key.WithKeys("left", "shift+tab"), key.WithHelp("←", "prev category")),
		New:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Edit:      key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "edit")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
		Submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Dismiss:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Category:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "category")),
		Focus:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "title/body")),
	}
}

type loadedMsg struct{ err error }

type savedMsg struct {
	note      *model.Note
	dismissed bool
	err       error
}

type deletedMsg struct {
	title string
	err   error
}

// Model is the dashboard: a category sidebar, the filtered note list and,
// when open, the editor modal.
type Model struct {
	ctx    context.Context
	store  *notebook.Store
	editor *editor.Editor
	now    func() time.Time
	keys   keyMap
	help   help.Model

	list    list.Model
	spinner spinner.Model
	form    form

	width, height int
	loading       bool
	busy          bool
	status        string
	err           error
	unauthorized  bool
}

// Option configures a Model.
type Option func(*Model)

// WithClock sets the clock used for date labels.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// New builds the dashboard over store. Init loads the notebook.
func New(ctx context.Context, store *notebook.Store, opts ...Option) Model {
	l := list.New(nil, noteDelegate{}, 0, 0)
	l.Title = "Notes"
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.Styles.Title = titleStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("note", "notes")

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:     ctx,
		store:   store,
		editor:  editor.New(store),
		now:     time.Now,
		keys:    defaultKeyMap(),
		help:    help.New(),
		list:    l,
		spinner: sp,
		width:   80,
		height:  24,
		loading: true,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.resize()
	return m
}

// Unauthorized reports whether the server rejected the credential.
func (m Model) Unauthorized() bool { return m.unauthorized }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m Model) load() tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		return loadedMsg{err: store.Initialize(ctx)}
	}
}

func (m Model) submit(dismiss bool) tea.Cmd {
	ctx, ed := m.ctx, m.editor
	return func() tea.Msg {
		var (
			n   *model.Note
			err error
		)
		if dismiss {
			n, err = ed.Dismiss(ctx)
		} else {
			n, err = ed.Submit(ctx)
		}
		return savedMsg{note: n, dismissed: dismiss, err: err}
	}
}

func (m Model) remove(n model.Note) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		return deletedMsg{title: n.Title, err: store.Delete(ctx, n.ID)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			return m.fail(msg.err)
		}
		m.err = nil
		m.refresh()
		m.status = fmt.Sprintf("loaded %d notes", len(m.store.Notes()))
		return m, nil

	case savedMsg:
		m.busy = false
		if msg.err != nil {
			m.form.err = msg.err.Error()
			return m.fail(msg.err)
		}
		m.form = form{}
		m.err = nil
		m.refresh()
		switch {
		case msg.note != nil:
			m.status = fmt.Sprintf("saved %q", msg.note.Title)
			m.list.ResetSelected()
		case msg.dismissed:
			m.status = "nothing to save"
		}
		return m, nil

	case deletedMsg:
		m.busy = false
		if msg.err != nil {
			return m.fail(msg.err)
		}
		m.err = nil
		m.refresh()
		m.status = fmt.Sprintf("deleted %q", msg.title)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if m.busy || m.loading {
			return m, nil
		}
		if m.form.open {
			return m.updateForm(msg)
		}
		return m.updateDashboard(msg)
	}

	var cmd tea.Cmd
	if m.form.open {
		cmd = m.form.update(msg)
	} else {
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.list.FilterState() == list.Filtering {
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		return m, m.load()
	}
	if !m.store.Ready() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		m.cycleFilter(1)
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.cycleFilter(-1)
		return m, nil
	case key.Matches(msg, m.keys.New):
		if err := m.editor.OpenCreate(m.store.Selected()); err != nil {
			return m.fail(err)
		}
		cmd = m.openForm("New note")
		return m, cmd
	case key.Matches(msg, m.keys.Edit):
		it, ok := m.list.SelectedItem().(noteItem)
		if !ok {
			return m, nil
		}
		if err := m.editor.OpenEdit(it.note); err != nil {
			return m.fail(err)
		}
		cmd = m.openForm("Edit note")
		return m, cmd
	case key.Matches(msg, m.keys.Delete):
		it, ok := m.list.SelectedItem().(noteItem)
		if !ok {
			return m, nil
		}
		m.busy = true
		m.status = "deleting..."
		return m, m.remove(it.note)
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.syncDraft()
		m.busy = true
		m.status = "saving..."
		return m, m.submit(false)
	case key.Matches(msg, m.keys.Dismiss):
		m.syncDraft()
		m.busy = true
		return m, m.submit(true)
	case key.Matches(msg, m.keys.Category):
		m.form.cycleCategory()
		return m, nil
	case key.Matches(msg, m.keys.Focus), msg.Type == tea.KeyEnter && m.form.focus == focusTitle:
		cmd = m.form.toggleFocus()
		return m, cmd
	}
	cmd = m.form.update(msg)
	return m, cmd
}

func (m *Model) syncDraft() {
	d := m.form.draft()
	m.editor.SetTitle(d.Title)
	m.editor.SetContent(d.Content)
	m.editor.SetCategory(d.Category)
}

func (m *Model) openForm(heading string) tea.Cmd {
	var cmd tea.Cmd
	m.form, cmd = newForm(heading, m.editor.Draft(), m.store.Sidebar(), m.mainWidth()-4, m.height-4)
	m.status = ""
	return cmd
}

// fail records err for the status line. A 401 ends the program so the
// caller can send the user back to login.
func (m Model) fail(err error) (tea.Model, tea.Cmd) {
	if gateway.IsUnauthorized(err) {
		log.Warn().Err(err).Msg("server rejected credential")
		m.unauthorized = true
		return m, tea.Quit
	}
	if !errors.Is(err, editor.ErrNothingToSave) {
		log.Error().Err(err).Msg("dashboard operation failed")
	}
	m.err = err
	m.status = ""
	return m, nil
}

func (m *Model) cycleFilter(delta int) {
	entries := m.store.Sidebar()
	cur := 0
	for i, e := range entries {
		if e.Filter == m.store.Selected() {
			cur = i
			break
		}
	}
	next := (cur + delta + len(entries)) % len(entries)
	m.store.SelectCategory(entries[next].Filter)
	m.refresh()
	m.list.ResetSelected()
}

// refresh rebuilds the list from the store's filtered view.
func (m *Model) refresh() {
	now := m.now()
	notes := m.store.Filtered()
	items := make([]list.Item, 0, len(notes))
	for _, n := range notes {
		items = append(items, noteItem{
			note:     n,
			category: m.store.Resolve(n.CategoryID),
			label:    model.DateLabel(n.UpdatedAt, now),
		})
	}
	m.list.SetItems(items)
	m.list.Title = m.selectedEntry().Name
}

func (m Model) selectedEntry() model.SidebarEntry {
	sel := m.store.Selected()
	for _, e := range m.store.Sidebar() {
		if e.Filter == sel {
			return e
		}
	}
	return model.AllEntry()
}

func (m Model) mainWidth() int {
	w := m.width - sidebarWidth - 6
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) resize() {
	h := m.height - 5
	if h < 5 {
		h = 5
	}
	m.list.SetSize(m.mainWidth(), h)
	m.help.Width = m.width
	if m.form.open {
		m.form.resize(m.mainWidth()-4, m.height-4)
	}
}

func (m Model) View() string {
	if m.loading {
		return frameStyle.Render(m.spinner.View() + " Loading notes...")
	}

	main := m.list.View()
	bindings := []key.Binding{m.keys.Next, m.keys.New, m.keys.Edit, m.keys.Delete, m.keys.Reload, m.keys.Quit}
	if m.form.open {
		main = m.form.view()
		bindings = []key.Binding{m.keys.Submit, m.keys.Dismiss, m.keys.Category, m.keys.Focus}
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), main)

	status := mutedStyle.Render(m.status)
	if m.busy {
		status = m.spinner.View() + " " + status
	}
	if m.err != nil {
		status = errorStyle.Render("✖ " + m.err.Error())
	}
	footer := status + "\n" + helpStyle.Render(m.help.ShortHelpView(bindings))
	return frameStyle.Render(lipgloss.JoinVertical(lipgloss.Left, body, footer))
}

func (m Model) sidebarView() string {
	sel := m.store.Selected()
	total := len(m.store.Notes())

	lines := []string{accentStyle.Render("Categories"), ""}
	for _, e := range m.store.Sidebar() {
		n := total
		if id, ok := e.Filter.CategoryID(); ok {
			n = m.store.Count(id)
		}
		name := truncate(e.Name, sidebarWidth-10)
		line := fmt.Sprintf("%s %s %s", colored(e.Color, swatch), name, mutedStyle.Render(fmt.Sprintf("(%d)", n)))
		if e.Filter == sel {
			line = successStyle.Render("▸") + line
		} else {
			line = " " + line
		}
		lines = append(lines, line)
	}
	return sidebarStyle.Width(sidebarWidth).Render(strings.Join(lines, "\n"))
}

// Result reports how the dashboard ended.
type Result struct {
	// Unauthorized is set when the server rejected the credential.
	Unauthorized bool
}

// Run starts the dashboard on the alternate screen and blocks until the user
// quits.
func Run(ctx context.Context, store *notebook.Store, opts ...Option) (Result, error) {
	p := tea.NewProgram(New(ctx, store, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return Result{}, err
	}
	fm, ok := final.(Model)
	if !ok {
		return Result{}, nil
	}
	return Result{Unauthorized: fm.unauthorized}, nil
}

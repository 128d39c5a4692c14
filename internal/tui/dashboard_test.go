package tui

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/notes/internal/gateway"
	"github.com/idilsaglam/notes/internal/model"
	"github.com/idilsaglam/notes/internal/notebook"
)

var now = time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)

type fakeGateway struct {
	categories []model.Category
	notes      []model.Note
	seq        int
	updates    int
	listErr    error
}

func (f *fakeGateway) ListCategories(ctx context.Context) ([]model.Category, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.Category(nil), f.categories...), nil
}

func (f *fakeGateway) CreateCategory(ctx context.Context, name, color string) (*model.Category, error) {
	c := model.Category{ID: "c" + strconv.Itoa(len(f.categories)+1), Name: name, Color: color}
	f.categories = append(f.categories, c)
	return &c, nil
}

func (f *fakeGateway) ListNotes(ctx context.Context, filter model.CategoryFilter) ([]model.Note, error) {
	return append([]model.Note(nil), f.notes...), nil
}

func (f *fakeGateway) CreateNote(ctx context.Context, title, content, categoryID string) (*model.Note, error) {
	f.seq++
	n := model.Note{ID: "new" + strconv.Itoa(f.seq), Title: title, Content: content, CategoryID: categoryID, UpdatedAt: now}
	f.notes = append([]model.Note{n}, f.notes...)
	return &n, nil
}

func (f *fakeGateway) UpdateNote(ctx context.Context, id, title, content, categoryID string) (*model.Note, error) {
	f.updates++
	n := model.Note{ID: id, Title: title, Content: content, CategoryID: categoryID, UpdatedAt: now}
	return &n, nil
}

func (f *fakeGateway) DeleteNote(ctx context.Context, id string) error { return nil }

func seededGateway() *fakeGateway {
	return &fakeGateway{
		categories: []model.Category{
			{ID: "1", Name: "Random Thoughts", Color: "#EF9C66"},
			{ID: "2", Name: "School", Color: "#FCDC94"},
		},
		notes: []model.Note{
			{ID: "a", Title: "Essay", Content: "draft", CategoryID: "2", UpdatedAt: now.Add(-time.Hour)},
			{ID: "b", Title: "Idea", Content: "cats", CategoryID: "1", UpdatedAt: now.AddDate(0, 0, -1)},
		},
	}
}

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// step feeds msg to m. When the update started a remote call it runs that
// command and feeds its result back.
func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil || !(m.busy || m.loading) {
		return m
	}
	next, _ = m.Update(cmd())
	return next.(Model)
}

func loaded(t *testing.T, gw *fakeGateway) (Model, *notebook.Store) {
	t.Helper()
	store := notebook.New(gw)
	m := New(context.Background(), store, WithClock(func() time.Time { return now }))
	next, _ := m.Update(m.load()())
	m = next.(Model)
	require.False(t, m.loading)
	require.NoError(t, m.err)
	return m, store
}

func TestLoadFillsListAndSidebar(t *testing.T) {
	m, _ := loaded(t, seededGateway())

	require.Len(t, m.list.Items(), 2)
	first := m.list.Items()[0].(noteItem)
	assert.Equal(t, "today", first.label)
	assert.Equal(t, "School", first.category.Name)
	assert.Equal(t, "yesterday", m.list.Items()[1].(noteItem).label)

	view := m.View()
	assert.Contains(t, view, "All Categories")
	assert.Contains(t, view, "Random Thoughts")
	assert.Contains(t, m.sidebarView(), "(2)")
}

func TestArrowKeysCycleFilter(t *testing.T) {
	m, store := loaded(t, seededGateway())

	m = step(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, model.OnlyCategory("1"), store.Selected())
	require.Len(t, m.list.Items(), 1)
	assert.Equal(t, "b", m.list.Items()[0].(noteItem).note.ID)
	assert.Equal(t, "Random Thoughts", m.list.Title)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.True(t, store.Selected().IsAll())

	m = step(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, model.OnlyCategory("2"), store.Selected())
	assert.Len(t, m.list.Items(), 1)
}

func TestCreateNoteFromDashboard(t *testing.T) {
	m, store := loaded(t, seededGateway())
	m = step(t, m, tea.KeyMsg{Type: tea.KeyRight}) // Random Thoughts

	m = step(t, m, keyRunes("n"))
	require.True(t, m.form.open)
	assert.Equal(t, "Random Thoughts", m.form.category().Name)

	m = step(t, m, keyRunes("Groceries"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, focusBody, m.form.focus)
	m = step(t, m, keyRunes("milk"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.False(t, m.form.open)
	assert.False(t, m.busy)
	notes := store.Notes()
	require.Len(t, notes, 3)
	assert.Equal(t, "Groceries", notes[0].Title)
	assert.Equal(t, "milk", notes[0].Content)
	assert.Equal(t, "1", notes[0].CategoryID)
	assert.Contains(t, m.status, "Groceries")
	assert.Len(t, m.list.Items(), 2)
}

func TestDismissSavesUntitledAndDiscardsEmpty(t *testing.T) {
	m, store := loaded(t, seededGateway())

	m = step(t, m, keyRunes("n"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.form.open)
	assert.Len(t, store.Notes(), 2)
	assert.Equal(t, "nothing to save", m.status)

	m = step(t, m, keyRunes("n"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = step(t, m, keyRunes("only a body"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.Len(t, store.Notes(), 3)
	got := store.Notes()[0]
	assert.Equal(t, model.UntitledTitle, got.Title)
	assert.Equal(t, "1", got.CategoryID) // All falls back to the first category
}

func TestDismissUntouchedEditWritesNothing(t *testing.T) {
	for name, n := range map[string]model.Note{
		"unknown category": {ID: "o", Title: "Orphan", Content: "x", CategoryID: "9", UpdatedAt: now},
		"trailing space":   {ID: "t", Title: "Trail ", Content: "x", CategoryID: "1", UpdatedAt: now},
		"crlf content":     {ID: "c", Title: "Lines", Content: "a\r\nb", CategoryID: "1", UpdatedAt: now},
	} {
		t.Run(name, func(t *testing.T) {
			gw := seededGateway()
			gw.notes = []model.Note{n}
			m, store := loaded(t, gw)

			m = step(t, m, keyRunes("e"))
			require.True(t, m.form.open)
			m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})

			assert.False(t, m.form.open)
			assert.Zero(t, gw.updates)
			assert.Equal(t, "nothing to save", m.status)
			assert.Equal(t, n, store.Notes()[0])
		})
	}
}

func TestEditUnknownCategoryKeepsItUntilCycled(t *testing.T) {
	orphan := func() *fakeGateway {
		gw := seededGateway()
		gw.notes = []model.Note{{ID: "o", Title: "Orphan", Content: "x", CategoryID: "9", UpdatedAt: now}}
		return gw
	}

	gw := orphan()
	m, store := loaded(t, gw)
	m = step(t, m, keyRunes("e"))
	assert.Equal(t, model.UnknownCategoryName, m.form.category().Name)
	m = step(t, m, keyRunes("!"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Equal(t, 1, gw.updates)
	assert.Equal(t, "Orphan!", store.Notes()[0].Title)
	assert.Equal(t, "x", store.Notes()[0].Content)

	m, _ = loaded(t, orphan())
	m = step(t, m, keyRunes("e"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, model.AllCategoriesName, m.form.category().Name)
	m = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "Random Thoughts", m.form.category().Name)
}

func TestSubmitEmptyKeepsFormOpen(t *testing.T) {
	m, _ := loaded(t, seededGateway())

	m = step(t, m, keyRunes("n"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.True(t, m.form.open)
	assert.NotEmpty(t, m.form.err)
	assert.False(t, m.busy)
}

func TestEditAndCategoryCycle(t *testing.T) {
	m, store := loaded(t, seededGateway())

	m = step(t, m, keyRunes("e"))
	require.True(t, m.form.open)
	assert.Equal(t, "Essay", m.form.title.Value())
	assert.Equal(t, "School", m.form.category().Name)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyTab}) // All
	m = step(t, m, tea.KeyMsg{Type: tea.KeyTab}) // Random Thoughts
	assert.Equal(t, "Random Thoughts", m.form.category().Name)
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	got, ok := store.Find("a")
	require.True(t, ok)
	assert.Equal(t, "1", got.CategoryID)
	assert.Equal(t, "#EF9C66", got.Color)
	assert.Len(t, store.Notes(), 2)
}

func TestDeleteSelected(t *testing.T) {
	m, store := loaded(t, seededGateway())

	m = step(t, m, keyRunes("d"))
	_, ok := store.Find("a")
	assert.False(t, ok)
	assert.Len(t, m.list.Items(), 1)
	assert.True(t, strings.Contains(m.status, "Essay"))
}

func TestUnauthorizedQuits(t *testing.T) {
	gw := seededGateway()
	gw.listErr = &gateway.RequestFailedError{Op: "list categories", StatusCode: http.StatusUnauthorized, Message: "expired"}

	m := New(context.Background(), notebook.New(gw))
	next, cmd := m.Update(m.load()())
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Unauthorized())
}

func TestQuitKey(t *testing.T) {
	m, _ := loaded(t, seededGateway())
	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

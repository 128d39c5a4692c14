package notebook

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/idilsaglam/notes/internal/model"
)

var errRemote = errors.New("remote unavailable")

// fakeGateway is an in-memory stand-in for the remote notes service.
type fakeGateway struct {
	mu         sync.Mutex
	categories []model.Category
	notes      []model.Note
	nextID     int

	failList   bool
	failWrites bool

	createdCategories []string
	writes            []noteWrite
	listFilters       []model.CategoryFilter
}

type noteWrite struct {
	Op, ID, Title, Content, CategoryID string
}

func (f *fakeGateway) id() string {
	f.nextID++
	return strconv.Itoa(100 + f.nextID)
}

func (f *fakeGateway) ListCategories(ctx context.Context) ([]model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		return nil, errRemote
	}
	return append([]model.Category(nil), f.categories...), nil
}

func (f *fakeGateway) CreateCategory(ctx context.Context, name, color string) (*model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return nil, errRemote
	}
	c := model.Category{ID: "c-" + name, Name: name, Color: color}
	f.categories = append(f.categories, c)
	f.createdCategories = append(f.createdCategories, name)
	return &c, nil
}

func (f *fakeGateway) ListNotes(ctx context.Context, filter model.CategoryFilter) ([]model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listFilters = append(f.listFilters, filter)
	if f.failList {
		return nil, errRemote
	}
	var out []model.Note
	for _, n := range f.notes {
		if filter.Matches(n.CategoryID) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeGateway) CreateNote(ctx context.Context, title, content, categoryID string) (*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, noteWrite{"create", "", title, content, categoryID})
	if f.failWrites {
		return nil, errRemote
	}
	n := model.Note{ID: f.id(), Title: title, Content: content, CategoryID: categoryID, UpdatedAt: time.Now()}
	f.notes = append([]model.Note{n}, f.notes...)
	return &n, nil
}

func (f *fakeGateway) UpdateNote(ctx context.Context, id, title, content, categoryID string) (*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, noteWrite{"update", id, title, content, categoryID})
	if f.failWrites {
		return nil, errRemote
	}
	n := model.Note{ID: id, Title: title, Content: content, CategoryID: categoryID, UpdatedAt: time.Now()}
	for i := range f.notes {
		if f.notes[i].ID == id {
			f.notes[i] = n
		}
	}
	return &n, nil
}

func (f *fakeGateway) DeleteNote(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, noteWrite{"delete", id, "", "", ""})
	if f.failWrites {
		return errRemote
	}
	for i := range f.notes {
		if f.notes[i].ID == id {
			f.notes = append(f.notes[:i], f.notes[i+1:]...)
			break
		}
	}
	return nil
}

func workCategories() []model.Category {
	return []model.Category{
		{ID: "1", Name: "Work", Color: "#111"},
		{ID: "2", Name: "Home", Color: "#222"},
	}
}

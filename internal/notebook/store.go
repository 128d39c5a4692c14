// Package notebook keeps the session's notes and categories in memory and
// in sync with the remote store.
package notebook

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/idilsaglam/notes/internal/model"
)

var (
	// ErrEmptyDraft is returned when a draft has neither title nor content.
	ErrEmptyDraft = errors.New("note is empty")
	// ErrNoCategory is returned when a note cannot be given a concrete category.
	ErrNoCategory = errors.New("no category available")
	// ErrNotFound is returned for ids the store does not hold.
	ErrNotFound = errors.New("note not found")
)

// Gateway is the remote persistence the store syncs with.
type Gateway interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, name, color string) (*model.Category, error)
	ListNotes(ctx context.Context, filter model.CategoryFilter) ([]model.Note, error)
	CreateNote(ctx context.Context, title, content, categoryID string) (*model.Note, error)
	UpdateNote(ctx context.Context, id, title, content, categoryID string) (*model.Note, error)
	DeleteNote(ctx context.Context, id string) error
}

// Store is the authoritative in-memory copy of the session's notes and
// categories. Network calls happen outside the lock; state changes are
// applied only after the remote call succeeded.
type Store struct {
	gw Gateway

	mu         sync.RWMutex
	categories []model.Category
	all        []model.Note // newest first
	filtered   []model.Note
	selected   model.CategoryFilter
	ready      bool
}

// New returns an empty Store. Call Initialize before reading from it.
func New(gw Gateway) *Store {
	return &Store{gw: gw}
}

// Initialize loads categories, creating the defaults when the remote store
// has none, and then loads every note. Notes are fetched only after the
// categories are settled so their colors resolve.
func (s *Store) Initialize(ctx context.Context) error {
	cats, err := s.gw.ListCategories(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize categories")
		return fmt.Errorf("initialize categories: %w", err)
	}
	if len(cats) == 0 {
		if cats, err = s.createDefaults(ctx); err != nil {
			log.Error().Err(err).Msg("failed to create default categories")
			return fmt.Errorf("create default categories: %w", err)
		}
	}

	s.mu.Lock()
	s.categories = cats
	s.mu.Unlock()

	notes, err := s.gw.ListNotes(ctx, model.AllCategories())
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch notes")
		return fmt.Errorf("fetch notes: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range notes {
		notes[i].Color = s.resolveLocked(notes[i].CategoryID).Color
	}
	s.all = notes
	s.refilterLocked()
	s.ready = true
	log.Debug().Int("categories", len(cats)).Int("notes", len(notes)).Msg("notebook initialized")
	return nil
}

// createDefaults creates model.DefaultCategories concurrently and returns
// them in their fixed order.
func (s *Store) createDefaults(ctx context.Context) ([]model.Category, error) {
	created := make([]model.Category, len(model.DefaultCategories))
	g, gctx := errgroup.WithContext(ctx)
	for i, def := range model.DefaultCategories {
		i, def := i, def
		g.Go(func() error {
			c, err := s.gw.CreateCategory(gctx, def.Name, def.Color)
			if err != nil {
				return fmt.Errorf("%s: %w", def.Name, err)
			}
			created[i] = *c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return created, nil
}

// Ready reports whether Initialize has completed.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// SelectCategory sets the active filter and recomputes the filtered view.
func (s *Store) SelectCategory(filter model.CategoryFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = filter
	s.refilterLocked()
}

// Selected returns the active filter.
func (s *Store) Selected() model.CategoryFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Save persists draft. With an empty existingID it creates a note and puts
// it first; otherwise it updates that note in place. A draft under the All
// filter is stored in the first real category. A blank title becomes
// "Untitled".
func (s *Store) Save(ctx context.Context, draft model.Draft, existingID string) (*model.Note, error) {
	if draft.IsEmpty() {
		return nil, ErrEmptyDraft
	}
	draft = draft.WithDefaultTitle()

	s.mu.RLock()
	categoryID, err := s.targetCategoryLocked(draft.Category)
	exists := existingID == "" || s.indexLocked(existingID) >= 0
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, existingID)
	}

	var saved *model.Note
	if existingID == "" {
		saved, err = s.gw.CreateNote(ctx, draft.Title, draft.Content, categoryID)
	} else {
		saved, err = s.gw.UpdateNote(ctx, existingID, draft.Title, draft.Content, categoryID)
	}
	if err != nil {
		log.Error().Err(err).Str("note_id", existingID).Msg("failed to save note")
		return nil, fmt.Errorf("save note: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	note := *saved
	note.Color = s.resolveLocked(note.CategoryID).Color

	if existingID == "" {
		s.all = append([]model.Note{note}, s.all...)
	} else if i := s.indexLocked(existingID); i >= 0 {
		s.all[i] = note
	}
	s.refilterLocked()
	return &note, nil
}

// Delete removes note id remotely and from both views.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, ok := s.Find(id); !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := s.gw.DeleteNote(ctx, id); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		s.all = append(s.all[:i:i], s.all[i+1:]...)
	}
	s.refilterLocked()
	return nil
}

// AddCategory creates a category remotely and appends it.
func (s *Store) AddCategory(ctx context.Context, name, color string) (*model.Category, error) {
	c, err := s.gw.CreateCategory(ctx, name, color)
	if err != nil {
		return nil, fmt.Errorf("add category: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, *c)
	return c, nil
}

// Notes returns the full set, newest first.
func (s *Store) Notes() []model.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Note(nil), s.all...)
}

// Filtered returns the notes visible under the active filter.
func (s *Store) Filtered() []model.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Note(nil), s.filtered...)
}

// Categories returns the real categories in server order.
func (s *Store) Categories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Category(nil), s.categories...)
}

// Sidebar returns the selectable filters: All first, then every category.
func (s *Store) Sidebar() []model.SidebarEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.SidebarEntry, 0, len(s.categories)+1)
	out = append(out, model.AllEntry())
	for _, c := range s.categories {
		out = append(out, model.SidebarEntry{Filter: model.OnlyCategory(c.ID), Name: c.Name, Color: c.Color})
	}
	return out
}

// Resolve returns the category with id, or a safe default.
func (s *Store) Resolve(categoryID string) model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolveLocked(categoryID)
}

// Count returns how many notes are in categoryID.
func (s *Store) Count(categoryID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, note := range s.all {
		if note.CategoryID == categoryID {
			n++
		}
	}
	return n
}

// Find returns the note with id.
func (s *Store) Find(id string) (model.Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.all[i], true
	}
	return model.Note{}, false
}

// FindCategory looks a category up by id or, case-insensitively, by name.
func (s *Store) FindCategory(ref string) (model.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ref = strings.TrimSpace(ref)
	for _, c := range s.categories {
		if c.ID == ref {
			return c, true
		}
	}
	for _, c := range s.categories {
		if strings.EqualFold(c.Name, ref) {
			return c, true
		}
	}
	return model.Category{}, false
}

// Fallback is the category used for drafts saved under All or under an
// unknown category.
func (s *Store) Fallback() (model.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fallbackLocked()
}

func (s *Store) fallbackLocked() (model.Category, bool) {
	if len(s.categories) == 0 {
		return model.Category{}, false
	}
	return s.categories[0], true
}

func (s *Store) targetCategoryLocked(f model.CategoryFilter) (string, error) {
	if id, ok := f.CategoryID(); ok {
		if _, known := s.lookupLocked(id); known {
			return id, nil
		}
		log.Warn().Str("category_id", id).Msg("unknown category, using fallback")
	}
	c, ok := s.fallbackLocked()
	if !ok {
		return "", ErrNoCategory
	}
	return c.ID, nil
}

func (s *Store) lookupLocked(id string) (model.Category, bool) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return model.Category{}, false
}

func (s *Store) resolveLocked(id string) model.Category {
	if c, ok := s.lookupLocked(id); ok {
		return c
	}
	return model.UnknownCategory(id)
}

func (s *Store) indexLocked(id string) int {
	for i, n := range s.all {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// refilterLocked rebuilds the filtered view as the order-preserving subset
// of the full set matching the active filter.
func (s *Store) refilterLocked() {
	if s.selected.IsAll() {
		s.filtered = append(s.filtered[:0:0], s.all...)
		return
	}
	out := make([]model.Note, 0, len(s.all))
	for _, n := range s.all {
		if s.selected.Matches(n.CategoryID) {
			out = append(out, n)
		}
	}
	s.filtered = out
}

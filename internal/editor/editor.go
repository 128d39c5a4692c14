// Package editor holds the note editor's state: which note is open, the
// unsaved draft, and the rules for persisting it when the editor closes.
package editor

import (
	"context"
	"errors"

	"github.com/idilsaglam/notes/internal/model"
)

// Mode is the editor state.
type Mode int

const (
	Closed Mode = iota
	Creating
	Editing
)

func (m Mode) String() string {
	switch m {
	case Creating:
		return "create"
	case Editing:
		return "edit"
	default:
		return "closed"
	}
}

var (
	ErrNotOpen       = errors.New("editor is not open")
	ErrAlreadyOpen   = errors.New("editor is already open")
	ErrNothingToSave = errors.New("title or content required")
)

// Saver persists a draft; an empty existingID creates a new note.
type Saver interface {
	Save(ctx context.Context, draft model.Draft, existingID string) (*model.Note, error)
}

// Editor is the Closed -> Open(create|edit) -> Closed state machine.
type Editor struct {
	saver    Saver
	mode     Mode
	original model.Note
	draft    model.Draft
}

func New(saver Saver) *Editor {
	return &Editor{saver: saver}
}

func (e *Editor) Mode() Mode   { return e.mode }
func (e *Editor) IsOpen() bool { return e.mode != Closed }

// Draft returns the unsaved content.
func (e *Editor) Draft() model.Draft { return e.draft }

// Editing returns the note being edited, if any.
func (e *Editor) Editing() (model.Note, bool) {
	return e.original, e.mode == Editing
}

// OpenCreate starts a new note in category (usually the active filter).
func (e *Editor) OpenCreate(category model.CategoryFilter) error {
	if e.IsOpen() {
		return ErrAlreadyOpen
	}
	e.mode = Creating
	e.original = model.Note{}
	e.draft = model.Draft{Category: category}
	return nil
}

// OpenEdit loads n for editing.
func (e *Editor) OpenEdit(n model.Note) error {
	if e.IsOpen() {
		return ErrAlreadyOpen
	}
	e.mode = Editing
	e.original = n
	e.draft = model.DraftOf(n)
	return nil
}

func (e *Editor) SetTitle(s string)                  { e.draft.Title = s }
func (e *Editor) SetContent(s string)                { e.draft.Content = s }
func (e *Editor) SetCategory(f model.CategoryFilter) { e.draft.Category = f }

// Dirty reports whether dismissing would persist the draft. A new note is
// dirty once it has any title or content; an edited note once a field differs
// from what was loaded.
func (e *Editor) Dirty() bool {
	switch e.mode {
	case Creating:
		return !e.draft.IsEmpty()
	case Editing:
		return e.draft != model.DraftOf(e.original)
	}
	return false
}

// Submit is the explicit save. It requires a title or content and closes
// the editor once the note is persisted.
func (e *Editor) Submit(ctx context.Context) (*model.Note, error) {
	if !e.IsOpen() {
		return nil, ErrNotOpen
	}
	if e.draft.IsEmpty() {
		return nil, ErrNothingToSave
	}
	return e.persist(ctx)
}

// Dismiss closes the editor, saving a dirty draft first (blank titles
// become "Untitled"). It returns nil when nothing needed saving. On a save
// failure the editor stays open so the draft is not lost.
func (e *Editor) Dismiss(ctx context.Context) (*model.Note, error) {
	if !e.IsOpen() {
		return nil, ErrNotOpen
	}
	if !e.Dirty() || e.draft.IsEmpty() {
		e.close()
		return nil, nil
	}
	return e.persist(ctx)
}

func (e *Editor) persist(ctx context.Context) (*model.Note, error) {
	existingID := ""
	if e.mode == Editing {
		existingID = e.original.ID
	}
	n, err := e.saver.Save(ctx, e.draft.WithDefaultTitle(), existingID)
	if err != nil {
		return nil, err
	}
	e.close()
	return n, nil
}

func (e *Editor) close() {
	e.mode = Closed
	e.original = model.Note{}
	e.draft = model.Draft{}
}

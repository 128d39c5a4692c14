package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/idilsaglam/notes/internal/model"
)

// ErrNoCategoryID is returned when a note write lacks a concrete category.
var ErrNoCategoryID = errors.New("note requires a concrete category id")

// ListNotes returns notes, narrowed to one category unless filter is All.
func (c *Client) ListNotes(ctx context.Context, filter model.CategoryFilter) ([]model.Note, error) {
	var q url.Values
	if id, ok := filter.CategoryID(); ok {
		q = url.Values{"category": []string{id}}
	}
	var raw []apiNote
	if err := c.do(ctx, "list notes", http.MethodGet, "/notes/", q, nil, &raw, ""); err != nil {
		return nil, err
	}
	now := c.now()
	out := make([]model.Note, 0, len(raw))
	for _, rn := range raw {
		out = append(out, rn.toModel(now))
	}
	return out, nil
}

// CreateNote persists a new note under categoryID.
func (c *Client) CreateNote(ctx context.Context, title, content, categoryID string) (*model.Note, error) {
	if categoryID == "" {
		return nil, fmt.Errorf("create note: %w", ErrNoCategoryID)
	}
	var raw apiNote
	req := noteRequest{Title: title, Content: content, Category: categoryID}
	if err := c.do(ctx, "create note", http.MethodPost, "/notes/", nil, req, &raw, ""); err != nil {
		return nil, err
	}
	n := raw.toModel(c.now())
	return &n, nil
}

// UpdateNote replaces the editable fields of note id.
func (c *Client) UpdateNote(ctx context.Context, id, title, content, categoryID string) (*model.Note, error) {
	if id == "" {
		return nil, fmt.Errorf("update note: empty id")
	}
	if categoryID == "" {
		return nil, fmt.Errorf("update note: %w", ErrNoCategoryID)
	}
	var raw apiNote
	req := noteRequest{Title: title, Content: content, Category: categoryID}
	if err := c.do(ctx, "update note", http.MethodPut, notePath(id), nil, req, &raw, ""); err != nil {
		return nil, err
	}
	n := raw.toModel(c.now())
	return &n, nil
}

// DeleteNote removes note id.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("delete note: empty id")
	}
	return c.do(ctx, "delete note", http.MethodDelete, notePath(id), nil, nil, nil, "")
}

func notePath(id string) string {
	return "/notes/" + url.PathEscape(id) + "/"
}

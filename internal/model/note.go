package model

import (
	"strings"
	"time"
)

// UntitledTitle replaces a blank title when a note is persisted.
const UntitledTitle = "Untitled"

// Note is the domain model for a stored note.
type Note struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CategoryID string    `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Color is the resolved category color, attached for display only.
	Color string `json:"-"`
}

// Draft is unsaved editor content.
type Draft struct {
	Title    string
	Content  string
	Category CategoryFilter
}

// IsEmpty reports whether both title and content are blank.
func (d Draft) IsEmpty() bool {
	return strings.TrimSpace(d.Title) == "" && strings.TrimSpace(d.Content) == ""
}

// WithDefaultTitle returns d with a blank title replaced by UntitledTitle.
func (d Draft) WithDefaultTitle() Draft {
	if strings.TrimSpace(d.Title) == "" {
		d.Title = UntitledTitle
	}
	return d
}

// DraftOf returns the editable fields of n.
func DraftOf(n Note) Draft {
	return Draft{Title: n.Title, Content: n.Content, Category: OnlyCategory(n.CategoryID)}
}

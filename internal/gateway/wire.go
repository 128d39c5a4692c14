package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/idilsaglam/notes/internal/model"
)

// flexID accepts ids encoded either as JSON strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: expected string or number, got %s", b)
	}
	*f = flexID(n.String())
	return nil
}

type apiCategory struct {
	ID    flexID `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (c apiCategory) toModel() model.Category {
	return model.Category{ID: string(c.ID), Name: c.Name, Color: c.Color}
}

type categoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type apiNote struct {
	ID        flexID     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Category  flexID     `json:"category"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// toModel converts the wire note. UpdatedAt falls back to CreatedAt, then now.
func (n apiNote) toModel(now time.Time) model.Note {
	out := model.Note{
		ID:         string(n.ID),
		Title:      n.Title,
		Content:    n.Content,
		CategoryID: string(n.Category),
		CreatedAt:  n.CreatedAt,
	}
	switch {
	case n.UpdatedAt != nil && !n.UpdatedAt.IsZero():
		out.UpdatedAt = *n.UpdatedAt
	case !n.CreatedAt.IsZero():
		out.UpdatedAt = n.CreatedAt
	default:
		out.UpdatedAt = now
	}
	return out
}

type noteRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Tokens are the credentials issued on login.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

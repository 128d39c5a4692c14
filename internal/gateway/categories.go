package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/idilsaglam/notes/internal/model"
)

// ListCategories returns the user's categories in server order.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var raw []apiCategory
	if err := c.do(ctx, "list categories", http.MethodGet, "/categories/", nil, nil, &raw, ""); err != nil {
		return nil, err
	}
	out := make([]model.Category, 0, len(raw))
	for _, rc := range raw {
		out = append(out, rc.toModel())
	}
	return out, nil
}

// CreateCategory creates a category. Categories cannot be updated afterwards.
func (c *Client) CreateCategory(ctx context.Context, name, color string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("create category: empty name")
	}
	var raw apiCategory
	req := categoryRequest{Name: name, Color: color}
	if err := c.do(ctx, "create category", http.MethodPost, "/categories/", nil, req, &raw, ""); err != nil {
		return nil, err
	}
	cat := raw.toModel()
	return &cat, nil
}

package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Login exchanges email and password for access and refresh tokens.
func (c *Client) Login(ctx context.Context, email, password string) (*Tokens, error) {
	var toks Tokens
	req := credentialsRequest{Email: strings.TrimSpace(email), Password: password}
	if err := c.do(ctx, "login", http.MethodPost, "/auth/token/", nil, req, &toks, "Login failed"); err != nil {
		return nil, err
	}
	if toks.Access == "" {
		return nil, fmt.Errorf("login: server returned no access token")
	}
	return &toks, nil
}

// Register creates an account. The caller logs in separately afterwards.
func (c *Client) Register(ctx context.Context, email, password string) error {
	req := credentialsRequest{Email: strings.TrimSpace(email), Password: password}
	return c.do(ctx, "register", http.MethodPost, "/auth/register/", nil, req, nil, "Registration failed")
}

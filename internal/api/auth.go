package api

import (
	"context"
	"errors"
	"strings"
)

// LoginResult carries the authenticated user and the issued bearer token.
type LoginResult struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}

// Login exchanges credentials for a bearer token. The token is not stored on
// the client; callers decide whether to adopt it via SetToken.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errors.New("email must not be empty")
	}
	if password == "" {
		return nil, errors.New("password must not be empty")
	}

	var result LoginResult
	payload := map[string]string{"email": email, "password": password}
	if err := c.postJSON(ctx, "/auth/login", payload, &result); err != nil {
		return nil, err
	}
	if result.AccessToken == "" {
		return nil, errors.New("login response missing access token")
	}
	return &result, nil
}

// Me returns the account behind the current bearer token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.getJSON(ctx, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout invalidates the current session server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.postJSON(ctx, "/auth/logout", nil, nil)
}

package api

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

// ListUsers returns all accounts. Requires an admin token.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.getJSON(ctx, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser returns a single account by id.
func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("user id must not be empty")
	}
	var user User
	if err := c.getJSON(ctx, "/users/"+url.PathEscape(userID), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUserRequest carries the required fields for a new account.
type CreateUserRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Mobile     string `json:"mobile"`
	Role       string `json:"role"`
	Password   string `json:"password"`
	AvatarPath string `json:"avatar_path,omitempty"`
}

// CreateUser creates a new account. Requires an admin token.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	if req.Role != "admin" && req.Role != "employee" {
		return nil, errors.New("role must be admin or employee")
	}
	var user User
	if err := c.postJSON(ctx, "/users", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser patches account fields. Only the provided keys change.
func (c *Client) UpdateUser(ctx context.Context, userID string, fields map[string]string) (*User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("user id must not be empty")
	}
	if len(fields) == 0 {
		return nil, errors.New("no fields to update")
	}
	var user User
	if err := c.putJSON(ctx, "/users/"+url.PathEscape(userID), fields, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword updates the account password.
func (c *Client) ChangePassword(ctx context.Context, userID, password string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return errors.New("user id must not be empty")
	}
	if password == "" {
		return errors.New("password must not be empty")
	}
	payload := map[string]string{"password": password}
	return c.putJSON(ctx, "/users/"+url.PathEscape(userID)+"/password", payload, nil)
}

// DeleteUser removes an account. Requires an admin token.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return errors.New("user id must not be empty")
	}
	return c.deleteJSON(ctx, "/users/"+url.PathEscape(userID), nil)
}

package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/umsys/user-management-console/internal"
	"github.com/umsys/user-management-console/internal/backend"
)

var ErrNotFound = internal.NewNotFoundError("user not found")

type Client struct {
	api    *backend.Client
	logger *slog.Logger
}

func NewClient(api *backend.Client, logger *slog.Logger) *Client {
	return &Client{api: api, logger: logger}
}

type listData struct {
	Count int    `json:"count"`
	Rows  []User `json:"rows"`
}

// List fetches one page of users. The returned slice preserves the server's
// ordering; the count is the server-side total across all pages.
func (c *Client) List(ctx context.Context, params backend.ListParams) ([]User, int, error) {
	resp, err := c.api.Get(ctx, "/users", params.Values())
	if err != nil {
		return nil, 0, err
	}
	if !resp.OK() {
		return nil, 0, internal.NewRejectedError("failed to fetch users")
	}

	var data listData
	if err := resp.Decode(&data); err != nil {
		return nil, 0, fmt.Errorf("failed to decode user list: %w", err)
	}
	return data.Rows, data.Count, nil
}

// Get fetches a single user. A response without a usable entity, whatever
// the status, comes back as ErrNotFound so callers can render the terminal
// not-found state instead of an error notification.
func (c *Client) Get(ctx context.Context, id string) (*User, error) {
	resp, err := c.api.Get(ctx, "/users/"+id, nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, ErrNotFound
	}

	var u User
	if err := resp.Decode(&u); err != nil {
		return nil, ErrNotFound
	}
	if u.ID == "" {
		return nil, ErrNotFound
	}
	return &u, nil
}

// Create sends the full editable field set, password included.
func (c *Client) Create(ctx context.Context, dto CreateUserDTO) (*User, error) {
	resp, err := c.api.Post(ctx, "/users", dto)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, internal.NewRejectedError("failed to create user")
	}

	var u User
	if err := resp.Decode(&u); err != nil {
		return nil, fmt.Errorf("failed to decode created user: %w", err)
	}

	c.logger.Info("user created", "user_id", u.ID, "username", u.Username)
	return &u, nil
}

// Update sends the whole object back. The payload is stripped of the
// password field before marshaling; password changes are create-only.
func (c *Client) Update(ctx context.Context, id string, u User) (*User, error) {
	u.Password = ""
	resp, err := c.api.Put(ctx, "/users/"+id, u)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, internal.NewRejectedError("failed to update user")
	}

	var updated User
	if err := resp.Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to decode updated user: %w", err)
	}

	c.logger.Info("user updated", "user_id", id)
	return &updated, nil
}

// Delete is fire-and-forget: no body is expected back.
func (c *Client) Delete(ctx context.Context, id string) error {
	resp, err := c.api.Delete(ctx, "/users/"+id, nil)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return internal.NewRejectedError("failed to delete user")
	}

	c.logger.Info("user deleted", "user_id", id)
	return nil
}

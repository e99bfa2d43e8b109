// Package userform owns the create and edit screens for a single user.
package userform

import (
	"context"
	"errors"
	"log/slog"

	"github.com/umsys/user-management-console/internal"
	"github.com/umsys/user-management-console/internal/notify"
	"github.com/umsys/user-management-console/internal/user"
)

type UsersAPI interface {
	Get(ctx context.Context, id string) (*user.User, error)
	Create(ctx context.Context, dto user.CreateUserDTO) (*user.User, error)
	Update(ctx context.Context, id string, u user.User) (*user.User, error)
}

// CreateController holds no entity until submit.
type CreateController struct {
	users  UsersAPI
	logger *slog.Logger
}

func NewCreateController(users UsersAPI, logger *slog.Logger) *CreateController {
	return &CreateController{users: users, logger: logger}
}

// Submit validates field presence and sends the full field set. The caller
// navigates back to the list on success and stays on the form on failure.
func (c *CreateController) Submit(ctx context.Context, dto user.CreateUserDTO) (*user.User, error) {
	if err := dto.Validate(); err != nil {
		c.logger.Warn("create user validation failed", "error", err)
		notify.FromContext(ctx).Error(internal.ErrorKindRejected, err.Error())
		return nil, err
	}

	created, err := c.users.Create(ctx, dto)
	if err != nil {
		c.logger.Error("failed to create user", "error", err)
		notify.FromContext(ctx).Error(internal.KindOf(err), "An error occured while creating user")
		return nil, err
	}

	notify.FromContext(ctx).Success("User succesfully created")
	return created, nil
}

// EditController fetches one user on load and keeps it for the lifetime of
// the screen. An absent user is a terminal not-found state.
type EditController struct {
	users  UsersAPI
	logger *slog.Logger

	user     *user.User
	notFound bool
}

func NewEditController(users UsersAPI, logger *slog.Logger) *EditController {
	return &EditController{users: users, logger: logger}
}

func (c *EditController) Load(ctx context.Context, id string) error {
	u, err := c.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) || internal.IsNotFound(err) {
			c.notFound = true
			return nil
		}
		c.logger.Error("failed to fetch user", "error", err, "user_id", id)
		notify.FromContext(ctx).Error(internal.KindOf(err), "An error occured while fetching data.")
		return err
	}
	c.user = u
	return nil
}

func (c *EditController) NotFound() bool {
	return c.notFound
}

// User returns the fetched entity, or nil before Load or when not found.
func (c *EditController) User() *user.User {
	return c.user
}

// Submit merges the edited fields onto a shallow copy of the fetched entity
// and sends the whole object back.
func (c *EditController) Submit(ctx context.Context, dto user.EditUserDTO) error {
	if c.user == nil {
		return user.ErrNotFound
	}
	if err := dto.Validate(); err != nil {
		c.logger.Warn("edit user validation failed", "error", err, "user_id", c.user.ID)
		notify.FromContext(ctx).Error(internal.ErrorKindRejected, err.Error())
		return err
	}

	payload := dto.ApplyTo(*c.user)
	if _, err := c.users.Update(ctx, c.user.ID, payload); err != nil {
		c.logger.Error("failed to update user", "error", err, "user_id", c.user.ID)
		notify.FromContext(ctx).Error(internal.KindOf(err), "An error occured while updating user")
		return err
	}

	notify.FromContext(ctx).Success("User succesfully updated")
	return nil
}

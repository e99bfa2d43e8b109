// Package userperm owns the permission-assignment screen: one checkbox per
// catalog entry, checked iff the user holds an edge to it.
package userperm

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/umsys/user-management-console/internal"
	"github.com/umsys/user-management-console/internal/notify"
	"github.com/umsys/user-management-console/internal/permission"
	"github.com/umsys/user-management-console/internal/user"
)

type UsersAPI interface {
	Get(ctx context.Context, id string) (*user.User, error)
}

type PermissionsAPI interface {
	List(ctx context.Context) ([]permission.Permission, error)
	Assign(ctx context.Context, userID, permissionID string) (*permission.UserPermission, error)
	Unassign(ctx context.Context, userID, permissionID string) error
}

type Controller struct {
	users  UsersAPI
	perms  PermissionsAPI
	logger *slog.Logger

	mu       sync.Mutex
	user     *user.User
	catalog  []permission.Permission
	notFound bool
}

func NewController(users UsersAPI, perms PermissionsAPI, logger *slog.Logger) *Controller {
	return &Controller{users: users, perms: perms, logger: logger}
}

// Load fetches the target user and the permission catalog. The two fetches
// are independent and run concurrently; neither waits on the other.
func (c *Controller) Load(ctx context.Context, userID string) error {
	var wg sync.WaitGroup
	var userErr, catalogErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		userErr = c.fetchUser(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		catalogErr = c.fetchCatalog(ctx)
	}()
	wg.Wait()

	if userErr != nil {
		return userErr
	}
	return catalogErr
}

func (c *Controller) fetchUser(ctx context.Context, userID string) error {
	u, err := c.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) || internal.IsNotFound(err) {
			c.mu.Lock()
			c.notFound = true
			c.mu.Unlock()
			return nil
		}
		c.logger.Error("failed to fetch user", "error", err, "user_id", userID)
		notify.FromContext(ctx).Error(internal.KindOf(err), "An error occured while fetching data.")
		return err
	}

	c.mu.Lock()
	c.user = u
	c.mu.Unlock()
	return nil
}

func (c *Controller) fetchCatalog(ctx context.Context) error {
	permissions, err := c.perms.List(ctx)
	if err != nil {
		c.logger.Error("failed to fetch permissions", "error", err)
		notify.FromContext(ctx).Error(internal.KindOf(err), "An error occured while fetching permissions")
		return err
	}

	c.mu.Lock()
	c.catalog = permissions
	c.mu.Unlock()
	return nil
}

func (c *Controller) NotFound() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notFound
}

func (c *Controller) User() *user.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

func (c *Controller) Catalog() []permission.Permission {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]permission.Permission, len(c.catalog))
	copy(out, c.catalog)
	return out
}

// Checked reports whether the checkbox for permissionID should render
// checked, i.e. the refreshed user holds an edge to it.
func (c *Controller) Checked(permissionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return false
	}
	return c.user.HasPermission(permissionID)
}

// Toggle handles one checkbox change: checking assigns, unchecking
// unassigns. Either way the full user is re-fetched afterwards so the
// rendered checkbox set is the server's truth, never a local guess. That
// also makes unassigning an already-absent edge harmless: the refresh just
// shows the permission unchecked.
func (c *Controller) Toggle(ctx context.Context, userID, permissionID string, checked bool) error {
	if checked {
		if _, err := c.perms.Assign(ctx, userID, permissionID); err != nil {
			c.logger.Error("failed to assign permission",
				"error", err, "user_id", userID, "permission_id", permissionID)
			notify.FromContext(ctx).Error(internal.KindOf(err), "An error occured. Please try again.")
			return err
		}
		if err := c.fetchUser(ctx, userID); err != nil {
			return err
		}
		notify.FromContext(ctx).Success("Permission sucessfully assigned!")
		return nil
	}

	if err := c.perms.Unassign(ctx, userID, permissionID); err != nil {
		c.logger.Error("failed to unassign permission",
			"error", err, "user_id", userID, "permission_id", permissionID)
		notify.FromContext(ctx).Error(internal.KindOf(err), "An error occured. Please try again.")
		return err
	}
	if err := c.fetchUser(ctx, userID); err != nil {
		return err
	}
	notify.FromContext(ctx).Success("Permission sucessfully unassigned!")
	return nil
}

package permission

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/umsys/user-management-console/internal"
	"github.com/umsys/user-management-console/internal/backend"
)

type Client struct {
	api    *backend.Client
	logger *slog.Logger
}

func NewClient(api *backend.Client, logger *slog.Logger) *Client {
	return &Client{api: api, logger: logger}
}

// List fetches the full catalog eagerly; the reference data is assumed
// small enough that pagination would be noise.
func (c *Client) List(ctx context.Context) ([]Permission, error) {
	resp, err := c.api.Get(ctx, "/permissions", nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, internal.NewRejectedError("failed to fetch permissions")
	}

	var permissions []Permission
	if err := resp.Decode(&permissions); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}
	return permissions, nil
}

type assignPayload struct {
	UserID       string `json:"userId"`
	PermissionID string `json:"permissionId"`
}

type unassignPayload struct {
	PermissionID string `json:"permissionId"`
}

// Assign creates the edge between user and permission and returns it.
func (c *Client) Assign(ctx context.Context, userID, permissionID string) (*UserPermission, error) {
	resp, err := c.api.Post(ctx, "/user-permission", assignPayload{
		UserID:       userID,
		PermissionID: permissionID,
	})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, internal.NewRejectedError("failed to assign permission")
	}

	var edge UserPermission
	if err := resp.Decode(&edge); err != nil {
		return nil, fmt.Errorf("failed to decode user permission: %w", err)
	}

	c.logger.Info("permission assigned", "user_id", userID, "permission_id", permissionID)
	return &edge, nil
}

// Unassign removes the edge for the given permission. The target edge is
// identified in the request body, not the path.
func (c *Client) Unassign(ctx context.Context, userID, permissionID string) error {
	resp, err := c.api.Delete(ctx, "/user-permission/"+userID, unassignPayload{
		PermissionID: permissionID,
	})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return internal.NewRejectedError("failed to unassign permission")
	}

	c.logger.Info("permission unassigned", "user_id", userID, "permission_id", permissionID)
	return nil
}

package user

import (
	"time"

	"github.com/umsys/user-management-console/internal/permission"
)

// User mirrors the backend's wire shape. ID is empty only for a user not yet
// persisted; once assigned it never changes. Password is write-only and is
// never rendered back.
type User struct {
	ID          string                      `json:"id,omitempty"`
	FirstName   string                      `json:"firstName"`
	LastName    string                      `json:"lastName"`
	Username    string                      `json:"username"`
	Password    string                      `json:"password,omitempty"`
	Email       string                      `json:"email"`
	Status      string                      `json:"status"`
	Permissions []permission.UserPermission `json:"user_permissions,omitempty"`
	CreatedAt   time.Time                   `json:"createdAt,omitempty"`
	UpdatedAt   time.Time                   `json:"updatedAt,omitempty"`
}

// HasPermission reports whether the user holds an edge to the permission.
func (u *User) HasPermission(permissionID string) bool {
	for _, edge := range u.Permissions {
		if edge.PermissionID == permissionID {
			return true
		}
	}
	return false
}

// Package permission holds the permission catalog and the user-permission
// edges linking users to it. The catalog is reference data: fetched in bulk,
// never mutated by the console.
package permission

// Permission is one entry of the catalog.
type Permission struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// UserPermission is the join record between one user and one permission,
// carrying a snapshot of the permission for display. Edges are created and
// destroyed, never updated in place.
type UserPermission struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	PermissionID string     `json:"permissionId"`
	Permission   Permission `json:"permission"`
}

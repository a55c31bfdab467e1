package seed

import (
	"context"

	"access-console/internal/domain"
	"access-console/internal/ports"
)

// DefaultProvider serves the console's built-in starting data: three roles
// and four users.
type DefaultProvider struct{}

func (DefaultProvider) Load(context.Context) (ports.Dataset, error) {
	return ports.Dataset{
		Roles: defaultRoles(),
		Users: []domain.User{
			{ID: 1, Name: "John Doe", Email: "john@example.com", RoleID: 1, Status: domain.StatusActive},
			{ID: 2, Name: "Jane Smith", Email: "jane@example.com", RoleID: 1, Status: domain.StatusActive},
			{ID: 3, Name: "Bob Wilson", Email: "bob@example.com", RoleID: 2, Status: domain.StatusActive},
			{ID: 4, Name: "Alice Brown", Email: "alice@example.com", RoleID: 3, Status: domain.StatusActive},
		},
	}, nil
}

func defaultRoles() []domain.Role {
	return []domain.Role{
		{ID: 1, Name: "Administrator", Description: "Full system access with all permissions", Permissions: []domain.Permission{
			domain.PermissionCreate, domain.PermissionRead, domain.PermissionUpdate, domain.PermissionDelete,
		}},
		{ID: 2, Name: "Editor", Description: "Can edit and publish content", Permissions: []domain.Permission{
			domain.PermissionRead, domain.PermissionUpdate,
		}},
		{ID: 3, Name: "Viewer", Description: "Read-only access to content", Permissions: []domain.Permission{
			domain.PermissionRead,
		}},
	}
}

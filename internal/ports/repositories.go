package ports

import "access-console/internal/domain"

type RoleRepository interface {
	Create(name, description string, permissions []domain.Permission) (domain.Role, error)
	SetPermission(roleID int64, permission domain.Permission, granted bool) (domain.Role, error)
	Update(roleID int64, name, description string) (domain.Role, error)
	Delete(roleID int64) error
	Get(roleID int64) (domain.Role, error)
	List() []domain.Role
}

type UserRepository interface {
	Create(user domain.User) (domain.User, error)
	SetRole(userID, roleID int64) (domain.User, error)
	Delete(userID int64) error
	Get(userID int64) (domain.User, error)
	List() []domain.User
}

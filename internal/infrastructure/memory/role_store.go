package memory

import (
	"slices"
	"strings"
	"time"

	"access-console/internal/domain"
)

// RoleStore keeps roles in insertion order. It is not safe for concurrent
// use; the access model serialises access to it.
type RoleStore struct {
	roles  []domain.Role
	index  map[int64]int
	lastID int64
	now    func() time.Time
}

func NewRoleStore(now func() time.Time) *RoleStore {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &RoleStore{index: map[int64]int{}, now: now}
}

func (s *RoleStore) Create(name, description string, permissions []domain.Permission) (domain.Role, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" {
		return domain.Role{}, domain.Invalid("role name is required")
	}
	if description == "" {
		return domain.Role{}, domain.Invalid("role description is required")
	}
	perms := domain.NormalizePermissions(permissions)
	if len(perms) == 0 {
		return domain.Role{}, domain.Invalid("role needs at least one permission")
	}
	now := s.now()
	role := domain.Role{
		ID:          nextID(s.lastID, s.maxID()),
		Name:        name,
		Description: description,
		Permissions: perms,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.lastID = role.ID
	s.index[role.ID] = len(s.roles)
	s.roles = append(s.roles, role)
	return cloneRole(role), nil
}

func (s *RoleStore) SetPermission(roleID int64, permission domain.Permission, granted bool) (domain.Role, error) {
	i, ok := s.index[roleID]
	if !ok {
		return domain.Role{}, domain.NotFound("role %d not found", roleID)
	}
	role := &s.roles[i]
	if role.Has(permission) == granted {
		return cloneRole(*role), nil
	}
	if granted {
		role.Permissions = domain.NormalizePermissions(append(slices.Clone(role.Permissions), permission))
	} else {
		role.Permissions = slices.DeleteFunc(slices.Clone(role.Permissions), func(p domain.Permission) bool { return p == permission })
	}
	role.UpdatedAt = s.now()
	return cloneRole(*role), nil
}

func (s *RoleStore) Update(roleID int64, name, description string) (domain.Role, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" || description == "" {
		return domain.Role{}, domain.Invalid("role name and description are required")
	}
	i, ok := s.index[roleID]
	if !ok {
		return domain.Role{}, domain.NotFound("role %d not found", roleID)
	}
	s.roles[i].Name = name
	s.roles[i].Description = description
	s.roles[i].UpdatedAt = s.now()
	return cloneRole(s.roles[i]), nil
}

func (s *RoleStore) Delete(roleID int64) error {
	i, ok := s.index[roleID]
	if !ok {
		return domain.NotFound("role %d not found", roleID)
	}
	s.roles = slices.Delete(s.roles, i, i+1)
	delete(s.index, roleID)
	for j := i; j < len(s.roles); j++ {
		s.index[s.roles[j].ID] = j
	}
	return nil
}

func (s *RoleStore) Get(roleID int64) (domain.Role, error) {
	i, ok := s.index[roleID]
	if !ok {
		return domain.Role{}, domain.NotFound("role %d not found", roleID)
	}
	return cloneRole(s.roles[i]), nil
}

func (s *RoleStore) List() []domain.Role {
	out := make([]domain.Role, 0, len(s.roles))
	for _, r := range s.roles {
		out = append(out, cloneRole(r))
	}
	return out
}

func (s *RoleStore) maxID() int64 {
	var highest int64
	for _, r := range s.roles {
		if r.ID > highest {
			highest = r.ID
		}
	}
	return highest
}

func cloneRole(r domain.Role) domain.Role {
	r.Permissions = slices.Clone(r.Permissions)
	return r
}

// nextID is one past the larger of the current maximum and the highest id
// ever issued, so ids stay monotonic after the newest record is removed.
func nextID(lastIssued, currentMax int64) int64 {
	return max(lastIssued, currentMax) + 1
}

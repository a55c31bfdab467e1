package application

import (
	"context"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"access-console/internal/domain"
	"access-console/internal/ports"
)

// UserView is a user together with the display label of its role.
type UserView struct {
	domain.User
	Role string `json:"role"`
}

// MatrixRow is one role's line in the role x permission grid.
type MatrixRow struct {
	RoleID   int64                      `json:"role_id"`
	RoleName string                     `json:"role_name"`
	Grants   map[domain.Permission]bool `json:"grants"`
}

// AccessModel owns the role and user stores and is the only writer to them.
// Every command validates up front and either fully applies or leaves both
// stores untouched.
type AccessModel struct {
	mu       sync.RWMutex
	roles    ports.RoleRepository
	users    ports.UserRepository
	logger   ports.Logger
	recorder ports.CommandRecorder
	validate *validator.Validate
}

func NewAccessModel(roles ports.RoleRepository, users ports.UserRepository, logger ports.Logger, recorder ports.CommandRecorder) *AccessModel {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &AccessModel{
		roles:    roles,
		users:    users,
		logger:   logger,
		recorder: recorder,
		validate: newValidator(),
	}
}

func (m *AccessModel) CreateRole(ctx context.Context, in CreateRoleInput) (domain.Role, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := m.check(in); err != nil {
		return domain.Role{}, m.done(ctx, "create_role", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.roleNameTakenLocked(in.Name, 0) {
		return domain.Role{}, m.done(ctx, "create_role", domain.Conflict("role %q already exists", in.Name))
	}
	role, err := m.roles.Create(in.Name, in.Description, in.Permissions)
	if err == nil {
		m.logger.Info(ctx, "role created", "role_id", role.ID, "name", role.Name)
	}
	return role, m.done(ctx, "create_role", err)
}

func (m *AccessModel) UpdateRole(ctx context.Context, roleID int64, name, description string) (domain.Role, error) {
	in := updateRoleInput{Name: strings.TrimSpace(name), Description: strings.TrimSpace(description)}
	if err := m.check(in); err != nil {
		return domain.Role{}, m.done(ctx, "update_role", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.roles.Get(roleID); err != nil {
		return domain.Role{}, m.done(ctx, "update_role", err)
	}
	if m.roleNameTakenLocked(in.Name, roleID) {
		return domain.Role{}, m.done(ctx, "update_role", domain.Conflict("role %q already exists", in.Name))
	}
	role, err := m.roles.Update(roleID, in.Name, in.Description)
	return role, m.done(ctx, "update_role", err)
}

// roleNameTakenLocked reports whether a role other than except already uses
// name. Names compare case-insensitively since the user filter keys on them.
func (m *AccessModel) roleNameTakenLocked(name string, except int64) bool {
	for _, r := range m.roles.List() {
		if r.ID != except && strings.EqualFold(r.Name, name) {
			return true
		}
	}
	return false
}

// SetRolePermission grants or revokes one permission. Repeating a call is a
// no-op. A role may end up with no permissions this way; only creation
// requires at least one.
func (m *AccessModel) SetRolePermission(ctx context.Context, roleID int64, permission domain.Permission, granted bool) (domain.Role, error) {
	p, err := domain.ParsePermission(string(permission))
	if err != nil {
		return domain.Role{}, m.done(ctx, "set_role_permission", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	role, err := m.roles.SetPermission(roleID, p, granted)
	return role, m.done(ctx, "set_role_permission", err)
}

// DeleteRole removes a role. While the role has members it is rejected with
// a conflict unless reassignTo names another existing role, in which case the
// members are moved there first. Returns the number of users moved.
func (m *AccessModel) DeleteRole(ctx context.Context, roleID int64, reassignTo *int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.roles.Get(roleID); err != nil {
		return 0, m.done(ctx, "delete_role", err)
	}
	members := m.membersLocked(roleID)
	if len(members) > 0 {
		if reassignTo == nil {
			return 0, m.done(ctx, "delete_role", domain.Conflict("role %d still has %d members", roleID, len(members)))
		}
		if *reassignTo == roleID {
			return 0, m.done(ctx, "delete_role", domain.Invalid("cannot reassign members to the role being deleted"))
		}
		if _, err := m.roles.Get(*reassignTo); err != nil {
			return 0, m.done(ctx, "delete_role", err)
		}
		for _, u := range members {
			if _, err := m.users.SetRole(u.ID, *reassignTo); err != nil {
				return 0, m.done(ctx, "delete_role", err)
			}
		}
	}
	if err := m.roles.Delete(roleID); err != nil {
		return 0, m.done(ctx, "delete_role", err)
	}
	m.logger.Info(ctx, "role deleted", "role_id", roleID, "moved", len(members))
	return len(members), m.done(ctx, "delete_role", nil)
}

func (m *AccessModel) AddUser(ctx context.Context, in AddUserInput) (domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := m.check(in); err != nil {
		return domain.User{}, m.done(ctx, "add_user", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.roles.Get(in.RoleID); err != nil {
		return domain.User{}, m.done(ctx, "add_user", err)
	}
	user, err := m.users.Create(domain.User{Name: in.Name, Email: in.Email, RoleID: in.RoleID, Status: in.Status})
	if err == nil {
		m.logger.Info(ctx, "user added", "user_id", user.ID, "role_id", user.RoleID)
	}
	return user, m.done(ctx, "add_user", err)
}

func (m *AccessModel) ReassignUser(ctx context.Context, userID, roleID int64) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.roles.Get(roleID); err != nil {
		return domain.User{}, m.done(ctx, "reassign_user", err)
	}
	user, err := m.users.SetRole(userID, roleID)
	return user, m.done(ctx, "reassign_user", err)
}

func (m *AccessModel) RemoveUser(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done(ctx, "remove_user", m.users.Delete(userID))
}

// RemoveUsers deletes every listed user that still exists and reports how
// many were removed. Unknown or repeated ids are skipped.
func (m *AccessModel) RemoveUsers(ctx context.Context, userIDs []int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for _, id := range userIDs {
		if err := m.users.Delete(id); err == nil {
			removed++
		}
	}
	m.logger.Info(ctx, "users removed", "requested", len(userIDs), "removed", removed)
	m.recorder.Record("remove_users", nil)
	return removed
}

func (m *AccessModel) GetRole(roleID int64) (domain.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.roles.Get(roleID)
}

func (m *AccessModel) GetUser(userID int64) (domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users.Get(userID)
}

func (m *AccessModel) ListRoles() []domain.Role {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.roles.List()
}

func (m *AccessModel) ListUsers() []domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users.List()
}

// MembersOf scans the user store on every call; membership is never cached.
func (m *AccessModel) MembersOf(roleID int64) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, err := m.roles.Get(roleID); err != nil {
		return nil, err
	}
	return m.membersLocked(roleID), nil
}

func (m *AccessModel) membersLocked(roleID int64) []domain.User {
	members := []domain.User{}
	for _, u := range m.users.List() {
		if u.RoleID == roleID {
			members = append(members, u)
		}
	}
	return members
}

// RoleCounts maps every role id to its member count, zero included.
func (m *AccessModel) RoleCounts() map[int64]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := map[int64]int{}
	for _, r := range m.roles.List() {
		counts[r.ID] = 0
	}
	for _, u := range m.users.List() {
		counts[u.RoleID]++
	}
	return counts
}

// Users returns the user store contents with role labels resolved, in
// insertion order. It is the snapshot the query functions operate on.
func (m *AccessModel) Users() []UserView {
	m.mu.RLock()
	defer m.mu.RUnlock()
	labels := map[int64]string{}
	for _, r := range m.roles.List() {
		labels[r.ID] = r.Name
	}
	users := m.users.List()
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, UserView{User: u, Role: labels[u.RoleID]})
	}
	return views
}

func (m *AccessModel) PermissionMatrix() []MatrixRow {
	m.mu.RLock()
	defer m.mu.RUnlock()
	roles := m.roles.List()
	rows := make([]MatrixRow, 0, len(roles))
	for _, r := range roles {
		grants := make(map[domain.Permission]bool, len(domain.AllPermissions))
		for _, p := range domain.AllPermissions {
			grants[p] = r.Has(p)
		}
		rows = append(rows, MatrixRow{RoleID: r.ID, RoleName: r.Name, Grants: grants})
	}
	return rows
}

// Seed loads a dataset into an empty model. Role ids are reallocated and
// user role references are translated accordingly. The whole dataset is
// checked before anything is written.
func (m *AccessModel) Seed(ctx context.Context, ds ports.Dataset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.roles.List()) > 0 || len(m.users.List()) > 0 {
		return m.done(ctx, "seed", domain.Conflict("model already holds data"))
	}
	known := map[int64]bool{}
	names := map[string]bool{}
	for _, r := range ds.Roles {
		in := CreateRoleInput{Name: strings.TrimSpace(r.Name), Description: strings.TrimSpace(r.Description), Permissions: r.Permissions}
		if err := m.check(in); err != nil {
			return m.done(ctx, "seed", domain.Invalid("role %d: %v", r.ID, err))
		}
		if known[r.ID] {
			return m.done(ctx, "seed", domain.Invalid("duplicate role id %d", r.ID))
		}
		known[r.ID] = true
		name := strings.ToLower(in.Name)
		if names[name] {
			return m.done(ctx, "seed", domain.Conflict("duplicate role name %q", in.Name))
		}
		names[name] = true
	}
	for _, u := range ds.Users {
		in := AddUserInput{Name: strings.TrimSpace(u.Name), Email: strings.TrimSpace(u.Email), RoleID: u.RoleID, Status: u.Status}
		if err := m.check(in); err != nil {
			return m.done(ctx, "seed", domain.Invalid("user %d: %v", u.ID, err))
		}
		if !known[u.RoleID] {
			return m.done(ctx, "seed", domain.NotFound("user %d references unknown role %d", u.ID, u.RoleID))
		}
	}

	ids := make(map[int64]int64, len(ds.Roles))
	for _, r := range ds.Roles {
		created, err := m.roles.Create(r.Name, r.Description, r.Permissions)
		if err != nil {
			return m.done(ctx, "seed", err)
		}
		ids[r.ID] = created.ID
	}
	for _, u := range ds.Users {
		u.RoleID = ids[u.RoleID]
		if _, err := m.users.Create(u); err != nil {
			return m.done(ctx, "seed", err)
		}
	}
	m.logger.Info(ctx, "session seeded", "roles", len(ds.Roles), "users", len(ds.Users))
	return m.done(ctx, "seed", nil)
}

func (m *AccessModel) done(ctx context.Context, command string, err error) error {
	m.recorder.Record(command, err)
	if err != nil {
		m.logger.Warn(ctx, "command rejected", "command", command, "kind", string(domain.KindOf(err)), "error", err.Error())
	}
	return err
}

type nopRecorder struct{}

func (nopRecorder) Record(string, error) {}

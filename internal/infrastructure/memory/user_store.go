package memory

import (
	"slices"
	"strings"
	"time"

	"access-console/internal/domain"
)

// UserStore keeps users in insertion order. Role references are not checked
// here; the access model resolves them before writing.
type UserStore struct {
	users  []domain.User
	index  map[int64]int
	lastID int64
	now    func() time.Time
}

func NewUserStore(now func() time.Time) *UserStore {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &UserStore{index: map[int64]int{}, now: now}
}

// Create ignores user.ID and allocates the next one. A zero LastActive is
// set to the creation time and an empty Status defaults to Active.
func (s *UserStore) Create(user domain.User) (domain.User, error) {
	user.Name = strings.TrimSpace(user.Name)
	user.Email = strings.TrimSpace(user.Email)
	if user.Name == "" || user.Email == "" {
		return domain.User{}, domain.Invalid("user name and email are required")
	}
	if user.Status == "" {
		user.Status = domain.StatusActive
	}
	if user.LastActive.IsZero() {
		user.LastActive = s.now()
	}
	user.ID = nextID(s.lastID, s.maxID())
	s.lastID = user.ID
	s.index[user.ID] = len(s.users)
	s.users = append(s.users, user)
	return user, nil
}

func (s *UserStore) SetRole(userID, roleID int64) (domain.User, error) {
	i, ok := s.index[userID]
	if !ok {
		return domain.User{}, domain.NotFound("user %d not found", userID)
	}
	s.users[i].RoleID = roleID
	return s.users[i], nil
}

func (s *UserStore) Delete(userID int64) error {
	i, ok := s.index[userID]
	if !ok {
		return domain.NotFound("user %d not found", userID)
	}
	s.users = slices.Delete(s.users, i, i+1)
	delete(s.index, userID)
	for j := i; j < len(s.users); j++ {
		s.index[s.users[j].ID] = j
	}
	return nil
}

func (s *UserStore) Get(userID int64) (domain.User, error) {
	i, ok := s.index[userID]
	if !ok {
		return domain.User{}, domain.NotFound("user %d not found", userID)
	}
	return s.users[i], nil
}

func (s *UserStore) List() []domain.User {
	out := make([]domain.User, len(s.users))
	copy(out, s.users)
	return out
}

func (s *UserStore) maxID() int64 {
	var highest int64
	for _, u := range s.users {
		if u.ID > highest {
			highest = u.ID
		}
	}
	return highest
}

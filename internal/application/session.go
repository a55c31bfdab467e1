package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"access-console/internal/domain"
	"access-console/internal/ports"
)

// Session is one console session: an access model plus the table's current
// filter and row selection.
type Session struct {
	ID        string
	CreatedAt time.Time

	model    *AccessModel
	mu       sync.Mutex
	filter   Filter
	selected IDSet
}

func (s *Session) Model() *AccessModel { return s.model }

// ApplyFilter replaces the current filter and returns the matching users.
func (s *Session) ApplyFilter(f Filter) []UserView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
	return FilterUsers(s.model.Users(), f)
}

func (s *Session) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Visible returns the users matching the current filter.
func (s *Session) Visible() []UserView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FilterUsers(s.model.Users(), s.filter)
}

func (s *Session) Toggle(userID int64, included bool) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ToggleSelection(s.selected, userID, included)
	return s.selected.Sorted()
}

func (s *Session) SelectAll() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	visible := FilterUsers(s.model.Users(), s.filter)
	s.selected = SelectAll(userIDs(visible), s.selected)
	return s.selected.Sorted()
}

func (s *Session) Selected() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected.Sorted()
}

// DeleteSelected removes the selected users that still exist and clears the
// selection.
func (s *Session) DeleteSelected(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := s.model.RemoveUsers(ctx, s.selected.Sorted())
	s.selected = IDSet{}
	return removed
}

// StoreFactory builds an empty role store and user store for a new session.
type StoreFactory func() (ports.RoleRepository, ports.UserRepository)

// SessionRegistry creates and tracks sessions. Each session gets its own
// stores seeded from the provider.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	stores   StoreFactory
	provider ports.DataProvider
	logger   ports.Logger
	recorder ports.CommandRecorder
	now      func() time.Time
}

func NewSessionRegistry(stores StoreFactory, provider ports.DataProvider, logger ports.Logger, recorder ports.CommandRecorder, now func() time.Time) *SessionRegistry {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &SessionRegistry{
		sessions: map[string]*Session{},
		stores:   stores,
		provider: provider,
		logger:   logger,
		recorder: recorder,
		now:      now,
	}
}

func (r *SessionRegistry) Open(ctx context.Context) (*Session, error) {
	roles, users := r.stores()
	model := NewAccessModel(roles, users, r.logger, r.recorder)
	if r.provider != nil {
		ds, err := r.provider.Load(ctx)
		if err != nil {
			r.logger.Error(ctx, "failed to load session data", "error", err)
			return nil, err
		}
		if err := model.Seed(ctx, ds); err != nil {
			return nil, err
		}
	}
	sess := &Session{ID: uuid.NewString(), CreatedAt: r.now(), model: model, selected: IDSet{}}
	r.mu.Lock()
	r.sessions[sess.ID] = sess
	r.mu.Unlock()
	if o, ok := r.recorder.(ports.SessionObserver); ok {
		o.SessionOpened()
	}
	r.logger.Info(ctx, "session opened", "session_id", sess.ID)
	return sess, nil
}

func (r *SessionRegistry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[id]
	if !ok {
		return nil, domain.NotFound("session %s not found", id)
	}
	return sess, nil
}

// Close ends a session; its state is discarded.
func (r *SessionRegistry) Close(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return domain.NotFound("session %s not found", id)
	}
	delete(r.sessions, id)
	if o, ok := r.recorder.(ports.SessionObserver); ok {
		o.SessionClosed()
	}
	r.logger.Info(ctx, "session closed", "session_id", id)
	return nil
}

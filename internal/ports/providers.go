package ports

import (
	"context"

	"access-console/internal/domain"
)

// Dataset is the initial state handed to a new session. User.RoleID values
// refer to Role.ID values inside the same dataset.
type Dataset struct {
	Roles []domain.Role `yaml:"roles"`
	Users []domain.User `yaml:"users"`
}

type DataProvider interface {
	Load(ctx context.Context) (Dataset, error)
}

// CommandRecorder observes the outcome of every Access Model command.
type CommandRecorder interface {
	Record(command string, err error)
}

// SessionObserver is implemented by recorders that also track open sessions.
type SessionObserver interface {
	SessionOpened()
	SessionClosed()
}

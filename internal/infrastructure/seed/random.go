package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"access-console/internal/domain"
	"access-console/internal/ports"
)

// lastActiveWindow bounds how far back generated last-active times go.
const lastActiveWindow = 10_000_000_000 * time.Millisecond

// RandomProvider generates Count mock users spread over the default roles.
// The same Seed always yields the same dataset.
type RandomProvider struct {
	Count int
	Seed  uint64
	Now   func() time.Time
}

func (p RandomProvider) Load(context.Context) (ports.Dataset, error) {
	if p.Count < 0 {
		return ports.Dataset{}, domain.Invalid("user count must not be negative")
	}
	now := p.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	rng := rand.New(rand.NewPCG(p.Seed, p.Seed^0x9e3779b97f4a7c15))
	roles := defaultRoles()
	statuses := []domain.Status{domain.StatusActive, domain.StatusInactive}
	ref := now()

	users := make([]domain.User, 0, p.Count)
	for i := 1; i <= p.Count; i++ {
		users = append(users, domain.User{
			ID:         int64(i),
			Name:       fmt.Sprintf("User %d", i),
			Email:      fmt.Sprintf("user%d@example.com", i),
			RoleID:     roles[rng.IntN(len(roles))].ID,
			Status:     statuses[rng.IntN(len(statuses))],
			LastActive: ref.Add(-time.Duration(rng.Int64N(int64(lastActiveWindow)))),
		})
	}
	return ports.Dataset{Roles: roles, Users: users}, nil
}

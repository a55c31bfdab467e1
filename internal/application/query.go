package application

import (
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"access-console/internal/domain"
)

// IDSet is a set of user ids.
type IDSet map[int64]struct{}

func NewIDSet(ids ...int64) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in ascending order.
func (s IDSet) Sorted() []int64 {
	return slices.Sorted(maps.Keys(s))
}

// Filter describes the user table's search box and filter menus. Empty
// Roles or Statuses mean no restriction.
type Filter struct {
	Query    string          `json:"query"`
	Roles    []string        `json:"roles"`
	Statuses []domain.Status `json:"statuses"`
}

// FilterUsers keeps the users whose name, email or role label contains the
// query (case-insensitively) and whose role and status pass the filters.
func FilterUsers(users []UserView, f Filter) []UserView {
	fold := cases.Fold()
	query := fold.String(f.Query)
	out := []UserView{}
	for _, u := range users {
		if query != "" &&
			!strings.Contains(fold.String(u.Name), query) &&
			!strings.Contains(fold.String(u.Email), query) &&
			!strings.Contains(fold.String(u.Role), query) {
			continue
		}
		if len(f.Roles) > 0 && !slices.Contains(f.Roles, u.Role) {
			continue
		}
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, u.Status) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// ToggleSelection returns a copy of selected with id added or removed.
func ToggleSelection(selected IDSet, id int64, included bool) IDSet {
	next := maps.Clone(selected)
	if next == nil {
		next = IDSet{}
	}
	if included {
		next[id] = struct{}{}
	} else {
		delete(next, id)
	}
	return next
}

// SelectAll clears the selection when it is exactly the filtered set and
// otherwise selects every filtered id. Ids selected earlier that are no
// longer visible are dropped in the latter case.
func SelectAll(filtered []int64, selected IDSet) IDSet {
	visible := NewIDSet(filtered...)
	if maps.Equal(visible, selected) {
		return IDSet{}
	}
	return visible
}

func userIDs(users []UserView) []int64 {
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

package application

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"access-console/internal/domain"
)

func sampleViews() []UserView {
	return []UserView{
		{User: domain.User{ID: 1, Name: "Alice", Email: "alice@example.com", Status: domain.StatusActive}, Role: "Admin"},
		{User: domain.User{ID: 2, Name: "Bob", Email: "bob@example.com", Status: domain.StatusInactive}, Role: "Viewer"},
		{User: domain.User{ID: 3, Name: "Carol", Email: "carol@corp.test", Status: domain.StatusActive}, Role: "Editor"},
	}
}

func names(users []UserView) []string {
	out := []string{}
	for _, u := range users {
		out = append(out, u.Name)
	}
	return out
}

func TestFilterUsers(t *testing.T) {
	users := sampleViews()[:2]

	assert.Equal(t, []string{"Alice"}, names(FilterUsers(users, Filter{Query: "ali"})))
	assert.Equal(t, []string{"Bob"}, names(FilterUsers(users, Filter{Roles: []string{"Viewer"}})))
}

func TestFilterUsers_EmptyFilterMatchesAll(t *testing.T) {
	users := sampleViews()

	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, names(FilterUsers(users, Filter{})))
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, names(FilterUsers(users, Filter{Roles: []string{}, Statuses: []domain.Status{}})))
}

func TestFilterUsers_QueryMatchesEmailAndRoleCaseInsensitively(t *testing.T) {
	users := sampleViews()

	assert.Equal(t, []string{"Carol"}, names(FilterUsers(users, Filter{Query: "CORP"})))
	assert.Equal(t, []string{"Carol"}, names(FilterUsers(users, Filter{Query: "editor"})))
	assert.Equal(t, []string{"Alice", "Bob"}, names(FilterUsers(users, Filter{Query: "EXAMPLE.com"})))
	assert.Empty(t, FilterUsers(users, Filter{Query: "nobody"}))
}

func TestFilterUsers_CombinesFilters(t *testing.T) {
	users := sampleViews()

	got := FilterUsers(users, Filter{Roles: []string{"Admin", "Editor"}, Statuses: []domain.Status{domain.StatusActive}})
	assert.Equal(t, []string{"Alice", "Carol"}, names(got))

	got = FilterUsers(users, Filter{Query: "o", Statuses: []domain.Status{domain.StatusInactive}})
	assert.Equal(t, []string{"Bob"}, names(got))

	got = FilterUsers(users, Filter{Query: "alice", Roles: []string{"Viewer"}})
	assert.Empty(t, got)
}

func TestToggleSelection(t *testing.T) {
	selected := NewIDSet(1)

	next := ToggleSelection(selected, 2, true)
	assert.Equal(t, []int64{1, 2}, next.Sorted())
	assert.Equal(t, []int64{1}, selected.Sorted(), "input set must not change")

	next = ToggleSelection(next, 2, true)
	assert.Equal(t, []int64{1, 2}, next.Sorted())

	next = ToggleSelection(next, 1, false)
	next = ToggleSelection(next, 9, false)
	assert.Equal(t, []int64{2}, next.Sorted())

	assert.Equal(t, []int64{5}, ToggleSelection(nil, 5, true).Sorted())
}

func TestSelectAll(t *testing.T) {
	filtered := []int64{1, 2, 3}

	assert.Empty(t, SelectAll(filtered, NewIDSet(1, 2, 3)))
	assert.Equal(t, []int64{1, 2, 3}, SelectAll(filtered, NewIDSet(1)).Sorted())
	assert.Equal(t, []int64{1, 2, 3}, SelectAll(filtered, nil).Sorted())
}

func TestSelectAll_StaleSelectionIsReplaced(t *testing.T) {
	filtered := []int64{1, 2}

	got := SelectAll(filtered, NewIDSet(1, 2, 7))

	assert.Equal(t, []int64{1, 2}, got.Sorted())
	assert.Empty(t, SelectAll(filtered, got))
}

package seed

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"access-console/internal/domain"
)

var refTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestDefaultProvider(t *testing.T) {
	ds, err := DefaultProvider{}.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, ds.Roles, 3)
	require.Len(t, ds.Users, 4)
	assert.Equal(t, "Administrator", ds.Roles[0].Name)
	assert.Equal(t, domain.AllPermissions, ds.Roles[0].Permissions)
	assert.Equal(t, int64(3), ds.Users[3].RoleID)
}

func TestRandomProvider_IsDeterministic(t *testing.T) {
	p := RandomProvider{Count: 20, Seed: 42, Now: func() time.Time { return refTime }}

	first, err := p.Load(context.Background())
	require.NoError(t, err)
	second, err := p.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first.Users, 20)
	assert.Equal(t, "User 20", first.Users[19].Name)
	assert.Equal(t, "user20@example.com", first.Users[19].Email)
	for _, u := range first.Users {
		assert.True(t, u.RoleID >= 1 && u.RoleID <= 3)
		assert.Contains(t, []domain.Status{domain.StatusActive, domain.StatusInactive}, u.Status)
		assert.False(t, u.LastActive.After(refTime))
		assert.True(t, u.LastActive.After(refTime.Add(-lastActiveWindow-time.Second)))
	}
}

func TestRandomProvider_DifferentSeedsDiffer(t *testing.T) {
	now := func() time.Time { return refTime }
	a, err := RandomProvider{Count: 20, Seed: 1, Now: now}.Load(context.Background())
	require.NoError(t, err)
	b, err := RandomProvider{Count: 20, Seed: 2, Now: now}.Load(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, a.Users, b.Users)
}

func TestRandomProvider_RejectsNegativeCount(t *testing.T) {
	_, err := RandomProvider{Count: -1}.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFileProvider_RoundTripsEncodedDataset(t *testing.T) {
	ds, err := DefaultProvider{}.Load(context.Background())
	require.NoError(t, err)
	ds.Users[0].LastActive = refTime

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, ds))
	assert.Contains(t, buf.String(), "role_id: 1")

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	got, err := FileProvider{Path: path}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ds.Roles, got.Roles)
	require.Len(t, got.Users, 4)
	assert.True(t, refTime.Equal(got.Users[0].LastActive))
	assert.Equal(t, "Alice Brown", got.Users[3].Name)
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader("roles:\n  - id: 1\n    name: A\n    colour: red\n"))
	assert.Error(t, err)
}

func TestDecode_EmptyDocument(t *testing.T) {
	ds, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, ds.Roles)
}

func TestFileProvider_MissingFile(t *testing.T) {
	_, err := FileProvider{Path: filepath.Join(t.TempDir(), "nope.yaml")}.Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

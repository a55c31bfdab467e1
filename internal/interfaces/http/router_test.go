package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adaptermiddleware "access-console/internal/adapters/http/middleware"
	"access-console/internal/adapters/metrics"
	"access-console/internal/application"
	"access-console/internal/infrastructure/auth"
	"access-console/internal/infrastructure/memory"
	"access-console/internal/infrastructure/seed"
	"access-console/internal/ports"
)

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Debug(context.Context, string, ...any) {}

func stores() (ports.RoleRepository, ports.UserRepository) {
	return memory.NewRoleStore(nil), memory.NewUserStore(nil)
}

func newTestServer(t *testing.T, m Middleware) *echo.Echo {
	t.Helper()
	registry := application.NewSessionRegistry(stores, seed.DefaultProvider{}, nopLogger{}, metrics.New(), nil)
	h := Handlers{
		Sessions:  NewSessionsHandler(registry),
		Roles:     NewRolesHandler(registry),
		Users:     NewUsersHandler(registry, nopLogger{}),
		Selection: NewSelectionHandler(registry),
	}
	return NewRouter(h, nil, m)
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *stdhttp.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func openSession(t *testing.T, e *echo.Echo) string {
	t.Helper()
	rec := do(e, stdhttp.MethodPost, "/sessions", "")
	require.Equal(t, stdhttp.StatusCreated, rec.Code)
	out := decode[map[string]any](t, rec)
	sid, _ := out["id"].(string)
	require.NotEmpty(t, sid)
	return "/sessions/" + sid
}

func TestRouter_UsersLifecycle(t *testing.T) {
	e := newTestServer(t, Middleware{})
	base := openSession(t, e)

	rec := do(e, stdhttp.MethodGet, base+"/users", "")
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 4)

	rec = do(e, stdhttp.MethodPost, base+"/users", `{"name":"Eve","email":"eve@example.com","role_id":3}`)
	require.Equal(t, stdhttp.StatusCreated, rec.Code)
	created := decode[map[string]any](t, rec)
	assert.Equal(t, "User added successfully", created["notice"])
	user := created["user"].(map[string]any)
	assert.EqualValues(t, 5, user["id"])
	assert.Equal(t, "Active", user["status"])

	rec = do(e, stdhttp.MethodPut, base+"/users/5/role", `{"role_id":2}`)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.EqualValues(t, 2, decode[map[string]any](t, rec)["role_id"])

	rec = do(e, stdhttp.MethodDelete, base+"/users/5", "")
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, "User deleted successfully", decode[map[string]string](t, rec)["notice"])

	rec = do(e, stdhttp.MethodDelete, base+"/users/5", "")
	assert.Equal(t, stdhttp.StatusNotFound, rec.Code)
}

func TestRouter_AddUserValidation(t *testing.T) {
	e := newTestServer(t, Middleware{})
	base := openSession(t, e)

	rec := do(e, stdhttp.MethodPost, base+"/users", `{"name":"","email":"x@example.com","role_id":1}`)
	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)

	rec = do(e, stdhttp.MethodPost, base+"/users", `{"name":"X","email":"x@example.com","role_id":42}`)
	assert.Equal(t, stdhttp.StatusNotFound, rec.Code)

	rec = do(e, stdhttp.MethodPost, base+"/users", `{not json`)
	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)

	rec = do(e, stdhttp.MethodGet, base+"/users", "")
	assert.Len(t, decode[[]map[string]any](t, rec), 4)
}

func TestRouter_ListUsersAppliesFilters(t *testing.T) {
	e := newTestServer(t, Middleware{})
	base := openSession(t, e)

	rec := do(e, stdhttp.MethodGet, base+"/users?role=Administrator", "")
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 2)

	rec = do(e, stdhttp.MethodGet, base+"/users?q=ALICE", "")
	users := decode[[]map[string]any](t, rec)
	require.Len(t, users, 1)
	assert.Equal(t, "Viewer", users[0]["role"])

	rec = do(e, stdhttp.MethodGet, base+"/users?status=Inactive", "")
	assert.Empty(t, decode[[]map[string]any](t, rec))

	rec = do(e, stdhttp.MethodGet, base+"/users?status=Sleeping", "")
	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
}

func TestRouter_RolesAndPermissions(t *testing.T) {
	e := newTestServer(t, Middleware{})
	base := openSession(t, e)

	rec := do(e, stdhttp.MethodPost, base+"/roles", `{"name":"Auditor","description":"Reads logs","permissions":["read"]}`)
	require.Equal(t, stdhttp.StatusCreated, rec.Code)
	assert.Equal(t, "Role created successfully", decode[map[string]any](t, rec)["notice"])

	rec = do(e, stdhttp.MethodPost, base+"/roles", `{"name":"Empty","description":"none","permissions":[]}`)
	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)

	rec = do(e, stdhttp.MethodPut, base+"/roles/4/permissions/update", `{"granted":true}`)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, []any{"read", "update"}, decode[map[string]any](t, rec)["permissions"])

	rec = do(e, stdhttp.MethodPut, base+"/roles/4/permissions/admin", `{"granted":true}`)
	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)

	rec = do(e, stdhttp.MethodGet, base+"/roles/counts", "")
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	counts := decode[map[string]int](t, rec)
	assert.Equal(t, map[string]int{"1": 2, "2": 1, "3": 1, "4": 0}, counts)

	rec = do(e, stdhttp.MethodGet, base+"/roles/1/members", "")
	assert.Len(t, decode[[]map[string]any](t, rec), 2)

	rec = do(e, stdhttp.MethodGet, base+"/permissions", "")
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	matrix := decode[map[string]any](t, rec)
	assert.Len(t, matrix["roles"], 4)

	rec = do(e, stdhttp.MethodPut, base+"/roles/4", `{"name":"Auditors","description":"Reads everything"}`)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, "Auditors", decode[map[string]any](t, rec)["name"])
}

func TestRouter_DeleteRole(t *testing.T) {
	e := newTestServer(t, Middleware{})
	base := openSession(t, e)

	rec := do(e, stdhttp.MethodDelete, base+"/roles/3", "")
	assert.Equal(t, stdhttp.StatusConflict, rec.Code)

	rec = do(e, stdhttp.MethodDelete, base+"/roles/3?reassign_to=abc", "")
	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)

	rec = do(e, stdhttp.MethodDelete, base+"/roles/3?reassign_to=2", "")
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, map[string]int{"reassigned": 1}, decode[map[string]int](t, rec))

	rec = do(e, stdhttp.MethodGet, base+"/roles/2/members", "")
	assert.Len(t, decode[[]map[string]any](t, rec), 2)

	rec = do(e, stdhttp.MethodGet, base+"/roles/3/members", "")
	assert.Equal(t, stdhttp.StatusNotFound, rec.Code)
}

func TestRouter_SelectionAndBulkDelete(t *testing.T) {
	e := newTestServer(t, Middleware{})
	base := openSession(t, e)

	do(e, stdhttp.MethodGet, base+"/users?role=Administrator", "")

	rec := do(e, stdhttp.MethodPost, base+"/selection/all", "")
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, map[string][]int64{"selected": {1, 2}}, decode[map[string][]int64](t, rec))

	rec = do(e, stdhttp.MethodPost, base+"/selection/toggle", `{"user_id":2,"included":false}`)
	assert.Equal(t, map[string][]int64{"selected": {1}}, decode[map[string][]int64](t, rec))

	rec = do(e, stdhttp.MethodPost, base+"/selection/toggle", `{"user_id":4,"included":true}`)
	assert.Equal(t, map[string][]int64{"selected": {1, 4}}, decode[map[string][]int64](t, rec))

	rec = do(e, stdhttp.MethodDelete, base+"/selection", "")
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	out := decode[map[string]any](t, rec)
	assert.EqualValues(t, 2, out["deleted"])
	assert.Equal(t, "2 users deleted successfully", out["notice"])

	rec = do(e, stdhttp.MethodGet, base+"/users", "")
	assert.Len(t, decode[[]map[string]any](t, rec), 2)
}

func TestRouter_UnknownSessionIsNotFound(t *testing.T) {
	e := newTestServer(t, Middleware{})

	rec := do(e, stdhttp.MethodGet, "/sessions/nope/users", "")
	assert.Equal(t, stdhttp.StatusNotFound, rec.Code)

	rec = do(e, stdhttp.MethodDelete, "/sessions/nope", "")
	assert.Equal(t, stdhttp.StatusNotFound, rec.Code)
}

func TestRouter_ClosedSessionIsGone(t *testing.T) {
	e := newTestServer(t, Middleware{})
	base := openSession(t, e)

	rec := do(e, stdhttp.MethodDelete, base, "")
	require.Equal(t, stdhttp.StatusNoContent, rec.Code)

	rec = do(e, stdhttp.MethodGet, base+"/roles", "")
	assert.Equal(t, stdhttp.StatusNotFound, rec.Code)
}

func TestRouter_JWTGuardsSessionsOnly(t *testing.T) {
	authMW, err := adaptermiddleware.AuthMiddleware(adaptermiddleware.ModeJWT, auth.NewJWTMiddleware("s3cret").Handler)
	require.NoError(t, err)
	e := newTestServer(t, Middleware{Auth: authMW})

	rec := do(e, stdhttp.MethodPost, "/sessions", "")
	assert.Equal(t, stdhttp.StatusUnauthorized, rec.Code)

	rec = do(e, stdhttp.MethodGet, "/healthz", "")
	assert.Equal(t, stdhttp.StatusOK, rec.Code)

	token, err := auth.IssueToken("s3cret", "ops", time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(stdhttp.MethodPost, "/sessions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, stdhttp.StatusCreated, rec.Code)
}

func TestRouter_SecureHeaders(t *testing.T) {
	e := newTestServer(t, Middleware{SecureHeaders: adaptermiddleware.SecureHeaders()})

	rec := do(e, stdhttp.MethodGet, "/healthz", "")

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

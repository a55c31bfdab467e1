package http

import (
	"errors"
	"fmt"
	stdhttp "net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"access-console/internal/application"
	"access-console/internal/domain"
	"access-console/internal/ports"
)

func handleError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.JSON(stdhttp.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(stdhttp.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.JSON(stdhttp.StatusConflict, map[string]string{"error": err.Error()})
	default:
		return c.JSON(stdhttp.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, domain.Invalid("%s must be an integer", name)
	}
	return id, nil
}

func session(c echo.Context, sessions *application.SessionRegistry) (*application.Session, error) {
	return sessions.Get(c.Param("sid"))
}

type SessionsHandler struct {
	sessions *application.SessionRegistry
}

func NewSessionsHandler(sessions *application.SessionRegistry) *SessionsHandler {
	return &SessionsHandler{sessions: sessions}
}

func (h *SessionsHandler) Open(c echo.Context) error {
	sess, err := h.sessions.Open(c.Request().Context())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(stdhttp.StatusCreated, map[string]any{"id": sess.ID, "created_at": sess.CreatedAt})
}

func (h *SessionsHandler) Close(c echo.Context) error {
	if err := h.sessions.Close(c.Request().Context(), c.Param("sid")); err != nil {
		return handleError(c, err)
	}
	return c.NoContent(stdhttp.StatusNoContent)
}

type RolesHandler struct {
	sessions *application.SessionRegistry
}

func NewRolesHandler(sessions *application.SessionRegistry) *RolesHandler {
	return &RolesHandler{sessions: sessions}
}

func (h *RolesHandler) List(c echo.Context) error {
	sess, err := session(c, h.sessions)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(stdhttp.StatusOK, sess.Model().ListRoles())
}

func (h *RolesHandler) Create(c echo.Context) error {
	sess, err := session(c, h.sessions)
	if err != nil {
		return handleError(c, err)
	}
	var req application.CreateRoleInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(stdhttp.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	role, err := sess.Model().CreateRole(c.Request().Context(), req)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(stdhttp.StatusCreated, map[string]any{"role": role, "notice": "Role created successfully"})
}

func (h *RolesHandler) Update(c echo.Context) error {
	sess, err := session(c, h.sessions)
	if err != nil {
		return handleError(c, err)
	}
	roleID, err := pathID(c, "role_id")
	if err != nil {
		return handleError(c, err)
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(stdhttp.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	role, err := sess.Model().UpdateRole(c.Request().Context(), roleID, req.Name, req.Description)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(stdhttp.StatusOK, role)
}

// Delete removes a role. Members block the deletion unless reassign_to names
// the role they should move to.
func (h *RolesHandler) Delete(c echo.Context) error {
	sess, err := session(c, h.sessions)
	if err != nil {
		return handleError(c, err)
	}
	roleID, err := pathID(c, "role_id")
	if err != nil {
		return handleError(c, err)
	}
	var reassignTo *int64
	if raw := c.QueryParam("reassign_to"); raw != "" {
		target, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return handleError(c, domain.Invalid("reassign_to must be an integer"))
		}
		reassignTo = &target
	}
	moved, err := sess.Model().DeleteRole(c.Request().Context(), roleID, reassignTo)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(stdhttp.StatusOK, map[string]int{"reassigned": moved})
}

func (h *RolesHandler) Counts(c echo.Context) error {
	sess, err := session(c, h.sessions)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(stdhttp.StatusOK, sess.Model().RoleCounts())
}

func (h *RolesHandler) Members(c echo.Context) error {
	sess, err := session(c, h.sessions)
	if err != nil {
		return handleError(c, err)
	}
	roleID, err := pathID(c, "role_id")
	if err != nil {
		return handleError(c, err)
	}
	members, err := sess.Model().MembersOf(roleID)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(stdhttp.StatusOK, members)
}

func (h *RolesHandler) SetPermission(c echo.Context) error {
	sess, err := session(c, h.sessions)
	if err != nil {
		return handleError(c, err)
	}
	roleID, err := pathID(c, "role_id")
	if err != nil {
		return handleError(c, err)
	}
	var req struct {
		Granted *bool `json:"granted"`
	}
	if err := c.Bind(&req); err != nil || req.Granted == nil {
		return c.JSON(stdhttp.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	role, err := sess.Model().SetRolePermission(c.Request().Context(), roleID, domain.Permission(c.Param("permission")), *req.Granted)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(stdhttp.StatusOK, role)
}

func (h *RolesHandler) Matrix(c echo.Context) error {
	sess, err := session(c, h.sessions)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(stdhttp.StatusOK, map[string]any{
		"permissions": domain.AllPermissions,
		"roles":       sess.Model().PermissionMatrix(),
	})
}

type UsersHandler struct {
	sessions *application.SessionRegistry
	logger   ports.Logger
}

func NewUsersHandler(sessions *application.SessionRegistry, logger ports.Logger) *UsersHandler {
	return &UsersHandler{sessions: sessions, logger: logger}
}

// List applies the q, role and status query parameters as the session's
// filter and returns the matching users.
func (h *UsersHandler) List(c echo.Context) error {
	sess, err := session(c, h.sessions)
	if err != nil {
		return handleError(c, err)
	}
	params := c.QueryParams()
	filter := application.Filter{Query: params.Get("q"), Roles: params["role"]}
	for _, raw := range params["status"] {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return handleError(c, err)
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	users := sess.ApplyFilter(filter)
	h.logger.Debug(c.Request().Context(), "users filtered", "session_id", sess.ID, "matches", len(users))
	return c.JSON(stdhttp.StatusOK, users)
}

func (h *UsersHandler) Create(c echo.Context) error {
	sess, err := session(c, h.sessions)
	if err != nil {
		return handleError(c, err)
	}
	var req application.AddUserInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(stdhttp.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	user, err := sess.Model().AddUser(c.Request().Context(), req)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(stdhttp.StatusCreated, map[string]any{"user": user, "notice": "User added successfully"})
}

func (h *UsersHandler) Delete(c echo.Context) error {
	sess, err := session(c, h.sessions)
	if err != nil {
		return handleError(c, err)
	}
	userID, err := pathID(c, "user_id")
	if err != nil {
		return handleError(c, err)
	}
	if err := sess.Model().RemoveUser(c.Request().Context(), userID); err != nil {
		return handleError(c, err)
	}
	return c.JSON(stdhttp.StatusOK, map[string]string{"notice": "User deleted successfully"})
}

func (h *UsersHandler) AssignRole(c echo.Context) error {
	sess, err := session(c, h.sessions)
	if err != nil {
		return handleError(c, err)
	}
	userID, err := pathID(c, "user_id")
	if err != nil {
		return handleError(c, err)
	}
	var req struct {
		RoleID int64 `json:"role_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(stdhttp.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	user, err := sess.Model().ReassignUser(c.Request().Context(), userID, req.RoleID)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(stdhttp.StatusOK, user)
}

type SelectionHandler struct {
	sessions *application.SessionRegistry
}

func NewSelectionHandler(sessions *application.SessionRegistry) *SelectionHandler {
	return &SelectionHandler{sessions: sessions}
}

func (h *SelectionHandler) Toggle(c echo.Context) error {
	sess, err := session(c, h.sessions)
	if err != nil {
		return handleError(c, err)
	}
	var req struct {
		UserID   int64 `json:"user_id"`
		Included bool  `json:"included"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(stdhttp.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	return c.JSON(stdhttp.StatusOK, map[string][]int64{"selected": sess.Toggle(req.UserID, req.Included)})
}

func (h *SelectionHandler) All(c echo.Context) error {
	sess, err := session(c, h.sessions)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(stdhttp.StatusOK, map[string][]int64{"selected": sess.SelectAll()})
}

func (h *SelectionHandler) Delete(c echo.Context) error {
	sess, err := session(c, h.sessions)
	if err != nil {
		return handleError(c, err)
	}
	removed := sess.DeleteSelected(c.Request().Context())
	return c.JSON(stdhttp.StatusOK, map[string]any{
		"deleted": removed,
		"notice":  fmt.Sprintf("%d users deleted successfully", removed),
	})
}

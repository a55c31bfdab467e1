package http

import (
	stdhttp "net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Middleware struct {
	Auth          echo.MiddlewareFunc
	XRay          echo.MiddlewareFunc
	RequestLogger echo.MiddlewareFunc
	SecureHeaders echo.MiddlewareFunc
}

type Handlers struct {
	Sessions  *SessionsHandler
	Roles     *RolesHandler
	Users     *UsersHandler
	Selection *SelectionHandler
}

func newEcho(m Middleware) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	for _, mw := range []echo.MiddlewareFunc{m.XRay, m.RequestLogger, m.SecureHeaders} {
		if mw != nil {
			e.Use(mw)
		}
	}
	return e
}

// NewRouter mounts the console API. Metrics and the health check stay
// outside the auth guard.
func NewRouter(h Handlers, metrics stdhttp.Handler, m Middleware) *echo.Echo {
	e := newEcho(m)
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(stdhttp.StatusOK, map[string]string{"status": "ok"})
	})
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}

	sessions := e.Group("/sessions")
	if m.Auth != nil {
		sessions.Use(m.Auth)
	}
	sessions.POST("", h.Sessions.Open)
	sessions.DELETE("/:sid", h.Sessions.Close)

	s := sessions.Group("/:sid")
	s.GET("/roles", h.Roles.List)
	s.POST("/roles", h.Roles.Create)
	s.GET("/roles/counts", h.Roles.Counts)
	s.PUT("/roles/:role_id", h.Roles.Update)
	s.DELETE("/roles/:role_id", h.Roles.Delete)
	s.GET("/roles/:role_id/members", h.Roles.Members)
	s.PUT("/roles/:role_id/permissions/:permission", h.Roles.SetPermission)
	s.GET("/permissions", h.Roles.Matrix)

	s.GET("/users", h.Users.List)
	s.POST("/users", h.Users.Create)
	s.DELETE("/users/:user_id", h.Users.Delete)
	s.PUT("/users/:user_id/role", h.Users.AssignRole)

	s.POST("/selection/toggle", h.Selection.Toggle)
	s.POST("/selection/all", h.Selection.All)
	s.DELETE("/selection", h.Selection.Delete)
	return e
}

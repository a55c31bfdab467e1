package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type Mode string

const (
	ModeNone Mode = "none"
	ModeJWT  Mode = "jwt"
)

func ParseAuthMode(raw string) (Mode, error) {
	mode := Mode(strings.ToLower(strings.TrimSpace(raw)))
	switch mode {
	case "":
		return ModeNone, nil
	case ModeNone, ModeJWT:
		return mode, nil
	default:
		return "", errors.New("invalid auth mode")
	}
}

// AuthMiddleware guards the console API. In jwt mode every request goes
// through the supplied token verifier.
func AuthMiddleware(mode Mode, verifier echo.MiddlewareFunc) (echo.MiddlewareFunc, error) {
	if mode == ModeJWT && verifier == nil {
		return nil, errors.New("jwt verifier is required when AUTH_MODE=jwt")
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch mode {
			case ModeNone:
				return next(c)
			case ModeJWT:
				return verifier(next)(c)
			default:
				return echo.NewHTTPError(http.StatusInternalServerError, "invalid auth mode")
			}
		}
	}, nil
}

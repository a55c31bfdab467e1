package middleware

import (
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/labstack/echo/v4"
)

// XRayMiddleware opens one segment per console request. The segment is
// annotated with the session id when the route carries one and is closed with
// the handler's error.
func XRayMiddleware(segmentName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, seg := xray.BeginSegment(c.Request().Context(), segmentName)
			if sid := c.Param("sid"); sid != "" {
				_ = seg.AddAnnotation("session_id", sid)
			}
			if route := c.Path(); route != "" {
				_ = seg.AddAnnotation("route", route)
			}
			c.SetRequest(c.Request().WithContext(ctx))
			err := next(c)
			seg.Close(err)
			return err
		}
	}
}

package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/online_course/pkg/logging"
)

const RoleAdmin = "admin"

const (
	msgAuthRequired  = "인증이 필요합니다."
	msgNotEnoughRole = "관리자 권한이 필요합니다."
)

// RequireRole lets the request through only when the session user carries
// role. It must run after the session middleware.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := UserFromContext(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, msgAuthRequired)
			}
			if u.Role != role {
				logging.FromContext(c.Request().Context()).Info("role_denied", "user_id", u.ID, "want", role, "got", u.Role)
				return echo.NewHTTPError(http.StatusForbidden, msgNotEnoughRole)
			}
			return next(c)
		}
	}
}

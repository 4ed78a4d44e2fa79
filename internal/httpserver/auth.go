package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/online_course/internal/events"
	"github.com/Skotchmaster/online_course/internal/middleware"
	"github.com/Skotchmaster/online_course/internal/transport"
	"github.com/Skotchmaster/online_course/pkg/authclient"
	"github.com/Skotchmaster/online_course/pkg/cookies"
	"github.com/Skotchmaster/online_course/pkg/logging"
)

type SignOuter interface {
	SignOut(ctx context.Context, accessToken string) error
}

type AuthHTTP struct {
	Auth         SignOuter
	Events       events.Publisher
	CookieSecure bool
}

func (h *AuthHTTP) LogOut(c echo.Context) (err error) {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	defer func() {
		if r := recover(); r != nil {
			l.Error("logout_failed", "status", 500, "reason", "panic", "panic", r)
			err = c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Error: msgLogoutFailed})
		}
	}()

	var access string
	if ck, err := c.Cookie(cookies.AccessToken); err == nil {
		access = ck.Value
	}

	if err := h.Auth.SignOut(ctx, access); err != nil {
		if apiErr, rejected := authclient.IsAPIError(err); rejected {
			l.Warn("logout_failed", "status", 400, "reason", "provider rejected sign out", "error", err)
			return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: apiErr.Message})
		}
		l.Error("logout_failed", "status", 500, "reason", "cannot reach auth provider", "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Error: msgLogoutFailed})
	}

	c.SetCookie(cookies.Delete(cookies.AccessToken, "/", h.CookieSecure))
	c.SetCookie(cookies.Delete(cookies.RefreshToken, "/", h.CookieSecure))

	if user, ok := middleware.UserFromContext(c); ok {
		publish(ctx, h.Events, events.Event{Type: events.TypeUserLoggedOut, UserID: user.ID})
	}

	l.Info("successful_logout")
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: msgLoggedOut})
}

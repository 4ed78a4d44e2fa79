package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/online_course/internal/session"
	"github.com/Skotchmaster/online_course/pkg/cookies"
	"github.com/Skotchmaster/online_course/pkg/logging"
)

const (
	CtxUser = "user"

	LoginPath   = "/login"
	LandingPath = "/courses"
)

type SessionRefresher interface {
	Refresh(ctx context.Context, req *http.Request) (session.Outcome, error)
}

type SessionMiddleware struct {
	Refresher SessionRefresher
}

func NewSessionMiddleware(r SessionRefresher) *SessionMiddleware {
	return &SessionMiddleware{Refresher: r}
}

func (m *SessionMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		l := logging.FromContext(req.Context())

		// Nothing may run between the refresh and applying its cookies.
		out, err := m.Refresher.Refresh(req.Context(), req)
		cookies.ApplyToRequest(req, out.Cookies)
		for _, ck := range out.Cookies {
			c.SetCookie(ck)
		}
		if err != nil {
			l.Debug("session_refresh_failed", "error", err)
		}

		path := req.URL.Path
		switch session.Classify(path) {
		case session.Protected:
			if out.User == nil {
				l.Info("session_redirect", "reason", "unauthenticated", "to", LoginPath)
				return c.Redirect(http.StatusTemporaryRedirect, redirectURL(req, LoginPath, path))
			}
		case session.AuthOnly:
			if out.User != nil {
				return c.Redirect(http.StatusTemporaryRedirect, redirectURL(req, LandingPath, ""))
			}
		}

		if out.User != nil {
			c.Set(CtxUser, out.User)
			ctx := session.WithUser(req.Context(), out.User)
			ctx = logging.IntoContext(ctx, l.With("user_id", out.User.ID))
			c.SetRequest(req.WithContext(ctx))
		}

		return next(c)
	}
}

// redirectURL keeps the original query string, swaps the path and, when
// returnTo is set, records it as redirectTo.
func redirectURL(req *http.Request, path, returnTo string) string {
	u := *req.URL
	u.Scheme, u.Host, u.User = "", "", nil
	u.Path, u.RawPath = path, ""
	if returnTo != "" {
		q := u.Query()
		q.Set("redirectTo", returnTo)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// UserFromContext returns the user the session middleware resolved.
func UserFromContext(c echo.Context) (*session.User, bool) {
	if u, ok := c.Get(CtxUser).(*session.User); ok && u != nil {
		return u, true
	}
	return session.UserFrom(c.Request().Context())
}

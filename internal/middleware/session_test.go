package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/online_course/internal/session"
	"github.com/Skotchmaster/online_course/pkg/cookies"
)

type fakeRefresher struct {
	out session.Outcome
	err error
}

func (f fakeRefresher) Refresh(context.Context, *http.Request) (session.Outcome, error) {
	return f.out, f.err
}

func run(t *testing.T, r SessionRefresher, target string, reqCookies ...*http.Cookie) (*httptest.ResponseRecorder, *http.Request, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range reqCookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var (
		seen   *http.Request
		called bool
	)
	h := NewSessionMiddleware(r).Handle(func(c echo.Context) error {
		called = true
		seen = c.Request()
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, seen, called
}

func TestSession_ProtectedRedirectsToLogin(t *testing.T) {
	t.Parallel()

	rec, _, called := run(t, fakeRefresher{}, "/courses/abc?tab=videos")
	assert.False(t, called)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)

	loc, err := url.Parse(rec.Header().Get(echo.HeaderLocation))
	require.NoError(t, err)
	assert.Equal(t, LoginPath, loc.Path)
	assert.Equal(t, "/courses/abc", loc.Query().Get("redirectTo"))
	assert.Equal(t, "videos", loc.Query().Get("tab"))
}

func TestSession_AuthOnlyRedirectsSignedInUser(t *testing.T) {
	t.Parallel()

	r := fakeRefresher{out: session.Outcome{User: &session.User{ID: "u1"}}}
	rec, _, called := run(t, r, "/login?next=1")
	assert.False(t, called)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)

	loc, err := url.Parse(rec.Header().Get(echo.HeaderLocation))
	require.NoError(t, err)
	assert.Equal(t, LandingPath, loc.Path)
	assert.Equal(t, "1", loc.Query().Get("next"))
	assert.Empty(t, loc.Query().Get("redirectTo"))
}

func TestSession_AnonymousOnPublicAndAuthOnly(t *testing.T) {
	t.Parallel()

	for _, target := range []string{"/", "/login", "/signup", "/health/live"} {
		rec, _, called := run(t, fakeRefresher{}, target)
		assert.True(t, called, target)
		assert.Equal(t, http.StatusOK, rec.Code, target)
	}
}

func TestSession_PropagatesCookiesAndUser(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour)
	r := fakeRefresher{out: session.Outcome{
		User: &session.User{ID: "u1"},
		Cookies: []*http.Cookie{
			cookies.Create(cookies.AccessToken, "new-access", "/", exp, true),
			cookies.Create(cookies.RefreshToken, "new-refresh", "/", exp, true),
		},
	}}

	rec, seen, called := run(t, r, "/api/courses",
		&http.Cookie{Name: cookies.AccessToken, Value: "old-access"},
		&http.Cookie{Name: "theme", Value: "dark"},
	)
	require.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)

	ck, err := seen.Cookie(cookies.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "new-access", ck.Value)
	ck, err = seen.Cookie(cookies.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "new-refresh", ck.Value)
	ck, err = seen.Cookie("theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", ck.Value)

	set := rec.Result().Cookies()
	require.Len(t, set, 2)
	assert.Equal(t, cookies.AccessToken, set[0].Name)
	assert.Equal(t, "new-access", set[0].Value)

	u, ok := session.UserFrom(seen.Context())
	require.True(t, ok)
	assert.Equal(t, "u1", u.ID)
}

func TestSession_ClearedCookiesOnFailure(t *testing.T) {
	t.Parallel()

	r := fakeRefresher{
		out: session.Outcome{Cookies: []*http.Cookie{
			cookies.Delete(cookies.AccessToken, "/", true),
			cookies.Delete(cookies.RefreshToken, "/", true),
		}},
		err: errors.New("token is expired"),
	}

	rec, _, called := run(t, r, "/api/videos/v1", &http.Cookie{Name: cookies.AccessToken, Value: "stale"})
	assert.False(t, called)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)

	set := rec.Result().Cookies()
	require.Len(t, set, 2)
	for _, c := range set {
		assert.Empty(t, c.Value)
		assert.Equal(t, -1, c.MaxAge)
	}
}

func TestUserFromContext(t *testing.T) {
	t.Parallel()

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, ok := UserFromContext(c)
	assert.False(t, ok)

	c.Set(CtxUser, &session.User{ID: "u2"})
	u, ok := UserFromContext(c)
	require.True(t, ok)
	assert.Equal(t, "u2", u.ID)
}

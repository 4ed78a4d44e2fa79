package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/online_course/pkg/authclient"
	"github.com/Skotchmaster/online_course/pkg/cookies"
	"github.com/Skotchmaster/online_course/pkg/tokens"
)

// refreshCookieTTL bounds how long the browser keeps the refresh token; the
// provider decides whether it is still usable.
const refreshCookieTTL = 30 * 24 * time.Hour

type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Provider is the part of the hosted auth API the refresher needs.
type Provider interface {
	GetUser(ctx context.Context, accessToken string) (*authclient.User, error)
	RefreshSession(ctx context.Context, refreshToken string) (*authclient.Session, error)
}

// Outcome is the result of one refresh pass: who the caller is and which
// cookie mutations must be applied to both request and response.
type Outcome struct {
	User    *User
	Cookies []*http.Cookie
}

type Refresher struct {
	Provider     Provider
	JWTSecret    []byte
	CookieSecure bool
	Now          func() time.Time
}

var (
	ErrInvalidSubject = errors.New("token subject is not a user id")
	ErrInvalidToken   = errors.New("invalid access token")
)

func (r *Refresher) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Refresh revalidates the session carried by req. It never touches req or
// any response; the caller applies Outcome.Cookies. A non-nil error always
// comes with an anonymous outcome. Session cookies are cleared only when the
// session was rejected; a provider that cannot be reached leaves them alone.
func (r *Refresher) Refresh(ctx context.Context, req *http.Request) (Outcome, error) {
	access := cookieValue(req, cookies.AccessToken)
	refresh := cookieValue(req, cookies.RefreshToken)

	if access == "" && refresh == "" {
		return Outcome{}, nil
	}

	var verifyErr error
	if access != "" {
		user, err := r.verify(ctx, access)
		if err == nil {
			return Outcome{User: user}, nil
		}
		verifyErr = err
	}

	if refresh == "" {
		return r.fail(fmt.Errorf("verify access token: %w", verifyErr))
	}

	sess, err := r.Provider.RefreshSession(ctx, refresh)
	if err != nil {
		return r.fail(fmt.Errorf("refresh session: %w", err))
	}

	now := r.now()
	mutations := []*http.Cookie{
		cookies.Create(cookies.AccessToken, sess.AccessToken, "/", sess.AccessExpiry(now), r.CookieSecure),
		cookies.Create(cookies.RefreshToken, sess.RefreshToken, "/", now.Add(refreshCookieTTL), r.CookieSecure),
	}

	user, err := r.userFromSession(ctx, sess)
	if err != nil {
		return r.fail(fmt.Errorf("verify refreshed token: %w", err))
	}
	return Outcome{User: user, Cookies: mutations}, nil
}

func (r *Refresher) fail(err error) (Outcome, error) {
	if rejected(err) {
		return Outcome{Cookies: r.clear()}, err
	}
	return Outcome{}, err
}

// rejected reports whether err means the session itself is bad, as opposed
// to the provider being unreachable or answering garbage.
func rejected(err error) bool {
	if _, ok := authclient.IsAPIError(err); ok {
		return true
	}
	return errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrInvalidSubject) ||
		errors.Is(err, authclient.ErrNoSession)
}

func (r *Refresher) userFromSession(ctx context.Context, sess *authclient.Session) (*User, error) {
	if sess.User.ID != "" {
		if _, err := uuid.Parse(sess.User.ID); err != nil {
			return nil, ErrInvalidSubject
		}
		return &User{ID: sess.User.ID, Email: sess.User.Email, Role: sess.User.Role}, nil
	}
	return r.verify(ctx, sess.AccessToken)
}

// verify checks the access token locally when the provider JWT secret is
// known, otherwise asks the provider.
func (r *Refresher) verify(ctx context.Context, access string) (*User, error) {
	if len(r.JWTSecret) > 0 {
		claims, err := tokens.AccessClaimsFromToken(access, r.JWTSecret)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
		}
		if _, err := uuid.Parse(claims.Subject); err != nil {
			return nil, ErrInvalidSubject
		}
		return &User{ID: claims.Subject, Email: claims.Email, Role: claims.Role}, nil
	}

	u, err := r.Provider.GetUser(ctx, access)
	if err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(u.ID); err != nil {
		return nil, ErrInvalidSubject
	}
	return &User{ID: u.ID, Email: u.Email, Role: u.Role}, nil
}

func (r *Refresher) clear() []*http.Cookie {
	return []*http.Cookie{
		cookies.Delete(cookies.AccessToken, "/", r.CookieSecure),
		cookies.Delete(cookies.RefreshToken, "/", r.CookieSecure),
	}
}

func cookieValue(req *http.Request, name string) string {
	c, err := req.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

type ctxKey struct{}

func WithUser(ctx context.Context, u *User) context.Context {
	if u == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, u)
}

func UserFrom(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*User)
	return u, ok && u != nil
}

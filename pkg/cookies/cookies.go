package cookies

import (
	"net/http"
	"strings"
	"time"
)

const (
	AccessToken  = "accessToken"
	RefreshToken = "refreshToken"
)

func Create(name, value, path string, exp time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func Delete(name, path string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ApplyToRequest rewrites the Cookie header of r so that handlers further
// down the chain observe the same cookie jar the client will hold after the
// response. Deletions (MaxAge < 0) remove the cookie.
func ApplyToRequest(r *http.Request, mutations []*http.Cookie) {
	if len(mutations) == 0 {
		return
	}

	current := r.Cookies()
	changed := make(map[string]*http.Cookie, len(mutations))
	for _, m := range mutations {
		changed[m.Name] = m
	}

	pairs := make([]string, 0, len(current)+len(mutations))
	seen := make(map[string]struct{}, len(changed))
	for _, c := range current {
		m, ok := changed[c.Name]
		if !ok {
			pairs = append(pairs, (&http.Cookie{Name: c.Name, Value: c.Value}).String())
			continue
		}
		if _, dup := seen[c.Name]; dup {
			continue
		}
		seen[c.Name] = struct{}{}
		if m.MaxAge >= 0 {
			pairs = append(pairs, (&http.Cookie{Name: m.Name, Value: m.Value}).String())
		}
	}
	for _, m := range mutations {
		if _, ok := seen[m.Name]; ok {
			continue
		}
		seen[m.Name] = struct{}{}
		if last := changed[m.Name]; last.MaxAge >= 0 {
			pairs = append(pairs, (&http.Cookie{Name: last.Name, Value: last.Value}).String())
		}
	}

	if len(pairs) == 0 {
		r.Header.Del("Cookie")
		return
	}
	r.Header.Set("Cookie", strings.Join(pairs, "; "))
}

// Package session gates the admin API the way the dashboard did: a plain
// "loggedIn" cookie marks a signed-in browser and the upstream access token
// travels as a bearer token or HttpOnly cookie.
//
// The token is never verified here; the upstream API owns the signing key.
// Only its expiry is read so stale sessions fail fast.
package session

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"catalogadmin/models"
	"catalogadmin/services"
)

const (
	// FlagCookie marks a logged-in browser
	FlagCookie = "loggedIn"
	// TokenCookie carries the upstream access token
	TokenCookie = "access_token"
	// RefreshCookie carries the upstream refresh token
	RefreshCookie = "refresh_token"
	// MaxAge is the lifetime of the login cookies
	MaxAge = 7 * 24 * time.Hour
)

type operatorKey struct{}

// Operator returns the subject of the access token of the request, if any
func Operator(ctx context.Context) string {
	sub, _ := ctx.Value(operatorKey{}).(string)
	return sub
}

// Options configures the gate
type Options struct {
	// Prefix is the path prefix of gated routes
	Prefix string
	// Open lists paths under Prefix that need no session
	Open []string
	// Public lists path prefixes under Prefix that GET and HEAD requests
	// may read without a session
	Public []string
	Log    *logrus.Entry
	// Now is used for expiry checks; defaults to time.Now
	Now func() time.Time
}

// Middleware returns the session gate
func Middleware(opts Options) func(http.Handler) http.Handler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if !strings.HasPrefix(path, opts.Prefix) || matches(path, opts.Open, false) {
				next.ServeHTTP(w, r)
				return
			}

			token := BearerToken(r)
			if token != "" {
				claims, err := readClaims(token)
				if err != nil {
					opts.Log.WithError(err).Debug("Unreadable access token")
				} else if exp, _ := claims.GetExpirationTime(); exp != nil && !exp.After(opts.Now()) {
					writeError(w, http.StatusUnauthorized, "session expired")
					return
				}
				ctx := services.WithToken(r.Context(), token)
				if claims != nil {
					if sub, err := claims.GetSubject(); err == nil && sub != "" {
						ctx = context.WithValue(ctx, operatorKey{}, sub)
					}
				}
				r = r.WithContext(ctx)
			}

			if !LoggedIn(r) && !(readOnly(r.Method) && matches(path, opts.Public, true)) {
				writeError(w, http.StatusUnauthorized, "not logged in")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func matches(path string, list []string, prefix bool) bool {
	for _, p := range list {
		if path == p || (prefix && strings.HasPrefix(path, p)) {
			return true
		}
	}
	return false
}

func readOnly(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

func readClaims(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// LoggedIn reports whether the request carries the loggedIn=true flag
func LoggedIn(r *http.Request) bool {
	c, err := r.Cookie(FlagCookie)
	return err == nil && c.Value == "true"
}

// BearerToken returns the access token from the Authorization header or,
// failing that, from the token cookie.
func BearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// SetLogin writes the login cookies for a successful sign-in
func SetLogin(w http.ResponseWriter, res *models.LoginResult, secure bool) {
	maxAge := int(MaxAge.Seconds())
	http.SetCookie(w, &http.Cookie{
		Name:     FlagCookie,
		Value:    "true",
		Path:     "/",
		MaxAge:   maxAge,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    res.AccessToken,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
	if res.RefreshToken != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     RefreshCookie,
			Value:    res.RefreshToken,
			Path:     "/",
			MaxAge:   maxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   secure,
		})
	}
}

// ClearLogin expires every login cookie
func ClearLogin(w http.ResponseWriter) {
	for _, name := range []string{FlagCookie, TokenCookie, RefreshCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:   name,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

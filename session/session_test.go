package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogadmin/logging"
	"catalogadmin/models"
	"catalogadmin/services"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func signedToken(t *testing.T, sub string, exp time.Time) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte("upstream-secret"))
	require.NoError(t, err)
	return s
}

type seen struct {
	token    string
	operator string
	called   bool
}

func setupTestGate() (http.Handler, *seen) {
	got := &seen{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.called = true
		got.token = services.TokenFromContext(r.Context())
		got.operator = Operator(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	gate := Middleware(Options{
		Prefix: "/api/v1",
		Open:   []string{"/api/v1/auth/login"},
		Public: []string{"/api/v1/genres", "/api/v1/countries"},
		Log:    logging.Discard(),
		Now:    func() time.Time { return testNow },
	})
	return gate(next), got
}

func TestMiddleware_Routing(t *testing.T) {
	testCases := []struct {
		name     string
		method   string
		path     string
		loggedIn bool
		want     int
	}{
		{"ungated path", http.MethodGet, "/health", false, http.StatusOK},
		{"login is open", http.MethodPost, "/api/v1/auth/login", false, http.StatusOK},
		{"public prefix", http.MethodGet, "/api/v1/genres/3", false, http.StatusOK},
		{"public prefix head", http.MethodHead, "/api/v1/countries", false, http.StatusOK},
		{"public prefix write needs flag", http.MethodPost, "/api/v1/countries", false, http.StatusUnauthorized},
		{"public prefix delete needs flag", http.MethodDelete, "/api/v1/genres/3", false, http.StatusUnauthorized},
		{"public prefix write with flag", http.MethodPut, "/api/v1/genres/3", true, http.StatusOK},
		{"gated without flag", http.MethodGet, "/api/v1/topics", false, http.StatusUnauthorized},
		{"gated with flag", http.MethodGet, "/api/v1/topics", true, http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h, _ := setupTestGate()
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.loggedIn {
				req.AddCookie(&http.Cookie{Name: FlagCookie, Value: "true"})
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tc.want, rr.Code)
		})
	}
}

func TestMiddleware_ForwardsToken(t *testing.T) {
	h, got := setupTestGate()
	token := signedToken(t, "admin", testNow.Add(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/topics", nil)
	req.AddCookie(&http.Cookie{Name: FlagCookie, Value: "true"})
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, token, got.token)
	assert.Equal(t, "admin", got.operator)
}

func TestMiddleware_TokenFromCookie(t *testing.T) {
	h, got := setupTestGate()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/topics", nil)
	req.AddCookie(&http.Cookie{Name: FlagCookie, Value: "true"})
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "opaque-token"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "opaque-token", got.token)
	assert.Equal(t, "", got.operator)
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	h, got := setupTestGate()
	token := signedToken(t, "admin", testNow.Add(-time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/topics", nil)
	req.AddCookie(&http.Cookie{Name: FlagCookie, Value: "true"})
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, got.called)
	assert.Contains(t, rr.Body.String(), "session expired")
}

func TestSetAndClearLogin(t *testing.T) {
	rr := httptest.NewRecorder()
	SetLogin(rr, &models.LoginResult{AccessToken: "a", RefreshToken: "r"}, false)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 3)
	flag := cookies[0]
	assert.Equal(t, FlagCookie, flag.Name)
	assert.Equal(t, "true", flag.Value)
	assert.Equal(t, "/", flag.Path)
	assert.Equal(t, 604800, flag.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, flag.SameSite)
	assert.False(t, flag.HttpOnly)
	assert.True(t, cookies[1].HttpOnly)

	rr = httptest.NewRecorder()
	ClearLogin(rr)
	for _, c := range rr.Result().Cookies() {
		assert.Equal(t, -1, c.MaxAge)
	}
}

package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"

	"catalogadmin/logging"
)

func TestRecoverMiddleware(t *testing.T) {
	handler := RecoverMiddleware(logging.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/movies", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "close", rr.Header().Get("Connection"))
	assert.JSONEq(t, `{"error":"internal server error"}`, rr.Body.String())
}

func TestInitSentry_EmptyDSN(t *testing.T) {
	assert.NoError(t, InitSentry("", "test", "dev"))
}

func TestScrub(t *testing.T) {
	event := &sentry.Event{
		User: sentry.User{IPAddress: "10.0.0.1"},
		Request: &sentry.Request{
			Headers: map[string]string{"Authorization": "Bearer abc", "Accept": "application/json"},
			Cookies: "loggedIn=true",
		},
	}

	out := scrub(event)
	assert.Empty(t, out.User.IPAddress)
	assert.Equal(t, "[redacted]", out.Request.Headers["Authorization"])
	assert.Equal(t, "application/json", out.Request.Headers["Accept"])
	assert.Empty(t, out.Request.Cookies)
	assert.Nil(t, scrub(nil))
}

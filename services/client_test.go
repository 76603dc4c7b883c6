package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogadmin/logging"
	"catalogadmin/models"
)

type recordedCall struct {
	Method      string
	Path        string
	Query       string
	Body        string
	ContentType string
	Auth        string
}

type upstream struct {
	*httptest.Server
	mu    sync.Mutex
	calls []recordedCall
}

func (u *upstream) Calls() []recordedCall {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]recordedCall, len(u.calls))
	copy(out, u.calls)
	return out
}

// newUpstream starts a fake API that records every request before handing
// it to handler
func newUpstream(t *testing.T, handler http.HandlerFunc) *upstream {
	u := &upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		u.mu.Lock()
		u.calls = append(u.calls, recordedCall{
			Method:      r.Method,
			Path:        r.URL.Path,
			Query:       r.URL.RawQuery,
			Body:        string(body),
			ContentType: r.Header.Get("Content-Type"),
			Auth:        r.Header.Get("Authorization"),
		})
		u.mu.Unlock()
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		handler(w, r)
	}))
	t.Cleanup(u.Close)
	return u
}

func TestErrorDetail(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"detail string", 400, `{"detail":"Slug đã tồn tại"}`, "Slug đã tồn tại"},
		{"message field", 500, `{"message":"Cập nhật thất bại"}`, "Cập nhật thất bại"},
		{"validation array", 422, `{"detail":[{"loc":["body","gio_chieu"],"msg":"field required"},{"loc":["body","thu_trong_tuan"],"msg":"bad value"}]}`,
			"[gio_chieu]: field required; [thu_trong_tuan]: bad value"},
		{"plain text", 502, "upstream down", "upstream down"},
		{"empty body", 404, "", "Not Found"},
		{"unknown json", 409, `{"code":1}`, "Conflict"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, errorDetail(tc.status, []byte(tc.body)))
		})
	}
}

func TestAPIClient_ForwardsBearerToken(t *testing.T) {
	up := newUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c := newAPIClient("catalog", up.URL+"/", nil, logging.Discard())

	ctx := WithToken(context.Background(), "tok-123")
	require.NoError(t, c.doJSON(ctx, http.MethodDelete, "/phim/abc", nil, nil, nil))

	calls := up.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Bearer tok-123", calls[0].Auth)
	assert.Equal(t, "/phim/abc", calls[0].Path)
}

func TestAPIClient_NonSuccessReturnsAPIError(t *testing.T) {
	up := newUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"detail":"duplicate"}`))
	})
	c := newAPIClient("catalog", up.URL, nil, logging.Discard())

	err := c.doJSON(context.Background(), http.MethodPost, "/quocgia/", nil, map[string]string{"code": "VN"}, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "duplicate", apiErr.Detail)
	assert.True(t, IsStatus(err, http.StatusConflict))
	assert.Contains(t, err.Error(), "POST /quocgia/ returned 409")
}

func TestAPIClient_NetworkError(t *testing.T) {
	up := newUpstream(t, func(http.ResponseWriter, *http.Request) {})
	base := up.URL
	up.Close()

	c := newAPIClient("catalog", base, nil, logging.Discard())
	err := c.doJSON(context.Background(), http.MethodGet, "/theloai/", nil, nil, nil)
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestAPIClient_Multipart(t *testing.T) {
	var gotPlatform, gotFile string
	up := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotPlatform = r.FormValue("platform")
		f, _, err := r.FormFile("apk_file")
		require.NoError(t, err)
		data, _ := io.ReadAll(f)
		gotFile = string(data)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"platform":"android","version":"1.2.0"}`))
	})
	svc := NewAppVersionService(up.URL, nil, logging.Discard())

	v, err := svc.Upload(context.Background(), sampleAppVersion(), "app.apk", strings.NewReader("APKDATA"))
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", v.Version)
	assert.Equal(t, "android", gotPlatform)
	assert.Equal(t, "APKDATA", gotFile)
	assert.Contains(t, up.Calls()[0].ContentType, "multipart/form-data")
}

func sampleAppVersion() *models.AppVersion {
	return &models.AppVersion{Platform: "android", Version: "1.2.0", ReleaseNotes: "fixes"}
}

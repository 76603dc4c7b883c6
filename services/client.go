// Package services provides clients for the upstream admin REST APIs.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"catalogadmin/metrics"
)

// ErrUpstream marks transport failures and unreadable answers from an
// upstream API
var ErrUpstream = errors.New("upstream unavailable")

type tokenKey struct{}

// WithToken returns a context carrying the operator's bearer token. Every
// upstream request built from that context sends it as Authorization.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the bearer token stored by WithToken
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// APIError is a non-2xx answer from an upstream API
type APIError struct {
	Upstream string
	Method   string
	Path     string
	Status   int
	Detail   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API: %s %s returned %d: %s", e.Upstream, e.Method, e.Path, e.Status, e.Detail)
}

// IsStatus reports whether err is an APIError with the given status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// FilePart is a file attached to a multipart upload
type FilePart struct {
	Field    string
	Filename string
	Reader   io.Reader
}

// apiClient is the transport shared by every upstream service
type apiClient struct {
	name    string
	baseURL string
	client  *http.Client
	log     *logrus.Entry
}

func newAPIClient(name, baseURL string, client *http.Client, log *logrus.Entry) *apiClient {
	if client == nil {
		client = &http.Client{}
	}
	return &apiClient{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		log:     log.WithField("upstream", name),
	}
}

// doJSON sends body as JSON (when non-nil) and decodes the answer into out
// (when non-nil).
func (c *apiClient) doJSON(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request body: %w", c.name, err)
		}
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, query, reader, contentType, out)
}

// doForm sends an application/x-www-form-urlencoded body
func (c *apiClient) doForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, strings.NewReader(form.Encode()),
		"application/x-www-form-urlencoded", out)
}

// doMultipart sends fields and files as multipart/form-data
func (c *apiClient) doMultipart(ctx context.Context, path string, fields map[string]string, files []FilePart, out interface{}) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", k, err)
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return fmt.Errorf("failed to create form file %s: %w", f.Field, err)
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return fmt.Errorf("failed to copy form file %s: %w", f.Field, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}

	return c.do(ctx, http.MethodPost, path, nil, &buf, mw.FormDataContentType(), out)
}

func (c *apiClient) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", c.name, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.WithFields(logrus.Fields{"method": method, "path": path}).Debug("Upstream request")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(c.name, method, "network_error").Inc()
		return fmt.Errorf("%w: %s %s %s: %w", ErrUpstream, c.name, method, path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.WithError(err).Warn("Failed to close response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamRequests.WithLabelValues(c.name, method, "http_error").Inc()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &APIError{
			Upstream: c.name,
			Method:   method,
			Path:     path,
			Status:   resp.StatusCode,
			Detail:   errorDetail(resp.StatusCode, raw),
		}
	}
	metrics.UpstreamRequests.WithLabelValues(c.name, method, "ok").Inc()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: failed to decode %s response: %w", ErrUpstream, c.name, err)
	}
	return nil
}

// errorDetail extracts the human readable message of an error body. It
// prefers "detail", then "message", and flattens validation arrays of the
// form [{"loc": [...], "msg": "..."}].
func errorDetail(status int, raw []byte) string {
	var body struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if len(body.Detail) > 0 {
			var s string
			if err := json.Unmarshal(body.Detail, &s); err == nil && s != "" {
				return s
			}
			var items []struct {
				Loc []interface{} `json:"loc"`
				Msg string        `json:"msg"`
			}
			if err := json.Unmarshal(body.Detail, &items); err == nil && len(items) > 0 {
				parts := make([]string, 0, len(items))
				for _, it := range items {
					field := ""
					if len(it.Loc) > 0 {
						field = fmt.Sprint(it.Loc[len(it.Loc)-1])
					}
					parts = append(parts, fmt.Sprintf("[%s]: %s", field, it.Msg))
				}
				return strings.Join(parts, "; ")
			}
		}
		if body.Message != "" {
			return body.Message
		}
	}

	if text := strings.TrimSpace(string(raw)); text != "" && !strings.HasPrefix(text, "{") {
		return text
	}
	return http.StatusText(status)
}

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultFetchTimeout   = 15 * time.Second
	DefaultUploadTimeout  = 60 * time.Second
)

// Config carries the backend session parameters. Read-only after New; the
// client holds no other mutable state, so one instance is safe to share
// across concurrent requests.
type Config struct {
	BaseURL string
	Token   string

	RequestTimeout time.Duration
	FetchTimeout   time.Duration
	UploadTimeout  time.Duration
}

// Client translates create/update/upload intents into calls against the
// backend's /api/external surface and normalizes every failure into a
// Result. Methods return errors as data; they never panic and never return
// a Go error.
type Client struct {
	baseURL string
	token   string

	http   *http.Client // plain JSON calls
	fetch  *http.Client // caller-supplied image URLs
	upload *http.Client // multipart media uploads
}

func New(cfg Config) *Client {
	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}
	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	uploadTimeout := cfg.UploadTimeout
	if uploadTimeout <= 0 {
		uploadTimeout = DefaultUploadTimeout
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: requestTimeout},
		fetch:   &http.Client{Timeout: fetchTimeout},
		upload:  &http.Client{Timeout: uploadTimeout},
	}
}

// BaseURL returns the configured backend base URL without trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) endpoint(path, locale string) string {
	u := c.baseURL + "/api/external" + path
	if locale != "" {
		u += "?locale=" + url.QueryEscape(locale)
	}
	return u
}

// CreatePost creates a post document. Field shapes are the backend's
// concern; the body is forwarded as-is.
func (c *Client) CreatePost(ctx context.Context, fields map[string]any, locale string) Result[ContentSummary] {
	return doJSON[ContentSummary](ctx, c, http.MethodPost, "/posts", fields, locale)
}

// UpdatePost applies a partial update to a post addressed by numeric ID or
// slug. Omitted fields are left untouched by the backend.
func (c *Client) UpdatePost(ctx context.Context, idOrSlug string, fields map[string]any, locale string) Result[ContentSummary] {
	return doJSON[ContentSummary](ctx, c, http.MethodPatch, "/posts/"+url.PathEscape(idOrSlug), fields, locale)
}

// CreateProject creates a project document.
func (c *Client) CreateProject(ctx context.Context, fields map[string]any, locale string) Result[ContentSummary] {
	return doJSON[ContentSummary](ctx, c, http.MethodPost, "/projects", fields, locale)
}

// UpdateProject applies a partial update to a project addressed by numeric
// ID or slug.
func (c *Client) UpdateProject(ctx context.Context, idOrSlug string, fields map[string]any, locale string) Result[ContentSummary] {
	return doJSON[ContentSummary](ctx, c, http.MethodPatch, "/projects/"+url.PathEscape(idOrSlug), fields, locale)
}

func doJSON[T any](ctx context.Context, c *Client, method, path string, body any, locale string) Result[T] {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return failure[T](CodeNetworkError, "encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, locale), reader)
	if err != nil {
		return failure[T](CodeNetworkError, "build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return failure[T](CodeNetworkError, "Failed to reach API: %v", err)
	}
	defer resp.Body.Close()

	return parseResponse[T](resp)
}

type envelope[T any] struct {
	Data  *T     `json:"data"`
	Error *Error `json:"error"`
}

// parseResponse decodes the backend's {data}|{error} envelope. A non-JSON
// body and a bare non-2xx status each collapse into a structured error so
// the caller never has to inspect the raw response.
func parseResponse[T any](resp *http.Response) Result[T] {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure[T](CodeNetworkError, "read response body: %v", err)
	}

	var env envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return failure[T](CodeInvalidResponse, "API returned non-JSON response (HTTP %d)", resp.StatusCode)
	}

	if env.Error != nil {
		return Result[T]{Err: env.Error}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return failure[T](CodeHTTPError, "HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return Result[T]{Data: env.Data}
}

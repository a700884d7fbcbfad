package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contentFixtureJSON = `{"data":{"id":42,"title":"Hello","slug":"hello","_status":"draft","createdAt":"2026-01-01T00:00:00Z","updatedAt":"2026-01-01T00:00:00Z"}}`

func newTestClient(baseURL string) *Client {
	return New(Config{BaseURL: baseURL + "/", Token: "backend-token"})
}

func TestCreatePost_SendsBodyAndAuth(t *testing.T) {
	var gotPath, gotAuth, gotLocale string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotLocale = r.URL.Query().Get("locale")
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, contentFixtureJSON)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	res := client.CreatePost(context.Background(), map[string]any{"title": "Hello", "content": "body"}, "en")

	require.True(t, res.Ok())
	require.NotNil(t, res.Data)
	assert.Equal(t, 42, res.Data.ID)
	assert.Equal(t, "hello", res.Data.Slug)
	assert.Equal(t, "draft", res.Data.Status)

	assert.Equal(t, "/api/external/posts", gotPath)
	assert.Equal(t, "Bearer backend-token", gotAuth)
	assert.Equal(t, "en", gotLocale)
	assert.Equal(t, "Hello", gotBody["title"])
}

func TestUpdateProject_PatchesByIDOrSlug(t *testing.T) {
	var gotMethod, gotPath, gotQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, contentFixtureJSON)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	res := client.UpdateProject(context.Background(), "my-proj", map[string]any{"title": "New"}, "")

	require.True(t, res.Ok())
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/api/external/projects/my-proj", gotPath)
	assert.Empty(t, gotQuery, "locale query param must be omitted when locale is empty")
}

func TestDoJSON_NonJSONBodyIsInvalidResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "<html>Internal Server Error</html>")
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	for name, res := range map[string]Result[ContentSummary]{
		"create_post":    client.CreatePost(context.Background(), map[string]any{"title": "T"}, ""),
		"update_post":    client.UpdatePost(context.Background(), "slug", nil, ""),
		"create_project": client.CreateProject(context.Background(), map[string]any{"title": "T"}, ""),
		"update_project": client.UpdateProject(context.Background(), "slug", nil, ""),
	} {
		require.False(t, res.Ok(), name)
		assert.Equal(t, CodeInvalidResponse, res.Err.Code, name)
		assert.Contains(t, res.Err.Message, "HTTP 500", name)
	}
}

func TestDoJSON_ErrorEnvelopePassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":"VALIDATION_ERROR","message":"title is required"}}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	res := client.CreatePost(context.Background(), map[string]any{}, "")

	require.False(t, res.Ok())
	assert.Equal(t, "VALIDATION_ERROR", res.Err.Code)
	assert.Equal(t, "title is required", res.Err.Message)
}

func TestDoJSON_NonOKJSONWithoutErrorIsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, `{}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	res := client.UpdatePost(context.Background(), "7", map[string]any{"title": "T"}, "")

	require.False(t, res.Ok())
	assert.Equal(t, CodeHTTPError, res.Err.Code)
	assert.Contains(t, res.Err.Message, "HTTP 502")
}

func TestDoJSON_ConnectionRefusedIsNetworkError(t *testing.T) {
	// Reserve a port, then close it so the connection is refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL)
	res := client.CreatePost(context.Background(), map[string]any{"title": "T"}, "")

	require.False(t, res.Ok())
	assert.Equal(t, CodeNetworkError, res.Err.Code)
	assert.Contains(t, res.Err.Message, "Failed to reach API")
}

package tools

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atelier/internal/api"
)

func TestCreateProject_SendsDeclaredFields(t *testing.T) {
	var gotBody map[string]any

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/external/projects", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		_, _ = io.WriteString(w, `{"data":{"id":9,"title":"Proj","slug":"proj","_status":"draft","createdAt":"2026-01-01T00:00:00Z","updatedAt":"2026-01-01T00:00:00Z"}}`)
	}))
	defer backend.Close()

	s := NewServer(api.New(api.Config{BaseURL: backend.URL, Token: "t"}))
	text, isError := callTool(t, s, "create_project", map[string]any{
		"title":         "Proj",
		"description":   "A thing I built",
		"technologies":  []any{"Go", "Postgres"},
		"githubUrl":     "https://github.com/someone/proj",
		"productionUrl": "https://proj.example.com",
	})

	require.False(t, isError, text)
	assert.Contains(t, text, "Project created successfully.")
	assert.Contains(t, text, "/admin/collections/projects/9")

	assert.Equal(t, "https://github.com/someone/proj", gotBody["githubUrl"])
	assert.Equal(t, []any{"Go", "Postgres"}, gotBody["technologies"])
	assert.Equal(t, "draft", gotBody["_status"])
}

func TestUpdateProject_BadLinkSchemeFailsBeforeNetwork(t *testing.T) {
	backendCalled := false
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendCalled = true
	}))
	defer backend.Close()

	s := NewServer(api.New(api.Config{BaseURL: backend.URL, Token: "t"}))
	text, isError := callTool(t, s, "update_project", map[string]any{
		"idOrSlug":  "my-proj",
		"githubUrl": "ftp://bad",
	})

	assert.True(t, isError)
	assert.Contains(t, text, "githubUrl")
	assert.Contains(t, text, "http(s)")
	assert.False(t, backendCalled, "validation failures must never reach the backend")
}

func TestUpdateProject_PartialUpdateBySlug(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		_, _ = io.WriteString(w, `{"data":{"id":9,"title":"Renamed","slug":"my-proj","_status":"published","createdAt":"2026-01-01T00:00:00Z","updatedAt":"2026-01-02T00:00:00Z"}}`)
	}))
	defer backend.Close()

	s := NewServer(api.New(api.Config{BaseURL: backend.URL, Token: "t"}))
	text, isError := callTool(t, s, "update_project", map[string]any{
		"idOrSlug": "my-proj",
		"title":    "Renamed",
	})

	require.False(t, isError, text)
	assert.Equal(t, "/api/external/projects/my-proj", gotPath)
	assert.Equal(t, map[string]any{"title": "Renamed"}, gotBody)
	assert.Contains(t, text, "Status: published")
}

func TestCreateProject_RejectsMistypedTechnologies(t *testing.T) {
	s := NewServer(api.New(api.Config{BaseURL: "http://unused.example", Token: "t"}))
	text, isError := callTool(t, s, "create_project", map[string]any{
		"title":        "Proj",
		"description":  "desc",
		"technologies": []any{"Go", float64(3)},
	})

	assert.True(t, isError)
	assert.Contains(t, text, "technologies[1]")
}

package tools

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"atelier/internal/api"
)

const (
	defaultLocale        = "pl"
	defaultStatus        = "draft"
	defaultContentFormat = "markdown"
)

var (
	statusValues        = []string{"draft", "published"}
	localeValues        = []string{"pl", "en"}
	contentFormatValues = []string{"markdown", "lexical"}
)

// contentResult renders a post/project Result into the caller-facing
// envelope: a multi-line summary on success, "Error {action} {entity}:
// [{code}] {message}" with the error flag set on failure.
func contentResult(res api.Result[api.ContentSummary], collection, action, baseURL string) *mcp.CallToolResult {
	text := formatContentResult(res, collection, action, baseURL)
	if !res.Ok() {
		return mcp.NewToolResultError(text)
	}
	return mcp.NewToolResultText(text)
}

func formatContentResult(res api.Result[api.ContentSummary], collection, action, baseURL string) string {
	if res.Err != nil {
		return fmt.Sprintf("Error %s %s: [%s] %s", action, collection, res.Err.Code, res.Err.Message)
	}
	if res.Data == nil {
		return fmt.Sprintf("Error %s %s: unexpected empty response from API", action, collection)
	}

	d := res.Data
	return strings.Join([]string{
		fmt.Sprintf("%s %s successfully.", capitalize(collection), action),
		fmt.Sprintf("  ID: %d", d.ID),
		"  Title: " + d.Title,
		"  Slug: " + d.Slug,
		"  Status: " + d.Status,
		fmt.Sprintf("  Admin: %s/admin/collections/%ss/%d", baseURL, collection, d.ID),
	}, "\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// checkFields rejects argument keys the tool never declared, before any
// network call is made.
func checkFields(args map[string]any, allowed ...string) error {
	for key := range args {
		known := false
		for _, name := range allowed {
			if key == name {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown field: %s", key)
		}
	}
	return nil
}

// requireString extracts a mandatory non-empty string argument.
func requireString(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing required field: %s", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("field '%s' expected string, got %T", key, raw)
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("field '%s' must not be empty", key)
	}
	return s, nil
}

// enumValue extracts an optional string argument constrained to a fixed set.
func enumValue(args map[string]any, key string, allowed []string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("field '%s' expected string, got %T", key, raw)
	}
	for _, v := range allowed {
		if s == v {
			return s, nil
		}
	}
	return "", fmt.Errorf("field '%s' must be one of: %s", key, strings.Join(allowed, ", "))
}

// Copy helpers: each moves a declared optional field from args into the
// outbound body after a type check. JSON numbers arrive as float64.

func copyString(args, body map[string]any, key string) error {
	raw, ok := args[key]
	if !ok {
		return nil
	}
	if _, isString := raw.(string); !isString {
		return fmt.Errorf("field '%s' expected string, got %T", key, raw)
	}
	body[key] = raw
	return nil
}

func copyNumber(args, body map[string]any, key string) error {
	raw, ok := args[key]
	if !ok {
		return nil
	}
	if _, isNumber := raw.(float64); !isNumber {
		return fmt.Errorf("field '%s' expected number, got %T", key, raw)
	}
	body[key] = raw
	return nil
}

func copyStringArray(args, body map[string]any, key string) error {
	raw, ok := args[key]
	if !ok {
		return nil
	}
	items, isArray := raw.([]any)
	if !isArray {
		return fmt.Errorf("field '%s' expected array, got %T", key, raw)
	}
	for i, item := range items {
		if _, isString := item.(string); !isString {
			return fmt.Errorf("field '%s[%d]' expected string, got %T", key, i, item)
		}
	}
	body[key] = raw
	return nil
}

func copyNumberArray(args, body map[string]any, key string) error {
	raw, ok := args[key]
	if !ok {
		return nil
	}
	items, isArray := raw.([]any)
	if !isArray {
		return fmt.Errorf("field '%s' expected array, got %T", key, raw)
	}
	for i, item := range items {
		if _, isNumber := item.(float64); !isNumber {
			return fmt.Errorf("field '%s[%d]' expected number, got %T", key, i, item)
		}
	}
	body[key] = raw
	return nil
}

// copyMixedArray accepts string or number items (category names or IDs).
func copyMixedArray(args, body map[string]any, key string) error {
	raw, ok := args[key]
	if !ok {
		return nil
	}
	items, isArray := raw.([]any)
	if !isArray {
		return fmt.Errorf("field '%s' expected array, got %T", key, raw)
	}
	for i, item := range items {
		switch item.(type) {
		case string, float64:
		default:
			return fmt.Errorf("field '%s[%d]' expected string or number, got %T", key, i, item)
		}
	}
	body[key] = raw
	return nil
}

func copyObject(args, body map[string]any, key string) error {
	raw, ok := args[key]
	if !ok {
		return nil
	}
	if _, isObject := raw.(map[string]any); !isObject {
		return fmt.Errorf("field '%s' expected object, got %T", key, raw)
	}
	body[key] = raw
	return nil
}

// validateLinkURL guards project link fields: parseable and http(s) only,
// so a bad scheme never reaches the backend.
func validateLinkURL(args map[string]any, key string) error {
	raw, ok := args[key]
	if !ok {
		return nil
	}
	s, isString := raw.(string)
	if !isString {
		return fmt.Errorf("field '%s' expected string, got %T", key, raw)
	}
	parsed, err := url.Parse(s)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("field '%s' must be an http(s) URL", key)
	}
	return nil
}

// metaProperties is the SEO metadata sub-schema shared by posts and projects.
func metaProperties() map[string]any {
	return map[string]any{
		"title":       map[string]any{"type": "string", "description": "SEO title"},
		"description": map[string]any{"type": "string", "description": "SEO description"},
		"image":       map[string]any{"type": "number", "description": "Media ID for OG image"},
	}
}

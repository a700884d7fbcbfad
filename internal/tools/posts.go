package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"atelier/internal/api"
)

var postFields = []string{
	"title", "content", "contentFormat", "heroImage", "categories",
	"meta", "_status", "publishedAt", "authors", "locale",
}

func createPostTool() mcp.Tool {
	return mcp.NewTool("create_post",
		mcp.WithDescription("Create a new blog post. Content should be in markdown format. Posts are created as drafts by default."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Post title")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Post content in markdown format")),
		mcp.WithString("contentFormat", mcp.Enum(contentFormatValues...), mcp.Description("Content format (default: markdown)")),
		mcp.WithNumber("heroImage", mcp.Description("Media ID from upload_media tool")),
		mcp.WithArray("categories", mcp.Description("Category names (auto-created) or IDs")),
		mcp.WithObject("meta", mcp.Description("SEO metadata"), mcp.Properties(metaProperties())),
		mcp.WithString("_status", mcp.Enum(statusValues...), mcp.Description("Publication status (default: draft)")),
		mcp.WithString("publishedAt", mcp.Description("ISO 8601 publish date")),
		mcp.WithArray("authors", mcp.Description("User IDs")),
		mcp.WithString("locale", mcp.Enum(localeValues...), mcp.Description("Content locale (default: pl)")),
	)
}

func updatePostTool() mcp.Tool {
	return mcp.NewTool("update_post",
		mcp.WithDescription("Update an existing blog post by ID or slug. Only include fields you want to change. Use this to publish drafts by setting _status to \"published\"."),
		mcp.WithString("idOrSlug", mcp.Required(), mcp.Description("Post ID (numeric) or slug to update")),
		mcp.WithString("title", mcp.Description("Post title")),
		mcp.WithString("content", mcp.Description("Post content in markdown format")),
		mcp.WithString("contentFormat", mcp.Enum(contentFormatValues...), mcp.Description("Content format (default: markdown)")),
		mcp.WithNumber("heroImage", mcp.Description("Media ID from upload_media tool")),
		mcp.WithArray("categories", mcp.Description("Category names or IDs")),
		mcp.WithObject("meta", mcp.Description("SEO metadata"), mcp.Properties(metaProperties())),
		mcp.WithString("_status", mcp.Enum(statusValues...), mcp.Description("Publication status")),
		mcp.WithString("publishedAt", mcp.Description("ISO 8601 publish date")),
		mcp.WithArray("authors", mcp.Description("User IDs")),
		mcp.WithString("locale", mcp.Enum(localeValues...), mcp.Description("Content locale (default: pl)")),
	)
}

func registerPostTools(s *server.MCPServer, client *api.Client) {
	s.AddTool(createPostTool(), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		body, locale, err := buildPostBody(req.GetArguments(), true)
		if err != nil {
			return mcp.NewToolResultError("Error creating post: " + err.Error()), nil
		}
		res := client.CreatePost(ctx, body, locale)
		return contentResult(res, "post", "created", client.BaseURL()), nil
	})

	s.AddTool(updatePostTool(), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		idOrSlug, err := requireString(args, "idOrSlug")
		if err != nil {
			return mcp.NewToolResultError("Error updating post: " + err.Error()), nil
		}
		body, locale, err := buildPostBody(args, false)
		if err != nil {
			return mcp.NewToolResultError("Error updating post: " + err.Error()), nil
		}
		res := client.UpdatePost(ctx, idOrSlug, body, locale)
		return contentResult(res, "post", "updated", client.BaseURL()), nil
	})
}

// buildPostBody validates post arguments and assembles the outbound field
// map. Dispatch-only fields (idOrSlug, locale) never enter the body; on
// create the draft status and markdown format defaults are applied here so
// the backend call is explicit about both.
func buildPostBody(args map[string]any, create bool) (map[string]any, string, error) {
	allowed := postFields
	if !create {
		allowed = append([]string{"idOrSlug"}, postFields...)
	}
	if err := checkFields(args, allowed...); err != nil {
		return nil, "", err
	}

	body := map[string]any{}

	if create {
		title, err := requireString(args, "title")
		if err != nil {
			return nil, "", err
		}
		content, err := requireString(args, "content")
		if err != nil {
			return nil, "", err
		}
		body["title"] = title
		body["content"] = content
	} else {
		if err := copyString(args, body, "title"); err != nil {
			return nil, "", err
		}
		if err := copyString(args, body, "content"); err != nil {
			return nil, "", err
		}
	}

	status, err := enumValue(args, "_status", statusValues)
	if err != nil {
		return nil, "", err
	}
	if status == "" && create {
		status = defaultStatus
	}
	if status != "" {
		body["_status"] = status
	}

	format, err := enumValue(args, "contentFormat", contentFormatValues)
	if err != nil {
		return nil, "", err
	}
	if format == "" && create {
		format = defaultContentFormat
	}
	if format != "" {
		body["contentFormat"] = format
	}

	if err := copyNumber(args, body, "heroImage"); err != nil {
		return nil, "", err
	}
	if err := copyMixedArray(args, body, "categories"); err != nil {
		return nil, "", err
	}
	if err := copyObject(args, body, "meta"); err != nil {
		return nil, "", err
	}
	if err := copyString(args, body, "publishedAt"); err != nil {
		return nil, "", err
	}
	if err := copyNumberArray(args, body, "authors"); err != nil {
		return nil, "", err
	}

	locale, err := enumValue(args, "locale", localeValues)
	if err != nil {
		return nil, "", err
	}
	if locale == "" {
		locale = defaultLocale
	}

	return body, locale, nil
}

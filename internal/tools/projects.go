package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"atelier/internal/api"
)

var projectFields = []string{
	"title", "description", "contentFormat", "heroImage", "technologies",
	"githubUrl", "productionUrl", "meta", "_status", "publishedAt", "locale",
}

func createProjectTool() mcp.Tool {
	return mcp.NewTool("create_project",
		mcp.WithDescription("Create a new portfolio project. Include technologies, GitHub URL, and production URL. Projects are created as drafts by default."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Project title")),
		mcp.WithString("description", mcp.Required(), mcp.Description("Project description in markdown format")),
		mcp.WithString("contentFormat", mcp.Enum(contentFormatValues...), mcp.Description("Content format (default: markdown)")),
		mcp.WithNumber("heroImage", mcp.Description("Media ID from upload_media tool")),
		mcp.WithArray("technologies", mcp.Description("Technology names, e.g. [\"Next.js\", \"TypeScript\"]")),
		mcp.WithString("githubUrl", mcp.Description("GitHub repository URL")),
		mcp.WithString("productionUrl", mcp.Description("Live production URL")),
		mcp.WithObject("meta", mcp.Description("SEO metadata"), mcp.Properties(metaProperties())),
		mcp.WithString("_status", mcp.Enum(statusValues...), mcp.Description("Publication status (default: draft)")),
		mcp.WithString("publishedAt", mcp.Description("ISO 8601 publish date")),
		mcp.WithString("locale", mcp.Enum(localeValues...), mcp.Description("Content locale (default: pl)")),
	)
}

func updateProjectTool() mcp.Tool {
	return mcp.NewTool("update_project",
		mcp.WithDescription("Update an existing portfolio project by ID or slug. Only include fields you want to change."),
		mcp.WithString("idOrSlug", mcp.Required(), mcp.Description("Project ID (numeric) or slug to update")),
		mcp.WithString("title", mcp.Description("Project title")),
		mcp.WithString("description", mcp.Description("Project description in markdown format")),
		mcp.WithString("contentFormat", mcp.Enum(contentFormatValues...), mcp.Description("Content format (default: markdown)")),
		mcp.WithNumber("heroImage", mcp.Description("Media ID from upload_media tool")),
		mcp.WithArray("technologies", mcp.Description("Technology names")),
		mcp.WithString("githubUrl", mcp.Description("GitHub repository URL")),
		mcp.WithString("productionUrl", mcp.Description("Live production URL")),
		mcp.WithObject("meta", mcp.Description("SEO metadata"), mcp.Properties(metaProperties())),
		mcp.WithString("_status", mcp.Enum(statusValues...), mcp.Description("Publication status")),
		mcp.WithString("publishedAt", mcp.Description("ISO 8601 publish date")),
		mcp.WithString("locale", mcp.Enum(localeValues...), mcp.Description("Content locale (default: pl)")),
	)
}

func registerProjectTools(s *server.MCPServer, client *api.Client) {
	s.AddTool(createProjectTool(), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		body, locale, err := buildProjectBody(req.GetArguments(), true)
		if err != nil {
			return mcp.NewToolResultError("Error creating project: " + err.Error()), nil
		}
		res := client.CreateProject(ctx, body, locale)
		return contentResult(res, "project", "created", client.BaseURL()), nil
	})

	s.AddTool(updateProjectTool(), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		idOrSlug, err := requireString(args, "idOrSlug")
		if err != nil {
			return mcp.NewToolResultError("Error updating project: " + err.Error()), nil
		}
		body, locale, err := buildProjectBody(args, false)
		if err != nil {
			return mcp.NewToolResultError("Error updating project: " + err.Error()), nil
		}
		res := client.UpdateProject(ctx, idOrSlug, body, locale)
		return contentResult(res, "project", "updated", client.BaseURL()), nil
	})
}

func buildProjectBody(args map[string]any, create bool) (map[string]any, string, error) {
	allowed := projectFields
	if !create {
		allowed = append([]string{"idOrSlug"}, projectFields...)
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
		description, err := requireString(args, "description")
		if err != nil {
			return nil, "", err
		}
		body["title"] = title
		body["description"] = description
	} else {
		if err := copyString(args, body, "title"); err != nil {
			return nil, "", err
		}
		if err := copyString(args, body, "description"); err != nil {
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
	if err := copyStringArray(args, body, "technologies"); err != nil {
		return nil, "", err
	}

	// Link fields are checked here so a bad scheme fails before any
	// backend call.
	if err := validateLinkURL(args, "githubUrl"); err != nil {
		return nil, "", err
	}
	if err := validateLinkURL(args, "productionUrl"); err != nil {
		return nil, "", err
	}
	if err := copyString(args, body, "githubUrl"); err != nil {
		return nil, "", err
	}
	if err := copyString(args, body, "productionUrl"); err != nil {
		return nil, "", err
	}

	if err := copyObject(args, body, "meta"); err != nil {
		return nil, "", err
	}
	if err := copyString(args, body, "publishedAt"); err != nil {
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

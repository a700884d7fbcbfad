package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"atelier/internal/api"
)

var mediaFields = []string{"imageUrl", "base64", "mimeType", "alt"}

var imageMimeTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif", "image/svg+xml"}

func uploadMediaTool() mcp.Tool {
	return mcp.NewTool("upload_media",
		mcp.WithDescription("Upload an image to the media library. Provide either imageUrl (preferred) to fetch and upload an image from a URL, or base64 + mimeType to upload raw image data. Returns a media ID to use as heroImage in create_post/create_project. Max 10MB, supports JPEG/PNG/WebP/GIF/SVG."),
		mcp.WithString("imageUrl", mcp.Description("URL of the image to download and upload (preferred over base64)")),
		mcp.WithString("base64", mcp.Description("Base64-encoded image data (use only if imageUrl is not available)")),
		mcp.WithString("mimeType", mcp.Enum(imageMimeTypes...), mcp.Description("MIME type of the base64 image (required when using base64)")),
		mcp.WithString("alt", mcp.Description("Alt text for the image")),
	)
}

func registerMediaTools(s *server.MCPServer, client *api.Client) {
	s.AddTool(uploadMediaTool(), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		source, alt, err := buildUploadSource(req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError("Error uploading media: " + err.Error()), nil
		}
		res := client.UploadMedia(ctx, source, alt)
		return mediaResult(res, client.BaseURL()), nil
	})
}

// buildUploadSource validates the media arguments and picks the source
// variant. When both imageUrl and base64 are supplied the URL wins; base64
// without a mimeType is rejected before any network call.
func buildUploadSource(args map[string]any) (api.UploadSource, string, error) {
	var source api.UploadSource

	if err := checkFields(args, mediaFields...); err != nil {
		return source, "", err
	}

	scratch := map[string]any{}
	for _, key := range mediaFields {
		if err := copyString(args, scratch, key); err != nil {
			return source, "", err
		}
	}
	imageURL, _ := scratch["imageUrl"].(string)
	rawBase64, _ := scratch["base64"].(string)
	alt, _ := scratch["alt"].(string)

	mimeType, err := enumValue(args, "mimeType", imageMimeTypes)
	if err != nil {
		return source, "", err
	}

	switch {
	case imageURL != "":
		source.ImageURL = imageURL
	case rawBase64 != "":
		if mimeType == "" {
			return source, "", fmt.Errorf("mimeType is required when using base64")
		}
		source.Base64 = rawBase64
		source.MimeType = mimeType
	default:
		return source, "", fmt.Errorf("provide either imageUrl or base64 + mimeType")
	}

	return source, alt, nil
}

func mediaResult(res api.Result[api.MediaSummary], baseURL string) *mcp.CallToolResult {
	if res.Err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error uploading media: [%s] %s", res.Err.Code, res.Err.Message))
	}
	if res.Data == nil {
		return mcp.NewToolResultError("Error uploading media: unexpected empty response from API")
	}

	d := res.Data
	dimensions := "N/A (vector)"
	if d.Width > 0 && d.Height > 0 {
		dimensions = fmt.Sprintf("%dx%d", d.Width, d.Height)
	}

	return mcp.NewToolResultText(strings.Join([]string{
		"Media uploaded successfully.",
		fmt.Sprintf("  ID: %d (use this ID for heroImage in posts/projects)", d.ID),
		"  Filename: " + d.Filename,
		"  URL: " + baseURL + d.URL,
		"  Dimensions: " + dimensions,
		"  Type: " + d.MimeType,
	}, "\n"))
}

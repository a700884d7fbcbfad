package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"atelier/internal/urlcheck"
)

// MaxImageBytes caps both declared and actual image payload sizes. The
// backend enforces the same cap independently.
const MaxImageBytes = 10 << 20

var allowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/gif",
	"image/svg+xml",
}

// UploadSource selects where the image bytes come from. Exactly one variant
// is expected; when both are set the URL wins (the tools layer pins this
// precedence with a test). MimeType is mandatory for the inline variant.
type UploadSource struct {
	ImageURL string
	Base64   string
	MimeType string
}

// UploadMedia resolves the source into bytes plus a declared MIME type and
// POSTs them as multipart form data to the media endpoint.
func (c *Client) UploadMedia(ctx context.Context, source UploadSource, alt string) Result[MediaSummary] {
	var (
		data     []byte
		mimeType string
		filename string
	)

	if source.ImageURL != "" {
		if err := urlcheck.ValidateExternal(source.ImageURL); err != nil {
			return failure[MediaSummary](CodeInvalidURL, "%v", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.ImageURL, nil)
		if err != nil {
			return failure[MediaSummary](CodeImageFetchFailed, "Failed to fetch image from URL: %v", err)
		}
		resp, err := c.fetch.Do(req)
		if err != nil {
			return failure[MediaSummary](CodeImageFetchFailed, "Failed to fetch image from URL: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			return failure[MediaSummary](CodeFetchFailed, "Failed to fetch image from URL: HTTP %d", resp.StatusCode)
		}

		mimeType = strings.TrimSpace(strings.Split(resp.Header.Get("Content-Type"), ";")[0])
		if !isAllowedImageType(mimeType) {
			display := mimeType
			if display == "" {
				display = "(none)"
			}
			return failure[MediaSummary](CodeInvalidType,
				"URL returned unsupported content-type: %s. Allowed: %s", display, strings.Join(allowedImageTypes, ", "))
		}

		// First check: the declared length, before any bytes are read.
		// Headers can lie or be absent, so the capped read below decides.
		if declared, err := strconv.Atoi(resp.Header.Get("Content-Length")); err == nil && declared > MaxImageBytes {
			return failure[MediaSummary](CodeFileTooLarge, "Image exceeds 10MB limit (%dMB)", declared>>20)
		}

		// Read at most one byte past the cap so an oversized hostile
		// response aborts here instead of buffering fully.
		data, err = io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes+1))
		if err != nil {
			return failure[MediaSummary](CodeImageFetchFailed, "Failed to fetch image from URL: %v", err)
		}
		if len(data) > MaxImageBytes {
			return failure[MediaSummary](CodeFileTooLarge, "Image exceeds 10MB limit")
		}

		filename = "upload." + extensionFromMimeType(mimeType, "jpg")
	} else {
		mimeType = source.MimeType
		if !isAllowedImageType(mimeType) {
			return failure[MediaSummary](CodeInvalidType,
				"Unsupported image type: %s. Allowed: %s", mimeType, strings.Join(allowedImageTypes, ", "))
		}

		var err error
		data, err = base64.StdEncoding.DecodeString(source.Base64)
		if err != nil {
			return failure[MediaSummary](CodeUploadFailed, "invalid base64 image data: %v", err)
		}
		if len(data) > MaxImageBytes {
			return failure[MediaSummary](CodeFileTooLarge, "Image exceeds 10MB limit")
		}

		filename = "upload." + extensionFromMimeType(mimeType, "bin")
	}

	return c.postMultipart(ctx, data, mimeType, filename, alt)
}

func (c *Client) postMultipart(ctx context.Context, data []byte, mimeType, filename, alt string) Result[MediaSummary] {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", mimeType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return failure[MediaSummary](CodeUploadFailed, "Failed to upload media: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		return failure[MediaSummary](CodeUploadFailed, "Failed to upload media: %v", err)
	}
	if alt != "" {
		if err := writer.WriteField("alt", alt); err != nil {
			return failure[MediaSummary](CodeUploadFailed, "Failed to upload media: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		return failure[MediaSummary](CodeUploadFailed, "Failed to upload media: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/media", ""), &buf)
	if err != nil {
		return failure[MediaSummary](CodeUploadFailed, "Failed to upload media: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.upload.Do(req)
	if err != nil {
		return failure[MediaSummary](CodeUploadFailed, "Failed to upload media: %v", err)
	}
	defer resp.Body.Close()

	return parseResponse[MediaSummary](resp)
}

func isAllowedImageType(mimeType string) bool {
	for _, allowed := range allowedImageTypes {
		if mimeType == allowed {
			return true
		}
	}
	return false
}

// extensionFromMimeType synthesizes a file extension from the MIME subtype.
// The filename never comes from caller input, which keeps path-injection out
// of the multipart payload.
func extensionFromMimeType(mimeType, fallback string) string {
	_, subtype, found := strings.Cut(mimeType, "/")
	if !found || subtype == "" {
		return fallback
	}
	return strings.Replace(subtype, "svg+xml", "svg", 1)
}

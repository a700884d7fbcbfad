package api

import "fmt"

// Stable machine-readable error codes shared with the backend's own error
// envelope. The agent sees these inside tool error text and can decide
// whether to retry, reformulate, or give up.
const (
	CodeNetworkError     = "NETWORK_ERROR"
	CodeInvalidResponse  = "INVALID_RESPONSE"
	CodeHTTPError        = "HTTP_ERROR"
	CodeInvalidURL       = "INVALID_URL"
	CodeImageFetchFailed = "IMAGE_FETCH_FAILED"
	CodeFetchFailed      = "FETCH_FAILED"
	CodeInvalidType      = "INVALID_TYPE"
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeUploadFailed     = "UPLOAD_FAILED"
)

// Error is the structured failure half of a Result.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result is the uniform outcome of every client operation: exactly one of
// Data or Err is set. Failures travel as data, never as raised errors, so
// callers treat every outcome the same way regardless of cause.
type Result[T any] struct {
	Data *T
	Err  *Error
}

func (r Result[T]) Ok() bool {
	return r.Err == nil
}

func failure[T any](code, format string, args ...any) Result[T] {
	return Result[T]{Err: &Error{Code: code, Message: fmt.Sprintf(format, args...)}}
}

// ContentSummary is the identifying subset of a content document the
// backend returns after a create or update. The full body never round-trips
// through this client.
type ContentSummary struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Status    string `json:"_status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// MediaSummary describes an uploaded media document.
type MediaSummary struct {
	ID       int    `json:"id"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

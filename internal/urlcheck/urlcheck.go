package urlcheck

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Rejection reasons surfaced to callers. The exact wording travels back to
// the agent inside an INVALID_URL error, so keep it descriptive.
var (
	ErrMalformed     = fmt.Errorf("invalid URL format")
	ErrScheme        = fmt.Errorf("only HTTP(S) URLs are supported")
	ErrInternalRange = fmt.Errorf("internal/private URLs are not allowed")
)

var privateIPv4Range = regexp.MustCompile(`^172\.(1[6-9]|2\d|3[01])\.`)

// ValidateExternal decides whether a caller-supplied URL is safe to fetch.
// It is a hostname blocklist, not a resolved-address check: combined with
// the short fetch timeout and the byte cap in the API client it closes the
// obvious SSRF paths (loopback, RFC1918, link-local, cloud metadata) but is
// not a full network isolation guarantee.
func ValidateExternal(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ErrMalformed
	}

	switch parsed.Scheme {
	case "http", "https":
	default:
		return ErrScheme
	}

	// Hostname() strips IPv6 brackets, so "[::1]" and "::1" take the
	// same path here.
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return ErrMalformed
	}

	if isInternalHost(host) {
		return ErrInternalRange
	}
	return nil
}

func isInternalHost(host string) bool {
	switch host {
	case "localhost", "0.0.0.0", "127.0.0.1", "::1", "169.254.169.254":
		return true
	}

	if strings.HasPrefix(host, "0.") ||
		strings.HasPrefix(host, "10.") ||
		strings.HasPrefix(host, "192.168.") ||
		privateIPv4Range.MatchString(host) {
		return true
	}

	if strings.HasSuffix(host, ".internal") {
		return true
	}

	// IPv6 unique-local (fc00::/7) and link-local (fe80::/10) prefixes.
	if strings.HasPrefix(host, "fc") ||
		strings.HasPrefix(host, "fd") ||
		strings.HasPrefix(host, "fe80:") {
		return true
	}

	return false
}

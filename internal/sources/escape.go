package sources

import "net/url"

// escapeSegment percent-encodes a URL path segment exactly once. Values that
// arrive already encoded (some proxies pre-encode header values) are decoded
// first so they are not double-encoded; values that do not decode cleanly are
// encoded as-is.
func escapeSegment(s string) string {
	if decoded, err := url.PathUnescape(s); err == nil {
		return url.PathEscape(decoded)
	}
	return url.PathEscape(s)
}

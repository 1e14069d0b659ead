// Package privacy scrubs sensitive data from messages before they leave the
// device: URL query strings and credentials, API tokens and GPS coordinates.
package privacy

import (
	"net/url"
	"regexp"
	"strings"
)

// Pre-compiled patterns
var (
	urlPattern = regexp.MustCompile(`\bhttps?://\S+`)

	tokenPattern = regexp.MustCompile(`(?i)\b(token|authorization|api[_-]?key|secret|password)(["']?\s*[=:]\s*|\s+)(token\s+|bearer\s+)?[^\s,;&"']+`)

	// Two decimal numbers with at least four fractional digits, as in
	// "-2.900123,-79.004988" or "lat=-2.9001, lon=-79.0049".
	coordinatePattern = regexp.MustCompile(`(?i)((?:lat(?:itude)?|ubicacion_lat)\s*[=:]\s*)?-?\d{1,2}\.\d{4,}\s*,\s*((?:lon(?:gitude)?|lng|ubicacion_lon)\s*[=:]\s*)?-?\d{1,3}\.\d{4,}`)
)

// Redaction markers
const (
	RedactedQuery    = "[REDACTED]"
	RedactedToken    = "[REDACTED]"
	RedactedLocation = "[LOCATION]"
)

// ScrubMessage applies every scrubber to message.
func ScrubMessage(message string) string {
	message = urlPattern.ReplaceAllStringFunc(message, AnonymizeURL)
	message = ScrubAPITokens(message)
	return ScrubCoordinates(message)
}

// AnonymizeURL drops credentials and replaces the query string of a URL.
// Scheme, host and path are kept for debugging.
func AnonymizeURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		if i := strings.IndexByte(rawURL, '?'); i >= 0 {
			return rawURL[:i] + "?" + RedactedQuery
		}
		return rawURL
	}

	parsed.User = nil
	parsed.Fragment = ""
	hadQuery := parsed.RawQuery != ""
	parsed.RawQuery = ""

	anonymized := parsed.String()
	if hadQuery {
		anonymized += "?" + RedactedQuery
	}
	return anonymized
}

// ScrubAPITokens replaces the value of token-like key/value pairs.
func ScrubAPITokens(message string) string {
	return tokenPattern.ReplaceAllString(message, "${1}="+RedactedToken)
}

// ScrubCoordinates replaces latitude/longitude pairs.
func ScrubCoordinates(message string) string {
	return coordinatePattern.ReplaceAllString(message, RedactedLocation)
}

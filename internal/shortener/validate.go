package shortener

import (
	"net/url"
	"strings"
	"unicode"
)

// Validation messages returned to callers as a collected list.
const (
	msgInvalidURL     = "url is not a valid absolute URL"
	msgInvalidKeyword = "keyword must be alphanumeric"
	msgKeywordTaken   = "keyword is already taken in this namespace"
)

// ValidationErrors collects every problem with a creation or update request
// so the caller can display all of them at once.
type ValidationErrors []string

func (e ValidationErrors) Error() string {
	return "validation failed: " + strings.Join(e, "; ")
}

// normalizeURL prepends http:// when the submitted URL carries no scheme.
// A scheme only counts when followed by "//": host:port forms such as
// example.com:8080/x parse with a scheme token but are scheme-less in
// practice and still get the prefix.
func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}

	if u, err := url.Parse(raw); err == nil && u.Scheme != "" && u.Opaque == "" {
		return raw
	}

	return "http://" + raw
}

// validURL reports whether the normalized URL is a usable absolute URL with
// scheme, host, and path all present.
func validURL(normalized string) bool {
	u, err := url.Parse(normalized)
	if err != nil {
		return false
	}

	return u.Scheme != "" && u.Host != "" && u.Path != ""
}

// validKeyword reports whether a keyword is non-empty and fully alphanumeric.
// Keywords never start with the short-code marker as a consequence, so a
// stored keyword can never shadow a numeric code.
func validKeyword(keyword string) bool {
	if keyword == "" {
		return false
	}

	for _, r := range keyword {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}

	return true
}

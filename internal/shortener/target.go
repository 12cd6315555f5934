package shortener

import (
	"strings"

	"github.com/jonesrussell/shorty/internal/shortcode"
)

// TargetKind distinguishes how a path segment addresses a link record.
type TargetKind int

const (
	// TargetNumeric addresses a record by its base-36 encoded ID.
	TargetNumeric TargetKind = iota
	// TargetKeyword addresses a record by keyword within a namespace.
	TargetKeyword
)

// Target is a parsed redirect path segment.
type Target struct {
	Kind    TargetKind
	ID      uint64
	Keyword string
}

// ParseTarget classifies a path segment as a numeric short code or a keyword.
// A segment carrying the short-code marker is only ever numeric: when its
// digits do not decode, the segment is invalid rather than a keyword fallback.
func ParseTarget(segment string) (Target, error) {
	if shortcode.HasMarker(segment) {
		id, err := shortcode.Decode(shortcode.Strip(segment))
		if err != nil {
			return Target{}, err
		}
		return Target{Kind: TargetNumeric, ID: id}, nil
	}

	keyword := strings.ToLower(segment)
	if keyword == "" {
		return Target{}, shortcode.ErrInvalidCode
	}

	return Target{Kind: TargetKeyword, Keyword: keyword}, nil
}

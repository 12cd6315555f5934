// Package shortcode implements the bijective mapping between numeric record
// IDs and marker-prefixed base-36 short codes.
//
// A short code is the lowercase base-36 representation of a record ID,
// prefixed with '+' so that /segment paths can distinguish numeric codes
// from human-chosen keywords.
package shortcode

import (
	"errors"
	"math"
	"strings"
)

// Marker is the reserved prefix that flags a path segment as a numeric
// short code rather than a keyword.
const Marker = '+'

// digits is the canonical base-36 alphabet. Encoding always emits lowercase;
// decoding accepts either case.
const digits = "0123456789abcdefghijklmnopqrstuvwxyz"

const base = 36

// ErrInvalidCode is returned when a code is empty, contains characters
// outside [0-9a-zA-Z], or does not fit in 64 bits.
var ErrInvalidCode = errors.New("invalid base36 short code")

// Encode converts a record ID to its marker-prefixed base-36 short code.
// The result has no leading zeros; Encode(0) returns "+0". Arithmetic is
// pure integer, so the full uint64 range round-trips without precision loss.
func Encode(id uint64) string {
	if id == 0 {
		return string(Marker) + "0"
	}

	// A uint64 never needs more than 13 base-36 digits.
	buf := make([]byte, 0, 14)
	for id > 0 {
		buf = append(buf, digits[id%base])
		id /= base
	}
	buf = append(buf, Marker)

	// Digits were produced least significant first.
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// Decode parses the base-36 digits of a short code back to a record ID.
// The caller is responsible for checking and stripping the marker before
// calling; HasMarker and Strip exist for that. Input is case-insensitive.
func Decode(code string) (uint64, error) {
	if code == "" {
		return 0, ErrInvalidCode
	}

	var id uint64
	for i := 0; i < len(code); i++ {
		v, ok := digitValue(code[i])
		if !ok {
			return 0, ErrInvalidCode
		}
		if id > (math.MaxUint64-v)/base {
			// The next digit would overflow uint64.
			return 0, ErrInvalidCode
		}
		id = id*base + v
	}
	return id, nil
}

// HasMarker reports whether the segment starts with the numeric-code marker.
func HasMarker(segment string) bool {
	return len(segment) > 0 && segment[0] == Marker
}

// Strip removes the leading marker from a segment. It assumes HasMarker
// returned true.
func Strip(segment string) string {
	return strings.TrimPrefix(segment, string(Marker))
}

// digitValue maps a base-36 character to its numeric value.
func digitValue(c byte) (uint64, bool) {
	switch {
	case c >= '0' && c <= '9':
		return uint64(c - '0'), true
	case c >= 'a' && c <= 'z':
		return uint64(c-'a') + 10, true
	case c >= 'A' && c <= 'Z':
		return uint64(c-'A') + 10, true
	default:
		return 0, false
	}
}

package shortcode_test

import (
	"math"
	"strings"
	"testing"

	"github.com/jonesrussell/shorty/internal/shortcode"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		input    uint64
		expected string
	}{
		{"zero", 0, "+0"},
		{"one", 1, "+1"},
		{"nine", 9, "+9"},
		{"ten", 10, "+a"},
		{"base minus one", 35, "+z"},
		{"base", 36, "+10"},
		{"three digit boundary", 46655, "+zzz"},
		{"one million", 1000000, "+lfls"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shortcode.Encode(tt.input)
			if result != tt.expected {
				t.Errorf("Encode(%d) = %s, want %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestEncode_AlwaysMarkedAndLowercase(t *testing.T) {
	for _, id := range []uint64{0, 7, 36, 999999, math.MaxUint64} {
		code := shortcode.Encode(id)
		if !shortcode.HasMarker(code) {
			t.Errorf("Encode(%d) = %s, missing marker", id, code)
		}
		if code != strings.ToLower(code) {
			t.Errorf("Encode(%d) = %s, not lowercase", id, code)
		}
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  uint64
		expectErr bool
	}{
		{"zero", "0", 0, false},
		{"one", "1", 1, false},
		{"ten lowercase", "a", 10, false},
		{"ten uppercase", "A", 10, false},
		{"base", "10", 36, false},
		{"mixed case", "ZzZ", 46655, false},
		{"empty string", "", 0, true},
		{"invalid character", "a!1", 0, true},
		{"invalid character space", "a 1", 0, true},
		{"embedded marker", "+a1", 0, true},
		{"max uint64", "3w5e11264sgsf", math.MaxUint64, false},
		{"overflow all z", "zzzzzzzzzzzzzz", 0, true},
		{"overflow just past max", "3w5e11264sgsg", 0, true},
		{"overflow multiply wraparound", "11zk02pzlmwow0", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := shortcode.Decode(tt.input)
			if tt.expectErr {
				if err == nil {
					t.Errorf("Decode(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("Decode(%q) unexpected error: %v", tt.input, err)
				return
			}
			if result != tt.expected {
				t.Errorf("Decode(%q) = %d, want %d", tt.input, result, tt.expected)
			}
		})
	}
}

func TestDecode_CaseInsensitive(t *testing.T) {
	upper, err := shortcode.Decode("A1")
	if err != nil {
		t.Fatalf("Decode(A1) unexpected error: %v", err)
	}
	lower, err := shortcode.Decode("a1")
	if err != nil {
		t.Fatalf("Decode(a1) unexpected error: %v", err)
	}
	if upper != lower {
		t.Errorf("Decode(A1) = %d, Decode(a1) = %d, want equal", upper, lower)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	testCases := []uint64{
		0, 1, 35, 36, 1295, 1296, 46656,
		uint64(1) << 32,
		uint64(1) << 53, // beyond float64's exact-integer range
		math.MaxUint64 / 2,
		math.MaxUint64 - 1,
		math.MaxUint64,
	}

	for _, id := range testCases {
		code := shortcode.Encode(id)
		if !shortcode.HasMarker(code) {
			t.Fatalf("Encode(%d) = %s, missing marker", id, code)
		}
		decoded, err := shortcode.Decode(shortcode.Strip(code))
		if err != nil {
			t.Fatalf("Decode(Strip(%s)) unexpected error: %v", code, err)
		}
		if decoded != id {
			t.Errorf("round trip of %d produced %d via %s", id, decoded, code)
		}
	}
}

func TestDecodeEncode_Canonicalizes(t *testing.T) {
	// Any accepted input re-encodes to its lowercase marker-prefixed form.
	inputs := []string{"A1", "a1", "ZZZ", "0", "10"}
	for _, in := range inputs {
		id, err := shortcode.Decode(in)
		if err != nil {
			t.Fatalf("Decode(%q) unexpected error: %v", in, err)
		}
		canonical := shortcode.Encode(id)
		want := "+" + strings.ToLower(in)
		if canonical != want {
			t.Errorf("Encode(Decode(%q)) = %s, want %s", in, canonical, want)
		}
	}
}

func TestHasMarkerAndStrip(t *testing.T) {
	if !shortcode.HasMarker("+abc") {
		t.Error("expected marker on +abc")
	}
	if shortcode.HasMarker("abc") {
		t.Error("did not expect marker on abc")
	}
	if shortcode.HasMarker("") {
		t.Error("did not expect marker on empty string")
	}
	if got := shortcode.Strip("+abc"); got != "abc" {
		t.Errorf("Strip(+abc) = %s, want abc", got)
	}
}

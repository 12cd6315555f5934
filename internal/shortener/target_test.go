package shortener_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/shorty/internal/shortener"
)

func TestParseTarget(t *testing.T) {
	testCases := []struct {
		name    string
		segment string
		want    shortener.Target
		wantErr bool
	}{
		{
			name:    "marked segment is numeric",
			segment: "+lfls",
			want:    shortener.Target{Kind: shortener.TargetNumeric, ID: 1000000},
		},
		{
			name:    "marked segment decodes case-insensitively",
			segment: "+LFLS",
			want:    shortener.Target{Kind: shortener.TargetNumeric, ID: 1000000},
		},
		{
			name:    "unmarked segment is a keyword",
			segment: "docs",
			want:    shortener.Target{Kind: shortener.TargetKeyword, Keyword: "docs"},
		},
		{
			name:    "keywords are lowercased",
			segment: "DOCS",
			want:    shortener.Target{Kind: shortener.TargetKeyword, Keyword: "docs"},
		},
		{
			name:    "marked segment never falls back to keyword",
			segment: "+not-a-code",
			wantErr: true,
		},
		{
			name:    "bare marker is invalid",
			segment: "+",
			wantErr: true,
		},
		{
			name:    "empty segment is invalid",
			segment: "",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			target, err := shortener.ParseTarget(tc.segment)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, target)
		})
	}
}

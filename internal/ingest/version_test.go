package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamecard/internal/domain/content"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name string
		line string
		want content.VersionRef
	}{
		{
			name: "full-width parentheses",
			line: "#v1.0.8（https://ex.com/a）#",
			want: content.VersionRef{Label: "v1.0.8", URL: "https://ex.com/a"},
		},
		{
			name: "half-width parentheses",
			line: "#v1.0.8(https://ex.com/a)#",
			want: content.VersionRef{Label: "v1.0.8", URL: "https://ex.com/a"},
		},
		{
			name: "label with trailing words",
			line: "#v1.0.8下载（https://ex.com/a）#",
			want: content.VersionRef{Label: "v1.0.8下载", URL: "https://ex.com/a"},
		},
		{
			name: "spaces inside parentheses",
			line: "v2.1 (  http://ex.com/b  )",
			want: content.VersionRef{Label: "v2.1", URL: "http://ex.com/b"},
		},
		{
			name: "ideographic space before parenthesis",
			line: "v1.0　（https://ex.com/c）",
			want: content.VersionRef{Label: "v1.0", URL: "https://ex.com/c"},
		},
		{
			name: "bare url",
			line: "V3.1 download https://c.example/z",
			want: content.VersionRef{Label: "V3.1", URL: "https://c.example/z"},
		},
		{
			name: "unclosed parenthesis",
			line: "##v1.0(https://x.example/a",
			want: content.VersionRef{Label: "v1.0", URL: "https://x.example/a"},
		},
		{
			name: "bare v with parenthesized link",
			line: "v (https://x.example/a)",
			want: content.VersionRef{Label: "v", URL: "https://x.example/a"},
		},
		{
			name: "bare v with loose link",
			line: "#v https://x.example/a#",
			want: content.VersionRef{Label: "v", URL: "https://x.example/a"},
		},
		{
			name: "label only",
			line: "#v2.0 no-url#",
			want: content.VersionRef{Label: "v2.0 no-url"},
		},
		{
			name: "non-http link stays in label",
			line: "v1.0（ftp://x.example）",
			want: content.VersionRef{Label: "v1.0（ftp://x.example）"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseVersion(tt.line)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseVersion_WidthsAgree(t *testing.T) {
	full, ok := ParseVersion("#v1.0.8（https://ex.com/a）#")
	require.True(t, ok)
	half, ok := ParseVersion("#v1.0.8(https://ex.com/a)#")
	require.True(t, ok)
	assert.Equal(t, half, full)
}

func TestParseVersion_ParenthesizedLinkWins(t *testing.T) {
	line := "v2.0 mirror https://b.example/y (https://a.example/x)"

	// The loose pattern alone would take the first, bare link.
	m := secondaryVersion.FindStringSubmatch(line)
	require.NotNil(t, m)
	assert.Equal(t, "https://b.example/y", m[2])

	got, ok := ParseVersion(line)
	require.True(t, ok)
	assert.Equal(t, "https://a.example/x", got.URL)
	assert.Equal(t, "v2.0 mirror https://b.example/y", got.Label)
}

func TestParseVersion_Rejects(t *testing.T) {
	for _, line := range []string{
		"",
		"#",
		"######",
		"###Alpha###",
		"Download v1.0 (https://x.example)",
		"https://x.example/v1",
		"##  ##",
		"版本 v1.0（https://x.example）",
	} {
		_, ok := ParseVersion(line)
		assert.False(t, ok, "line %q", line)
	}
}

func TestParseVersionStrict(t *testing.T) {
	got, ok := parseVersionStrict("#v1.0下载（https://a.example/x）#")
	require.True(t, ok)
	assert.Equal(t, content.VersionRef{Label: "v1.0下载", URL: "https://a.example/x"}, got)

	for _, line := range []string{
		"v1.0（https://a.example/x）",
		"#v1.0(https://a.example/x)#",
		"#V1.0（https://a.example/x）#",
		"#v1.0（a.example/x）#",
		"#v1.0#",
	} {
		_, ok := parseVersionStrict(line)
		assert.False(t, ok, "line %q", line)
	}
}

func TestParseVersionStrict_IsSubsetOfTolerant(t *testing.T) {
	for _, line := range []string{
		"#v1.0下载（https://a.example/x）#",
		"#v2（ https://b.example/y ）#",
		"#v3.0 beta（http://c.example）尾巴#",
	} {
		strict, ok := parseVersionStrict(line)
		require.True(t, ok, "line %q", line)
		tolerant, ok := ParseVersion(line)
		require.True(t, ok, "line %q", line)
		assert.Equal(t, strict, tolerant, "line %q", line)
	}
}

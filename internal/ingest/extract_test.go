package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gamecard/internal/domain/content"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		block Block
		want  content.Entry
	}{
		{
			name:  "full entry",
			block: Block{"###Alpha###", "##A fun game##", "#v1.0（https://a.example/x）#"},
			want: content.Entry{
				Title:       "Alpha",
				Description: "A fun game",
				Versions:    []content.VersionRef{{Label: "v1.0", URL: "https://a.example/x"}},
				Extra:       []string{},
			},
		},
		{
			name:  "double hash title",
			block: Block{"##Beta##", "#v2.0 no-url#"},
			want: content.Entry{
				Title:    "Beta",
				Versions: []content.VersionRef{{Label: "v2.0 no-url"}},
				Extra:    []string{},
			},
		},
		{
			name:  "triple hash wins over earlier double hash",
			block: Block{"##Desc first##", "###Title###"},
			want: content.Entry{
				Title:       "Title",
				Description: "Desc first",
				Versions:    []content.VersionRef{},
				Extra:       []string{},
			},
		},
		{
			name:  "title starting with v is also a version",
			block: Block{"###Vampire Hunters###", "##Survive the night##", "#v0.9（https://v.example/dl）#"},
			want: content.Entry{
				Title:       "Vampire Hunters",
				Description: "Survive the night",
				Versions: []content.VersionRef{
					{Label: "Vampire Hunters"},
					{Label: "v0.9", URL: "https://v.example/dl"},
				},
				Extra: []string{},
			},
		},
		{
			name:  "every line goes through the version parser",
			block: Block{"###Vampire###", "#v1（https://x.example/a）#"},
			want: content.Entry{
				Title: "Vampire",
				Versions: []content.VersionRef{
					{Label: "Vampire"},
					{Label: "v1", URL: "https://x.example/a"},
				},
				Extra: []string{},
			},
		},
		{
			name:  "description starting with v",
			block: Block{"###Game###", "##vivid colors##"},
			want: content.Entry{
				Title:       "Game",
				Description: "vivid colors",
				Versions:    []content.VersionRef{{Label: "vivid colors"}},
				Extra:       []string{},
			},
		},
		{
			name:  "plain lines",
			block: Block{"Plain Name", "second line", "#v1#"},
			want: content.Entry{
				Title:       "Plain Name",
				Description: "second line",
				Versions:    []content.VersionRef{{Label: "v1"}},
				Extra:       []string{},
			},
		},
		{
			name:  "versions only",
			block: Block{"#v1.0#", "v2.0 https://x.example/2"},
			want: content.Entry{
				Title: content.Untitled,
				Versions: []content.VersionRef{
					{Label: "v1.0"},
					{Label: "v2.0", URL: "https://x.example/2"},
				},
				Extra: []string{},
			},
		},
		{
			name:  "leftover lines kept once",
			block: Block{"###T###", "##D##", "some note", "##D##", "###T###", "####", "# another #"},
			want: content.Entry{
				Title:       "T",
				Description: "D",
				Versions:    []content.VersionRef{},
				Extra:       []string{"some note", "another"},
			},
		},
		{
			name:  "hash-only block",
			block: Block{"######", "##"},
			want: content.Entry{
				Title:    content.Untitled,
				Versions: []content.VersionRef{},
				Extra:    []string{},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.block, Options{}))
		})
	}
}

func TestExtract_UntitledOverride(t *testing.T) {
	e := Extract(Block{"#v1#"}, Options{Untitled: "Untitled"})
	assert.Equal(t, "Untitled", e.Title)
}

func TestExtract_VersionsAndExtraDisjoint(t *testing.T) {
	blocks := []Block{
		{"###A###", "v1 https://a.example", "note", "v2"},
		{"x", "y", "z", "#v3（https://c.example）#"},
		{"##v-named##", "v1"},
	}
	for _, b := range blocks {
		e := Extract(b, Options{})
		assert.NotEmpty(t, e.Title)
		labels := make(map[string]struct{}, len(e.Versions))
		for _, v := range e.Versions {
			labels[v.Label] = struct{}{}
		}
		for _, x := range e.Extra {
			_, dup := labels[x]
			assert.False(t, dup, "line %q is both version and extra", x)
			assert.NotEqual(t, e.Title, x)
			assert.NotEqual(t, e.Description, x)
		}
	}
}

func TestExtract_WrappedVTitleCountsAsVersion(t *testing.T) {
	e := Extract(Block{"##v-named##", "v1"}, Options{})
	assert.Equal(t, "v-named", e.Title)
	assert.Equal(t, []content.VersionRef{{Label: "v-named"}, {Label: "v1"}}, e.Versions)
	assert.Empty(t, e.Extra)
}

func TestExtract_Strict(t *testing.T) {
	b := Block{
		"###Alpha###",
		"##Fun##",
		"#v1.0下载（https://a.example/x）#",
		"#v2.0(https://b.example)#",
		"note",
	}
	got := Extract(b, Options{Mode: ModeStrict})
	assert.Equal(t, content.Entry{
		Title:       "Alpha",
		Description: "Fun",
		Versions:    []content.VersionRef{{Label: "v1.0下载", URL: "https://a.example/x"}},
		Extra:       []string{"v2.0(https://b.example)", "note"},
	}, got)
}

func TestExtract_StrictFallsBackToPlaceholder(t *testing.T) {
	got := Extract(Block{"##Only desc##", "#v1#"}, Options{Mode: ModeStrict})
	assert.Equal(t, content.Untitled, got.Title)
	assert.Equal(t, "Only desc", got.Description)
	assert.Empty(t, got.Versions)
	assert.Equal(t, []string{"v1"}, got.Extra)
}

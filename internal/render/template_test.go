package render

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamecard/internal/domain/config"
	"gamecard/internal/domain/content"
)

func defaultRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	r, err := NewTemplateRenderer("", DefaultTheme)
	require.NoError(t, err)
	return r
}

func TestRenderCards(t *testing.T) {
	r := defaultRenderer(t)
	out, err := r.RenderCards(context.Background(), CardsView{Entries: []content.Entry{
		{
			Title:       "Alpha",
			Description: "A fun game",
			Versions: []content.VersionRef{
				{Label: "v1.0", URL: "https://a.example/x?a=1&b=2"},
				{Label: "v0.9"},
			},
			Extra: []string{"hidden when versions exist"},
		},
		{
			Title: "Beta",
			Extra: []string{"line one", "line two"},
		},
	}})
	require.NoError(t, err)
	html := string(out)

	assert.Equal(t, 2, strings.Count(html, `<div class="game-item">`))
	assert.Contains(t, html, "<h3>Alpha</h3>")
	assert.Contains(t, html, "<p>A fun game</p>")
	assert.Contains(t, html, `<p>版本：<a href="https://a.example/x?a=1&amp;b=2" target="_blank" rel="noopener noreferrer">《v1.0》</a></p>`)
	assert.Contains(t, html, "<p>版本：v0.9</p>")
	assert.NotContains(t, html, "hidden when versions exist")
	assert.Contains(t, html, "<p>line one</p>")
	assert.Contains(t, html, "<p>line two</p>")
}

func TestRenderCards_EscapesContent(t *testing.T) {
	r := defaultRenderer(t)
	out, err := r.RenderCards(context.Background(), CardsView{Entries: []content.Entry{{
		Title:       `<script>alert(1)</script>`,
		Description: `"quoted" & <b>bold</b>`,
		Versions:    []content.VersionRef{{Label: `v1"><img src=x onerror=alert(1)>`, URL: "javascript:alert(1)"}},
	}}})
	require.NoError(t, err)
	html := string(out)

	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "<img")
	assert.NotContains(t, html, "javascript:")
	assert.Contains(t, html, "&lt;script&gt;alert(1)&lt;/script&gt;")
}

func TestRenderCards_Empty(t *testing.T) {
	r := defaultRenderer(t)
	out, err := r.RenderCards(context.Background(), CardsView{})
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(string(out)))
}

func TestRenderLayout(t *testing.T) {
	r := defaultRenderer(t)
	out, err := r.RenderLayout(context.Background(), LayoutView{
		Site:      config.SiteConfig{Title: "Games", Language: "zh-TW"},
		Page:      config.PageConfig{Name: "windows", Title: "Windows", Container: "game-list", IntroContainer: "intro"},
		Generated: time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, `<main id="game-list"`)
	assert.Contains(t, html, `<section id="intro"`)
	assert.Contains(t, html, "2026-10-15 09:30")
	assert.NotContains(t, html, "EventSource")
}

func TestRenderIndex(t *testing.T) {
	r := defaultRenderer(t)
	out, err := r.RenderIndex(context.Background(), IndexView{
		Site:      config.SiteConfig{Title: "Games"},
		Pages:     []PageSummary{{Name: "windows", Title: "Windows", URL: "windows.html", Entries: 3, Versions: 5}},
		DevReload: true,
	})
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, `<a href="windows.html">Windows</a>`)
	assert.Contains(t, html, "3 款 / 5 個版本")
	assert.Contains(t, html, "EventSource")
}

func TestRenderNotFound(t *testing.T) {
	r := defaultRenderer(t)
	out, err := r.RenderNotFound(context.Background(), NotFoundView{Path: "/<x>"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "找不到 /&lt;x&gt;")
}

func TestThemeFS(t *testing.T) {
	_, err := ThemeFS(t.TempDir(), "fancy")
	assert.Error(t, err)

	dir := t.TempDir()
	tplDir := filepath.Join(dir, "mine", "templates")
	require.NoError(t, os.MkdirAll(tplDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tplDir, "cards.tmpl"), []byte("x"), 0o644))

	_, err = NewTemplateRenderer(dir, "mine")
	assert.EqualError(t, err, "missing template: layout.tmpl")
}

func TestStaticAndHash(t *testing.T) {
	r := defaultRenderer(t)
	static := r.Static()
	require.NotNil(t, static)
	css, err := os.ReadFile("theme/default/static/css/style.css")
	require.NoError(t, err)
	got, err := fs.ReadFile(static, "css/style.css")
	require.NoError(t, err)
	assert.Equal(t, css, got)

	h1, err := r.Hash()
	require.NoError(t, err)
	h2, err := defaultRenderer(t).Hash()
	require.NoError(t, err)
	assert.Len(t, h1, 64)
	assert.Equal(t, h1, h2)
}

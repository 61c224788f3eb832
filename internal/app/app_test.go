package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamecard/internal/domain/config"
	"gamecard/internal/domain/site"
	"gamecard/internal/ingest"
)

func TestBuildRoutes(t *testing.T) {
	rb := RouteBuilder{Pages: []config.PageConfig{{Name: "windows"}, {Name: "android"}}}
	routes := rb.BuildRoutes()
	require.Len(t, routes, 6)

	var outs []string
	for _, r := range routes {
		outs = append(outs, r.OutPath)
	}
	assert.Equal(t, []string{
		"index.html",
		"windows.html", "api/windows.json",
		"android.html", "api/android.json",
		"404.html",
	}, outs)
}

func TestMatch(t *testing.T) {
	routes := (&RouteBuilder{Pages: []config.PageConfig{{Name: "windows"}}}).BuildRoutes()

	tests := []struct {
		path string
		kind site.RouteKind
		name string
		ok   bool
	}{
		{"/", site.RouteIndex, "", true},
		{"/index.html", site.RouteIndex, "", true},
		{"/windows.html", site.RoutePage, "windows", true},
		{"/api/windows.json", site.RouteAPI, "windows", true},
		{"/android.html", site.RouteNotFound, "", false},
		{"/404.html", site.RouteNotFound, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			r, ok := Match(routes, tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.kind, r.Kind)
			assert.Equal(t, tt.name, r.Name)
		})
	}
}

func TestResolvePages_Discover(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "windows.txt"), []byte("###A###"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.txt"), []byte("###B###"), 0o644))

	cfg := config.Default()
	cfg.Build.SourceDir = dir
	pages, err := ResolvePages(cfg)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "windows", pages[0].Name)
	assert.Equal(t, config.DefaultContainer, pages[0].Container)
	assert.Equal(t, filepath.Join(dir, "windows.txt"), cfg.SourcePath(pages[0]))

	srcs := Sources(cfg, pages)
	assert.Equal(t, []ingest.Source{{Name: "windows", Path: filepath.Join(dir, "windows.txt")}}, srcs)
}

func TestResolvePages_Configured(t *testing.T) {
	cfg := config.Default()
	cfg.Pages = []config.PageConfig{{Name: "x", Source: "x.txt"}}
	pages, err := ResolvePages(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Pages, pages)
}

func TestParserOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Parser = config.ParserConfig{Mode: config.ParserStrict, Untitled: "Untitled"}
	opt, err := ParserOptions(cfg)
	require.NoError(t, err)
	assert.Equal(t, ingest.Options{Mode: ingest.ModeStrict, Untitled: "Untitled"}, opt)
}

func TestResolvePages_DuplicateNames(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"a", "b"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, sub, "games.txt"), []byte("###A###"), 0o644))
	}

	cfg := config.Default()
	cfg.Build.SourceDir = dir
	pages, err := ResolvePages(cfg)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "games", pages[0].Name)
	assert.Equal(t, "games-2", pages[1].Name)
	assert.Equal(t, filepath.Join("b", "games.txt"), pages[1].Source)
}

func TestResolvePages_SuffixSkipsTakenNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	for _, rel := range []string{"a-2.txt", "a.txt", filepath.Join("sub", "a.txt")} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, rel), []byte("###A###"), 0o644))
	}

	cfg := config.Default()
	cfg.Build.SourceDir = dir
	pages, err := ResolvePages(cfg)
	require.NoError(t, err)

	var names []string
	for _, p := range pages {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"a-2", "a", "a-3"}, names)
	assert.Equal(t, filepath.Join("sub", "a.txt"), pages[2].Source)
}

func TestResolvePages_SkipsReservedNames(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"404.txt", "api.txt", "windows.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("###A###"), 0o644))
	}

	cfg := config.Default()
	cfg.Build.SourceDir = dir
	pages, err := ResolvePages(cfg)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "windows", pages[0].Name)
}

package build

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"gamecard/internal/app"
	domainbuild "gamecard/internal/domain/build"
	"gamecard/internal/domain/config"
	"gamecard/internal/domain/content"
	"gamecard/internal/domain/site"
	"gamecard/internal/index"
	"gamecard/internal/ingest"
	"gamecard/internal/logging"
	"gamecard/internal/render"
)

type Builder struct {
	Cfg    config.Config
	Logger *slog.Logger
	// Force re-renders pages whose fingerprint did not change.
	Force bool
	// Store is used as is when set; otherwise Run opens Cfg.Build.IndexPath.
	Store *index.Store
	// DevReload is forwarded to the page renderer.
	DevReload bool
}

type Result struct {
	Pages    int
	Entries  int
	Skipped  int
	Warnings []ingest.Warning
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger == nil {
		return logging.Discard()
	}
	return logging.Component(b.Logger, "build")
}

func (b *Builder) Run(ctx context.Context) (*Result, error) {
	log := b.logger()

	pages, err := app.ResolvePages(b.Cfg)
	if err != nil {
		return nil, err
	}
	opt, err := app.ParserOptions(b.Cfg)
	if err != nil {
		return nil, err
	}

	catalogs, warns, err := ingest.Ingest(ctx, app.Sources(b.Cfg, pages), opt)
	if err != nil {
		return nil, fmt.Errorf("ingest failed: %w", err)
	}
	for _, w := range warns {
		log.Warn("catalog", "path", w.Path, "msg", w.Msg)
	}

	pr, err := NewPageRenderer(b.Cfg, b.Logger)
	if err != nil {
		return nil, err
	}
	pr.DevReload = b.DevReload
	themeHash, err := pr.Templates.Hash()
	if err != nil {
		return nil, fmt.Errorf("hash theme: %w", err)
	}

	st := b.Store
	if st == nil {
		st, err = index.Open(index.OpenOptions{Path: b.Cfg.Build.IndexPath})
		if err != nil {
			return nil, fmt.Errorf("failed to open index: %w", err)
		}
		defer st.Close()
	}

	// 先读旧指纹，Rebuild 之后就没了
	prev := make(map[string]string, len(pages))
	hashes := make(map[string]string, len(pages))
	for i, p := range pages {
		old, err := st.RenderHash(p.Name)
		if err != nil && !errors.Is(err, index.ErrNotFound) {
			return nil, fmt.Errorf("read fingerprint of %s: %w", p.Name, err)
		}
		prev[p.Name] = old

		fp, err := b.fingerprint(p, catalogs[i], themeHash)
		if err != nil {
			return nil, err
		}
		hashes[p.Name] = fp.RenderHash
	}

	if err := st.Rebuild(catalogs, index.RebuildOptions{
		RenderHashes: hashes,
		Now:          b.Cfg.Build.Now,
	}); err != nil {
		return nil, fmt.Errorf("failed to rebuild index: %w", err)
	}

	outDir := b.Cfg.Build.PublicDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir public: %w", err)
	}

	res := &Result{Warnings: warns}
	byName := make(map[string]int, len(pages))
	for i, p := range pages {
		byName[p.Name] = i
	}

	rb := app.RouteBuilder{Pages: pages}
	for _, route := range rb.BuildRoutes() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch route.Kind {
		case site.RoutePage:
			i := byName[route.Name]
			p, cat := pages[i], catalogs[i]
			res.Pages++
			res.Entries += len(cat.Entries)
			out := filepath.Join(outDir, route.OutPath)
			if !b.Force && prev[p.Name] != "" && prev[p.Name] == hashes[p.Name] && fileExists(out) {
				res.Skipped++
				log.Debug("page unchanged", "page", p.Name)
				continue
			}
			data, err := pr.Page(ctx, p, cat.Entries)
			if err != nil {
				return nil, fmt.Errorf("build page %s: %w", p.Name, err)
			}
			if err := writeFile(outDir, route.OutPath, data); err != nil {
				return nil, err
			}
			log.Info("page written", "page", p.Name, "entries", len(cat.Entries), "versions", cat.VersionCount())

		case site.RouteAPI:
			i := byName[route.Name]
			if err := writeJSON(outDir, route.OutPath, app.EntriesPayload{
				Name:    pages[i].Name,
				Title:   pages[i].Title,
				Total:   len(catalogs[i].Entries),
				Entries: catalogs[i].Entries,
			}); err != nil {
				return nil, fmt.Errorf("build api %s: %w", route.Name, err)
			}

		case site.RouteIndex:
			data, err := pr.Index(ctx, Summaries(pages, catalogs))
			if err != nil {
				return nil, fmt.Errorf("build index: %w", err)
			}
			if err := writeFile(outDir, route.OutPath, data); err != nil {
				return nil, err
			}

		case site.RouteNotFound:
			data, err := pr.NotFound(ctx, "")
			if err != nil {
				return nil, fmt.Errorf("build 404: %w", err)
			}
			if err := writeFile(outDir, route.OutPath, data); err != nil {
				return nil, err
			}
		}
	}

	if err := copyStatic(pr.Templates.Static(), outDir); err != nil {
		return nil, fmt.Errorf("copy static: %w", err)
	}
	return res, nil
}

// Summaries pairs pages with their catalogs for the index page.
func Summaries(pages []config.PageConfig, catalogs []content.Catalog) []render.PageSummary {
	out := make([]render.PageSummary, 0, len(pages))
	for i, p := range pages {
		s := render.PageSummary{Name: p.Name, Title: p.Title, URL: p.Name + ".html"}
		if i < len(catalogs) {
			s.Entries = len(catalogs[i].Entries)
			s.Versions = catalogs[i].VersionCount()
		}
		out = append(out, s)
	}
	return out
}

func (b *Builder) fingerprint(p config.PageConfig, cat content.Catalog, themeHash string) (domainbuild.Fingerprint, error) {
	cfgBytes, err := yaml.Marshal(struct {
		Site   config.SiteConfig   `yaml:"site"`
		Parser config.ParserConfig `yaml:"parser"`
		Page   config.PageConfig   `yaml:"page"`
	}{b.Cfg.Site, b.Cfg.Parser, p})
	if err != nil {
		return domainbuild.Fingerprint{}, err
	}
	layoutHash, err := hashOptional(b.Cfg.LayoutPath(p))
	if err != nil {
		return domainbuild.Fingerprint{}, fmt.Errorf("read layout of %s: %w", p.Name, err)
	}
	introHash, err := hashOptional(b.Cfg.IntroPath(p))
	if err != nil {
		return domainbuild.Fingerprint{}, fmt.Errorf("read intro of %s: %w", p.Name, err)
	}

	fp := domainbuild.Fingerprint{
		ContentHash: cat.ContentHash,
		ThemeHash:   themeHash,
		ConfigHash:  ingest.HashBytes(cfgBytes),
		LayoutHash:  layoutHash,
		IntroHash:   introHash,
	}
	fp.ComputeRenderHash()
	return fp, nil
}

func hashOptional(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return ingest.HashBytes(data), nil
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

func writeFile(root, rel string, data []byte) error {
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

func writeJSON(root, rel string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(root, rel, append(data, '\n'))
}

func copyStatic(static fs.FS, outDir string) error {
	// 主题没有 static 目录就算了
	if static == nil {
		return nil
	}
	return fs.WalkDir(static, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		in, err := fs.ReadFile(static, path)
		if err != nil {
			return err
		}
		return writeFile(outDir, path, in)
	})
}

package app

import (
	"fmt"
	"path/filepath"
	"strconv"

	"gamecard/internal/domain/config"
	"gamecard/internal/ingest"
)

// ResolvePages returns the configured pages, or one page per catalog
// file under the source directory when none are configured.
func ResolvePages(cfg config.Config) ([]config.PageConfig, error) {
	if len(cfg.Pages) > 0 {
		return cfg.Pages, nil
	}
	found, err := ingest.DiscoverSource(cfg.Build.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("discover sources in %s: %w", cfg.Build.SourceDir, err)
	}
	pages := make([]config.PageConfig, 0, len(found))
	taken := make(map[string]bool, len(found))
	for _, src := range found {
		rel, err := filepath.Rel(cfg.Build.SourceDir, src.Path)
		if err != nil {
			rel = src.Path
		}
		if src.Name == "" || config.IsReservedPageName(src.Name) {
			continue
		}
		// 重名（包括和已有的 -N 名字撞上）就继续往后加序号
		name := src.Name
		for n := 2; taken[name]; n++ {
			name = src.Name + "-" + strconv.Itoa(n)
		}
		taken[name] = true
		pages = append(pages, config.PageConfig{
			Name:      name,
			Title:     name,
			Source:    rel,
			Container: config.DefaultContainer,
		})
	}
	return pages, nil
}

func Sources(cfg config.Config, pages []config.PageConfig) []ingest.Source {
	out := make([]ingest.Source, 0, len(pages))
	for _, p := range pages {
		out = append(out, ingest.Source{Name: p.Name, Path: cfg.SourcePath(p)})
	}
	return out
}

func ParserOptions(cfg config.Config) (ingest.Options, error) {
	mode, err := ingest.ParseMode(string(cfg.Parser.Mode))
	if err != nil {
		return ingest.Options{}, err
	}
	return ingest.Options{Mode: mode, Untitled: cfg.Parser.Untitled}, nil
}

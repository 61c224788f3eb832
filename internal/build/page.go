package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gamecard/internal/domain/config"
	"gamecard/internal/domain/content"
	"gamecard/internal/logging"
	"gamecard/internal/render"
)

// PageRenderer produces the HTML documents of a site. Build and serve
// share it so a page looks the same on disk and over HTTP.
type PageRenderer struct {
	Cfg       config.Config
	Templates *render.TemplateRenderer
	Markdown  *render.MarkdownRenderer
	Logger    *slog.Logger
	DevReload bool
}

func NewPageRenderer(cfg config.Config, logger *slog.Logger) (*PageRenderer, error) {
	tpl, err := render.NewTemplateRenderer(cfg.Build.ThemeDir, cfg.Build.Theme)
	if err != nil {
		return nil, fmt.Errorf("load theme %s: %w", cfg.Build.Theme, err)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &PageRenderer{
		Cfg:       cfg,
		Templates: tpl,
		Markdown:  render.NewMarkdownRenderer(),
		Logger:    logger,
	}, nil
}

// Page renders the cards of entries and mounts them, plus the optional
// intro, into the page's host document. A missing container is logged
// and leaves that part of the page empty.
func (pr *PageRenderer) Page(ctx context.Context, p config.PageConfig, entries []content.Entry) ([]byte, error) {
	cards, err := pr.Templates.RenderCards(ctx, render.CardsView{Entries: entries})
	if err != nil {
		return nil, fmt.Errorf("render cards: %w", err)
	}
	host, err := pr.host(ctx, p)
	if err != nil {
		return nil, err
	}
	doc, err := render.ParseDocument(host)
	if err != nil {
		return nil, err
	}

	ok, err := doc.Mount(p.Container, cards)
	if err != nil {
		return nil, err
	}
	if !ok {
		pr.Logger.Warn("container not found, no cards rendered", "page", p.Name, "container", p.Container)
	}

	if p.Intro != "" {
		src, err := os.ReadFile(pr.Cfg.IntroPath(p))
		if err != nil {
			return nil, fmt.Errorf("read intro: %w", err)
		}
		frag, err := pr.Markdown.Render(src)
		if err != nil {
			return nil, fmt.Errorf("render intro: %w", err)
		}
		ok, err := doc.Mount(p.IntroContainer, frag)
		if err != nil {
			return nil, err
		}
		if !ok {
			pr.Logger.Warn("intro container not found", "page", p.Name, "container", p.IntroContainer)
		}
	}

	// 主题模板自己带 reload 脚本，自定义 layout 需要补上
	if pr.DevReload && p.Layout != "" {
		if _, err := doc.AppendTo("body", []byte(render.ReloadScript)); err != nil {
			return nil, err
		}
	}
	return doc.Bytes()
}

func (pr *PageRenderer) host(ctx context.Context, p config.PageConfig) ([]byte, error) {
	if p.Layout != "" {
		b, err := os.ReadFile(pr.Cfg.LayoutPath(p))
		if err != nil {
			return nil, fmt.Errorf("read layout: %w", err)
		}
		return b, nil
	}
	b, err := pr.Templates.RenderLayout(ctx, render.LayoutView{
		Site:      pr.Cfg.Site,
		Page:      p,
		Generated: pr.Cfg.Build.Now,
		DevReload: pr.DevReload,
	})
	if err != nil {
		return nil, fmt.Errorf("render layout: %w", err)
	}
	return b, nil
}

func (pr *PageRenderer) Index(ctx context.Context, pages []render.PageSummary) ([]byte, error) {
	return pr.Templates.RenderIndex(ctx, render.IndexView{
		Site:      pr.Cfg.Site,
		Pages:     pages,
		Generated: pr.Cfg.Build.Now,
		DevReload: pr.DevReload,
	})
}

func (pr *PageRenderer) NotFound(ctx context.Context, path string) ([]byte, error) {
	return pr.Templates.RenderNotFound(ctx, render.NotFoundView{Site: pr.Cfg.Site, Path: path})
}

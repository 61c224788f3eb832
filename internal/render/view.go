package render

import (
	"time"

	"gamecard/internal/domain/config"
	"gamecard/internal/domain/content"
)

type CardsView struct {
	Entries []content.Entry
}

type LayoutView struct {
	Site      config.SiteConfig
	Page      config.PageConfig
	Generated time.Time
	// DevReload adds the live-reload hook used by serve.
	DevReload bool
}

type PageSummary struct {
	Name     string
	Title    string
	URL      string
	Entries  int
	Versions int
}

type IndexView struct {
	Site      config.SiteConfig
	Pages     []PageSummary
	Generated time.Time
	DevReload bool
}

type NotFoundView struct {
	Site config.SiteConfig
	Path string
}

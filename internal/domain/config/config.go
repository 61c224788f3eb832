package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	domainerr "gamecard/internal/domain/errors"
)

// DefaultContainer is the element id the cards are mounted into when a
// page does not name one.
const DefaultContainer = "game-list"

type Config struct {
	Site   SiteConfig   `yaml:"site"`
	Build  BuildConfig  `yaml:"build"`
	Parser ParserConfig `yaml:"parser"`
	Pages  []PageConfig `yaml:"pages"`
	Serve  ServeConfig  `yaml:"serve"`
	Log    LogConfig    `yaml:"log"`
}

type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Language    string `yaml:"language"`
}

type BuildConfig struct {
	SourceDir string    `yaml:"source_dir"`
	PublicDir string    `yaml:"public_dir"`
	ThemeDir  string    `yaml:"theme_dir"`
	Theme     string    `yaml:"theme"`
	IndexPath string    `yaml:"index_path"`
	Now       time.Time `yaml:"-"`
}

type ParserMode string

const (
	ParserTolerant ParserMode = "tolerant"
	ParserStrict   ParserMode = "strict"
)

type ParserConfig struct {
	Mode     ParserMode `yaml:"mode"`
	Untitled string     `yaml:"untitled"`
}

// PageConfig binds one catalog source to one output page.
type PageConfig struct {
	Name   string `yaml:"name"`
	Title  string `yaml:"title"`
	Source string `yaml:"source"`
	// Layout is an optional host HTML file; the theme layout is used
	// when empty.
	Layout         string `yaml:"layout"`
	Container      string `yaml:"container"`
	Intro          string `yaml:"intro"`
	IntroContainer string `yaml:"intro_container"`
}

type ServeConfig struct {
	Addr  string `yaml:"addr"`
	Watch bool   `yaml:"watch"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:    "Game Downloads",
			Language: "zh-TW",
		},
		Build: BuildConfig{
			SourceDir: "source",
			PublicDir: "public",
			ThemeDir:  "themes",
			Theme:     "default",
			IndexPath: ".gamecard/index.db",
			Now:       time.Now(),
		},
		Parser: ParserConfig{
			Mode: ParserTolerant,
		},
		Serve: ServeConfig{
			Addr:  ":8080",
			Watch: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// SourcePath resolves a page source against the source directory.
func (c Config) SourcePath(p PageConfig) string {
	return c.resolve(p.Source)
}

func (c Config) LayoutPath(p PageConfig) string {
	return c.resolve(p.Layout)
}

func (c Config) IntroPath(p PageConfig) string {
	return c.resolve(p.Intro)
}

func (c Config) resolve(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Build.SourceDir, name)
}

// Normalize fills page fields that have an obvious default.
func (c *Config) Normalize() {
	if c.Parser.Mode == "" {
		c.Parser.Mode = ParserTolerant
	}
	c.Parser.Mode = ParserMode(strings.ToLower(strings.TrimSpace(string(c.Parser.Mode))))
	for i := range c.Pages {
		p := &c.Pages[i]
		p.Name = strings.TrimSpace(p.Name)
		if strings.TrimSpace(p.Title) == "" {
			p.Title = p.Name
		}
		if strings.TrimSpace(p.Container) == "" {
			p.Container = DefaultContainer
		}
	}
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Site.Title) == "" {
		ve.Add("site.title", "must not be empty")
	}

	if strings.TrimSpace(c.Build.SourceDir) == "" {
		ve.Add("build.source_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.PublicDir) == "" {
		ve.Add("build.public_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.Theme) == "" {
		ve.Add("build.theme", "must not be empty")
	}
	if strings.TrimSpace(c.Build.IndexPath) == "" {
		ve.Add("build.index_path", "must not be empty")
	}

	switch c.Parser.Mode {
	case "", ParserTolerant, ParserStrict:
	default:
		ve.Add("parser.mode", "must be 'tolerant' or 'strict'")
	}

	seen := make(map[string]int, len(c.Pages))
	for i, p := range c.Pages {
		field := func(name string) string {
			return "pages[" + strconv.Itoa(i) + "]." + name
		}
		switch name := strings.TrimSpace(p.Name); {
		case name == "":
			ve.Add(field("name"), "must not be empty")
		case !isSafeName(name):
			ve.Add(field("name"), "must be a plain file name")
		case IsReservedPageName(name):
			ve.Addf(field("name"), "%q is reserved", name)
		default:
			if prev, ok := seen[name]; ok {
				ve.Addf(field("name"), "duplicate of pages[%d]", prev)
			} else {
				seen[name] = i
			}
		}
		if strings.TrimSpace(p.Source) == "" {
			ve.Add(field("source"), "must not be empty")
		}
		if strings.TrimSpace(p.Container) == "" {
			ve.Add(field("container"), "must not be empty")
		}
		if strings.TrimSpace(p.Intro) != "" && strings.TrimSpace(p.IntroContainer) == "" {
			ve.Add(field("intro_container"), "required when intro is set")
		}
	}

	if strings.TrimSpace(c.Serve.Addr) == "" {
		ve.Add("serve.addr", "must not be empty")
	}

	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		ve.Add("log.level", "must be one of debug, info, warn, error")
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case "", "text", "json":
	default:
		ve.Add("log.format", "must be 'text' or 'json'")
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

// IsReservedPageName reports names whose output paths belong to the
// site itself: index.html, 404.html and the api/ directory.
func IsReservedPageName(name string) bool {
	switch name {
	case "index", "api", "404":
		return true
	}
	return false
}

func isSafeName(s string) bool {
	if s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, `/\`) && !strings.Contains(s, "..")
}

func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	return decode(cfg, data)
}

// LoadOrDefault behaves like Load but accepts a missing file.
func LoadOrDefault(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.Normalize()
			return cfg, cfg.Validate()
		}
		return cfg, err
	}
	return decode(cfg, data)
}

func decode(cfg Config, data []byte) (Config, error) {
	// 文件中写到的字段覆盖默认值，其他字段保留 Default
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Build.Now.IsZero() {
		cfg.Build.Now = time.Now()
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

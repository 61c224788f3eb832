package render

import (
	"bytes"
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

//go:embed theme
var embeddedTheme embed.FS

// DefaultTheme is served from the binary when the theme directory has no
// copy of it.
const DefaultTheme = "default"

var requiredTemplates = []string{
	"cards.tmpl",
	"layout.tmpl",
	"index.tmpl",
	"404.tmpl",
}

var _ Renderer = (*TemplateRenderer)(nil)

type TemplateRenderer struct {
	tpl   *template.Template
	theme fs.FS
}

// ThemeFS locates a theme: <themeDir>/<themeName> on disk when it has a
// templates directory, otherwise the embedded default.
func ThemeFS(themeDir, themeName string) (fs.FS, error) {
	if themeDir != "" {
		dir := filepath.Join(themeDir, themeName)
		if st, err := os.Stat(filepath.Join(dir, "templates")); err == nil && st.IsDir() {
			return os.DirFS(dir), nil
		}
	}
	if themeName != DefaultTheme {
		return nil, fmt.Errorf("theme %q not found in %s", themeName, themeDir)
	}
	return fs.Sub(embeddedTheme, "theme/"+DefaultTheme)
}

func NewTemplateRenderer(themeDir, themeName string) (*TemplateRenderer, error) {
	theme, err := ThemeFS(themeDir, themeName)
	if err != nil {
		return nil, err
	}
	if err := CheckThemeTemplates(theme); err != nil {
		return nil, err
	}
	tpl, err := template.New("").Funcs(templateFuncs()).ParseFS(theme, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{tpl: tpl, theme: theme}, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"date": func(t interface{}, layout string) string {
			switch v := t.(type) {
			case nil:
				return ""
			case string:
				return v
			case time.Time:
				if v.IsZero() {
					return ""
				}
				return v.Format(layout)
			case interface{ Format(string) string }:
				return v.Format(layout)
			default:
				return ""
			}
		},
	}
}

func (r *TemplateRenderer) RenderCards(ctx context.Context, view CardsView) ([]byte, error) {
	return r.exec("cards.tmpl", view)
}

func (r *TemplateRenderer) RenderLayout(ctx context.Context, view LayoutView) ([]byte, error) {
	return r.exec("layout.tmpl", view)
}

func (r *TemplateRenderer) RenderIndex(ctx context.Context, view IndexView) ([]byte, error) {
	return r.exec("index.tmpl", view)
}

func (r *TemplateRenderer) RenderNotFound(ctx context.Context, view NotFoundView) ([]byte, error) {
	return r.exec("404.tmpl", view)
}

// Static exposes the theme's static/ tree, or nil when it has none.
func (r *TemplateRenderer) Static() fs.FS {
	if _, err := fs.Stat(r.theme, "static"); err != nil {
		return nil
	}
	sub, err := fs.Sub(r.theme, "static")
	if err != nil {
		return nil
	}
	return sub
}

// Hash fingerprints every file of the theme.
func (r *TemplateRenderer) Hash() (string, error) {
	return HashFS(r.theme)
}

func (r *TemplateRenderer) exec(name string, data interface{}) ([]byte, error) {
	t := r.tpl.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func CheckThemeTemplates(theme fs.FS) error {
	for _, name := range requiredTemplates {
		if _, err := fs.Stat(theme, "templates/"+name); err != nil {
			return fmt.Errorf("missing template: %s", name)
		}
	}
	return nil
}

// HashFS hashes file names and contents in lexical order.
func HashFS(fsys fs.FS) (string, error) {
	var names []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			names = append(names, path)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	sort.Strings(names)

	h := sha256.New()
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return "", err
		}
		h.Write([]byte(name))
		h.Write([]byte{0})
		h.Write(data)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

package content

import "strings"

// Untitled is the title given to an entry whose block has no usable title line.
const Untitled = "未命名"

type VersionRef struct {
	Label string `json:"label" yaml:"label"`
	// URL is empty when the version line carried no link.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

func (v VersionRef) HasURL() bool {
	return v.URL != ""
}

type Entry struct {
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description" yaml:"description"`
	Versions    []VersionRef `json:"versions" yaml:"versions"`
	Extra       []string     `json:"extra" yaml:"extra"`
}

// Catalog is one parsed source document.
type Catalog struct {
	Name        string
	SourcePath  string
	ContentHash string
	Entries     []Entry
}

// Matches reports whether q occurs in the title, description or any
// version label, ignoring case.
func (e Entry) Matches(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return false
	}
	if strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.Description), q) {
		return true
	}
	for _, v := range e.Versions {
		if strings.Contains(strings.ToLower(v.Label), q) {
			return true
		}
	}
	return false
}

func (c Catalog) VersionCount() int {
	n := 0
	for _, e := range c.Entries {
		n += len(e.Versions)
	}
	return n
}

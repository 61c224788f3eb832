package index

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"

	bolt "go.etcd.io/bbolt"

	"gamecard/internal/domain/content"
)

var ErrNotFound = errors.New("not found")

type ListOptions struct {
	Page int
	Size int
}

type SearchHit struct {
	Catalog  string        `json:"catalog"`
	Position int           `json:"position"`
	Entry    content.Entry `json:"entry"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage keeps (page-1)*size far from overflowing; no catalog gets
	// anywhere near MaxPage*MaxPageSize entries.
	MaxPage = 1 << 20
)

// NormalizePaging applies the default page size and the upper bounds of
// page and size.
func NormalizePaging(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

func (s *Store) GetCatalog(name string) (CatalogMeta, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CatalogMeta{}, ErrNotFound
	}
	var m CatalogMeta
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bCatalog)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(name))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &m)
	})
	return m, err
}

// ListCatalogs returns every catalog in the order it was indexed.
func (s *Store) ListCatalogs() ([]CatalogMeta, error) {
	var out []CatalogMeta
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bCatalog)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var m CatalogMeta
			if err := json.Unmarshal(v, &m); err != nil {
				return err
			}
			out = append(out, m)
			return nil
		})
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, err
}

func (s *Store) RenderHash(name string) (string, error) {
	m, err := s.GetCatalog(name)
	if err != nil {
		return "", err
	}
	return m.RenderHash, nil
}

// Entries returns one page of a catalog plus the catalog's entry count.
func (s *Store) Entries(name string, opt ListOptions) ([]content.Entry, int, error) {
	opt.Page, opt.Size = NormalizePaging(opt.Page, opt.Size)

	out := []content.Entry{}
	total := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		sb := entryBucket(tx, name)
		if sb == nil {
			return ErrNotFound
		}
		total = sb.Stats().KeyN

		skip := (opt.Page - 1) * opt.Size
		cur := sb.Cursor()
		for k, v := cur.Seek(makeEntryKey(skip)); k != nil; k, v = cur.Next() {
			var e content.Entry
			if err := json.Unmarshal(v, &e); err != nil {
				continue
			}
			out = append(out, e)
			if len(out) >= opt.Size {
				break
			}
		}
		return nil
	})
	return out, total, err
}

func (s *Store) AllEntries(name string) ([]content.Entry, error) {
	out := []content.Entry{}
	err := s.db.View(func(tx *bolt.Tx) error {
		sb := entryBucket(tx, name)
		if sb == nil {
			return ErrNotFound
		}
		return sb.ForEach(func(k, v []byte) error {
			var e content.Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}
			out = append(out, e)
			return nil
		})
	})
	return out, err
}

// Search scans every catalog for entries matching q, in catalog order.
func (s *Store) Search(q string, opt ListOptions) ([]SearchHit, error) {
	if strings.TrimSpace(q) == "" {
		return nil, nil
	}
	opt.Page, opt.Size = NormalizePaging(opt.Page, opt.Size)

	metas, err := s.ListCatalogs()
	if err != nil {
		return nil, err
	}
	skip := (opt.Page - 1) * opt.Size
	var out []SearchHit
	err = s.db.View(func(tx *bolt.Tx) error {
		for _, m := range metas {
			sb := entryBucket(tx, m.Name)
			if sb == nil {
				continue
			}
			cur := sb.Cursor()
			for k, v := cur.First(); k != nil; k, v = cur.Next() {
				var e content.Entry
				if err := json.Unmarshal(v, &e); err != nil {
					continue
				}
				if !e.Matches(q) {
					continue
				}
				if skip > 0 {
					skip--
					continue
				}
				out = append(out, SearchHit{Catalog: m.Name, Position: entryPos(k), Entry: e})
				if len(out) >= opt.Size {
					return nil
				}
			}
		}
		return nil
	})
	return out, err
}

func entryBucket(tx *bolt.Tx, name string) *bolt.Bucket {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	parent := tx.Bucket(bEntries)
	if parent == nil {
		return nil
	}
	return parent.Bucket([]byte(name))
}

package index

import (
	"encoding/json"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"gamecard/internal/domain/content"
)

// CatalogMeta is the per-page summary kept next to the entries.
type CatalogMeta struct {
	Name        string    `json:"name"`
	Position    int       `json:"position"`
	SourcePath  string    `json:"source_path"`
	ContentHash string    `json:"content_hash"`
	RenderHash  string    `json:"render_hash,omitempty"`
	Entries     int       `json:"entries"`
	Versions    int       `json:"versions"`
	Updated     time.Time `json:"updated"`
}

type RebuildOptions struct {
	// RenderHashes maps catalog name to the fingerprint of its rendered page.
	RenderHashes map[string]string
	Now          time.Time
}

// Rebuild replaces the whole index with catalogs in one transaction.
func (s *Store) Rebuild(catalogs []content.Catalog, opt RebuildOptions) error {
	now := opt.Now
	if now.IsZero() {
		now = time.Now()
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		_ = tx.DeleteBucket(bCatalog)
		_ = tx.DeleteBucket(bEntries)

		catB, err := tx.CreateBucket(bCatalog)
		if err != nil {
			return err
		}
		entB, err := tx.CreateBucket(bEntries)
		if err != nil {
			return err
		}

		for pos, c := range catalogs {
			name := strings.TrimSpace(c.Name)
			if name == "" {
				continue
			}
			meta := CatalogMeta{
				Name:        name,
				Position:    pos,
				SourcePath:  c.SourcePath,
				ContentHash: c.ContentHash,
				RenderHash:  opt.RenderHashes[name],
				Entries:     len(c.Entries),
				Versions:    c.VersionCount(),
				Updated:     now,
			}
			mb, err := json.Marshal(meta)
			if err != nil {
				return err
			}
			if err := catB.Put([]byte(name), mb); err != nil {
				return err
			}

			sb, err := entB.CreateBucket([]byte(name))
			if err != nil {
				return err
			}
			for i, e := range c.Entries {
				eb, err := json.Marshal(e)
				if err != nil {
					return err
				}
				if err := sb.Put(makeEntryKey(i), eb); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

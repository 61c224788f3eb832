package app

import (
	"gamecard/internal/domain/content"
	"gamecard/internal/index"
)

// EntriesPayload is the JSON body of /api/<name>.json. Build writes the
// whole catalog; serve fills Page and Size for a paged slice.
type EntriesPayload struct {
	Name    string          `json:"name"`
	Title   string          `json:"title"`
	Total   int             `json:"total"`
	Page    int             `json:"page,omitempty"`
	Size    int             `json:"size,omitempty"`
	Entries []content.Entry `json:"entries"`
}

// SearchPayload is the JSON body of /api/search.
type SearchPayload struct {
	Query string      `json:"query"`
	Hits  []index.SearchHit `json:"hits"`
}

package ingest

import (
	"fmt"
	"strings"

	"gamecard/internal/domain/content"
)

// Mode selects the catalog grammar revision.
type Mode string

const (
	ModeTolerant Mode = "tolerant"
	ModeStrict   Mode = "strict"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeTolerant:
		return ModeTolerant, nil
	case ModeStrict:
		return ModeStrict, nil
	default:
		return "", fmt.Errorf("unknown parser mode %q", s)
	}
}

type Options struct {
	Mode Mode
	// Untitled replaces content.Untitled when set.
	Untitled string
}

func (o Options) untitled() string {
	if t := strings.TrimSpace(o.Untitled); t != "" {
		return t
	}
	return content.Untitled
}

// Parse turns a catalog document into entries, in document order. It
// keeps no state between calls and may run concurrently.
func Parse(raw string, opt Options) []content.Entry {
	blocks := Segment(raw)
	out := make([]content.Entry, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, Extract(b, opt))
	}
	return out
}

// appendExtra keeps a leftover line unless it repeats the title or the
// description.
func appendExtra(e *content.Entry, line string) {
	s := stripHashes(line)
	if s == "" || s == e.Title || s == e.Description {
		return
	}
	e.Extra = append(e.Extra, s)
}

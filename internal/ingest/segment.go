package ingest

import "strings"

// EntrySeparator splits a catalog document into entries.
const EntrySeparator = "@"

// Block holds the trimmed, non-empty lines of one entry.
type Block []string

func Segment(raw string) []Block {
	// 统一换行符
	norm := strings.ReplaceAll(raw, "\r\n", "\n")
	norm = strings.ReplaceAll(norm, "\r", "\n")

	var out []Block
	for _, piece := range strings.Split(norm, EntrySeparator) {
		var b Block
		for _, ln := range strings.Split(piece, "\n") {
			ln = strings.TrimSpace(ln)
			if ln == "" {
				continue
			}
			b = append(b, ln)
		}
		if len(b) == 0 {
			continue
		}
		out = append(out, b)
	}
	return out
}

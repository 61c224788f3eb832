package ingest

import (
	"strings"

	"gamecard/internal/domain/content"
)

// hashWrap measures the '#' runs around a line and returns the trimmed
// text between them. A line made only of '#' has no trailing run.
func hashWrap(line string) (lead, trail int, inner string) {
	rest := strings.TrimLeft(line, "#")
	lead = len(line) - len(rest)
	body := strings.TrimRight(rest, "#")
	trail = len(rest) - len(body)
	return lead, trail, strings.TrimSpace(body)
}

// ###标题###
func titleWrapped(line string) (string, bool) {
	lead, trail, inner := hashWrap(line)
	if lead >= 3 && trail >= 3 && inner != "" {
		return inner, true
	}
	return "", false
}

// ##描述##
func descWrapped(line string) (string, bool) {
	lead, trail, inner := hashWrap(line)
	if lead == 2 && trail == 2 && inner != "" {
		return inner, true
	}
	return "", false
}

// Extract recovers one entry from a block. Every line ends up as the
// title, the description, a version or an extra line; nothing fails.
func Extract(b Block, opt Options) content.Entry {
	if opt.Mode == ModeStrict {
		return extractStrict(b, opt)
	}

	title := resolveTitle(b)
	if title == "" {
		title = opt.untitled()
	}
	desc := resolveDescription(b, title)

	e := content.Entry{
		Title:       title,
		Description: desc,
		Versions:    []content.VersionRef{},
		Extra:       []string{},
	}
	// 每一行都过一遍版本解析，标题行也不例外
	for _, ln := range b {
		if v, ok := ParseVersion(ln); ok {
			e.Versions = append(e.Versions, v)
			continue
		}
		appendExtra(&e, ln)
	}
	return e
}

func resolveTitle(b Block) string {
	for _, ln := range b {
		if t, ok := titleWrapped(ln); ok {
			return t
		}
	}
	for _, ln := range b {
		if t, ok := descWrapped(ln); ok {
			return t
		}
	}
	// 最后：第一行非版本行
	for _, ln := range b {
		if s := stripHashes(ln); s != "" && !startsWithV(s) {
			return s
		}
	}
	return ""
}

func resolveDescription(b Block, title string) string {
	for _, ln := range b {
		if d, ok := descWrapped(ln); ok && d != title {
			return d
		}
	}
	for _, ln := range b {
		if s := stripHashes(ln); s != "" && s != title && !startsWithV(s) {
			return s
		}
	}
	return ""
}

// extractStrict reads the older grammar: "###" opens the title, "##"
// opens the description and only "#v...（url）#" lines are versions.
func extractStrict(b Block, opt Options) content.Entry {
	var title, desc string
	for _, ln := range b {
		if strings.HasPrefix(ln, "###") {
			if s := stripHashes(ln); s != "" {
				title = s
				break
			}
		}
	}
	if title == "" {
		title = opt.untitled()
	}
	for _, ln := range b {
		if lead, _, _ := hashWrap(ln); lead == 2 {
			if s := stripHashes(ln); s != "" && s != title {
				desc = s
				break
			}
		}
	}

	e := content.Entry{
		Title:       title,
		Description: desc,
		Versions:    []content.VersionRef{},
		Extra:       []string{},
	}
	for _, ln := range b {
		if v, ok := parseVersionStrict(ln); ok {
			e.Versions = append(e.Versions, v)
			continue
		}
		appendExtra(&e, ln)
	}
	return e
}

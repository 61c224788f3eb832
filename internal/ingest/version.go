package ingest

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"

	"gamecard/internal/domain/content"
)

var (
	// v1.0.8 下载(https://...)
	primaryVersion = regexp.MustCompile(`(?i)^(v[^\s\p{Zs}(]*[^(]*)\([\s\p{Zs}]*(https?://[^\s\p{Zs})]+)[\s\p{Zs}]*\)`)
	// v1.0.8 ... https://...
	secondaryVersion = regexp.MustCompile(`(?i)^(v[^\s\p{Zs}#(]*).*?(https?://[^\s\p{Zs})]+)`)
	// 旧格式：#v1.0.8下载（https://...）#，只认全角括号
	strictVersion = regexp.MustCompile(`^(v[^\s（(][^（(]*)（(.+)）`)
	strictURL     = regexp.MustCompile(`(?i)^https?://[^\s\p{Zs}()（）]+$`)
)

// stripHashes removes the leading and trailing '#' runs and the
// whitespace they were guarding.
func stripHashes(s string) string {
	s = strings.TrimLeft(s, "#")
	s = strings.TrimRight(s, "#")
	return strings.TrimSpace(s)
}

func startsWithV(s string) bool {
	return s != "" && (s[0] == 'v' || s[0] == 'V')
}

// foldParens maps full-width parentheses to their ASCII forms. Nothing
// else is touched, so labels written in full-width characters survive.
func foldParens(s string) string {
	return strings.Map(func(r rune) rune {
		p := width.LookupRune(r)
		if p.Kind() != width.EastAsianFullwidth {
			return r
		}
		if n := p.Narrow(); n == '(' || n == ')' {
			return n
		}
		return r
	}, s)
}

// ParseVersion recognizes a version line: a label starting with "v",
// optionally followed by a download link in half- or full-width
// parentheses. A parenthesized link wins over a bare one.
func ParseVersion(line string) (content.VersionRef, bool) {
	clean := stripHashes(line)
	if !startsWithV(clean) {
		return content.VersionRef{}, false
	}
	folded := foldParens(clean)

	m := primaryVersion.FindStringSubmatch(folded)
	if m == nil {
		m = secondaryVersion.FindStringSubmatch(folded)
	}
	if m != nil {
		return content.VersionRef{
			Label: strings.TrimSpace(m[1]),
			URL:   strings.TrimSpace(m[2]),
		}, true
	}

	// 整行以 v 开头但没有链接：只保留版本名
	return content.VersionRef{Label: clean}, true
}

// parseVersionStrict accepts only the older "#v...（url）#" form.
func parseVersionStrict(line string) (content.VersionRef, bool) {
	if !strings.HasPrefix(line, "#v") {
		return content.VersionRef{}, false
	}
	m := strictVersion.FindStringSubmatch(stripHashes(line))
	if m == nil {
		return content.VersionRef{}, false
	}
	label := strings.TrimSpace(m[1])
	link := strings.TrimSpace(m[2])
	if label == "" || !strictURL.MatchString(link) {
		return content.VersionRef{}, false
	}
	return content.VersionRef{Label: label, URL: link}, true
}

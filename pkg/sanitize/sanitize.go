// Package sanitize normalizes feed and summary text to plain, single-spaced ASCII.
package sanitize

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy       = bluemonday.StrictPolicy()
	cdataMarkers = strings.NewReplacer("<![CDATA[", "", "]]>", "")
	nbspEntity   = regexp.MustCompile(`(?i)&nbsp;`)
	ampEntity    = regexp.MustCompile(`(?i)&amp;`)
	tags         = regexp.MustCompile(`<[^>]*>`)
	angles       = strings.NewReplacer("<", "", ">", "")
	whitespace   = regexp.MustCompile(`\s+`)
)

// Text strips CDATA markers, html tags and entities, non-ASCII characters and
// redundant whitespace. It never fails and Text(Text(s)) == Text(s).
func Text(s string) string {
	// after the first pass whitespace is normalized, so any further change shrinks the text
	for {
		next := pass(s)
		if next == s {
			return next
		}
		s = next
	}
}

func pass(s string) string {
	if s == "" {
		return ""
	}
	s = cdataMarkers.Replace(s)
	s = ampEntity.ReplaceAllString(s, "&")
	s = nbspEntity.ReplaceAllString(s, " ")
	s = policy.Sanitize(s) // drops tags, escapes the rest
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = tags.ReplaceAllString(s, "") // tags that were entity-escaped in the source
	s = angles.Replace(s)
	s = asciiOnly(s)
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// asciiOnly removes every code point above 0x7F, mojibake like "Â" included
func asciiOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0x7F {
			return -1
		}
		return r
	}, s)
}

// Truncate cuts s to at most n runes
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

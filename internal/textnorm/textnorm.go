// Package textnorm normalises extracted page text before pattern matching.
package textnorm

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	dashRun       = regexp.MustCompile(`[\x{2010}-\x{2015}\x{2212}\x{FE63}\x{FF0D}]+`)
	horizontalWS  = regexp.MustCompile(`[ \t]+`)
	blankLineRuns = regexp.MustCompile(`\n{3,}`)
)

// thaiDigits maps ๐-๙ to 0-9.
var thaiDigits = runes.Map(func(r rune) rune {
	if r >= '๐' && r <= '๙' {
		return '0' + (r - '๐')
	}
	return r
})

// dropped removes control characters other than tab, newline and carriage return,
// plus zero-width and bidi marks.
var dropped = runes.Remove(runes.Predicate(func(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return false
	case r < 0x20:
		return true
	case r >= 0x200B && r <= 0x200F:
		return true
	case r >= 0x202A && r <= 0x202E:
		return true
	case r == 0x2060 || r == 0xFEFF:
		return true
	}
	return false
}))

// Normalize converts Thai digits, applies NFKC, unifies dash variants, strips control and
// zero-width characters, collapses horizontal whitespace per line and squeezes blank lines.
// Line structure is preserved.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(thaiDigits, norm.NFKC, dropped)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	// NFKC splits SARA AM into NIKHAHIT + SARA AA; keep the precomposed form so Thai
	// keywords still match.
	out = strings.ReplaceAll(out, "\u0E4D\u0E32", "\u0E33")
	out = dashRun.ReplaceAllString(out, "-")

	lines := strings.Split(out, "\n")
	for i, line := range lines {
		line = strings.ReplaceAll(line, "\r", "")
		lines[i] = strings.TrimSpace(horizontalWS.ReplaceAllString(line, " "))
	}
	out = strings.Join(lines, "\n")
	out = blankLineRuns.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

// Length returns the number of characters in s.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}

// IsBlank reports whether s, once trimmed, has at most floor characters.
func IsBlank(s string, floor int) bool {
	return Length(strings.TrimSpace(s)) <= floor
}

// Cap keeps the first head and last tail characters of s when it is longer than max.
func Cap(s string, max, head, tail int) string {
	if max <= 0 || len(s) <= max || Length(s) <= max {
		return s
	}
	r := []rune(s)
	if head+tail >= len(r) {
		return s
	}
	return string(r[:head]) + "\n...\n" + string(r[len(r)-tail:])
}

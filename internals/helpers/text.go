package helper

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)
	reSpaces   = regexp.MustCompile(`\s+`)
)

func stripMarks(s string) string {
	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) { // mark nonspacing
			continue
		}
		buf = append(buf, r)
	}
	return norm.NFC.String(string(buf))
}

// NormalizeName: bentuk kanonik nama untuk pencocokan roster
// (tanpa diakritik, lowercase, spasi dipadatkan).
func NormalizeName(s string) string {
	s = stripMarks(strings.TrimSpace(s))
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.ToLower(s)
}

// SameName true jika dua nama sama setelah NormalizeName.
func SameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}

// Slugify mengubah teks bebas jadi slug [a-z0-9-] (dipakai untuk nama file export),
// fallback "item".
func Slugify(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 100
	}
	s = strings.ToLower(stripMarks(strings.TrimSpace(s)))
	s = reNonAlnum.ReplaceAllString(s, "-")
	s = reHyphen.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if utf8.RuneCountInString(s) > maxLen {
		s = strings.Trim(string([]rune(s)[:maxLen]), "-")
	}
	if s == "" {
		s = "item"
	}
	return s
}

// SplitTags: "a, b,,c " → [a b c]
func SplitTags(raw string) []string {
	out := make([]string, 0, 4)
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

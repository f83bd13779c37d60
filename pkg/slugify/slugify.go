package slugify

import (
	"strings"

	"github.com/gosimple/unidecode"
	"golang.org/x/text/unicode/norm"
)

// Join concatenates non-empty field values with a single space, producing the
// input string for Make when a slug is derived from several fields.
func Join(values ...string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

// Make converts input into a URL-safe slug.
//
// Processing order: custom replacements, character stripping, NFKC fold,
// ASCII transliteration, case folding, separator collapsing, length limit.
// Characters with no ASCII equivalent are dropped. The result contains only
// [a-z0-9] (plus [A-Z] when Lowercase(false)) and the configured separator,
// with no leading or trailing separators.
func Make(input string, opts ...Option) string {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	s := input
	for from, to := range o.replacements {
		s = strings.ReplaceAll(s, from, to)
	}
	if o.stripChars != "" {
		s = strings.Map(func(r rune) rune {
			if strings.ContainsRune(o.stripChars, r) {
				return -1
			}
			return r
		}, s)
	}

	// NFKC first so full-width forms and ligatures decompose into characters
	// the transliteration table knows about.
	s = unidecode.Unidecode(norm.NFKC.String(s))
	if o.lowercase {
		s = strings.ToLower(s)
	}

	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for _, r := range s {
		if isSlugRune(r) {
			if pending && b.Len() > 0 {
				b.WriteString(o.separator)
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	out := b.String()

	if o.maxLength > 0 {
		out = truncate(out, o.maxLength, o.separator)
	}
	return out
}

func isSlugRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// truncate cuts the slug to at most limit runes and trims any separator
// characters exposed by the cut.
func truncate(s string, limit int, sep string) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	s = string(runes[:limit])
	if sep != "" {
		s = strings.TrimRight(s, sep)
	}
	return s
}

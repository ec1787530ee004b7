// Package textnorm collapses raw chat text into a single canonical line.
// Every downstream matcher works on the normalized form, so this must run
// exactly once per message and be idempotent.
package textnorm

import "strings"

// Normalize replaces newlines, carriage returns and tabs with spaces,
// collapses runs of whitespace to a single space and trims both ends.
// Case is preserved: category and merchant matching downstream can be
// case-sensitive.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	space := false
	for _, r := range s {
		if r == ' ' || r == '\n' || r == '\r' || r == '\t' || r == '\v' || r == '\f' {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

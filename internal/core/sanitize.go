package core

import "strings"

// SanitizeName produces a filesystem-safe name: whitespace is stripped from
// the ends, interior spaces become underscores, and any character outside
// [A-Za-z0-9_.-] is dropped. The result never contains "/", "\", "..", or
// whitespace, and sanitizing an already-sanitized name is a no-op.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "_")

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
			b.WriteRune(r)
		}
	}

	out := b.String()
	// ".." can survive the character filter (e.g. "a..b"); collapse any
	// remaining run of dots longer than one, which also rules out "..".
	for strings.Contains(out, "..") {
		out = strings.ReplaceAll(out, "..", ".")
	}
	return out
}

// Package normalize provides utilities for normalizing and sanitizing intake data.
package normalize

import (
	"regexp"
	"strings"
)

// isbnPattern matches a bare ISBN-10 or ISBN-13 after separators are stripped.
// Check digits are not verified; vendors ship enough malformed barcodes that a
// strict checksum would reject real books.
var isbnPattern = regexp.MustCompile(`^\d{10}(\d{3})?$`)

// Text lowercases raw text, replaces every character outside [a-z0-9\s-] with
// a space, and collapses runs of whitespace to a single space.
// Empty input returns the empty string. All scorers match against this form,
// so a keyword table entry and a book title normalize identically.
func Text(raw string) string {
	if raw == "" {
		return ""
	}

	s := strings.ToLower(sanitizeString(raw))

	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true // Leading whitespace is dropped.
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-':
			b.WriteRune(r)
			lastSpace = false
		default:
			// Anything else (punctuation, unicode, whitespace) becomes a
			// single space.
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimRight(b.String(), " ")
}

// ISBN strips hyphens and spaces from a scanned ISBN and validates the result
// as 10 or 13 digits. Returns the normalized digits and whether they form a
// valid ISBN shape.
func ISBN(raw string) (string, bool) {
	s := strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	return s, isbnPattern.MatchString(s)
}

// HasToken reports whether keyword appears in text as a whole token, bounded
// by spaces or the string edges. Both arguments must already be normalized
// via Text. Multi-word keywords match as a whole phrase.
func HasToken(text, keyword string) bool {
	if text == "" || keyword == "" {
		return false
	}
	return text == keyword ||
		strings.HasPrefix(text, keyword+" ") ||
		strings.HasSuffix(text, " "+keyword) ||
		strings.Contains(text, " "+keyword+" ")
}

// JoinFields normalizes each field and joins the non-empty results with a
// single space. Used to build the combined subject/summary haystacks.
func JoinFields(fields ...string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if n := Text(f); n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, " ")
}

// sanitizeString removes null bytes from strings, which can cause issues in
// databases and JSON parsing. Some barcode scanners include null terminators
// in scanned strings.
func sanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 { // null byte
			return -1 // drop it
		}
		return r
	}, s)
}

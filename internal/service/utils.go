package service

import (
	"strings"
	"unicode/utf8"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 100
)

// sanitizeUTF8 removes invalid UTF-8 sequences and NUL bytes so that raw text
// can be stored in text columns.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return strings.ReplaceAll(s, "\x00", "")
	}

	var result strings.Builder
	result.Grow(len(s))

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			s = s[1:]
			continue
		}
		result.WriteRune(r)
		s = s[size:]
	}

	return strings.ReplaceAll(result.String(), "\x00", "")
}

// ClampLimit applies the receipts listing bounds: 0 or absent means the
// default, anything else is clamped to [1, 100].
func ClampLimit(limit int) int {
	switch {
	case limit == 0:
		return defaultRecentLimit
	case limit < 1:
		return 1
	case limit > maxRecentLimit:
		return maxRecentLimit
	}
	return limit
}

func optionalString(values ...string) *string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return &v
		}
	}
	return nil
}

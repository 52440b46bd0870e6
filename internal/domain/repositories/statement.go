package repositories

import (
	"strings"
	"unicode"
)

// readOnlyKeywords are the leading keywords accepted on the read-only path.
var readOnlyKeywords = []string{"select", "with", "explain", "show", "values", "table"}

// IsReadOnlyStatement reports whether statement is a single read statement.
// It is a first line of defense only; drivers also run reads in read-only mode.
func IsReadOnlyStatement(statement string) bool {
	s := strings.TrimSpace(statement)
	s = strings.TrimSuffix(s, ";")
	if s == "" || strings.Contains(s, ";") {
		return false
	}

	end := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	keyword := s
	if end >= 0 {
		keyword = s[:end]
	}
	keyword = strings.ToLower(keyword)

	for _, k := range readOnlyKeywords {
		if keyword == k {
			return true
		}
	}
	return false
}

package validation

import "unicode/utf8"

// MaxQueryLength caps the search text in runes.
const MaxQueryLength = 200

// NormalizeQuery cuts a search query to MaxQueryLength runes. Whitespace is
// kept as typed so a query of spaces still filters.
func NormalizeQuery(query string) string {
	if utf8.RuneCountInString(query) <= MaxQueryLength {
		return query
	}
	return string([]rune(query)[:MaxQueryLength])
}

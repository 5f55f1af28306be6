// Package pattern holds the static regular expressions and keyword tables used to
// recognise and extract fields from bank and wallet SMS alerts.
//
// Every table is compiled once at package initialisation and is safe for
// unlimited concurrent readers.
package pattern

import (
	"regexp"
	"strings"
)

// Family groups amount patterns by how specific they are.
type Family string

// Pattern families, tried in the order listed.
const (
	FamilyBank    Family = "bank"
	FamilyGeneric Family = "generic"
)

// KeywordSet is a named list of keywords compiled into a single
// case-insensitive, word-bounded regular expression.
type KeywordSet struct {
	re       *regexp.Regexp
	Name     string
	Keywords []string
}

// NewKeywordSet compiles keywords into a KeywordSet.
func NewKeywordSet(name string, keywords ...string) KeywordSet {
	alternatives := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(k)
		alt := regexp.QuoteMeta(k)
		// Guard only the ends that are alphanumeric, so "@ybl" still matches "name@ybl".
		if isAlnum(k[0]) {
			alt = `(?:^|[^a-z0-9])` + alt
		}
		if isAlnum(k[len(k)-1]) {
			alt += `(?:$|[^a-z0-9])`
		}
		alternatives = append(alternatives, alt)
	}
	expr := `(?i)(?:` + strings.Join(alternatives, "|") + `)`
	return KeywordSet{
		Name:     name,
		Keywords: keywords,
		re:       regexp.MustCompile(expr),
	}
}

// Matches reports whether any keyword occurs in text as a whole token.
func (k KeywordSet) Matches(text string) bool {
	return k.re.MatchString(text)
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

// CountOccurrences returns the total number of case-insensitive substring
// occurrences of every keyword in text. Overlapping keywords are counted
// independently, so "debited" counts for both "debited" and "debit".
func CountOccurrences(text string, keywords []string) int {
	lower := strings.ToLower(text)
	total := 0
	for _, k := range keywords {
		total += strings.Count(lower, strings.ToLower(k))
	}
	return total
}

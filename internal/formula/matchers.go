package formula

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/sheetwright/sheetwright/internal/schema"
)

// ColumnMatch is the structured outcome of the column matcher chain.
// Rule names which layer fired, so precedence stays testable on its own.
type ColumnMatch struct {
	Column string
	Rule   string
}

type columnRule struct {
	name  string
	match func(intent string, sch schema.Schema) (string, bool)
}

// Ordered first-match-wins. The chain runs against the raw intent; each
// rule lowercases what it needs.
var columnRules = []columnRule{
	{"literal-substring", matchLiteralSubstring},
	{"whitespace-stripped", matchStrippedSubstring},
	{"quoted", matchQuoted},
	{"uppercase-member", matchUppercaseMember},
}

// ResolveColumn runs the matcher chain and returns the first hit.
func ResolveColumn(intent string, sch schema.Schema) (ColumnMatch, bool) {
	for _, rule := range columnRules {
		if col, ok := rule.match(intent, sch); ok {
			return ColumnMatch{Column: col, Rule: rule.name}, true
		}
	}
	return ColumnMatch{}, false
}

// Layer 1: a schema member appears verbatim (case-insensitively) in the
// intent.
func matchLiteralSubstring(intent string, sch schema.Schema) (string, bool) {
	lower := strings.ToLower(intent)
	for _, col := range sch {
		if strings.Contains(lower, strings.ToLower(col)) {
			return col, true
		}
	}
	return "", false
}

// Layer 2: spacing variants, e.g. "unit price" against "UnitPrice".
func matchStrippedSubstring(intent string, sch schema.Schema) (string, bool) {
	stripped := stripSpaces(strings.ToLower(intent))
	for _, col := range sch {
		if strings.Contains(stripped, stripSpaces(strings.ToLower(col))) {
			return col, true
		}
	}
	return "", false
}

var quotedToken = regexp.MustCompile(`['"]([^'"]+)['"]`)

// Layer 3: the first quoted substring, used verbatim even when it is not a
// schema member — the deterministic synthesizer rejects non-members later.
func matchQuoted(intent string, _ schema.Schema) (string, bool) {
	if m := quotedToken.FindStringSubmatch(intent); m != nil {
		return m[1], true
	}
	return "", false
}

// Layer 4: the last word that starts with an uppercase letter and is an
// exact schema member.
func matchUppercaseMember(intent string, sch schema.Schema) (string, bool) {
	words := strings.Fields(intent)
	for i := len(words) - 1; i >= 0; i-- {
		word := words[i]
		runes := []rune(word)
		if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
			continue
		}
		if sch.Contains(word) {
			return word, true
		}
	}
	return "", false
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Package schema models an ordered list of unique canonical column names
// and resolves caller-supplied labels against it.
package schema

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// Schema is the ordered, unique column names of one table. Entries are
// stored case-preserving and referenced case-insensitively.
type Schema []string

// Index returns the zero-based position of an exact member, or -1.
func (s Schema) Index(name string) int {
	for i, col := range s {
		if col == name {
			return i
		}
	}
	return -1
}

// Contains reports whether name is an exact member.
func (s Schema) Contains(name string) bool { return s.Index(name) >= 0 }

// MatchFold resolves a label case-insensitively to the exact-cased member.
func (s Schema) MatchFold(label string) (string, bool) {
	for _, col := range s {
		if strings.EqualFold(col, label) {
			return col, true
		}
	}
	return "", false
}

// String renders the schema as a comma-separated list for prompts.
func (s Schema) String() string { return strings.Join(s, ", ") }

// ColumnLetters converts a zero-based column index to its spreadsheet
// letters using bijective base-26 (A..Z, AA..AZ, ...), so schemas wider
// than 26 columns still address correctly.
func ColumnLetters(index int) (string, error) {
	return excelize.ColumnNumberToName(index + 1)
}

// LettersToIndex is the inverse of ColumnLetters.
func LettersToIndex(letters string) (int, error) {
	n, err := excelize.ColumnNameToNumber(letters)
	if err != nil {
		return 0, err
	}
	return n - 1, nil
}

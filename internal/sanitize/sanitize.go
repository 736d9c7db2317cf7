// Package sanitize recovers machine-readable payloads from noisy model
// output. Model responses routinely wrap JSON in markdown fences or prose;
// the extractors here are best-effort and never fail — callers validate
// the returned text themselves.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// Fenced block with an optional json tag, body limited to one brace-
	// delimited object.
	fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	// Loose: everything between the first '{' and the last '}'.
	looseJSON = regexp.MustCompile(`(?s)(\{.*\})`)
)

// JSONPayload extracts the most plausible JSON object from raw model text.
// Priority: fenced block, then first-to-last brace span, then the trimmed
// input as-is. An empty input yields "{}" so downstream json.Unmarshal
// fails on shape rather than on emptiness.
func JSONPayload(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "{}"
	}
	if m := fencedJSON.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := looseJSON.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(raw)
}

// Language tags models put on the first fence line when asked for
// spreadsheet formulas.
var fenceLangTags = []string{"excel", "vb"}

// StripLeadingFence removes at most one markdown fence wrapper from raw.
// If the text right after the fence opener starts with a known language
// tag, that first line is dropped too. Text without fences passes through
// trimmed.
func StripLeadingFence(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if !strings.Contains(cleaned, "```") {
		return cleaned
	}
	parts := strings.Split(cleaned, "```")
	if len(parts) < 2 {
		return cleaned
	}
	cleaned = parts[1]
	for _, tag := range fenceLangTags {
		if strings.HasPrefix(cleaned, tag) {
			if _, rest, ok := strings.Cut(cleaned, "\n"); ok {
				cleaned = rest
			}
			break
		}
	}
	return strings.TrimSpace(cleaned)
}

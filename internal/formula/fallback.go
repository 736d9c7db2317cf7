package formula

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/sheetwright/sheetwright/internal/ai"
	"github.com/sheetwright/sheetwright/internal/sanitize"
)

// Extraction policy over cleaned oracle text, first-match-wins.
var (
	// Full function call or binary expression, leading '='.
	reFullFormula = regexp.MustCompile(`(?i)(=[A-Z0-9_]+[\(\[][^\n]+[\)\]])|(=[A-Z0-9_]+\s*[\+\-\*/]\s*[A-Z0-9_]+)`)
	// Bare function call, no '='. Accepted only under the whitelist below.
	reBareCall = regexp.MustCompile(`(?i)([A-Z0-9_]+\([^\n]+\))`)
)

var knownFunctions = []string{"SUM", "AVG", "AVERAGE", "COUNT", "MIN", "MAX"}

type extractRule struct {
	name    string
	extract func(cleaned string) (string, bool)
}

var extractRules = []extractRule{
	{"full-formula", extractFullFormula},
	{"bare-call", extractBareCall},
	{"leading-equals", extractLeadingEquals},
}

// ExtractFormula pulls a usable formula out of cleaned oracle text.
// Callers strip markdown fences first (sanitize.StripLeadingFence).
func ExtractFormula(cleaned string) (string, bool) {
	for _, rule := range extractRules {
		if f, ok := rule.extract(cleaned); ok {
			return f, true
		}
	}
	return "", false
}

func extractFullFormula(cleaned string) (string, bool) {
	if m := reFullFormula.FindString(cleaned); m != "" {
		return strings.TrimSpace(m), true
	}
	return "", false
}

func extractBareCall(cleaned string) (string, bool) {
	m := reBareCall.FindString(cleaned)
	if m == "" {
		return "", false
	}
	found := strings.TrimSpace(m)
	upper := strings.ToUpper(found)
	for _, fn := range knownFunctions {
		if strings.Contains(upper, fn) {
			return "=" + found, true
		}
	}
	return "", false
}

func extractLeadingEquals(cleaned string) (string, bool) {
	if strings.HasPrefix(cleaned, "=") {
		return cleaned, true
	}
	return "", false
}

// Fallback asks the oracle for a formula when the deterministic path
// produced nothing. Transport failures degrade to "no formula"; nothing
// here ever propagates an error to the caller.
type Fallback struct {
	oracle      ai.Oracle
	logger      *slog.Logger
	temperature float64
}

// NewFallback creates a Fallback synthesizer. oracle may be nil, which
// makes every synthesis a miss.
func NewFallback(oracle ai.Oracle, logger *slog.Logger) *Fallback {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallback{oracle: oracle, logger: logger, temperature: 0.3}
}

// WithTemperature overrides the sampling temperature for fallback
// completions. Zero or negative keeps the default.
func (f *Fallback) WithTemperature(t float64) *Fallback {
	if t > 0 {
		f.temperature = t
	}
	return f
}

// Synthesize builds a directive prompt for the target cell, runs one
// plain-text completion, and extracts a formula from whatever came back.
func (f *Fallback) Synthesize(ctx context.Context, intent string, sch []string, cell string) (string, bool) {
	if f.oracle == nil {
		return "", false
	}
	prompt := strings.Join([]string{
		fmt.Sprintf("You are an Excel Expert. Create an Excel formula for cell %s.", cell),
		fmt.Sprintf("Columns: [%s]", strings.Join(sch, ", ")),
		fmt.Sprintf("User Intent: %s", intent),
		"",
		"Rules:",
		"1. Return ONLY the formula text starting with =.",
		"2. Do NOT explain.",
		"3. Do NOT use markdown.",
		"Example: =AVERAGE(C2:C100)",
	}, "\n")

	resp, err := f.oracle.Complete(ctx, ai.CompletionRequest{
		Prompt:      prompt,
		Temperature: f.temperature,
	})
	if err != nil {
		f.logger.Warn("formula fallback degraded", "error", err)
		return "", false
	}

	cleaned := sanitize.StripLeadingFence(resp.Text)
	if cleaned == "" {
		return "", false
	}
	result, ok := ExtractFormula(cleaned)
	if !ok {
		f.logger.Warn("formula fallback produced no usable formula", "request_id", resp.RequestID)
	}
	return result, ok
}

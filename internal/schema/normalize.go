package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sheetwright/sheetwright/internal/ai"
	"github.com/sheetwright/sheetwright/internal/sanitize"
)

// Resolution is the outcome for one requested label. Column always holds a
// usable value: the exact-cased schema member when Resolved, otherwise the
// original label unchanged. Membership diagnostics are a later layer's job.
type Resolution struct {
	Input    string
	Column   string
	Resolved bool
}

// Columns flattens resolutions back into plain labels, preserving order.
func Columns(res []Resolution) []string {
	out := make([]string, len(res))
	for i, r := range res {
		out[i] = r.Column
	}
	return out
}

// Normalizer maps caller-supplied column labels onto a schema. Labels that
// match case-insensitively resolve without any oracle call; the rest are
// batched into a single oracle request. Every failure mode is fail-open.
type Normalizer struct {
	oracle      ai.Oracle
	logger      *slog.Logger
	temperature float64
}

// NewNormalizer creates a Normalizer. oracle may be nil, in which case
// unresolved labels pass through unchanged.
func NewNormalizer(oracle ai.Oracle, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{oracle: oracle, logger: logger, temperature: 0.1}
}

// WithTemperature overrides the sampling temperature for mapping
// requests. Zero or negative keeps the default.
func (n *Normalizer) WithTemperature(t float64) *Normalizer {
	if t > 0 {
		n.temperature = t
	}
	return n
}

// Resolve normalizes labels against sch. The result has exactly one entry
// per input label, in input order, and the method never returns an error:
// anything the deterministic pass and the oracle cannot place stays as the
// caller wrote it.
func (n *Normalizer) Resolve(ctx context.Context, labels []string, sch Schema) []Resolution {
	out := make([]Resolution, len(labels))
	var unresolved []int
	for i, label := range labels {
		out[i] = Resolution{Input: label, Column: label}
		if col, ok := sch.MatchFold(label); ok {
			out[i].Column = col
			out[i].Resolved = true
			continue
		}
		unresolved = append(unresolved, i)
	}
	if len(unresolved) == 0 || n.oracle == nil {
		return out
	}

	unknowns := make([]string, len(unresolved))
	for i, idx := range unresolved {
		unknowns[i] = labels[idx]
	}
	mapping, err := n.askMapping(ctx, unknowns, sch)
	if err != nil {
		n.logger.Warn("column normalization degraded", "error", err, "unresolved", len(unknowns))
		return out
	}
	for _, idx := range unresolved {
		if col, ok := mapping[labels[idx]]; ok && sch.Contains(col) {
			out[idx].Column = col
			out[idx].Resolved = true
		}
	}
	return out
}

// askMapping sends the batch of unknown labels to the oracle and parses
// the {"mapping": {...}} object it is instructed to return.
func (n *Normalizer) askMapping(ctx context.Context, unknowns []string, sch Schema) (map[string]string, error) {
	optsJSON, err := json.Marshal(unknowns)
	if err != nil {
		return nil, fmt.Errorf("marshal options: %w", err)
	}
	prompt := strings.Join([]string{
		"You are a data normalizer. Map options to valid columns.",
		fmt.Sprintf("Valid Columns: [%s]", sch.String()),
		fmt.Sprintf("Input Options: %s", optsJSON),
		`Return strictly JSON: {"mapping": {"input_option": "Valid Column"}}`,
		"If no close match, map to null.",
	}, "\n")

	resp, err := n.oracle.Complete(ctx, ai.CompletionRequest{
		Prompt:      prompt,
		Temperature: n.temperature,
		JSONFormat:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("oracle call: %w", err)
	}

	var parsed struct {
		// Values may be null; pointers keep those distinguishable.
		Mapping map[string]*string `json:"mapping"`
	}
	if err := json.Unmarshal([]byte(sanitize.JSONPayload(resp.Text)), &parsed); err != nil {
		return nil, fmt.Errorf("parse mapping: %w", err)
	}
	mapping := make(map[string]string, len(parsed.Mapping))
	for k, v := range parsed.Mapping {
		if v != nil && *v != "" {
			mapping[k] = *v
		}
	}
	return mapping, nil
}
